// Copyright (C) 2025, Exxafund. All rights reserved.
// See the file LICENSE for licensing terms.
package rebalancecmd

import (
	"context"
	"fmt"
	"time"

	"github.com/exxafund/exxa-cli/pkg/application"
	"github.com/exxafund/exxa-cli/pkg/cobrautils"
	"github.com/exxafund/exxa-cli/pkg/constants"
	"github.com/exxafund/exxa-cli/pkg/contract"
	"github.com/exxafund/exxa-cli/pkg/evm"
	"github.com/exxafund/exxa-cli/pkg/rebalance"
	"github.com/exxafund/exxa-cli/pkg/ux"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type RebalanceFlags struct {
	PrivateKeyFlags contract.PrivateKeyFlags
	contractName    string
	contractAddress string
	method          string
	rpcURL          string
	steps           int
	interval        time.Duration
	gasLimit        uint64
}

var (
	app            *application.Exxa
	rebalanceFlags RebalanceFlags

	// overridden in tests
	getClient = func(ctx context.Context, rpcURL string) (evm.Client, error) {
		client, err := evm.GetClient(ctx, rpcURL)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
)

// exxa rebalance
func NewCmd(injectedApp *application.Exxa) *cobra.Command {
	app = injectedApp
	rebalanceFlags = RebalanceFlags{}
	cmd := &cobra.Command{
		Use:   "rebalance",
		Short: "Run the TWAP rebalance schedule of a deployed fund contract",
		Long: `The rebalance command calls the rebalance method of a deployed contract a fixed
number of times, waiting a fixed interval between calls.

The contract address defaults to the last recorded deployment of --contract.`,
		RunE: rebalanceFund,
		Args: cobrautils.ExactArgs(0),
	}
	rebalanceFlags.PrivateKeyFlags.AddToCmd(cmd, "to sign the rebalance transactions")
	cmd.Flags().StringVar(&rebalanceFlags.contractName, "contract", constants.DefaultContractName, "contract name used to look up the last deployment")
	cmd.Flags().StringVar(&rebalanceFlags.contractAddress, "contract-address", "", "address of the contract to rebalance")
	cmd.Flags().StringVar(&rebalanceFlags.method, "method", constants.DefaultRebalanceMethod, "rebalance method to call, e.g. \"rebalanceTWAPStep()\"")
	cmd.Flags().StringVar(&rebalanceFlags.rpcURL, constants.ConfigRPCURLKey, constants.DefaultRPCURL, "rpc endpoint of the target chain (env RPC_URL)")
	cmd.Flags().IntVar(&rebalanceFlags.steps, "steps", constants.DefaultRebalanceSteps, "number of rebalance steps")
	cmd.Flags().DurationVar(&rebalanceFlags.interval, "interval", constants.DefaultRebalanceInterval, "time to wait between steps")
	cmd.Flags().Uint64Var(&rebalanceFlags.gasLimit, "gas-limit", constants.DefaultRebalanceGasLimit, "gas limit of each rebalance transaction")
	return cmd
}

func getContractAddress() (common.Address, error) {
	contractAddress := rebalanceFlags.contractAddress
	if contractAddress == "" {
		d, ok := app.LastDeployment(rebalanceFlags.contractName)
		if !ok {
			return common.Address{}, constants.ErrNoContractAddress
		}
		contractAddress = d.Address
		ux.Logger.PrintToUser("Using last deployment of %s at %s", rebalanceFlags.contractName, contractAddress)
	}
	if !common.IsHexAddress(contractAddress) {
		return common.Address{}, fmt.Errorf("invalid contract address %q", contractAddress)
	}
	return common.HexToAddress(contractAddress), nil
}

func rebalanceFund(cmd *cobra.Command, _ []string) error {
	if rebalanceFlags.steps <= 0 {
		return cobrautils.NewUsageError(cmd, rebalance.ErrNoSteps)
	}
	contractAddress, err := getContractAddress()
	if err != nil {
		return err
	}
	signer, err := rebalanceFlags.PrivateKeyFlags.GetKey(app.Conf)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	rpcURL := app.Conf.GetConfigStringValue(constants.ConfigRPCURLKey)
	client, err := getClient(ctx, rpcURL)
	if err != nil {
		return err
	}
	defer client.Close()

	deployed, err := evm.ContractAlreadyDeployed(ctx, client, contractAddress)
	if err != nil {
		return err
	}
	if !deployed {
		return fmt.Errorf("there is no contract deployed at %s", contractAddress.Hex())
	}
	owner, err := contract.GetContractOwner(ctx, client, contractAddress)
	switch {
	case err != nil:
		app.Log.Info("could not get contract owner", zap.String("contract", contractAddress.Hex()), zap.Error(err))
	case owner != signer.Address():
		ux.Logger.RedXToUser("%s is not the owner of %s (owner is %s), steps may revert", signer.Address().Hex(), contractAddress.Hex(), owner.Hex())
	}

	ux.Logger.PrintToUser("Starting Exxa TWAP rebalance automation (%d steps)", rebalanceFlags.steps)
	ux.Logger.PrintToUser("Contract: %s", contractAddress.Hex())
	ux.Logger.PrintToUser("Method: %s", rebalanceFlags.method)
	ux.Logger.PrintToUser("Gas limit: %s", ux.ConvertToStringWithThousandSeparator(rebalanceFlags.gasLimit))
	ux.Logger.PrintLineSeparator()

	scheduler := &rebalance.Scheduler{
		Steps:    rebalanceFlags.steps,
		Interval: rebalanceFlags.interval,
		Out:      cmd.OutOrStdout(),
		Log:      app.Log,
		Step: func(ctx context.Context, _ int) (string, error) {
			tx, _, err := contract.TxToMethod(
				ctx,
				client,
				signer.PrivKey(),
				contractAddress,
				contract.TxOpts{GasLimit: rebalanceFlags.gasLimit},
				rebalanceFlags.method,
			)
			if err != nil {
				return "", err
			}
			return tx.Hash().Hex(), nil
		},
	}
	reports, err := scheduler.Run(ctx)
	if err != nil {
		return err
	}
	ux.Logger.GreenCheckmarkToUser("Executed %d rebalance steps", len(reports))
	return nil
}
