// Copyright (C) 2025, Exxafund. All rights reserved.
// See the file LICENSE for licensing terms.
package deploycmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/exxafund/exxa-cli/pkg/application"
	"github.com/exxafund/exxa-cli/pkg/artifact"
	"github.com/exxafund/exxa-cli/pkg/cobrautils"
	"github.com/exxafund/exxa-cli/pkg/constants"
	"github.com/exxafund/exxa-cli/pkg/contract"
	"github.com/exxafund/exxa-cli/pkg/deployer"
	"github.com/exxafund/exxa-cli/pkg/evm"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type DeployFlags struct {
	PrivateKeyFlags contract.PrivateKeyFlags
	backend         string
	rpcURL          string
	artifactsDir    string
	args            []string
	timeout         time.Duration
	strict          bool
}

var (
	app         *application.Exxa
	deployFlags DeployFlags

	// overridden in tests
	getClient = func(ctx context.Context, rpcURL string) (evm.Client, error) {
		client, err := evm.GetClient(ctx, rpcURL)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
)

// exxa deploy
func NewCmd(injectedApp *application.Exxa) *cobra.Command {
	app = injectedApp
	deployFlags = DeployFlags{}
	cmd := &cobra.Command{
		Use:   "deploy [contractName]",
		Short: "Deploy a compiled contract",
		Long: `The deploy command deploys a compiled contract artifact and prints its address.

The contract name defaults to ` + constants.DefaultContractName + `. Its ABI and bytecode are read
from the artifacts directory (<dir>/<name>.json or <dir>/<name>.sol/<name>.json).

On success exactly one line "address: <address>" is printed. On failure the
error message is printed instead. The exit status is 0 in both cases unless
--strict is given.`,
		RunE: deploy,
		Args: cobrautils.MaximumNArgs(1),
	}
	deployFlags.PrivateKeyFlags.AddToCmd(cmd, "as contract deployer")
	cmd.Flags().StringVar(
		&deployFlags.backend,
		constants.ConfigBackendKey,
		constants.DefaultDeployerBackend,
		fmt.Sprintf("deployment backend, one of %s or %s", contract.BindBackend, contract.TxBackend),
	)
	cmd.Flags().StringVar(&deployFlags.rpcURL, constants.ConfigRPCURLKey, constants.DefaultRPCURL, "rpc endpoint of the target chain (env RPC_URL)")
	cmd.Flags().StringVar(&deployFlags.artifactsDir, constants.ConfigArtifactsDirKey, constants.DefaultArtifactsDir, "directory holding the compiled contract artifacts")
	cmd.Flags().StringArrayVar(&deployFlags.args, "args", nil, "constructor argument, repeat for each one in order")
	cmd.Flags().DurationVar(&deployFlags.timeout, constants.ConfigTimeoutKey, constants.DefaultDeployTimeout, "maximum time to wait for the deployment, 0 waits forever")
	cmd.Flags().BoolVar(&deployFlags.strict, constants.ConfigStrictKey, false, "exit with a non zero status when the deployment fails")
	return cmd
}

func deploy(cmd *cobra.Command, args []string) error {
	contractName := constants.DefaultContractName
	if len(args) == 1 {
		contractName = args[0]
	}
	backend := app.Conf.GetConfigStringValue(constants.ConfigBackendKey)
	if backend != contract.BindBackend && backend != contract.TxBackend {
		return cobrautils.NewUsageError(
			cmd,
			fmt.Errorf("%w %q: expected %s or %s", constants.ErrUnknownBackend, backend, contract.BindBackend, contract.TxBackend),
		)
	}
	rpcURL := app.Conf.GetConfigStringValue(constants.ConfigRPCURLKey)
	constructorArgs := make([]interface{}, 0, len(deployFlags.args))
	for _, arg := range deployFlags.args {
		constructorArgs = append(constructorArgs, arg)
	}

	invoker := deployer.NewInvoker(newDeployer(backend, rpcURL), cmd.OutOrStdout(), app.Log)
	invoker.Timeout = app.Conf.GetConfigDurationValue(constants.ConfigTimeoutKey)
	err := invoker.Invoke(cmd.Context(), deployer.NewRequest(contractName, constructorArgs...))
	var deploymentErr *deployer.DeploymentError
	if errors.As(err, &deploymentErr) {
		if app.Conf.GetConfigBoolValue(constants.ConfigStrictKey) {
			return cobrautils.NewReportedError(err)
		}
		return nil
	}
	return err
}

// newDeployer resolves the signer and dials the node as part of the
// deployment, so their failures are reported like any other deployment
// failure
func newDeployer(backend string, rpcURL string) deployer.Deployer {
	return deployer.DeployerFunc(func(
		ctx context.Context,
		contractName string,
		constructorArgs []interface{},
	) (deployer.Result, error) {
		signer, err := deployFlags.PrivateKeyFlags.GetKey(app.Conf)
		if err != nil {
			return deployer.Result{}, err
		}
		client, err := getClient(ctx, rpcURL)
		if err != nil {
			return deployer.Result{}, err
		}
		defer client.Close()
		source := artifact.NewDirSource(app.Conf.GetConfigStringValue(constants.ConfigArtifactsDirKey))
		d, err := contract.NewDeployer(backend, source, client, signer, app.Log)
		if err != nil {
			return deployer.Result{}, err
		}
		app.Log.Info("resolved deployment target",
			zap.String("contract", contractName),
			zap.String("backend", backend),
			zap.String("rpc-url", rpcURL),
			zap.String("deployer", signer.Address().Hex()),
		)
		result, err := d.Deploy(ctx, contractName, constructorArgs)
		if err != nil {
			return result, err
		}
		if result.Address != "" {
			app.RecordDeployment(application.Deployment{
				ContractName: contractName,
				Address:      result.Address,
				TxHash:       result.TxHash,
				RPCURL:       rpcURL,
				Backend:      backend,
				DeployedAt:   time.Now().UTC(),
			})
		}
		return result, nil
	})
}
