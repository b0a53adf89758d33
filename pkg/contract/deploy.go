// Copyright (C) 2025, Exxafund. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"context"
	"fmt"

	"github.com/exxafund/exxa-cli/pkg/artifact"
	"github.com/exxafund/exxa-cli/pkg/clierrors"
	"github.com/exxafund/exxa-cli/pkg/constants"
	"github.com/exxafund/exxa-cli/pkg/deployer"
	"github.com/exxafund/exxa-cli/pkg/evm"
	"github.com/exxafund/exxa-cli/pkg/key"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

const (
	// BindBackend deploys through the abi/bind contract factory
	BindBackend = "bind"
	// TxBackend builds, signs and sends the creation transaction itself
	TxBackend = "tx"
)

var (
	_ deployer.Deployer = (*BindDeployer)(nil)
	_ deployer.Deployer = (*TxDeployer)(nil)
)

// NewDeployer returns the deployment collaborator named by backend
func NewDeployer(
	backend string,
	source artifact.Source,
	client evm.Client,
	signer key.Key,
	log *zap.Logger,
) (deployer.Deployer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	switch backend {
	case BindBackend:
		return &BindDeployer{Source: source, Client: client, Signer: signer, Log: log}, nil
	case TxBackend:
		return &TxDeployer{Source: source, Client: client, Signer: signer, Log: log}, nil
	default:
		return nil, fmt.Errorf("%w %q: expected %s or %s", constants.ErrUnknownBackend, backend, BindBackend, TxBackend)
	}
}

// prepare loads the artifact for contractName and converts textual
// constructor args into ABI typed values. Non textual args are passed as is.
func prepare(
	source artifact.Source,
	contractName string,
	constructorArgs []interface{},
) (*artifact.Artifact, []interface{}, error) {
	a, err := source.Load(contractName)
	if err != nil {
		return nil, nil, err
	}
	if len(constructorArgs) == 0 {
		return a, nil, nil
	}
	values := make([]string, 0, len(constructorArgs))
	for _, arg := range constructorArgs {
		s, ok := arg.(string)
		if !ok {
			return a, constructorArgs, nil
		}
		values = append(values, s)
	}
	args, err := a.ConstructorArgs(values)
	if err != nil {
		return nil, nil, err
	}
	return a, args, nil
}

// BindDeployer deploys with bind.DeployContract and waits with
// bind.WaitDeployed
type BindDeployer struct {
	Source artifact.Source
	Client evm.Client
	Signer key.Key
	Log    *zap.Logger
}

func (d *BindDeployer) Deploy(
	ctx context.Context,
	contractName string,
	constructorArgs []interface{},
) (deployer.Result, error) {
	a, args, err := prepare(d.Source, contractName, constructorArgs)
	if err != nil {
		return deployer.Result{}, err
	}
	chainID, err := evm.GetChainID(ctx, d.Client)
	if err != nil {
		return deployer.Result{}, err
	}
	txOpts, err := bind.NewKeyedTransactorWithChainID(d.Signer.PrivKey(), chainID)
	if err != nil {
		return deployer.Result{}, err
	}
	txOpts.Context = ctx
	_, tx, _, err := bind.DeployContract(txOpts, a.ABI, a.Bytecode, d.Client, args...)
	if err != nil {
		return deployer.Result{}, err
	}
	d.Log.Info("contract creation sent",
		zap.String("contract", contractName),
		zap.String("tx", tx.Hash().Hex()),
		zap.String("from", txOpts.From.Hex()),
	)
	address, err := bind.WaitDeployed(ctx, d.Client, tx)
	if err != nil {
		return deployer.Result{}, err
	}
	return deployer.Result{Address: address.Hex(), TxHash: tx.Hash().Hex()}, nil
}

// TxDeployer signs and sends a dynamic fee creation transaction through the
// evm helpers, then checks the receipt and the code left at the address
type TxDeployer struct {
	Source artifact.Source
	Client evm.Client
	Signer key.Key
	Log    *zap.Logger
}

func (d *TxDeployer) Deploy(
	ctx context.Context,
	contractName string,
	constructorArgs []interface{},
) (deployer.Result, error) {
	a, args, err := prepare(d.Source, contractName, constructorArgs)
	if err != nil {
		return deployer.Result{}, err
	}
	input, err := a.ABI.Pack("", args...)
	if err != nil {
		return deployer.Result{}, err
	}
	data := append(append([]byte{}, a.Bytecode...), input...)
	from := d.Signer.Address()
	gasFeeCap, gasTipCap, nonce, err := evm.CalculateTxParams(ctx, d.Client, from)
	if err != nil {
		return deployer.Result{}, err
	}
	chainID, err := evm.GetChainID(ctx, d.Client)
	if err != nil {
		return deployer.Result{}, err
	}
	gasLimit, err := evm.EstimateGasLimit(ctx, d.Client, ethereum.CallMsg{
		From:      from,
		GasFeeCap: gasFeeCap,
		GasTipCap: gasTipCap,
		Data:      data,
	})
	if err != nil {
		return deployer.Result{}, err
	}
	tx, err := evm.SignTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		Gas:       gasLimit,
		GasFeeCap: gasFeeCap,
		GasTipCap: gasTipCap,
		Data:      data,
	}, chainID, d.Signer.PrivKey())
	if err != nil {
		return deployer.Result{}, err
	}
	if err := evm.SendTransaction(ctx, d.Client, tx); err != nil {
		return deployer.Result{}, err
	}
	d.Log.Info("contract creation sent",
		zap.String("contract", contractName),
		zap.String("tx", tx.Hash().Hex()),
		zap.String("from", from.Hex()),
		zap.Uint64("gas", gasLimit),
	)
	receipt, success, err := evm.WaitForTransaction(ctx, d.Client, tx)
	if err != nil {
		return deployer.Result{}, err
	}
	if !success {
		return deployer.Result{}, fmt.Errorf("%w deploying %s (tx %s)", clierrors.ErrFailedReceipt, contractName, tx.Hash().Hex())
	}
	address := receipt.ContractAddress
	if address == (common.Address{}) {
		address = crypto.CreateAddress(from, nonce)
	}
	deployed, err := evm.ContractAlreadyDeployed(ctx, d.Client, address)
	if err != nil {
		return deployer.Result{}, err
	}
	if !deployed {
		return deployer.Result{}, fmt.Errorf("%w %s", clierrors.ErrNoCodeAfterDeploy, address.Hex())
	}
	return deployer.Result{Address: address.Hex(), TxHash: tx.Hash().Hex()}, nil
}
