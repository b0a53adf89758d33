// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package evm

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"strings"
	"time"

	"github.com/exxafund/exxa-cli/pkg/utils"
	"github.com/exxafund/exxa-cli/pkg/ux"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

const (
	BaseFeeFactor        = 2
	MaxPriorityFeePerGas = 2500000000 // 2.5 gwei
	repeatsOnFailure     = 3
)

// overridden in tests
var sleepBetweenRepeats = 1 * time.Second

var ErrNoBaseFee = errors.New("latest header has no base fee")

// Client is the subset of *ethclient.Client used to deploy and call contracts
type Client interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
	NonceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (uint64, error)
	Close()
}

var _ Client = (*ethclient.Client)(nil)

// retry runs f up to repeatsOnFailure times, each attempt bounded by the large
// API timeout. Failed attempts go to the log file only. f must be idempotent.
func retry[T any](
	ctx context.Context,
	desc string,
	f func(context.Context) (T, error),
) (T, error) {
	var (
		result T
		err    error
	)
	for i := 0; i < repeatsOnFailure; i++ {
		attemptCtx, cancel := utils.GetAPILargeContextFrom(ctx)
		result, err = f(attemptCtx)
		cancel()
		if err == nil {
			return result, nil
		}
		err = fmt.Errorf("failure %s: %w", desc, err)
		ux.Logger.Error("%s (attempt %d/%d)", err, i+1, repeatsOnFailure)
		if ctx.Err() != nil {
			return result, err
		}
		select {
		case <-time.After(sleepBetweenRepeats):
		case <-ctx.Done():
			return result, err
		}
	}
	return result, err
}

func GetContractBytecode(
	ctx context.Context,
	client Client,
	contractAddress common.Address,
) ([]byte, error) {
	return retry(ctx, "obtaining code for "+contractAddress.Hex(), func(ctx context.Context) ([]byte, error) {
		return client.CodeAt(ctx, contractAddress, nil)
	})
}

func ContractAlreadyDeployed(
	ctx context.Context,
	client Client,
	contractAddress common.Address,
) (bool, error) {
	bs, err := GetContractBytecode(ctx, client, contractAddress)
	if err != nil {
		return false, err
	}
	return len(bs) != 0, nil
}

// Returns the gasFeeCap, gasTipCap, and nonce the be used when constructing a transaction from address
func CalculateTxParams(
	ctx context.Context,
	client Client,
	address common.Address,
) (*big.Int, *big.Int, uint64, error) {
	baseFee, err := EstimateBaseFee(ctx, client)
	if err != nil {
		return nil, nil, 0, err
	}
	gasTipCap, err := SuggestGasTipCap(ctx, client)
	if err != nil {
		return nil, nil, 0, err
	}
	nonce, err := NonceAt(ctx, client, address)
	if err != nil {
		return nil, nil, 0, err
	}
	gasFeeCap := new(big.Int).Mul(baseFee, big.NewInt(BaseFeeFactor))
	gasFeeCap.Add(gasFeeCap, big.NewInt(MaxPriorityFeePerGas))
	return gasFeeCap, gasTipCap, nonce, nil
}

// NonceAt returns the pending nonce of address
func NonceAt(
	ctx context.Context,
	client Client,
	address common.Address,
) (uint64, error) {
	return retry(ctx, "obtaining nonce for "+address.Hex(), func(ctx context.Context) (uint64, error) {
		return client.PendingNonceAt(ctx, address)
	})
}

func SuggestGasTipCap(
	ctx context.Context,
	client Client,
) (*big.Int, error) {
	return retry(ctx, "obtaining gas tip cap", func(ctx context.Context) (*big.Int, error) {
		return client.SuggestGasTipCap(ctx)
	})
}

// EstimateBaseFee returns the base fee of the latest block
func EstimateBaseFee(
	ctx context.Context,
	client Client,
) (*big.Int, error) {
	return retry(ctx, "estimating base fee", func(ctx context.Context) (*big.Int, error) {
		header, err := client.HeaderByNumber(ctx, nil)
		if err != nil {
			return nil, err
		}
		if header.BaseFee == nil {
			return nil, ErrNoBaseFee
		}
		return header.BaseFee, nil
	})
}

// EstimateGasLimit asks the node for the gas needed by msg. Not reported to
// the user since callers may fall back to a default.
func EstimateGasLimit(
	ctx context.Context,
	client Client,
	msg ethereum.CallMsg,
) (uint64, error) {
	var (
		gasLimit uint64
		err      error
	)
	for i := 0; i < repeatsOnFailure; i++ {
		attemptCtx, cancel := utils.GetAPILargeContextFrom(ctx)
		gasLimit, err = client.EstimateGas(attemptCtx, msg)
		cancel()
		if err == nil {
			break
		}
		err = fmt.Errorf("failure estimating gas limit: %w", err)
		if ctx.Err() != nil {
			break
		}
		select {
		case <-time.After(sleepBetweenRepeats):
		case <-ctx.Done():
			return gasLimit, err
		}
	}
	return gasLimit, err
}

func GetChainID(ctx context.Context, client Client) (*big.Int, error) {
	return retry(ctx, "getting chain id", func(ctx context.Context) (*big.Int, error) {
		return client.ChainID(ctx)
	})
}

// SendTransaction broadcasts tx once. A rejection is returned as the node
// reported it.
func SendTransaction(
	ctx context.Context,
	client Client,
	tx *types.Transaction,
) error {
	return client.SendTransaction(ctx, tx)
}

// SignTx signs a dynamic fee transaction for chainID
func SignTx(
	tx *types.DynamicFeeTx,
	chainID *big.Int,
	privateKey *ecdsa.PrivateKey,
) (*types.Transaction, error) {
	txSigner := types.LatestSignerForChainID(chainID)
	return types.SignTx(types.NewTx(tx), txSigner, privateKey)
}

// WaitForTransaction waits until tx is mined. Returns the receipt and whether
// its status is successful.
func WaitForTransaction(
	ctx context.Context,
	client Client,
	tx *types.Transaction,
) (*types.Receipt, bool, error) {
	receipt, err := retry(ctx, "waiting for tx "+tx.Hash().Hex(), func(ctx context.Context) (*types.Receipt, error) {
		return bind.WaitMined(ctx, client, tx)
	})
	if err != nil {
		return nil, false, err
	}
	return receipt, receipt.Status == types.ReceiptStatusSuccessful, nil
}

func HasScheme(rpcURL string) (bool, error) {
	if parsedURL, err := url.Parse(rpcURL); err != nil {
		if !strings.Contains(err.Error(), "first path segment in URL cannot contain colon") {
			return false, err
		}
		return false, nil
	} else if parsedURL.Scheme == "" {
		return false, nil
	}
	return true, nil
}

// GetClient dials rpcURL. URLs without scheme are assumed to be https.
func GetClient(ctx context.Context, rpcURL string) (*ethclient.Client, error) {
	hasScheme, err := HasScheme(rpcURL)
	if err != nil {
		return nil, err
	}
	if !hasScheme {
		rpcURL = "https://" + rpcURL
	}
	return retry(ctx, "connecting to "+rpcURL, func(ctx context.Context) (*ethclient.Client, error) {
		return ethclient.DialContext(ctx, rpcURL)
	})
}
