// Copyright (C) 2025, Exxafund. All rights reserved.
// See the file LICENSE for licensing terms.

package testutils

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	// EwoqPrivateKey is a well known, publicly funded test key
	EwoqPrivateKey = "56289e99c94b6912bfc12adc093c9b51124f0dc54ac7a766b2bc5ccf558d8027"
	EwoqAddress    = "0x8db97C7cEcE249c2b98bDC0226Cc4C2A57BF52FC"
)

var errSubscriptionsNotSupported = errors.New("subscriptions not supported")

// FakeBackend is an in-memory chain that mines every transaction as soon as
// it is sent. Contract creations store their init code as the contract code.
type FakeBackend struct {
	mu sync.Mutex

	ChainIDValue  *big.Int
	BaseFee       *big.Int
	TipCap        *big.Int
	GasEstimate   uint64
	ReceiptStatus uint64
	// DropCode makes creations succeed without leaving code behind
	DropCode   bool
	CallResult []byte

	nonces   map[common.Address]uint64
	code     map[common.Address][]byte
	receipts map[common.Hash]*types.Receipt
	sent     []*types.Transaction
	failures map[string][]error
	calls    map[string]int
	closed   bool
}

func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		ChainIDValue:  big.NewInt(998),
		BaseFee:       big.NewInt(25_000_000_000),
		TipCap:        big.NewInt(1_000_000_000),
		GasEstimate:   500_000,
		ReceiptStatus: types.ReceiptStatusSuccessful,
		nonces:        map[common.Address]uint64{},
		code:          map[common.Address][]byte{},
		receipts:      map[common.Hash]*types.Receipt{},
		failures:      map[string][]error{},
		calls:         map[string]int{},
	}
}

// FailNext makes the next len(errs) calls to method return errs in order
func (f *FakeBackend) FailNext(method string, errs ...error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method] = append(f.failures[method], errs...)
}

// Calls returns how many times method was invoked
func (f *FakeBackend) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// Sent returns the transactions accepted so far
func (f *FakeBackend) Sent() []*types.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*types.Transaction{}, f.sent...)
}

func (f *FakeBackend) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// SetNonce sets the pending nonce of addr
func (f *FakeBackend) SetNonce(addr common.Address, nonce uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nonces[addr] = nonce
}

// SetCode installs code at addr
func (f *FakeBackend) SetCode(addr common.Address, code []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.code[addr] = code
}

// call must be invoked with f.mu held
func (f *FakeBackend) call(method string) error {
	f.calls[method]++
	errs := f.failures[method]
	if len(errs) == 0 {
		return nil
	}
	f.failures[method] = errs[1:]
	return errs[0]
}

func (f *FakeBackend) ChainID(context.Context) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("ChainID"); err != nil {
		return nil, err
	}
	return new(big.Int).Set(f.ChainIDValue), nil
}

func (f *FakeBackend) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("HeaderByNumber"); err != nil {
		return nil, err
	}
	header := &types.Header{Number: big.NewInt(int64(len(f.sent)))}
	if f.BaseFee != nil {
		header.BaseFee = new(big.Int).Set(f.BaseFee)
	}
	return header, nil
}

func (f *FakeBackend) SuggestGasTipCap(context.Context) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("SuggestGasTipCap"); err != nil {
		return nil, err
	}
	return new(big.Int).Set(f.TipCap), nil
}

func (f *FakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("SuggestGasPrice"); err != nil {
		return nil, err
	}
	return new(big.Int).Add(f.BaseFee, f.TipCap), nil
}

func (f *FakeBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("EstimateGas"); err != nil {
		return 0, err
	}
	return f.GasEstimate, nil
}

func (f *FakeBackend) PendingNonceAt(_ context.Context, account common.Address) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("PendingNonceAt"); err != nil {
		return 0, err
	}
	return f.nonces[account], nil
}

func (f *FakeBackend) NonceAt(_ context.Context, account common.Address, _ *big.Int) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("NonceAt"); err != nil {
		return 0, err
	}
	return f.nonces[account], nil
}

func (f *FakeBackend) CodeAt(_ context.Context, contract common.Address, _ *big.Int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CodeAt"); err != nil {
		return nil, err
	}
	return f.code[contract], nil
}

func (f *FakeBackend) PendingCodeAt(_ context.Context, account common.Address) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("PendingCodeAt"); err != nil {
		return nil, err
	}
	return f.code[account], nil
}

func (f *FakeBackend) CallContract(context.Context, ethereum.CallMsg, *big.Int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("CallContract"); err != nil {
		return nil, err
	}
	return f.CallResult, nil
}

func (f *FakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("SendTransaction"); err != nil {
		return err
	}
	sender, err := types.Sender(types.LatestSignerForChainID(f.ChainIDValue), tx)
	if err != nil {
		return err
	}
	f.nonces[sender] = tx.Nonce() + 1
	receipt := &types.Receipt{
		Type:        tx.Type(),
		Status:      f.ReceiptStatus,
		TxHash:      tx.Hash(),
		GasUsed:     tx.Gas(),
		BlockNumber: big.NewInt(int64(len(f.sent) + 1)),
	}
	if tx.To() == nil {
		receipt.ContractAddress = crypto.CreateAddress(sender, tx.Nonce())
		if f.ReceiptStatus == types.ReceiptStatusSuccessful && !f.DropCode {
			f.code[receipt.ContractAddress] = tx.Data()
		}
	}
	f.receipts[tx.Hash()] = receipt
	f.sent = append(f.sent, tx)
	return nil
}

func (f *FakeBackend) TransactionReceipt(_ context.Context, txHash common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.call("TransactionReceipt"); err != nil {
		return nil, err
	}
	receipt, ok := f.receipts[txHash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return receipt, nil
}

func (*FakeBackend) FilterLogs(context.Context, ethereum.FilterQuery) ([]types.Log, error) {
	return nil, nil
}

func (*FakeBackend) SubscribeFilterLogs(context.Context, ethereum.FilterQuery, chan<- types.Log) (ethereum.Subscription, error) {
	return nil, errSubscriptionsNotSupported
}

func (f *FakeBackend) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}
