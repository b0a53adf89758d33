// Copyright (C) 2025, Exxafund. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/exxafund/exxa-cli/internal/testutils"
	"github.com/exxafund/exxa-cli/pkg/artifact"
	"github.com/exxafund/exxa-cli/pkg/clierrors"
	"github.com/exxafund/exxa-cli/pkg/constants"
	"github.com/exxafund/exxa-cli/pkg/deployer"
	"github.com/exxafund/exxa-cli/pkg/key"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

const ownedABI = `[{"inputs":[{"internalType":"address","name":"owner","type":"address"}],"stateMutability":"nonpayable","type":"constructor"}]`

var initCode = common.FromHex("6080604052348015600f57600080fd5b50")

func testSource(t *testing.T) artifact.MapSource {
	parsed, err := abi.JSON(strings.NewReader(ownedABI))
	require.NoError(t, err)
	empty, err := abi.JSON(strings.NewReader("[]"))
	require.NoError(t, err)
	return artifact.MapSource{
		constants.DefaultContractName: {Name: constants.DefaultContractName, ABI: empty, Bytecode: initCode},
		"Owned":                       {Name: "Owned", ABI: parsed, Bytecode: initCode},
	}
}

func testKey(t *testing.T) key.Key {
	k, err := key.NewSoft(testutils.EwoqPrivateKey)
	require.NoError(t, err)
	return k
}

func newDeployers(t *testing.T, client *testutils.FakeBackend) map[string]deployer.Deployer {
	deployers := map[string]deployer.Deployer{}
	for _, backend := range []string{BindBackend, TxBackend} {
		d, err := NewDeployer(backend, testSource(t), client, testKey(t), nil)
		require.NoError(t, err)
		deployers[backend] = d
	}
	return deployers
}

func TestNewDeployerUnknownBackend(t *testing.T) {
	require := testutils.SetupTest(t)
	_, err := NewDeployer("ethers", testSource(t), testutils.NewFakeBackend(), testKey(t), nil)
	require.ErrorIs(err, constants.ErrUnknownBackend)
	require.ErrorContains(err, `"ethers"`)
}

func TestDeployDefaultContract(t *testing.T) {
	for backend := range newDeployers(t, testutils.NewFakeBackend()) {
		t.Run(backend, func(t *testing.T) {
			require := testutils.SetupTest(t)
			client := testutils.NewFakeBackend()
			sender := common.HexToAddress(testutils.EwoqAddress)
			client.SetNonce(sender, 3)
			d := newDeployers(t, client)[backend]

			result, err := d.Deploy(context.Background(), constants.DefaultContractName, nil)
			require.NoError(err)

			expected := crypto.CreateAddress(sender, 3)
			require.Equal(expected.Hex(), result.Address)
			sent := client.Sent()
			require.Len(sent, 1)
			require.Equal(sent[0].Hash().Hex(), result.TxHash)
			require.Nil(sent[0].To())
			require.Equal(uint8(types.DynamicFeeTxType), sent[0].Type())
			require.Equal(initCode, sent[0].Data())
		})
	}
}

func TestDeployConvertsTextualArgs(t *testing.T) {
	owner := "0x0000000000000000000000000000000000000abc"
	for backend := range newDeployers(t, testutils.NewFakeBackend()) {
		t.Run(backend, func(t *testing.T) {
			require := testutils.SetupTest(t)
			client := testutils.NewFakeBackend()
			d := newDeployers(t, client)[backend]

			_, err := d.Deploy(context.Background(), "Owned", []interface{}{owner})
			require.NoError(err)

			data := client.Sent()[0].Data()
			require.Len(data, len(initCode)+32)
			require.Equal(common.HexToAddress(owner), common.BytesToAddress(data[len(initCode):]))
		})
	}
}

func TestDeployTypedArgs(t *testing.T) {
	require := testutils.SetupTest(t)
	client := testutils.NewFakeBackend()
	d := newDeployers(t, client)[TxBackend]
	owner := common.HexToAddress("0x0000000000000000000000000000000000000def")

	_, err := d.Deploy(context.Background(), "Owned", []interface{}{owner})
	require.NoError(err)
	data := client.Sent()[0].Data()
	require.Equal(owner, common.BytesToAddress(data[len(initCode):]))
}

func TestDeployArgCountMismatch(t *testing.T) {
	for backend, d := range newDeployers(t, testutils.NewFakeBackend()) {
		require := require.New(t)
		_, err := d.Deploy(context.Background(), "Owned", nil)
		require.Error(err, backend)
	}
}

func TestDeployMissingArtifact(t *testing.T) {
	for backend, d := range newDeployers(t, testutils.NewFakeBackend()) {
		require := require.New(t)
		_, err := d.Deploy(context.Background(), "Missing", nil)
		require.ErrorContains(err, clierrors.ErrArtifactNotFound.Error(), backend)
	}
}

func TestDeploySendFailure(t *testing.T) {
	for backend := range newDeployers(t, testutils.NewFakeBackend()) {
		t.Run(backend, func(t *testing.T) {
			require := testutils.SetupTest(t)
			client := testutils.NewFakeBackend()
			d := newDeployers(t, client)[backend]
			insufficientFunds := errors.New("insufficient funds for gas * price + value")
			client.FailNext("SendTransaction", insufficientFunds)

			_, err := d.Deploy(context.Background(), constants.DefaultContractName, nil)
			require.ErrorIs(err, insufficientFunds)
			require.EqualError(err, insufficientFunds.Error())
			require.Equal(1, client.Calls("SendTransaction"))
			require.Empty(client.Sent())
		})
	}
}

func TestDeployFailedReceipt(t *testing.T) {
	require := testutils.SetupTest(t)
	client := testutils.NewFakeBackend()
	client.ReceiptStatus = types.ReceiptStatusFailed
	d := newDeployers(t, client)[TxBackend]

	_, err := d.Deploy(context.Background(), constants.DefaultContractName, nil)
	require.ErrorIs(err, clierrors.ErrFailedReceipt)
}

func TestDeployNoCodeAfterDeploy(t *testing.T) {
	require := testutils.SetupTest(t)

	client := testutils.NewFakeBackend()
	client.DropCode = true
	_, err := newDeployers(t, client)[TxBackend].Deploy(context.Background(), constants.DefaultContractName, nil)
	require.ErrorIs(err, clierrors.ErrNoCodeAfterDeploy)

	client = testutils.NewFakeBackend()
	client.DropCode = true
	_, err = newDeployers(t, client)[BindBackend].Deploy(context.Background(), constants.DefaultContractName, nil)
	require.ErrorIs(err, bind.ErrNoCodeAfterDeploy)
}

func TestDeployersThroughInvoker(t *testing.T) {
	for backend := range newDeployers(t, testutils.NewFakeBackend()) {
		t.Run(backend, func(t *testing.T) {
			require := testutils.SetupTest(t)
			client := testutils.NewFakeBackend()
			var out strings.Builder
			invoker := deployer.NewInvoker(newDeployers(t, client)[backend], &out, nil)

			err := invoker.Invoke(context.Background(), deployer.NewRequest(constants.DefaultContractName))
			require.NoError(err)
			expected := crypto.CreateAddress(common.HexToAddress(testutils.EwoqAddress), 0)
			require.Equal("address: "+expected.Hex()+"\n", out.String())
		})
	}
}
