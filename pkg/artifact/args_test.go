// Copyright (C) 2025, Exxafund. All rights reserved.
// See the file LICENSE for licensing terms.
package artifact

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

const argsABI = `[{"type":"constructor","inputs":[
	{"name":"owner","type":"address"},
	{"name":"cap","type":"uint256"},
	{"name":"label","type":"string"},
	{"name":"paused","type":"bool"},
	{"name":"decimals","type":"uint8"},
	{"name":"salt","type":"bytes32"},
	{"name":"offset","type":"int64"},
	{"name":"data","type":"bytes"}
]}]`

func TestParseArgs(t *testing.T) {
	require := require.New(t)

	parsedABI, err := abi.JSON(strings.NewReader(argsABI))
	require.NoError(err)

	values := []string{
		"0x8db97C7cEcE249c2b98bDC0226Cc4C2A57BF52FC",
		"1000000000000000000000",
		"exxa",
		"true",
		"18",
		"0x" + strings.Repeat("ab", 32),
		"-5",
		"0x0102",
	}
	args, err := ParseArgs(parsedABI.Constructor.Inputs, values)
	require.NoError(err)
	require.Len(args, len(values))

	require.Equal(common.HexToAddress(values[0]), args[0])
	expectedCap, _ := new(big.Int).SetString("1000000000000000000000", 10)
	require.Equal(expectedCap, args[1])
	require.Equal("exxa", args[2])
	require.Equal(true, args[3])
	require.Equal(uint8(18), args[4])
	var salt [32]byte
	for i := range salt {
		salt[i] = 0xab
	}
	require.Equal(salt, args[5])
	require.Equal(int64(-5), args[6])
	require.Equal([]byte{1, 2}, args[7])

	// the converted values must be accepted by the packer
	_, err = parsedABI.Pack("", args...)
	require.NoError(err)
}

func TestParseArgsErrors(t *testing.T) {
	require := require.New(t)

	parsedABI, err := abi.JSON(strings.NewReader(argsABI))
	require.NoError(err)
	valid := []string{
		"0x8db97C7cEcE249c2b98bDC0226Cc4C2A57BF52FC",
		"1",
		"exxa",
		"false",
		"18",
		"0x" + strings.Repeat("00", 32),
		"0",
		"0x",
	}

	_, err = ParseArgs(parsedABI.Constructor.Inputs, valid[:2])
	require.ErrorContains(err, "argument count mismatch")

	tests := []struct {
		index    int
		value    string
		contains string
	}{
		{0, "0x1234", "owner"},
		{1, "-1", "out of range"},
		{1, "abc", "not an integer"},
		{3, "maybe", "paused"},
		{4, "256", "out of range"},
		{5, "0x1234", "expected 32 bytes"},
		{6, "9223372036854775808", "out of range"},
		{7, "0xzz", "data"},
	}
	for _, tt := range tests {
		values := append([]string{}, valid...)
		values[tt.index] = tt.value
		_, err := ParseArgs(parsedABI.Constructor.Inputs, values)
		require.ErrorContains(err, tt.contains, tt.value)
	}
}

func TestParseArgsUnsupported(t *testing.T) {
	require := require.New(t)

	parsedABI, err := abi.JSON(strings.NewReader(`[{"type":"constructor","inputs":[{"name":"xs","type":"uint256[]"}]}]`))
	require.NoError(err)
	_, err = ParseArgs(parsedABI.Constructor.Inputs, []string{"1,2"})
	require.ErrorContains(err, "unsupported argument type")
}
