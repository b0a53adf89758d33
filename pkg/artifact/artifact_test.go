// Copyright (C) 2025, Exxafund. All rights reserved.
// See the file LICENSE for licensing terms.
package artifact

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/exxafund/exxa-cli/pkg/clierrors"

	"github.com/pingcap/errors"
	"github.com/stretchr/testify/require"
)

const (
	testABI = `[{"inputs":[{"internalType":"address","name":"owner","type":"address"}],"stateMutability":"nonpayable","type":"constructor"},` +
		`{"inputs":[],"name":"rebalanceTWAPStep","outputs":[],"stateMutability":"nonpayable","type":"function"}]`
	testBytecode = "6080604052348015600f57600080fd5b50"
)

func writeArtifact(t *testing.T, dir string, rel string, content string) {
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestParseLayouts(t *testing.T) {
	require := require.New(t)

	layouts := map[string]string{
		"remix":   `{"abi": ` + testABI + `, "data": {"bytecode": {"object": "` + testBytecode + `"}}}`,
		"hardhat": `{"contractName": "Exxafund101", "abi": ` + testABI + `, "bytecode": "0x` + testBytecode + `"}`,
		"foundry": `{"abi": ` + testABI + `, "bytecode": {"object": "0x` + testBytecode + `"}}`,
	}
	for name, content := range layouts {
		a, err := Parse("Exxafund101", []byte(content))
		require.NoError(err, name)
		require.Equal("Exxafund101", a.Name, name)
		require.Equal(byte(0x60), a.Bytecode[0], name)
		require.Len(a.Bytecode, len(testBytecode)/2, name)
		require.Len(a.ABI.Constructor.Inputs, 1, name)
		require.Contains(a.ABI.Methods, "rebalanceTWAPStep", name)
	}
}

func TestParseErrors(t *testing.T) {
	require := require.New(t)

	_, err := Parse("X", []byte("not json"))
	require.Error(err)

	_, err = Parse("X", []byte(`{"abi": []}`))
	require.Equal(clierrors.ErrArtifactNoBytecode, errors.Cause(err))

	_, err = Parse("X", []byte(`{"abi": [], "bytecode": "0x"}`))
	require.Equal(clierrors.ErrArtifactNoBytecode, errors.Cause(err))

	_, err = Parse("X", []byte(`{"abi": [], "bytecode": "0xzz"}`))
	require.ErrorContains(err, "invalid bytecode hex")

	_, err = Parse("X", []byte(`{"abi": [], "bytecode": "0x6080__$lib$__"}`))
	require.ErrorContains(err, "unlinked library")

	_, err = Parse("X", []byte(`{"abi": {"bad": 1}, "bytecode": "0x60"}`))
	require.ErrorContains(err, "invalid abi")
}

func TestParseWithoutABI(t *testing.T) {
	require := require.New(t)

	a, err := Parse("Bare", []byte(`{"bytecode": "0x6080"}`))
	require.NoError(err)
	require.Empty(a.ABI.Constructor.Inputs)
	args, err := a.ConstructorArgs(nil)
	require.NoError(err)
	require.Empty(args)
}

func TestDirSource(t *testing.T) {
	require := require.New(t)
	dir := t.TempDir()

	writeArtifact(t, dir, "Exxafund101.json", `{"abi": `+testABI+`, "data": {"bytecode": {"object": "`+testBytecode+`"}}}`)
	writeArtifact(t, dir, filepath.Join("Vault.sol", "Vault.json"), `{"abi": [], "bytecode": "0x`+testBytecode+`"}`)

	src := NewDirSource(dir)
	a, err := src.Load("Exxafund101")
	require.NoError(err)
	require.Equal("Exxafund101", a.Name)

	a, err = src.Load("Vault")
	require.NoError(err)
	require.Equal("Vault", a.Name)

	_, err = src.Load("Missing")
	require.Equal(clierrors.ErrArtifactNotFound, errors.Cause(err))
	require.ErrorContains(err, "Missing.json")

	_, err = src.Load("")
	require.Error(err)

	_, err = NewDirSource(filepath.Join(dir, "nope")).Load("Exxafund101")
	require.Equal(clierrors.ErrArtifactNotFound, errors.Cause(err))
	require.ErrorContains(err, "does not exist")

	writeArtifact(t, dir, "Broken.json", `{`)
	_, err = src.Load("Broken")
	require.ErrorContains(err, "parsing artifact")
}

func TestMapSource(t *testing.T) {
	require := require.New(t)

	src := MapSource{"A": &Artifact{Name: "A", Bytecode: []byte{1}}}
	a, err := src.Load("A")
	require.NoError(err)
	require.Equal("A", a.Name)
	_, err = src.Load("B")
	require.Equal(clierrors.ErrArtifactNotFound, errors.Cause(err))
}
