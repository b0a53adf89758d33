// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package application

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/exxafund/exxa-cli/pkg/constants"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaths(t *testing.T) {
	assert := assert.New(t)
	ap := NewTestApp(t)
	base := ap.GetBaseDir()

	assert.Equal(filepath.Join(base, "logs", "exxa.log"), ap.GetLogPath())
	assert.Equal(filepath.Join(base, "config.json"), ap.GetDefaultConfigPath())
	assert.Equal(filepath.Join(base, ".env"), ap.GetEnvFilePath())
	assert.Equal(filepath.Join(base, "deployments.json"), ap.GetDeploymentsPath())
	assert.False(ap.ConfigFileExists())
}

func TestReadDeploymentsMissingFile(t *testing.T) {
	require := require.New(t)
	ap := NewTestApp(t)

	deployments, err := ap.ReadDeployments()
	require.NoError(err)
	require.Empty(deployments)
	_, ok := ap.LastDeployment(constants.DefaultContractName)
	require.False(ok)
}

func TestRecordDeployment(t *testing.T) {
	require := require.New(t)
	ap := NewTestApp(t)
	deployedAt := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	first := Deployment{
		ContractName: constants.DefaultContractName,
		Address:      "0x0000000000000000000000000000000000000001",
		RPCURL:       constants.DefaultRPCURL,
		Backend:      "bind",
		DeployedAt:   deployedAt,
	}
	ap.RecordDeployment(first)
	second := first
	second.Address = "0x0000000000000000000000000000000000000002"
	ap.RecordDeployment(second)
	ap.RecordDeployment(Deployment{ContractName: "Other", Address: "0x03"})

	last, ok := ap.LastDeployment(constants.DefaultContractName)
	require.True(ok)
	require.Equal(second, last)

	deployments, err := ap.ReadDeployments()
	require.NoError(err)
	require.Len(deployments, 2)
}

func TestReadDeploymentsCorrupted(t *testing.T) {
	require := require.New(t)
	ap := NewTestApp(t)
	require.NoError(afero.WriteFile(ap.fs, ap.GetDeploymentsPath(), []byte("{"), constants.WriteReadReadPerms))

	_, err := ap.ReadDeployments()
	require.Error(err)
	_, ok := ap.LastDeployment(constants.DefaultContractName)
	require.False(ok)

	// a corrupted file is replaced on the next record
	ap.RecordDeployment(Deployment{ContractName: "X", Address: "0x01"})
	deployments, err := ap.ReadDeployments()
	require.NoError(err)
	require.Len(deployments, 1)
}
