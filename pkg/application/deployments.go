// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package application

import (
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/exxafund/exxa-cli/pkg/constants"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Deployment records a successful contract deployment
type Deployment struct {
	ContractName string    `json:"contractName" yaml:"contractName"`
	Address      string    `json:"address" yaml:"address"`
	TxHash       string    `json:"txHash,omitempty" yaml:"txHash,omitempty"`
	RPCURL       string    `json:"rpcURL,omitempty" yaml:"rpcURL,omitempty"`
	Backend      string    `json:"backend,omitempty" yaml:"backend,omitempty"`
	DeployedAt   time.Time `json:"deployedAt" yaml:"deployedAt"`
}

// Deployments maps a contract name to its last deployment
type Deployments map[string]Deployment

// RecordDeployment stores d as the last deployment of its contract. Failing
// to persist it does not fail the deployment, so errors are only logged.
func (app *Exxa) RecordDeployment(d Deployment) {
	deployments, err := app.ReadDeployments()
	if err != nil {
		app.Log.Warn("failed to read deployments file! This is non-critical but is logged", zap.Error(err))
		deployments = Deployments{}
	}
	deployments[d.ContractName] = d
	bDeployments, err := json.MarshalIndent(deployments, "", "  ")
	if err != nil {
		app.Log.Warn("failed to marshal deployments! This is non-critical but is logged", zap.Error(err))
		return
	}
	if err := afero.WriteFile(
		app.fs,
		app.GetDeploymentsPath(),
		bDeployments,
		constants.WriteReadReadPerms); err != nil {
		app.Log.Warn("failed to write the deployments file! This is non-critical but is logged", zap.Error(err))
	}
}

// ReadDeployments returns the recorded deployments. A missing file yields
// an empty set.
func (app *Exxa) ReadDeployments() (Deployments, error) {
	fileBytes, err := afero.ReadFile(app.fs, app.GetDeploymentsPath())
	if errors.Is(err, os.ErrNotExist) {
		return Deployments{}, nil
	}
	if err != nil {
		return nil, err
	}
	deployments := Deployments{}
	if err := json.Unmarshal(fileBytes, &deployments); err != nil {
		return nil, err
	}
	return deployments, nil
}

// LastDeployment returns the last recorded deployment of contractName
func (app *Exxa) LastDeployment(contractName string) (Deployment, bool) {
	deployments, err := app.ReadDeployments()
	if err != nil {
		app.Log.Warn("failed to read deployments file! This is non-critical but is logged", zap.Error(err))
		return Deployment{}, false
	}
	d, ok := deployments[contractName]
	return d, ok
}
