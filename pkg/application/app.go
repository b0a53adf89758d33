// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package application

import (
	"path/filepath"

	"github.com/exxafund/exxa-cli/pkg/config"
	"github.com/exxafund/exxa-cli/pkg/constants"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

type Exxa struct {
	Log     *zap.Logger
	baseDir string
	Conf    *config.Config
	// fs holds the files the app writes under baseDir
	fs afero.Fs
}

func New() *Exxa {
	return &Exxa{fs: afero.NewOsFs()}
}

func (app *Exxa) Setup(baseDir string, log *zap.Logger, conf *config.Config) {
	app.baseDir = baseDir
	app.Log = log
	app.Conf = conf
}

func (app *Exxa) GetBaseDir() string {
	return app.baseDir
}

func (app *Exxa) GetLogDir() string {
	return filepath.Join(app.baseDir, constants.LogDir)
}

func (app *Exxa) GetLogPath() string {
	return filepath.Join(app.GetLogDir(), constants.LogFileName)
}

// GetDefaultConfigPath is used when --config is not given
func (app *Exxa) GetDefaultConfigPath() string {
	return filepath.Join(app.baseDir, constants.ConfigFileName)
}

func (app *Exxa) GetEnvFilePath() string {
	return filepath.Join(app.baseDir, constants.EnvFileName)
}

func (app *Exxa) GetDeploymentsPath() string {
	return filepath.Join(app.baseDir, constants.DeploymentsFileName)
}

func (app *Exxa) ConfigFileExists() bool {
	return app.Conf != nil && app.Conf.ConfigFileExists()
}
