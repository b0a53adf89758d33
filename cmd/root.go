// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/exxafund/exxa-cli/cmd/deploycmd"
	"github.com/exxafund/exxa-cli/cmd/deploymentscmd"
	"github.com/exxafund/exxa-cli/cmd/rebalancecmd"
	"github.com/exxafund/exxa-cli/pkg/application"
	"github.com/exxafund/exxa-cli/pkg/cobrautils"
	"github.com/exxafund/exxa-cli/pkg/config"
	"github.com/exxafund/exxa-cli/pkg/constants"
	"github.com/exxafund/exxa-cli/pkg/utils"
	"github.com/exxafund/exxa-cli/pkg/ux"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	app *application.Exxa

	logLevel string
	Version  = ""
	cfgFile  string
)

func NewRootCmd() *cobra.Command {
	// rootCmd represents the base command when called without any subcommands
	rootCmd := &cobra.Command{
		Use: "exxa",
		Long: `Exxa CLI deploys the Exxa fund contracts to an EVM chain and drives their
TWAP rebalance schedule.

To get started, compile the contracts into ` + constants.DefaultArtifactsDir + `, set PRIVATE_KEY
in a .env file and run exxa deploy.`,
		PersistentPreRunE: createApp,
		Version:           Version,
	}
	cobrautils.ConfigureRootCmd(rootCmd)

	// Disable printing the completion command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/"+constants.BaseDirName+"/"+constants.ConfigFileName+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level of the log file")

	// add sub commands
	rootCmd.AddCommand(deploycmd.NewCmd(app))
	rootCmd.AddCommand(rebalancecmd.NewCmd(app))
	rootCmd.AddCommand(deploymentscmd.NewCmd(app))
	return rootCmd
}

func createApp(cmd *cobra.Command, _ []string) error {
	baseDir, err := setupEnv()
	if err != nil {
		return err
	}
	log, err := setupLogging(baseDir)
	if err != nil {
		return err
	}
	app.Setup(baseDir, log, config.New())
	return initConfig(cmd)
}

func setupEnv() (string, error) {
	baseDir := utils.UserHomePath(constants.BaseDirName)

	// Create base dir if it doesn't exist
	if err := os.MkdirAll(baseDir, constants.DefaultPerms755); err != nil {
		return "", fmt.Errorf("failed creating the basedir %s: %w", baseDir, err)
	}
	return baseDir, nil
}

func setupLogging(baseDir string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level configured: %s", logLevel)
	}
	logDir := filepath.Join(baseDir, constants.LogDir)
	if err := os.MkdirAll(logDir, constants.DefaultPerms755); err != nil {
		return nil, fmt.Errorf("failed creating log directory: %w", err)
	}

	logConfig := zap.NewProductionConfig()
	logConfig.Level = zap.NewAtomicLevelAt(level)
	logConfig.Sampling = nil
	logConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logConfig.OutputPaths = []string{filepath.Join(logDir, constants.LogFileName)}
	logConfig.ErrorOutputPaths = []string{"stderr"}
	log, err := logConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed setting up logging, exiting: %w", err)
	}
	// create the user facing logger as a global var
	ux.SetUserLog(log, os.Stdout)
	return log, nil
}

// initConfig reads in .env files, the config file and the flags of cmd.
// Priority: flags > env vars > config file > defaults
func initConfig(cmd *cobra.Command) error {
	// .env in the working dir first, godotenv never overrides a set variable
	for _, envFile := range []string{constants.EnvFileName, app.GetEnvFilePath()} {
		if err := app.Conf.LoadEnvFile(app.Log, envFile); err != nil {
			return err
		}
	}
	configFile := cfgFile
	if configFile == "" && utils.FileExists(app.GetDefaultConfigPath()) {
		configFile = app.GetDefaultConfigPath()
	}
	if err := app.Conf.SetConfig(app.Log, utils.GetRealFilePath(configFile)); err != nil {
		return err
	}
	return app.Conf.BindFlags(cmd.Flags())
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	app = application.New()
	rootCmd := NewRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if app.Log != nil {
		_ = app.Log.Sync()
	}
	os.Exit(cobrautils.HandleErrors(err))
}
