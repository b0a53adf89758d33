// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/exxafund/exxa-cli/pkg/constants"
	"github.com/exxafund/exxa-cli/pkg/utils"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// bare env var names accepted on top of the EXXA_ prefixed ones
var envAliases = map[string]string{
	constants.ConfigPrivateKeyKey: "PRIVATE_KEY",
	constants.ConfigRPCURLKey:     "RPC_URL",
}

type Config struct {
	v *viper.Viper
}

func New() *Config {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv() // read in environment variables that match
	for key, alias := range envAliases {
		_ = v.BindEnv(key, constants.EnvPrefix+"_"+strings.ReplaceAll(strings.ToUpper(key), "-", "_"), alias)
	}
	v.SetDefault(constants.ConfigRPCURLKey, constants.DefaultRPCURL)
	v.SetDefault(constants.ConfigArtifactsDirKey, constants.DefaultArtifactsDir)
	v.SetDefault(constants.ConfigBackendKey, constants.DefaultDeployerBackend)
	v.SetDefault(constants.ConfigTimeoutKey, constants.DefaultDeployTimeout)
	v.SetDefault(constants.ConfigStrictKey, false)
	return &Config{v: v}
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// Variables already set are not overridden. A missing file is not an error.
func (*Config) LoadEnvFile(log *zap.Logger, path string) error {
	if !utils.FileExists(path) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed loading env file %s: %w", path, err)
	}
	log.Info("Loaded env file", zap.String("env-file", path))
	return nil
}

func (c *Config) SetConfig(log *zap.Logger, s string) error {
	if s == "" {
		return nil
	}
	c.v.SetConfigType(configType(s))
	c.v.SetConfigFile(s)
	// If a config file is found, read it in.
	if err := c.v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed reading config file %s: %w", s, err)
	}
	log.Info("Using config file", zap.String("config-file", s))
	return nil
}

func (c *Config) MergeConfig(log *zap.Logger, s string) {
	prevS := c.v.ConfigFileUsed()
	c.v.SetConfigType(configType(s))
	c.v.SetConfigFile(s)
	log.Info("Merging configuration file", zap.String("config-file", s))
	if err := c.v.MergeInConfig(); err != nil {
		log.Info("Error loading configuration file", zap.String("config-file", s), zap.Error(err))
	}
	c.v.SetConfigFile(prevS)
	if prevS != "" {
		c.v.SetConfigType(configType(prevS))
	}
}

// json unless the file extension says otherwise
func configType(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "json"
	}
	return ext
}

// BindFlags makes the given flags the highest precedence source for their keys.
// Must be called for the command being executed only.
func (c *Config) BindFlags(flags *pflag.FlagSet) error {
	return c.v.BindPFlags(flags)
}

func (c *Config) GetConfigPath() string {
	return c.v.ConfigFileUsed()
}

func (c *Config) ConfigFileExists() bool {
	return utils.FileExists(c.GetConfigPath())
}

// SetConfigValue sets the value of a configuration key.
func (c *Config) SetConfigValue(key string, value interface{}) {
	c.v.Set(key, value)
}

func (c *Config) ConfigValueIsSet(key string) bool {
	return c.v.IsSet(key)
}

func (c *Config) GetConfigBoolValue(key string) bool {
	return c.v.GetBool(key)
}

func (c *Config) GetConfigStringValue(key string) string {
	return c.v.GetString(key)
}

func (c *Config) GetConfigDurationValue(key string) time.Duration {
	return c.v.GetDuration(key)
}
