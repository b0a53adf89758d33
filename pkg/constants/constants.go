// Copyright (C) 2025, Exxafund. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import "time"

const (
	DefaultPerms755        = 0o755
	WriteReadReadPerms     = 0o644
	UserOnlyWriteReadPerms = 0o600

	BaseDirName         = ".exxa-cli"
	LogDir              = "logs"
	LogFileName         = "exxa.log"
	EnvFileName         = ".env"
	EnvPrefix           = "EXXA"
	ConfigFileName      = "config.json"
	DeploymentsFileName = "deployments.json"

	APIRequestLargeTimeout = 2 * time.Minute

	// deploy defaults
	DefaultContractName    = "Exxafund101"
	DefaultArtifactsDir    = "contracts/artifacts"
	DefaultRPCURL          = "https://rpc.hyperliquid-testnet.xyz/evm"
	DefaultDeployTimeout   = 5 * time.Minute
	DefaultDeployerBackend = "bind"

	// rebalance defaults
	DefaultRebalanceMethod   = "rebalanceTWAPStep()"
	DefaultRebalanceSteps    = 10
	DefaultRebalanceInterval = 24 * time.Hour
	DefaultRebalanceGasLimit = 1_500_000
)

// config keys, shared by flags, env vars and config files
const (
	ConfigRPCURLKey         = "rpc-url"
	ConfigPrivateKeyKey     = "private-key"
	ConfigPrivateKeyFileKey = "private-key-file"
	ConfigArtifactsDirKey   = "artifacts-dir"
	ConfigBackendKey        = "backend"
	ConfigTimeoutKey        = "timeout"
	ConfigStrictKey         = "strict"
)
