// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package clierrors

import "errors"

var (
	ErrNoDeployedAddress  = errors.New("deployment returned no contract address")
	ErrFailedReceipt      = errors.New("failed receipt status")
	ErrNoCodeAfterDeploy  = errors.New("no contract code at the deployed address")
	ErrArtifactNotFound   = errors.New("contract artifact not found")
	ErrArtifactNoBytecode = errors.New("contract artifact has no bytecode")
)
