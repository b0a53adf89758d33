// Copyright (C) 2025, Exxafund. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import "errors"

var (
	ErrNoPrivateKey      = errors.New("no private key provided: use --private-key, --private-key-file or the PRIVATE_KEY environment variable")
	ErrEmptyContractName = errors.New("contract name must not be empty")
	ErrUnknownBackend    = errors.New("unknown deployer backend")
	ErrNoContractAddress = errors.New("contract address must be provided")
)
