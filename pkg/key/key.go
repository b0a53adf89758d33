// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package key loads the EVM signing key used to deploy and call contracts.
package key

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
)

// Key defines methods for key manager interface.
type Key interface {
	// Address returns the address in Ethereum format
	Address() common.Address
	// PrivKey returns the key used to sign transactions
	PrivKey() *ecdsa.PrivateKey
	// PrivKeyHex returns the hex encoded private key, without 0x
	PrivKeyHex() string
}
