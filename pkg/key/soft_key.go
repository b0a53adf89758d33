// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package key

import (
	"bufio"
	"bytes"
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"io"
	"os"

	"github.com/exxafund/exxa-cli/pkg/constants"
	"github.com/exxafund/exxa-cli/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	ErrInvalidPrivateKey       = errors.New("invalid private key")
	ErrInvalidPrivateKeyLen    = errors.New("invalid private key length (expect 64 bytes in hex)")
	ErrInvalidPrivateKeyEnding = errors.New("invalid private key ending")
)

var _ Key = &SoftKey{}

type SoftKey struct {
	privKey *ecdsa.PrivateKey
	address common.Address
}

const privKeySize = 64

// NewSoft creates a SoftKey from a hex encoded private key, with or without 0x
func NewSoft(privKeyHex string) (*SoftKey, error) {
	privKeyHex = utils.TrimHexPrefix(privKeyHex)
	if len(privKeyHex) != privKeySize {
		return nil, ErrInvalidPrivateKeyLen
	}
	privKey, err := crypto.HexToECDSA(privKeyHex)
	if err != nil {
		return nil, errors.Join(ErrInvalidPrivateKey, err)
	}
	return &SoftKey{
		privKey: privKey,
		address: crypto.PubkeyToAddress(privKey.PublicKey),
	}, nil
}

// LoadSoft loads the private key from disk and creates the corresponding SoftKey.
func LoadSoft(keyPath string) (*SoftKey, error) {
	kb, err := os.ReadFile(utils.GetRealFilePath(keyPath))
	if err != nil {
		return nil, err
	}
	return LoadSoftFromBytes(kb)
}

// LoadSoftFromBytes loads the private key from bytes and creates the corresponding SoftKey.
// Trailing newlines are accepted.
func LoadSoftFromBytes(kb []byte) (*SoftKey, error) {
	r := bufio.NewReader(bytes.NewBuffer(kb))
	if prefix, err := r.Peek(2); err == nil && (string(prefix) == "0x" || string(prefix) == "0X") {
		_, _ = r.Discard(2)
	}
	buf := make([]byte, privKeySize)
	n, err := readASCII(buf, r)
	if err != nil {
		return nil, err
	}
	if n != len(buf) {
		return nil, ErrInvalidPrivateKeyLen
	}
	if err := checkKeyFileEnd(r); err != nil {
		return nil, err
	}
	if _, err := hex.DecodeString(string(buf)); err != nil {
		return nil, errors.Join(ErrInvalidPrivateKey, err)
	}
	return NewSoft(string(buf))
}

// readASCII reads into 'buf', stopping when the buffer is full or
// when a non-printable control character is encountered.
func readASCII(buf []byte, r io.ByteReader) (n int, err error) {
	for ; n < len(buf); n++ {
		buf[n], err = r.ReadByte()
		switch {
		case errors.Is(err, io.EOF) || buf[n] < '!':
			return n, nil
		case err != nil:
			return n, err
		}
	}
	return n, nil
}

const fileEndLimit = 1

// checkKeyFileEnd skips over additional newlines at the end of a key file.
func checkKeyFileEnd(r io.ByteReader) error {
	for idx := 0; ; idx++ {
		b, err := r.ReadByte()
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		case b != '\n' && b != '\r':
			return ErrInvalidPrivateKeyEnding
		case idx > fileEndLimit:
			return ErrInvalidPrivateKeyLen
		}
	}
}

func (m *SoftKey) Address() common.Address {
	return m.address
}

func (m *SoftKey) PrivKey() *ecdsa.PrivateKey {
	return m.privKey
}

func (m *SoftKey) PrivKeyHex() string {
	return hex.EncodeToString(crypto.FromECDSA(m.privKey))
}

// Save writes the hex encoded key to p, readable by the user only
func (m *SoftKey) Save(p string) error {
	return os.WriteFile(p, []byte(m.PrivKeyHex()), constants.UserOnlyWriteReadPerms)
}
