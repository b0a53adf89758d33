// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"fmt"

	"github.com/exxafund/exxa-cli/pkg/config"
	"github.com/exxafund/exxa-cli/pkg/constants"
	"github.com/exxafund/exxa-cli/pkg/key"
	"github.com/spf13/cobra"

	cmdflags "github.com/exxafund/exxa-cli/cmd/flags"
)

// PrivateKeyFlags selects the key that signs transactions
type PrivateKeyFlags struct {
	PrivateKey     string
	PrivateKeyFile string
}

func (pkf *PrivateKeyFlags) AddToCmd(
	cmd *cobra.Command,
	goal string,
) {
	cmd.Flags().StringVar(
		&pkf.PrivateKey,
		constants.ConfigPrivateKeyKey,
		"",
		fmt.Sprintf("hex encoded private key to use %s (env PRIVATE_KEY)", goal),
	)
	cmd.Flags().StringVar(
		&pkf.PrivateKeyFile,
		constants.ConfigPrivateKeyFileKey,
		"",
		fmt.Sprintf("file holding the hex encoded private key to use %s", goal),
	)
}

// GetKey resolves the signing key. Flags win over the environment and the
// config file.
func (pkf *PrivateKeyFlags) GetKey(conf *config.Config) (key.Key, error) {
	if err := cmdflags.EnsureMutuallyExclusive(map[string]bool{
		constants.ConfigPrivateKeyKey:     pkf.PrivateKey != "",
		constants.ConfigPrivateKeyFileKey: pkf.PrivateKeyFile != "",
	}); err != nil {
		return nil, err
	}
	privateKey := pkf.PrivateKey
	privateKeyFile := pkf.PrivateKeyFile
	if privateKey == "" && privateKeyFile == "" && conf != nil {
		privateKey = conf.GetConfigStringValue(constants.ConfigPrivateKeyKey)
		privateKeyFile = conf.GetConfigStringValue(constants.ConfigPrivateKeyFileKey)
	}
	var (
		k   *key.SoftKey
		err error
	)
	switch {
	case privateKey != "":
		k, err = key.NewSoft(privateKey)
	case privateKeyFile != "":
		k, err = key.LoadSoft(privateKeyFile)
	default:
		return nil, constants.ErrNoPrivateKey
	}
	if err != nil {
		return nil, err
	}
	return k, nil
}
