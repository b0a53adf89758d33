// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package application

import (
	"testing"

	"github.com/exxafund/exxa-cli/pkg/config"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

func NewTestApp(t *testing.T) *Exxa {
	tempDir := t.TempDir()
	return &Exxa{
		baseDir: tempDir,
		Log:     zap.NewNop(),
		Conf:    config.New(),
		fs:      afero.NewMemMapFs(),
	}
}
