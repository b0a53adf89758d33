// Copyright (C) 2025, Exxafund. All rights reserved.
// See the file LICENSE for licensing terms.
package cobrautils

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/exxafund/exxa-cli/pkg/ux"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestHandleErrors(t *testing.T) {
	require := require.New(t)

	var out bytes.Buffer
	ux.SetUserLog(nil, &out)

	require.Equal(0, HandleErrors(nil))

	require.Equal(1, HandleErrors(errors.New("boom")))
	require.Equal("Error: boom\n", out.String())

	out.Reset()
	wrapped := fmt.Errorf("deploy: %w", NewReportedError(errors.New("insufficient funds")))
	require.Equal(1, HandleErrors(wrapped))
	require.Empty(out.String())
}

func TestUsageErrors(t *testing.T) {
	require := require.New(t)

	var cmdOut bytes.Buffer
	cmd := &cobra.Command{Use: "deploy"}
	cmd.SetOut(&cmdOut)

	err := MaximumNArgs(1)(cmd, []string{"a", "b"})
	require.Error(err)
	var usageErr UsageError
	require.ErrorAs(err, &usageErr)
	require.Contains(err.Error(), "Usage error")

	require.NoError(MaximumNArgs(1)(cmd, []string{"a"}))
	require.NoError(ExactArgs(0)(cmd, nil))

	require.Equal(1, HandleErrors(err))
	require.Contains(cmdOut.String(), "Usage error")
}

func TestCommandSuiteUsage(t *testing.T) {
	require := require.New(t)

	cmd := &cobra.Command{Use: "exxa"}
	cmd.SetOut(&bytes.Buffer{})
	require.NoError(CommandSuiteUsage(cmd, nil))
	err := CommandSuiteUsage(cmd, []string{"nope"})
	require.ErrorContains(err, `invalid subcommand "nope"`)
}
