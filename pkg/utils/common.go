// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package utils

import (
	"context"
	"os/user"
	"strings"

	"github.com/exxafund/exxa-cli/pkg/constants"
)

// GetAPILargeContextFrom returns a context for a single API request with
// large timeout, derived from [parent] so that cancellation of the caller
// propagates to the request
func GetAPILargeContextFrom(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, constants.APIRequestLargeTimeout)
}

func GetRealFilePath(path string) string {
	if strings.HasPrefix(path, "~") {
		usr, _ := user.Current()
		path = strings.Replace(path, "~", usr.HomeDir, 1)
	}
	return path
}

// TrimHexPrefix removes a leading 0x or 0X
func TrimHexPrefix(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s[2:]
	}
	return s
}
