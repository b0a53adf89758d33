// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package flags

import (
	"fmt"
	"sort"
	"strings"
)

// EnsureMutuallyExclusive fails when more than one of the named flags is set
func EnsureMutuallyExclusive(flags map[string]bool) error {
	set := []string{}
	for name, isSet := range flags {
		if isSet {
			set = append(set, "--"+name)
		}
	}
	if len(set) < 2 {
		return nil
	}
	sort.Strings(set)
	return fmt.Errorf("%s are mutually exclusive flags", strings.Join(set, ", "))
}
