// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package ux

import (
	"fmt"
	"strings"
	"time"
)

var durationUnits = []struct {
	name string
	d    time.Duration
}{
	{"days", 24 * time.Hour},
	{"hours", time.Hour},
	{"minutes", time.Minute},
	{"seconds", time.Second},
}

// FormatDuration returns a user friendly string for a wait interval,
// e.g. "1 days 2 hours". Sub-second remainders are dropped.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return "0 seconds"
	}
	parts := []string{}
	for _, unit := range durationUnits {
		n := d / unit.d
		if n > 0 {
			d -= n * unit.d
			parts = append(parts, fmt.Sprintf("%d %s", n, unit.name))
		}
	}
	return strings.Join(parts, " ")
}
