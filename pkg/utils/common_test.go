// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package utils

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/exxafund/exxa-cli/pkg/constants"
)

func TestTrimHexPrefix(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"0xabc", "abc"},
		{"0Xabc", "abc"},
		{"abc", "abc"},
		{"  0x12 ", "12"},
		{"", ""},
		{"0x", ""},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			if result := TrimHexPrefix(test.input); result != test.expected {
				t.Errorf("Expected TrimHexPrefix(%q) to be %q, but got %q", test.input, test.expected, result)
			}
		})
	}
}

func TestGetRealFilePath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("Error getting user home directory: %v", err)
	}
	if p := GetRealFilePath("~/key.txt"); p != filepath.Join(homeDir, "key.txt") {
		t.Errorf("GetRealFilePath failed for path starting with ~: got %s", p)
	}
	if p := GetRealFilePath("/tmp/key.txt"); p != "/tmp/key.txt" {
		t.Errorf("GetRealFilePath failed for absolute path: got %s", p)
	}
}

func TestGetAPILargeContextFrom(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	ctx, cancel := GetAPILargeContextFrom(parent)
	defer cancel()
	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("expected a deadline")
	}
	if time.Until(deadline) > constants.APIRequestLargeTimeout {
		t.Errorf("deadline %s exceeds large timeout", deadline)
	}
	cancelParent()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Error("parent cancellation did not propagate")
	}
}
