// Copyright (C) 2025, Exxafund. All rights reserved.
// See the file LICENSE for licensing terms.

// Package artifact resolves contract names to compiled ABI and bytecode.
package artifact

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/exxafund/exxa-cli/pkg/clierrors"
	"github.com/exxafund/exxa-cli/pkg/constants"
	"github.com/exxafund/exxa-cli/pkg/utils"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/pingcap/errors"
)

// Artifact is a compiled contract ready to be deployed
type Artifact struct {
	Name     string
	ABI      abi.ABI
	Bytecode []byte
}

// Source resolves a contract name to its artifact
type Source interface {
	Load(contractName string) (*Artifact, error)
}

// DirSource reads artifacts from a directory. Both the flat layout
// (<dir>/<name>.json, Remix) and the per source file layout
// (<dir>/<name>.sol/<name>.json, Hardhat and Foundry) are searched.
type DirSource struct {
	Dir string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{Dir: utils.GetRealFilePath(dir)}
}

func (s *DirSource) candidates(contractName string) []string {
	return []string{
		filepath.Join(s.Dir, contractName+".json"),
		filepath.Join(s.Dir, contractName+".sol", contractName+".json"),
	}
}

func (s *DirSource) Load(contractName string) (*Artifact, error) {
	if strings.TrimSpace(contractName) == "" {
		return nil, errors.Trace(constants.ErrEmptyContractName)
	}
	for _, path := range s.candidates(contractName) {
		if !utils.FileExists(path) {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Annotatef(err, "reading artifact %s", path)
		}
		a, err := Parse(contractName, data)
		if err != nil {
			return nil, errors.Annotatef(err, "parsing artifact %s", path)
		}
		return a, nil
	}
	if !utils.DirectoryExists(s.Dir) {
		return nil, errors.Annotatef(clierrors.ErrArtifactNotFound, "artifacts directory %s does not exist", s.Dir)
	}
	return nil, errors.Annotatef(
		clierrors.ErrArtifactNotFound,
		"%s (searched %s)",
		contractName,
		strings.Join(s.candidates(contractName), ", "),
	)
}

// artifactJSON covers the fields of the supported compiler outputs:
//
//	remix:   {"abi": [...], "data": {"bytecode": {"object": "6080..."}}}
//	hardhat: {"abi": [...], "bytecode": "0x6080..."}
//	foundry: {"abi": [...], "bytecode": {"object": "0x6080..."}}
type artifactJSON struct {
	ABI      json.RawMessage `json:"abi"`
	Bytecode json.RawMessage `json:"bytecode"`
	Data     *struct {
		Bytecode json.RawMessage `json:"bytecode"`
	} `json:"data"`
}

type bytecodeObject struct {
	Object string `json:"object"`
}

// Parse decodes an artifact in any of the supported layouts
func Parse(contractName string, data []byte) (*Artifact, error) {
	var raw artifactJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Trace(err)
	}
	abiJSON := raw.ABI
	if len(abiJSON) == 0 || bytes.Equal(abiJSON, []byte("null")) {
		abiJSON = []byte("[]")
	}
	parsedABI, err := abi.JSON(bytes.NewReader(abiJSON))
	if err != nil {
		return nil, errors.Annotate(err, "invalid abi")
	}
	bytecodeJSON := raw.Bytecode
	if len(bytecodeJSON) == 0 && raw.Data != nil {
		bytecodeJSON = raw.Data.Bytecode
	}
	bytecode, err := decodeBytecode(bytecodeJSON)
	if err != nil {
		return nil, err
	}
	if len(bytecode) == 0 {
		return nil, errors.Annotatef(clierrors.ErrArtifactNoBytecode, "%s", contractName)
	}
	return &Artifact{
		Name:     contractName,
		ABI:      parsedABI,
		Bytecode: bytecode,
	}, nil
}

func decodeBytecode(raw json.RawMessage) ([]byte, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var hexCode string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &hexCode); err != nil {
			return nil, errors.Trace(err)
		}
	} else {
		var obj bytecodeObject
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, errors.Trace(err)
		}
		hexCode = obj.Object
	}
	hexCode = utils.TrimHexPrefix(hexCode)
	if strings.Contains(hexCode, "__") {
		return nil, errors.New("bytecode has unlinked library placeholders")
	}
	code, err := hex.DecodeString(hexCode)
	if err != nil {
		return nil, errors.Annotate(err, "invalid bytecode hex")
	}
	return code, nil
}

// MapSource serves preloaded artifacts, keyed by contract name
type MapSource map[string]*Artifact

func (m MapSource) Load(contractName string) (*Artifact, error) {
	a, ok := m[contractName]
	if !ok {
		return nil, errors.Annotatef(clierrors.ErrArtifactNotFound, "%s", contractName)
	}
	return a, nil
}
