// Copyright (C) 2025, Exxafund. All rights reserved.
// See the file LICENSE for licensing terms.
package artifact

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/exxafund/exxa-cli/pkg/utils"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ParseArgs converts textual values into the Go types expected by the abi
// packer for inputs. Supported types: address, bool, string, intN, uintN,
// bytes and bytesN.
func ParseArgs(inputs abi.Arguments, values []string) ([]interface{}, error) {
	if len(inputs) != len(values) {
		return nil, fmt.Errorf("argument count mismatch: expected %d, got %d", len(inputs), len(values))
	}
	parsed := make([]interface{}, 0, len(values))
	for i, input := range inputs {
		v, err := parseArg(input.Type, values[i])
		if err != nil {
			name := input.Name
			if name == "" {
				name = strconv.Itoa(i)
			}
			return nil, fmt.Errorf("invalid value %q for argument %s (%s): %w", values[i], name, input.Type.String(), err)
		}
		parsed = append(parsed, v)
	}
	return parsed, nil
}

// ConstructorArgs parses values against the constructor of a
func (a *Artifact) ConstructorArgs(values []string) ([]interface{}, error) {
	return ParseArgs(a.ABI.Constructor.Inputs, values)
}

func parseArg(t abi.Type, s string) (interface{}, error) {
	s = strings.TrimSpace(s)
	switch t.T {
	case abi.AddressTy:
		if !common.IsHexAddress(s) {
			return nil, fmt.Errorf("not a hex address")
		}
		return common.HexToAddress(s), nil
	case abi.BoolTy:
		return strconv.ParseBool(s)
	case abi.StringTy:
		return s, nil
	case abi.IntTy, abi.UintTy:
		return parseInteger(t, s)
	case abi.BytesTy:
		return hex.DecodeString(utils.TrimHexPrefix(s))
	case abi.FixedBytesTy:
		b, err := hex.DecodeString(utils.TrimHexPrefix(s))
		if err != nil {
			return nil, err
		}
		if len(b) != t.Size {
			return nil, fmt.Errorf("expected %d bytes, got %d", t.Size, len(b))
		}
		v := reflect.New(t.GetType()).Elem()
		reflect.Copy(v, reflect.ValueOf(b))
		return v.Interface(), nil
	default:
		return nil, fmt.Errorf("unsupported argument type")
	}
}

func parseInteger(t abi.Type, s string) (interface{}, error) {
	n, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, fmt.Errorf("not an integer")
	}
	if !fitsInteger(t, n) {
		return nil, fmt.Errorf("out of range")
	}
	goType := t.GetType()
	switch goType.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := reflect.New(goType).Elem()
		v.SetInt(n.Int64())
		return v.Interface(), nil
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := reflect.New(goType).Elem()
		v.SetUint(n.Uint64())
		return v.Interface(), nil
	default:
		return n, nil
	}
}

func fitsInteger(t abi.Type, n *big.Int) bool {
	if t.T == abi.UintTy {
		return n.Sign() >= 0 && n.BitLen() <= t.Size
	}
	limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
	minValue := new(big.Int).Neg(limit)
	maxValue := new(big.Int).Sub(limit, big.NewInt(1))
	return n.Cmp(minValue) >= 0 && n.Cmp(maxValue) <= 0
}
