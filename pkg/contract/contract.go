// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/exxafund/exxa-cli/pkg/clierrors"
	"github.com/exxafund/exxa-cli/pkg/evm"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// abiArgument and abiMethod mirror the solidity ABI JSON encoding
type abiArgument struct {
	Name         string        `json:"name"`
	Type         string        `json:"type"`
	InternalType string        `json:"internalType"`
	Components   []abiArgument `json:"components,omitempty"`
}

type abiMethod struct {
	Name            string        `json:"name"`
	Type            string        `json:"type"`
	StateMutability string        `json:"stateMutability"`
	Inputs          []abiArgument `json:"inputs"`
	Outputs         []abiArgument `json:"outputs"`
}

// espType is one entry of a type list. Tuples keep their inner list in text.
type espType struct {
	text  string
	tuple bool
}

func removeSurroundingParenthesis(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return s, nil
	}
	if s[0] != '(' || s[len(s)-1] != ')' {
		return "", fmt.Errorf("expected esp %q to be surrounded by parenthesis", s)
	}
	return s[1 : len(s)-1], nil
}

// splitTypes splits "address, (uint64, bytes32) bool" into its top level
// types. Separators are commas and spaces.
func splitTypes(s string) ([]espType, error) {
	types := []espType{}
	var word strings.Builder
	depth := 0
	flush := func(tuple bool) {
		if word.Len() > 0 || tuple {
			types = append(types, espType{text: word.String(), tuple: tuple})
		}
		word.Reset()
	}
	for _, c := range s {
		switch {
		case c == '(':
			if depth == 0 {
				flush(false)
			} else {
				word.WriteRune(c)
			}
			depth++
		case c == ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced parenthesis in %q", s)
			}
			if depth == 0 {
				flush(true)
			} else {
				word.WriteRune(c)
			}
		case depth == 0 && (c == ',' || c == ' '):
			flush(false)
		default:
			word.WriteRune(c)
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced parenthesis in %q", s)
	}
	flush(false)
	return types, nil
}

// buildArguments converts a type list into ABI arguments. When a single
// struct param matches the list, its field names become the argument names,
// which is what the abi packer needs to map tuples to structs.
func buildArguments(types []espType, params ...interface{}) ([]abiArgument, error) {
	var fieldNames []string
	if len(params) == 1 {
		rt := reflect.TypeOf(params[0])
		if rt != nil && rt.Kind() == reflect.Struct && rt.NumField() == len(types) {
			for i := 0; i < rt.NumField(); i++ {
				fieldNames = append(fieldNames, rt.Field(i).Name)
			}
		}
	}
	args := make([]abiArgument, 0, len(types))
	for i, t := range types {
		arg := abiArgument{Type: t.text, InternalType: t.text}
		if fieldNames != nil {
			arg.Name = fieldNames[i]
		}
		if t.tuple {
			inner, err := splitTypes(t.text)
			if err != nil {
				return nil, err
			}
			var tupleParams []interface{}
			if i < len(params) {
				tupleParams = []interface{}{params[i]}
			}
			arg.Components, err = buildArguments(inner, tupleParams...)
			if err != nil {
				return nil, err
			}
			arg.Type = "tuple"
			arg.InternalType = "tuple"
			arg.Name = ""
		}
		args = append(args, arg)
	}
	return args, nil
}

// ParseMethodEsp turns a method signature such as
// "transfer(address, uint256)->(bool)" into the method name and a single
// entry ABI JSON for it
func ParseMethodEsp(
	methodEsp string,
	paid bool,
	view bool,
	params ...interface{},
) (string, string, error) {
	index := strings.Index(methodEsp, "(")
	if index == -1 {
		return methodEsp, "", nil
	}
	methodName := strings.TrimSpace(methodEsp[:index])
	methodInputs, methodOutputs, _ := strings.Cut(methodEsp[index:], "->")
	methodInputs, err := removeSurroundingParenthesis(methodInputs)
	if err != nil {
		return "", "", err
	}
	methodOutputs, err = removeSurroundingParenthesis(methodOutputs)
	if err != nil {
		return "", "", err
	}
	inputTypes, err := splitTypes(methodInputs)
	if err != nil {
		return "", "", err
	}
	outputTypes, err := splitTypes(methodOutputs)
	if err != nil {
		return "", "", err
	}
	inputs, err := buildArguments(inputTypes, params...)
	if err != nil {
		return "", "", err
	}
	outputs, err := buildArguments(outputTypes)
	if err != nil {
		return "", "", err
	}
	method := abiMethod{
		Name:            methodName,
		Type:            "function",
		StateMutability: "nonpayable",
		Inputs:          inputs,
		Outputs:         outputs,
	}
	if paid {
		method.StateMutability = "payable"
	}
	if view {
		method.StateMutability = "view"
	}
	abiBytes, err := json.MarshalIndent([]abiMethod{method}, "", "  ")
	if err != nil {
		return "", "", err
	}
	return methodName, string(abiBytes), nil
}

// TxOpts carries the optional knobs of a method transaction
type TxOpts struct {
	// Payment is sent as msg.value, making the method payable
	Payment *big.Int
	// GasLimit skips gas estimation when non zero
	GasLimit uint64
}

func parseMethodABI(
	methodEsp string,
	paid bool,
	view bool,
	params ...interface{},
) (string, *abi.ABI, error) {
	methodName, methodABI, err := ParseMethodEsp(methodEsp, paid, view, params...)
	if err != nil {
		return "", nil, err
	}
	metadata := &bind.MetaData{
		ABI: methodABI,
	}
	parsed, err := metadata.GetAbi()
	if err != nil {
		return "", nil, err
	}
	return methodName, parsed, nil
}

// TxToMethod sends a transaction calling methodEsp on contractAddress and
// waits for a successful receipt
func TxToMethod(
	ctx context.Context,
	client evm.Client,
	privateKey *ecdsa.PrivateKey,
	contractAddress common.Address,
	opts TxOpts,
	methodEsp string,
	params ...interface{},
) (*types.Transaction, *types.Receipt, error) {
	methodName, parsedABI, err := parseMethodABI(methodEsp, opts.Payment != nil, false, params...)
	if err != nil {
		return nil, nil, err
	}
	contract := bind.NewBoundContract(contractAddress, *parsedABI, client, client, client)
	chainID, err := evm.GetChainID(ctx, client)
	if err != nil {
		return nil, nil, err
	}
	txOpts, err := bind.NewKeyedTransactorWithChainID(privateKey, chainID)
	if err != nil {
		return nil, nil, err
	}
	txOpts.Context = ctx
	txOpts.Value = opts.Payment
	txOpts.GasLimit = opts.GasLimit
	tx, err := contract.Transact(txOpts, methodName, params...)
	if err != nil {
		return nil, nil, err
	}
	receipt, success, err := evm.WaitForTransaction(ctx, client, tx)
	if err != nil {
		return tx, nil, err
	} else if !success {
		return tx, receipt, fmt.Errorf("%w calling %s on %s", clierrors.ErrFailedReceipt, methodName, contractAddress.Hex())
	}
	return tx, receipt, nil
}

// CallToMethod performs a read only call of methodEsp on contractAddress
func CallToMethod(
	ctx context.Context,
	client evm.Client,
	contractAddress common.Address,
	methodEsp string,
	params ...interface{},
) ([]interface{}, error) {
	methodName, parsedABI, err := parseMethodABI(methodEsp, false, true, params...)
	if err != nil {
		return nil, err
	}
	contract := bind.NewBoundContract(contractAddress, *parsedABI, client, client, client)
	var out []interface{}
	err = contract.Call(&bind.CallOpts{Context: ctx}, &out, methodName, params...)
	if err != nil {
		return nil, err
	}
	return out, nil
}
