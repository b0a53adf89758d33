// Copyright (C) 2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package contract

import (
	"context"
	"fmt"

	"github.com/exxafund/exxa-cli/pkg/evm"

	"github.com/ethereum/go-ethereum/common"
)

// GetContractOwner gets owner for https://docs.openzeppelin.com/contracts/2.x/api/ownership#Ownable-owner contracts
func GetContractOwner(
	ctx context.Context,
	client evm.Client,
	contractAddress common.Address,
) (common.Address, error) {
	out, err := CallToMethod(
		ctx,
		client,
		contractAddress,
		"owner()->(address)",
	)
	if err != nil {
		return common.Address{}, err
	}
	if len(out) == 0 {
		return common.Address{}, fmt.Errorf("error at owner() call, empty output")
	}
	ownerAddr, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("error at owner() call, expected common.Address, got %T", out[0])
	}
	return ownerAddr, nil
}
