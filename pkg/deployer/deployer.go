// Copyright (C) 2025, Exxafund. All rights reserved.
// See the file LICENSE for licensing terms.

// Package deployer invokes a contract deployment capability once and reports
// the resulting address, or the failure message, as a single console line.
package deployer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/exxafund/exxa-cli/pkg/clierrors"
	"github.com/exxafund/exxa-cli/pkg/constants"

	"go.uber.org/zap"
)

// Request is what to deploy. Built once per invocation.
type Request struct {
	ContractName    string
	ConstructorArgs []interface{}
}

// NewRequest copies args so later changes by the caller are not observed
func NewRequest(contractName string, args ...interface{}) Request {
	return Request{
		ContractName:    contractName,
		ConstructorArgs: append([]interface{}{}, args...),
	}
}

// Result is what a Deployer produced
type Result struct {
	Address string
	TxHash  string
}

// Deployer publishes a contract and returns its address
type Deployer interface {
	Deploy(ctx context.Context, contractName string, constructorArgs []interface{}) (Result, error)
}

// DeployerFunc adapts a function to the Deployer interface
type DeployerFunc func(ctx context.Context, contractName string, constructorArgs []interface{}) (Result, error)

func (f DeployerFunc) Deploy(ctx context.Context, contractName string, constructorArgs []interface{}) (Result, error) {
	return f(ctx, contractName, constructorArgs)
}

// DeploymentError is the single failure kind of an invocation. Its message is
// the message of the underlying cause.
type DeploymentError struct {
	ContractName string
	Err          error
}

func (e *DeploymentError) Error() string {
	return e.Err.Error()
}

func (e *DeploymentError) Unwrap() error {
	return e.Err
}

// Invoker calls a Deployer once and reports the outcome on Out
type Invoker struct {
	Deployer Deployer
	Out      io.Writer
	Log      *zap.Logger
	// Timeout bounds the deploy call. Zero means wait until it settles.
	Timeout time.Duration
}

func NewInvoker(d Deployer, out io.Writer, log *zap.Logger) *Invoker {
	if out == nil {
		out = os.Stdout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Invoker{
		Deployer: d,
		Out:      out,
		Log:      log,
	}
}

// Invoke deploys req and writes exactly one line: "address: <address>" on
// success, or the raw failure message. Failures are returned as
// *DeploymentError after being written, so the caller chooses the exit status.
func (i *Invoker) Invoke(ctx context.Context, req Request) error {
	log := i.logger()
	result, err := i.deploy(ctx, req)
	if err != nil {
		log.Error("deployment failed",
			zap.String("contract", req.ContractName),
			zap.Error(err),
		)
		derr := &DeploymentError{ContractName: req.ContractName, Err: err}
		if _, werr := fmt.Fprintln(i.Out, derr.Error()); werr != nil {
			return errors.Join(derr, werr)
		}
		return derr
	}
	log.Info("deployment succeeded",
		zap.String("contract", req.ContractName),
		zap.String("address", result.Address),
		zap.String("tx", result.TxHash),
	)
	_, err = fmt.Fprintf(i.Out, "address: %s\n", result.Address)
	return err
}

func (i *Invoker) deploy(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.ContractName) == "" {
		return Result{}, constants.ErrEmptyContractName
	}
	if i.Deployer == nil {
		return Result{}, errors.New("no deployer configured")
	}
	if i.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.Timeout)
		defer cancel()
	}
	args := append([]interface{}{}, req.ConstructorArgs...)
	i.logger().Info("deploying contract",
		zap.String("contract", req.ContractName),
		zap.Int("constructor-args", len(args)),
		zap.Duration("timeout", i.Timeout),
	)
	result, err := i.Deployer.Deploy(ctx, req.ContractName, args)
	if err != nil {
		return Result{}, err
	}
	if result.Address == "" {
		return Result{}, clierrors.ErrNoDeployedAddress
	}
	return result, nil
}

func (i *Invoker) logger() *zap.Logger {
	if i.Log == nil {
		return zap.NewNop()
	}
	return i.Log
}
