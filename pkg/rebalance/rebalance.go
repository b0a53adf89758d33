// Copyright (C) 2025, Exxafund. All rights reserved.
// See the file LICENSE for licensing terms.

// Package rebalance drives a contract's TWAP rebalance method on a fixed
// schedule.
package rebalance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/exxafund/exxa-cli/pkg/ux"

	"go.uber.org/zap"
)

var ErrNoSteps = errors.New("number of steps must be positive")

// StepFunc executes step i (1 based) and returns the transaction hash
type StepFunc func(ctx context.Context, step int) (string, error)

// Report describes an executed step
type Report struct {
	Step   int
	Total  int
	TxHash string
}

type Scheduler struct {
	Steps    int
	Interval time.Duration
	Step     StepFunc
	Out      io.Writer
	Log      *zap.Logger
}

// Run executes the steps in order, waiting Interval between consecutive
// steps. It stops at the first failing step or when ctx is done, returning
// the reports of the steps executed so far.
func (s *Scheduler) Run(ctx context.Context) ([]Report, error) {
	if s.Steps <= 0 {
		return nil, ErrNoSteps
	}
	if s.Step == nil {
		return nil, errors.New("no step function provided")
	}
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}
	reports := make([]Report, 0, s.Steps)
	for i := 1; i <= s.Steps; i++ {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		s.printf("Executing TWAP rebalance step %d/%d...", i, s.Steps)
		txHash, err := s.Step(ctx, i)
		if err != nil {
			log.Error("rebalance step failed", zap.Int("step", i), zap.Error(err))
			return reports, fmt.Errorf("step %d/%d: %w", i, s.Steps, err)
		}
		log.Info("rebalance step executed", zap.Int("step", i), zap.String("tx", txHash))
		s.printf("Step %d executed: %s", i, txHash)
		reports = append(reports, Report{Step: i, Total: s.Steps, TxHash: txHash})
		if i == s.Steps {
			break
		}
		if err := s.wait(ctx); err != nil {
			return reports, err
		}
	}
	return reports, nil
}

func (s *Scheduler) wait(ctx context.Context) error {
	if s.Interval <= 0 {
		return nil
	}
	s.printf("Waiting %s before next step...", ux.FormatDuration(s.Interval))
	timer := time.NewTimer(s.Interval)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) printf(msg string, args ...interface{}) {
	if s.Out == nil {
		ux.Logger.PrintToUser(msg, args...)
		return
	}
	_, _ = fmt.Fprintf(s.Out, msg+"\n", args...)
}
