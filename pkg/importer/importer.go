// Package importer dispatches proposed ledger transactions under one of the
// submission policies: everything at once, one by one after confirmation,
// or nothing at all.
package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/fintszen/pkg/models"
)

type Mode string

const (
	ModeBulk   Mode = "bulk"
	ModeSerial Mode = "serial"
	ModeDryRun Mode = "dry-run"
)

// Modes lists the accepted modes in help order.
var Modes = []Mode{ModeBulk, ModeSerial, ModeDryRun}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q, expected one of %v", s, Modes)
}

// ErrSubmission wraps every error returned by the ledger on submit.
var ErrSubmission = errors.New("submission failed")

// Submitter persists a batch of transactions in the ledger.
type Submitter interface {
	Submit(ctx context.Context, txs []models.Submission) error
}

// Prompter asks the operator whether a transaction should be submitted.
type Prompter interface {
	Confirm(tx models.Submission) (bool, error)
}

type Importer struct {
	logger    *log.Logger
	mode      Mode
	submitter Submitter
	prompter  Prompter
}

// New returns an importer. prompter is only used in serial mode.
func New(logger *log.Logger, mode Mode, submitter Submitter, prompter Prompter) *Importer {
	return &Importer{logger: logger, mode: mode, submitter: submitter, prompter: prompter}
}

func (i *Importer) Mode() Mode {
	return i.mode
}

// Import dispatches txs and returns how many were submitted. The first
// failing submission stops the import.
func (i *Importer) Import(ctx context.Context, txs []models.Submission) (int, error) {
	if len(txs) == 0 {
		return 0, nil
	}

	switch i.mode {
	case ModeBulk:
		if err := i.submitter.Submit(ctx, txs); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrSubmission, err)
		}
		i.logger.Info("submitted transactions", "count", len(txs))
		return len(txs), nil

	case ModeSerial:
		submitted := 0
		for _, tx := range txs {
			ok, err := i.prompter.Confirm(tx)
			if err != nil {
				return submitted, fmt.Errorf("failed to read confirmation: %w", err)
			}
			if !ok {
				i.logger.Debug("transaction declined", "id", tx.ID, "date", tx.Date, "payee", tx.Payee)
				continue
			}
			if err := i.submitter.Submit(ctx, []models.Submission{tx}); err != nil {
				return submitted, fmt.Errorf("%w: transaction %s: %w", ErrSubmission, tx.ID, err)
			}
			submitted++
		}
		i.logger.Info("submitted transactions", "count", submitted, "declined", len(txs)-submitted)
		return submitted, nil

	case ModeDryRun:
		i.logger.Info("dry run, nothing submitted", "count", len(txs))
		return 0, nil

	default:
		return 0, fmt.Errorf("unknown mode %q", i.mode)
	}
}
