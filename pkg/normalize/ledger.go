package normalize

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/yurifrl/fintszen/pkg/models"
)

var (
	// ErrInvariantViolation means a ledger transaction credits or debits
	// neither side of the tracked account.
	ErrInvariantViolation = errors.New("transaction does not belong to the tracked account")
	// ErrUnknownInstrument means the ledger referenced a currency instrument
	// it did not describe.
	ErrUnknownInstrument = errors.New("unknown instrument")
)

// LedgerNormalizer turns ledger entries into canonical transactions.
type LedgerNormalizer struct {
	logger *log.Logger
	// instruments maps ledger instrument IDs to currency codes.
	instruments map[int]string
}

func NewLedger(logger *log.Logger, instruments map[int]string) *LedgerNormalizer {
	return &LedgerNormalizer{logger: logger, instruments: instruments}
}

// Normalize derives the signed amount seen by accountID from the
// income/outcome pair of rec.
func (n *LedgerNormalizer) Normalize(rec models.LedgerRecord, accountID string) (*models.Transaction, error) {
	var (
		amount     decimal.Decimal
		instrument int
	)
	switch {
	case rec.IncomeAccount == accountID && rec.OutcomeAccount == accountID:
		amount = decimal.Max(rec.Income, rec.Outcome)
		if rec.Outcome.IsPositive() {
			amount = amount.Neg()
		}
		instrument = rec.IncomeInstrument
	case rec.IncomeAccount == accountID:
		amount = rec.Income
		instrument = rec.IncomeInstrument
	case rec.OutcomeAccount == accountID:
		amount = rec.Outcome.Neg()
		instrument = rec.OutcomeInstrument
	default:
		return nil, fmt.Errorf("ledger transaction %s, account %s: %w", rec.ID, accountID, ErrInvariantViolation)
	}

	currency, ok := n.instruments[instrument]
	if !ok {
		return nil, fmt.Errorf("ledger transaction %s: instrument %d: %w", rec.ID, instrument, ErrUnknownInstrument)
	}

	payee := rec.Payee
	if payee == "" {
		payee = rec.OriginalPayee
	}
	return &models.Transaction{
		ID:             rec.ID,
		Origin:         models.OriginLedger,
		Date:           models.Day(rec.Date),
		Amount:         amount,
		Currency:       currency,
		Income:         rec.Income,
		Outcome:        rec.Outcome,
		IncomeAccount:  rec.IncomeAccount,
		OutcomeAccount: rec.OutcomeAccount,
		Payee:          payee,
		Comment:        rec.Comment,
	}, nil
}

// NormalizeAll maps the non-deleted entries of one account. The first
// entry that fails aborts the whole batch.
func (n *LedgerNormalizer) NormalizeAll(records []models.LedgerRecord, accountID string) ([]*models.Transaction, error) {
	out := make([]*models.Transaction, 0, len(records))
	for _, rec := range records {
		if rec.Deleted {
			n.logger.Debug("skipping deleted ledger transaction", "id", rec.ID)
			continue
		}
		tx, err := n.Normalize(rec, accountID)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}
