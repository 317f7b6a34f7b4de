package normalize

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yurifrl/fintszen/pkg/models"
)

var testInstruments = map[int]string{3: "EUR", 1: "USD"}

func ledgerRecord(income, incomeAcc, outcome, outcomeAcc string) models.LedgerRecord {
	return models.LedgerRecord{
		ID:                "L1",
		Date:              day(2024, time.April, 2),
		Income:            decimal.RequireFromString(income),
		IncomeAccount:     incomeAcc,
		IncomeInstrument:  3,
		Outcome:           decimal.RequireFromString(outcome),
		OutcomeAccount:    outcomeAcc,
		OutcomeInstrument: 1,
		OriginalPayee:     "REWE",
	}
}

func TestLedgerNormalize(t *testing.T) {
	n := NewLedger(log.New(io.Discard), testInstruments)

	tests := []struct {
		name     string
		rec      models.LedgerRecord
		amount   string
		currency string
	}{
		{"income on same account", ledgerRecord("100", "ACC1", "0", "ACC1"), "100", "EUR"},
		{"outcome on same account", ledgerRecord("0", "ACC1", "25.5", "ACC1"), "-25.5", "EUR"},
		{"transfer in", ledgerRecord("70", "ACC1", "70", "OTHER"), "70", "EUR"},
		{"transfer out", ledgerRecord("80", "OTHER", "80", "ACC1"), "-80", "USD"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := n.Normalize(tt.rec, "ACC1")
			require.NoError(t, err)
			assert.True(t, tx.Amount.Equal(decimal.RequireFromString(tt.amount)), "got %s", tx.Amount)
			assert.Equal(t, tt.currency, tx.Currency)
			assert.Equal(t, "L1", tx.ID)
			assert.Equal(t, "REWE", tx.Payee)
			assert.Equal(t, models.OriginLedger, tx.Origin)
			assert.Equal(t, "2024-04-02", tx.DateString())
		})
	}
}

func TestLedgerNormalizeForeignAccount(t *testing.T) {
	n := NewLedger(log.New(io.Discard), testInstruments)
	_, err := n.Normalize(ledgerRecord("1", "X", "1", "Y"), "ACC1")
	assert.ErrorIs(t, err, ErrInvariantViolation)
}

func TestLedgerNormalizeUnknownInstrument(t *testing.T) {
	n := NewLedger(log.New(io.Discard), map[int]string{})
	_, err := n.Normalize(ledgerRecord("1", "ACC1", "0", "ACC1"), "ACC1")
	assert.ErrorIs(t, err, ErrUnknownInstrument)
}

func TestLedgerNormalizeAllSkipsDeleted(t *testing.T) {
	n := NewLedger(log.New(io.Discard), testInstruments)
	deleted := ledgerRecord("1", "X", "1", "Y")
	deleted.Deleted = true

	out, err := n.NormalizeAll([]models.LedgerRecord{
		ledgerRecord("5", "ACC1", "0", "ACC1"),
		deleted,
	}, "ACC1")
	require.NoError(t, err)
	assert.Len(t, out, 1)
}
