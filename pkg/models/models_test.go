package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMatchKeyStringIgnoresExponent(t *testing.T) {
	a := MatchKey{Date: "2024-01-02", Amount: decimal.RequireFromString("50"), Currency: "EUR"}
	b := MatchKey{Date: "2024-01-02", Amount: decimal.RequireFromString("50.00"), Currency: "EUR"}
	assert.Equal(t, a.String(), b.String())
}

func TestTransactionKeyAndFields(t *testing.T) {
	tx := &Transaction{
		ID:       "id-1",
		Date:     Day(time.Date(2024, 3, 4, 17, 30, 0, 0, time.UTC)),
		Amount:   decimal.RequireFromString("-12.5"),
		Currency: "EUR",
		Payee:    "Bakery",
		Comment:  "bread",
	}
	assert.Equal(t, "2024-03-04|-12.5|EUR", tx.Key().String())
	assert.Equal(t, []string{"2024-03-04", "Bakery", "bread", "-12.50", "EUR", "id-1"}, tx.Fields())
	assert.Len(t, tx.Fields(), len(CSVHeader))
}

func TestNewSubmissionAndSignedAmount(t *testing.T) {
	tx := &Transaction{
		ID:             "w1",
		Date:           time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Income:         decimal.NewFromInt(50),
		Outcome:        decimal.NewFromInt(50),
		IncomeAccount:  "cash",
		OutcomeAccount: "giro",
		Payee:          "ATM123",
	}
	s := NewSubmission(tx, 7, 3)

	assert.Equal(t, "2024-03-04", s.Date)
	assert.Equal(t, 7, s.User)
	assert.Equal(t, 3, s.IncomeInstrument)
	assert.Equal(t, 3, s.OutcomeInstrument)
	assert.Equal(t, "ATM123", s.OriginalPayee)
	assert.True(t, s.SignedAmount("giro").Equal(decimal.NewFromInt(-50)))
	assert.True(t, s.SignedAmount("cash").Equal(decimal.NewFromInt(50)))
	assert.True(t, s.SignedAmount("other").IsZero())
}

func TestLedgerRecordTouches(t *testing.T) {
	r := LedgerRecord{IncomeAccount: "a", OutcomeAccount: "b"}
	assert.True(t, r.Touches("a"))
	assert.True(t, r.Touches("b"))
	assert.False(t, r.Touches("c"))
}

func TestAccountPairString(t *testing.T) {
	assert.Equal(t, "DE01 to acc-1", AccountPair{IBAN: "DE01", LedgerAccount: "acc-1"}.String())
	assert.Equal(t, "ledger", OriginLedger.String())
}
