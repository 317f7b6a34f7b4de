package models

import "github.com/shopspring/decimal"

// Submission is a ledger-ready transaction proposed for insertion. Field names
// follow the ledger's wire format so suggestions can round-trip unchanged.
type Submission struct {
	ID                string          `json:"id"`
	User              int             `json:"user"`
	Date              string          `json:"date"`
	Income            decimal.Decimal `json:"income"`
	IncomeAccount     string          `json:"incomeAccount"`
	IncomeInstrument  int             `json:"incomeInstrument"`
	Outcome           decimal.Decimal `json:"outcome"`
	OutcomeAccount    string          `json:"outcomeAccount"`
	OutcomeInstrument int             `json:"outcomeInstrument"`
	OriginalPayee     string          `json:"originalPayee,omitempty"`
	Payee             string          `json:"payee,omitempty"`
	Comment           string          `json:"comment,omitempty"`
	Merchant          *string         `json:"merchant,omitempty"`
	Tag               []string        `json:"tag,omitempty"`
	Created           int64           `json:"created,omitempty"`
	Changed           int64           `json:"changed,omitempty"`
	Deleted           bool            `json:"deleted"`
}

// NewSubmission builds a submission record from a bank-derived canonical
// transaction. The instrument is used for both sides.
func NewSubmission(t *Transaction, user, instrument int) Submission {
	return Submission{
		ID:                t.ID,
		User:              user,
		Date:              t.DateString(),
		Income:            t.Income,
		IncomeAccount:     t.IncomeAccount,
		IncomeInstrument:  instrument,
		Outcome:           t.Outcome,
		OutcomeAccount:    t.OutcomeAccount,
		OutcomeInstrument: instrument,
		OriginalPayee:     t.Payee,
		Payee:             t.Payee,
		Comment:           t.Comment,
	}
}

// SignedAmount returns the amount from the point of view of accountID:
// positive when money arrives there, negative when it leaves.
func (s Submission) SignedAmount(accountID string) decimal.Decimal {
	switch {
	case s.OutcomeAccount == accountID && s.Outcome.IsPositive():
		return s.Outcome.Neg()
	case s.IncomeAccount == accountID:
		return s.Income
	default:
		return decimal.Zero
	}
}
