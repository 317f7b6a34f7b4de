package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankRecord is one raw statement line as handed over by a bank session.
type BankRecord struct {
	Amount   decimal.Decimal
	Currency string
	// Purpose is the free-text memo. It often carries the real transaction
	// date, while Date holds the booking date.
	Purpose string
	Date    time.Time
	// ApplicantName is empty when the bank does not report a counterparty.
	ApplicantName string
}

// BankAccount is an account exposed by a bank session.
type BankAccount struct {
	IBAN     string `json:"iban"`
	Currency string `json:"currency"`
}

// LedgerRecord is one raw ledger entry in the double-entry income/outcome
// model.
type LedgerRecord struct {
	ID   string
	Date time.Time

	Income            decimal.Decimal
	IncomeAccount     string
	IncomeInstrument  int
	Outcome           decimal.Decimal
	OutcomeAccount    string
	OutcomeInstrument int

	Payee         string
	OriginalPayee string
	Comment       string
	Deleted       bool
}

// Touches reports whether the record credits or debits the given account.
func (r LedgerRecord) Touches(accountID string) bool {
	return r.IncomeAccount == accountID || r.OutcomeAccount == accountID
}

// LedgerAccount is an account known to the ledger.
type LedgerAccount struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// AccountPair links a bank IBAN with the ledger account that mirrors it.
type AccountPair struct {
	IBAN          string `mapstructure:"iban" yaml:"iban" json:"iban"`
	LedgerAccount string `mapstructure:"ledger_account" yaml:"ledger_account" json:"ledger_account"`
}

func (p AccountPair) String() string {
	return p.IBAN + " to " + p.LedgerAccount
}
