package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO calendar date format used everywhere a date is
// rendered or compared.
const DateLayout = "2006-01-02"

// Origin tells which side of the reconciliation a transaction came from.
type Origin int

const (
	OriginBank Origin = iota
	OriginLedger
)

func (o Origin) String() string {
	switch o {
	case OriginBank:
		return "bank"
	case OriginLedger:
		return "ledger"
	default:
		return fmt.Sprintf("origin(%d)", int(o))
	}
}

// Transaction is the canonical shape both bank statement lines and ledger
// entries are normalized into before reconciliation.
type Transaction struct {
	ID     string
	Origin Origin

	// Date is a calendar date at UTC midnight.
	Date     time.Time
	Amount   decimal.Decimal
	Currency string

	Income         decimal.Decimal
	Outcome        decimal.Decimal
	IncomeAccount  string
	OutcomeAccount string

	Payee   string
	Comment string
}

// Day truncates t to its calendar date at UTC midnight.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateString returns the transaction date formatted as YYYY-MM-DD.
func (t *Transaction) DateString() string {
	return t.Date.Format(DateLayout)
}

// Key returns the natural key used to pair transactions across sources.
func (t *Transaction) Key() MatchKey {
	return MatchKey{Date: t.DateString(), Amount: t.Amount, Currency: t.Currency}
}

// IsTransfer reports whether the transaction moves money between two
// different ledger accounts.
func (t *Transaction) IsTransfer() bool {
	return t.IncomeAccount != t.OutcomeAccount
}

func (t *Transaction) String() string {
	return fmt.Sprintf("%s %s %s %q", t.DateString(), t.Amount.StringFixed(2), t.Currency, t.Payee)
}

// MatchKey is the (date, amount, currency) triple. It is not unique: the same
// key may legitimately occur several times on one side.
type MatchKey struct {
	Date     string
	Amount   decimal.Decimal
	Currency string
}

// String renders the key in a form where equal keys produce equal strings,
// regardless of the decimal exponent of the amount.
func (k MatchKey) String() string {
	return fmt.Sprintf("%s|%s|%s", k.Date, k.Amount.String(), k.Currency)
}

// CSVHeader names the columns produced by Transaction.Fields.
var CSVHeader = []string{"Date", "Payee", "Comment", "Amount", "Currency", "ID"}

func (t *Transaction) Fields() []string {
	return []string{t.DateString(), t.Payee, t.Comment, t.Amount.StringFixed(2), t.Currency, t.ID}
}
