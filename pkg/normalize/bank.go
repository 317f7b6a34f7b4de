package normalize

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yurifrl/fintszen/pkg/models"
)

const (
	// DefaultWithdrawalMarker prefixes the payee of ATM cash withdrawals.
	DefaultWithdrawalMarker = "Bargeldauszahlung "
)

// DefaultPayeePrefixes are stripped from payee names after withdrawal handling.
var DefaultPayeePrefixes = []string{"VISA "}

// BankNormalizer turns raw bank statement lines into canonical transactions.
type BankNormalizer struct {
	logger *log.Logger

	WithdrawalMarker string
	PayeePrefixes    []string
	Dates            *DateRecoverer
	// NewID generates transaction identifiers. Defaults to random UUIDs.
	NewID func() string
}

// NewBank creates a bank normalizer with the default payee rules.
func NewBank(logger *log.Logger) *BankNormalizer {
	return &BankNormalizer{
		logger:           logger,
		WithdrawalMarker: DefaultWithdrawalMarker,
		PayeePrefixes:    DefaultPayeePrefixes,
		Dates:            &DateRecoverer{},
		NewID:            uuid.NewString,
	}
}

// Normalize maps one statement line. Lines with a zero amount carry nothing
// for the ledger and are skipped: the second return value is false then.
func (n *BankNormalizer) Normalize(rec models.BankRecord, accountID, withdrawAccountID string) (*models.Transaction, bool) {
	tx := &models.Transaction{
		Origin:         models.OriginBank,
		Amount:         rec.Amount,
		Currency:       rec.Currency,
		Income:         decimal.Zero,
		Outcome:        decimal.Zero,
		IncomeAccount:  accountID,
		OutcomeAccount: accountID,
		Comment:        rec.Purpose,
	}

	payee := rec.ApplicantName
	switch rec.Amount.Sign() {
	case 1:
		tx.Income = rec.Amount
	case -1:
		tx.Outcome = rec.Amount.Neg()
		if n.WithdrawalMarker != "" && strings.HasPrefix(payee, n.WithdrawalMarker) {
			// Cash withdrawals become transfers to the withdrawal account.
			payee = strings.TrimPrefix(payee, n.WithdrawalMarker)
			tx.IncomeAccount = withdrawAccountID
			tx.Income = tx.Outcome
		}
	default:
		return nil, false
	}

	for _, prefix := range n.PayeePrefixes {
		payee = strings.TrimPrefix(payee, prefix)
	}
	tx.Payee = strings.TrimSpace(payee)
	tx.Date = n.dates().Recover(rec.Purpose, rec.Date)
	tx.ID = n.newID()
	return tx, true
}

// NormalizeAll maps every statement line of one account, dropping the
// skipped ones.
func (n *BankNormalizer) NormalizeAll(records []models.BankRecord, accountID, withdrawAccountID string) []*models.Transaction {
	out := make([]*models.Transaction, 0, len(records))
	for _, rec := range records {
		tx, ok := n.Normalize(rec, accountID, withdrawAccountID)
		if !ok {
			n.logger.Debug("skipping zero amount bank line", "date", rec.Date.Format(models.DateLayout), "purpose", rec.Purpose)
			continue
		}
		if !tx.Date.Equal(models.Day(rec.Date)) {
			n.logger.Debug("recovered date from purpose", "booking", rec.Date.Format(models.DateLayout), "date", tx.DateString())
		}
		out = append(out, tx)
	}
	return out
}

func (n *BankNormalizer) dates() *DateRecoverer {
	if n.Dates == nil {
		return defaultRecoverer
	}
	return n.Dates
}

func (n *BankNormalizer) newID() string {
	if n.NewID == nil {
		return uuid.NewString()
	}
	return n.NewID()
}
