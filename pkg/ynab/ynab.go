package ynab

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/brunomvsouza/ynab.go"
	"github.com/brunomvsouza/ynab.go/api"
	"github.com/brunomvsouza/ynab.go/api/transaction"
	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	"github.com/yurifrl/fintszen/pkg/models"
)

// instrumentID stands for the single budget currency; YNAB has no
// per-transaction currency.
const instrumentID = 1

const maxMemoLength = 200

// Session exposes one YNAB budget as a ledger. Transfers between budget
// accounts are mapped onto the income/outcome model.
type Session struct {
	client   ynab.ClientServicer
	logger   *log.Logger
	budgetID string
	currency string
}

func New(token, budgetID, currency string, logger *log.Logger) *Session {
	return &Session{
		client:   ynab.NewClient(token),
		logger:   logger,
		budgetID: budgetID,
		currency: strings.ToUpper(currency),
	}
}

func (s *Session) Accounts(_ context.Context) ([]models.LedgerAccount, error) {
	snapshot, err := s.client.Account().GetAccounts(s.budgetID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	var out []models.LedgerAccount
	if snapshot != nil {
		for _, a := range snapshot.Accounts {
			if a.Deleted || a.Closed {
				continue
			}
			out = append(out, models.LedgerAccount{ID: a.ID, Title: a.Name})
		}
	}
	return out, nil
}

func (s *Session) Transactions(_ context.Context, accountID string) ([]models.LedgerRecord, error) {
	txs, err := s.client.Transaction().GetTransactionsByAccount(s.budgetID, accountID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	out := make([]models.LedgerRecord, 0, len(txs))
	for _, tx := range txs {
		out = append(out, record(tx, accountID))
	}
	s.logger.Debug("ledger transactions loaded", "account_id", accountID, "count", len(out))
	return out, nil
}

func (s *Session) Instruments() map[int]string {
	return map[int]string{instrumentID: s.currency}
}

func (s *Session) InstrumentID(currency string) (int, bool) {
	return instrumentID, strings.EqualFold(currency, s.currency)
}

// UserID is always zero: YNAB budgets carry no user reference.
func (s *Session) UserID() int {
	return 0
}

// Suggest returns the transactions unchanged; YNAB has no suggestion API.
func (s *Session) Suggest(_ context.Context, txs []models.Submission) ([]models.Submission, error) {
	out := make([]models.Submission, len(txs))
	copy(out, txs)
	return out, nil
}

// Submit creates all transactions in one API call.
func (s *Session) Submit(_ context.Context, txs []models.Submission) error {
	if len(txs) == 0 {
		return nil
	}
	payloads := make([]transaction.PayloadTransaction, 0, len(txs))
	for _, tx := range txs {
		p, err := payload(tx)
		if err != nil {
			return err
		}
		payloads = append(payloads, p)
	}
	if _, err := s.client.Transaction().CreateTransactions(s.budgetID, payloads); err != nil {
		return fmt.Errorf("failed to create transactions: %w", err)
	}
	return nil
}

// record maps a YNAB transaction seen from accountID. Transfers keep both
// legs; plain transactions use accountID on both sides.
func record(tx *transaction.Transaction, accountID string) models.LedgerRecord {
	amount := decimal.New(tx.Amount, -3)
	other := accountID
	transfer := tx.TransferAccountID != nil && *tx.TransferAccountID != ""
	if transfer {
		other = *tx.TransferAccountID
	}

	rec := models.LedgerRecord{
		ID:                tx.ID,
		Date:              tx.Date.Time,
		Income:            decimal.Zero,
		Outcome:           decimal.Zero,
		IncomeInstrument:  instrumentID,
		OutcomeInstrument: instrumentID,
		Deleted:           tx.Deleted,
	}
	if amount.IsNegative() {
		rec.Outcome = amount.Neg()
		rec.OutcomeAccount = accountID
		rec.IncomeAccount = other
		if transfer {
			rec.Income = rec.Outcome
		}
	} else {
		rec.Income = amount
		rec.IncomeAccount = accountID
		rec.OutcomeAccount = other
		if transfer {
			rec.Outcome = rec.Income
		}
	}
	if tx.PayeeName != nil {
		rec.Payee = *tx.PayeeName
	}
	if tx.Memo != nil {
		rec.Comment = *tx.Memo
	}
	return rec
}

// payload builds the create request for a bank-derived submission. The
// outcome account is always the tracked account for those.
func payload(tx models.Submission) (transaction.PayloadTransaction, error) {
	date, err := api.DateFromString(tx.Date)
	if err != nil {
		return transaction.PayloadTransaction{}, fmt.Errorf("submission %s: %w", tx.ID, err)
	}
	payee := tx.Payee
	memo := truncate(tx.Comment, maxMemoLength)
	return transaction.PayloadTransaction{
		AccountID: tx.OutcomeAccount,
		Date:      date,
		Amount:    tx.SignedAmount(tx.OutcomeAccount).Shift(3).IntPart(),
		Cleared:   transaction.ClearingStatusCleared,
		Approved:  false,
		PayeeName: &payee,
		Memo:      &memo,
	}, nil
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
