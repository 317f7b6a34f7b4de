package executors

import (
	"context"
	"fmt"

	"github.com/yurifrl/fintszen/pkg/models"
	"github.com/yurifrl/fintszen/pkg/normalize"
	"github.com/yurifrl/fintszen/pkg/reconcile"
)

// Report is the reconciliation of one account pair. The ledger is the left
// side, the bank the right side.
type Report struct {
	Pair   models.AccountPair
	Result *reconcile.Result
}

// OnlyBank returns the bank transactions the ledger is missing.
func (r *Report) OnlyBank() []*models.Transaction {
	return r.Result.OnlyRight
}

// OnlyLedger returns the ledger transactions absent from the bank feed.
func (r *Report) OnlyLedger() []*models.Transaction {
	return r.Result.OnlyLeft
}

// Synced returns how many transactions both sides share.
func (r *Report) Synced() int {
	return r.Result.InSyncCount()
}

// Summary is the per-pair count report.
func (r *Report) Summary() string {
	return fmt.Sprintf("Pair %q.\n"+
		"Amount of transactions only in bank: %d\n"+
		"Amount of transactions only in ledger: %d\n"+
		"Already synced: %d\n",
		r.Pair.String(), len(r.OnlyBank()), len(r.OnlyLedger()), r.Synced())
}

// InstrumentResolver maps a currency code to a ledger instrument ID.
type InstrumentResolver func(currency string) (int, bool)

// Submissions turns the bank-only transactions into ledger records owned by
// user.
func (r *Report) Submissions(user int, instrument InstrumentResolver) ([]models.Submission, error) {
	out := make([]models.Submission, 0, len(r.OnlyBank()))
	for _, tx := range r.OnlyBank() {
		id, ok := instrument(tx.Currency)
		if !ok {
			return nil, fmt.Errorf("pair %s: no ledger instrument for currency %q: %w", r.Pair, tx.Currency, normalize.ErrUnknownInstrument)
		}
		out = append(out, models.NewSubmission(tx, user, id))
	}
	return out, nil
}

// BuildReport normalizes both sides of pair and reconciles them.
func (e *Executor) BuildReport(ctx context.Context, pair models.AccountPair) (*Report, error) {
	ledgerRecords, err := e.ledger.Transactions(ctx, pair.LedgerAccount)
	if err != nil {
		return nil, fmt.Errorf("pair %s: %w", pair, err)
	}
	ledgerTxs, err := normalize.NewLedger(e.logger, e.ledger.Instruments()).NormalizeAll(ledgerRecords, pair.LedgerAccount)
	if err != nil {
		return nil, fmt.Errorf("pair %s: %w", pair, err)
	}

	bankRecords, err := e.bank.Transactions(ctx, pair.IBAN)
	if err != nil {
		return nil, fmt.Errorf("pair %s: %w", pair, err)
	}
	bankTxs := e.normalizer.NormalizeAll(bankRecords, pair.LedgerAccount, e.settings.WithdrawAccount)

	ledgerTxs = e.settings.Window.filter(ledgerTxs)
	bankTxs = e.settings.Window.filter(bankTxs)

	e.logger.Debug("reconciling pair", "pair", pair.String(), "ledger", len(ledgerTxs), "bank", len(bankTxs))
	return &Report{Pair: pair, Result: reconcile.Reconcile(ledgerTxs, bankTxs)}, nil
}

// Reports builds the reports of all pairs in order, stopping at the first
// failure.
func (e *Executor) Reports(ctx context.Context, pairs []models.AccountPair) ([]*Report, error) {
	reports := make([]*Report, 0, len(pairs))
	for _, pair := range pairs {
		r, err := e.BuildReport(ctx, pair)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}
