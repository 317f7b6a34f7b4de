package executors

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/fintszen/pkg/importer"
	"github.com/yurifrl/fintszen/pkg/models"
	"github.com/yurifrl/fintszen/pkg/normalize"
)

// BankSession hands out raw statement lines per IBAN.
type BankSession interface {
	Accounts(ctx context.Context) ([]models.BankAccount, error)
	Transactions(ctx context.Context, iban string) ([]models.BankRecord, error)
}

// LedgerSession reads ledger entries and accepts new transactions.
type LedgerSession interface {
	Accounts(ctx context.Context) ([]models.LedgerAccount, error)
	Transactions(ctx context.Context, accountID string) ([]models.LedgerRecord, error)
	Instruments() map[int]string
	InstrumentID(currency string) (int, bool)
	UserID() int
	Suggest(ctx context.Context, txs []models.Submission) ([]models.Submission, error)
	importer.Submitter
}

// Settings are the run-wide knobs of an executor.
type Settings struct {
	// WithdrawAccount receives cash withdrawals as transfers.
	WithdrawAccount string
	Mode            importer.Mode
	Window          Window
	// Color enables styled terminal output.
	Color bool
}

type Executor struct {
	logger     *log.Logger
	settings   Settings
	bank       BankSession
	ledger     LedgerSession
	normalizer *normalize.BankNormalizer
	prompter   importer.Prompter
	out        io.Writer
}

type Option func(*Executor)

// WithOutput sends human readable output to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(e *Executor) { e.out = w }
}

// WithPrompter replaces the stdin prompter used in serial mode.
func WithPrompter(p importer.Prompter) Option {
	return func(e *Executor) { e.prompter = p }
}

// WithBankNormalizer replaces the default bank normalizer.
func WithBankNormalizer(n *normalize.BankNormalizer) Option {
	return func(e *Executor) { e.normalizer = n }
}

func New(logger *log.Logger, settings Settings, bank BankSession, ledger LedgerSession, opts ...Option) *Executor {
	e := &Executor{
		logger:     logger,
		settings:   settings,
		bank:       bank,
		ledger:     ledger,
		normalizer: normalize.NewBank(logger),
		out:        os.Stdout,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.prompter == nil {
		e.prompter = importer.NewLinePrompter(os.Stdin, e.out)
	}
	return e
}
