// Package service opens the bank and ledger sessions described by a config
// and hands out executors bound to them.
package service

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/fintszen/pkg/bank"
	"github.com/yurifrl/fintszen/pkg/config"
	"github.com/yurifrl/fintszen/pkg/executors"
	"github.com/yurifrl/fintszen/pkg/normalize"
	"github.com/yurifrl/fintszen/pkg/ynab"
	"github.com/yurifrl/fintszen/pkg/zenmoney"
)

type Service struct {
	config *config.Config
	logger *log.Logger

	Bank   executors.BankSession
	Ledger executors.LedgerSession
}

// Open validates cfg and connects to both sides. The ZenMoney backend
// fetches its snapshot here.
func Open(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return open(ctx, cfg, logger)
}

// OpenUnpaired is Open for configs without account pairs yet. Only
// ListAccounts is meaningful on the result.
func OpenUnpaired(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Service, error) {
	if err := cfg.ValidateConnection(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return open(ctx, cfg, logger)
}

func open(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Service, error) {
	bankSession, err := bank.NewSession(logger, cfg.Bank.Accounts)
	if err != nil {
		return nil, err
	}

	ledger, err := openLedger(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	return New(cfg, logger, bankSession, ledger), nil
}

// New wires already opened sessions.
func New(cfg *config.Config, logger *log.Logger, bankSession executors.BankSession, ledger executors.LedgerSession) *Service {
	return &Service{config: cfg, logger: logger, Bank: bankSession, Ledger: ledger}
}

func openLedger(ctx context.Context, cfg *config.Config, logger *log.Logger) (executors.LedgerSession, error) {
	token, err := cfg.LedgerToken()
	if err != nil {
		return nil, err
	}

	switch cfg.Ledger.Backend {
	case config.BackendYNAB:
		logger.Debug("using ynab ledger", "budget_id", cfg.Ledger.BudgetID)
		return ynab.New(token, cfg.Ledger.BudgetID, cfg.Ledger.Currency, logger), nil
	default:
		logger.Debug("using zenmoney ledger", "url", cfg.Ledger.URL, "since", cfg.Ledger.Since)
		client := zenmoney.New(token, zenmoney.WithBaseURL(cfg.Ledger.URL))
		return zenmoney.Open(ctx, client, cfg.Ledger.Since, logger)
	}
}

// Normalizer builds the bank normalizer from the bank section.
func (s *Service) Normalizer() *normalize.BankNormalizer {
	n := normalize.NewBank(s.logger)
	if s.config.Bank.WithdrawalMarker != "" {
		n.WithdrawalMarker = s.config.Bank.WithdrawalMarker
	}
	if s.config.Bank.PayeePrefixes != nil {
		n.PayeePrefixes = s.config.Bank.PayeePrefixes
	}
	return n
}

// Executor returns an executor over the service sessions. opts are applied
// after the config derived ones.
func (s *Service) Executor(color bool, opts ...executors.Option) *executors.Executor {
	settings := s.config.Settings()
	settings.Color = color
	opts = append([]executors.Option{executors.WithBankNormalizer(s.Normalizer())}, opts...)
	return executors.New(s.logger, settings, s.Bank, s.Ledger, opts...)
}

// ListAccounts prints both account lists so pairs can be written into the
// config.
func (s *Service) ListAccounts(ctx context.Context, w io.Writer) error {
	bankAccounts, err := s.Bank.Accounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list bank accounts: %w", err)
	}
	ledgerAccounts, err := s.Ledger.Accounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list ledger accounts: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Bank accounts:")
	for _, a := range bankAccounts {
		fmt.Fprintf(tw, "  %s\t%s\n", a.IBAN, a.Currency)
	}
	fmt.Fprintln(tw, "Ledger accounts:")
	for _, a := range ledgerAccounts {
		fmt.Fprintf(tw, "  %s\t%s\n", a.ID, a.Title)
	}
	return tw.Flush()
}

func (s *Service) Config() *config.Config {
	return s.config
}
