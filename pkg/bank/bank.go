// Package bank provides a bank session backed by statement exports, one file
// per IBAN.
package bank

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/fintszen/pkg/models"
	"github.com/yurifrl/fintszen/pkg/parser"
)

// Statement describes where the export of one account lives.
type Statement struct {
	IBAN     string `mapstructure:"iban" yaml:"iban"`
	File     string `mapstructure:"file" yaml:"file"`
	Currency string `mapstructure:"currency" yaml:"currency"`
}

// Path returns the export location with a leading ~ expanded.
func (s Statement) Path() (string, error) {
	if strings.HasPrefix(s.File, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, s.File[2:]), nil
	}
	return s.File, nil
}

// Session serves accounts and raw transactions from statement exports. Each
// file is read once and cached for the lifetime of the session.
type Session struct {
	logger     *log.Logger
	parser     *parser.Parser
	statements map[string]Statement
	order      []string
	cache      map[string][]models.BankRecord
}

func NewSession(logger *log.Logger, statements []Statement) (*Session, error) {
	s := &Session{
		logger:     logger,
		parser:     parser.New(logger),
		statements: make(map[string]Statement, len(statements)),
		cache:      make(map[string][]models.BankRecord),
	}
	for _, st := range statements {
		if _, dup := s.statements[st.IBAN]; dup {
			return nil, fmt.Errorf("duplicate statement for IBAN %s", st.IBAN)
		}
		s.statements[st.IBAN] = st
		s.order = append(s.order, st.IBAN)
	}
	return s, nil
}

// Accounts lists the configured accounts in configuration order.
func (s *Session) Accounts(_ context.Context) ([]models.BankAccount, error) {
	accounts := make([]models.BankAccount, 0, len(s.order))
	for _, iban := range s.order {
		accounts = append(accounts, models.BankAccount{IBAN: iban, Currency: s.statements[iban].Currency})
	}
	return accounts, nil
}

// Transactions returns the raw statement lines of one account. Lines
// without a currency column inherit the configured account currency.
func (s *Session) Transactions(_ context.Context, iban string) ([]models.BankRecord, error) {
	if records, ok := s.cache[iban]; ok {
		return records, nil
	}

	st, ok := s.statements[iban]
	if !ok {
		return nil, fmt.Errorf("no statement configured for IBAN %s", iban)
	}
	path, err := st.Path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read statement file %s: %w", path, err)
	}

	records, err := s.parser.ProcessBytes(data, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to process statement file %s: %w", path, err)
	}

	for i := range records {
		if records[i].Currency == "" {
			records[i].Currency = st.Currency
		}
	}
	s.logger.Debug("loaded statement", "iban", iban, "file", path, "records", len(records))
	s.cache[iban] = records
	return records, nil
}
