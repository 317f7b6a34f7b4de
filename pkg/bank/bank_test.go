package bank

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTransactions(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "giro.csv")
	content := "17.03.2025;REWE;Einkauf;-23,40\n18.03.2025;ACME;Gehalt;100,00;USD\n"
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))

	s, err := NewSession(log.New(io.Discard), []Statement{{IBAN: "DE01", File: file, Currency: "EUR"}})
	require.NoError(t, err)

	accounts, err := s.Accounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "DE01", accounts[0].IBAN)

	records, err := s.Transactions(context.Background(), "DE01")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "EUR", records[0].Currency)
	assert.Equal(t, "USD", records[1].Currency)

	// Served from cache even after the file is gone.
	require.NoError(t, os.Remove(file))
	again, err := s.Transactions(context.Background(), "DE01")
	require.NoError(t, err)
	assert.Len(t, again, 2)
}

func TestSessionUnknownIBAN(t *testing.T) {
	s, err := NewSession(log.New(io.Discard), nil)
	require.NoError(t, err)
	_, err = s.Transactions(context.Background(), "DE99")
	assert.Error(t, err)
}

func TestSessionDuplicateIBAN(t *testing.T) {
	_, err := NewSession(log.New(io.Discard), []Statement{{IBAN: "DE01"}, {IBAN: "DE01"}})
	assert.Error(t, err)
}
