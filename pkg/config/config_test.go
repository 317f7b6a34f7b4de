package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yurifrl/fintszen/pkg/importer"
	"github.com/yurifrl/fintszen/pkg/models"
)

const sample = `
bank:
  accounts:
    - iban: DE01
      file: /tmp/giro.csv
      currency: EUR
ledger:
  token: secret
  withdraw_account: cash-1
accounts:
  - iban: DE01
    ledger_account: acc-1
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fintszen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestBuildAppliesDefaults(t *testing.T) {
	cfg, err := Build(writeConfig(t, sample), nil)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, BackendZenMoney, cfg.Ledger.Backend)
	assert.Equal(t, "bulk", cfg.Mode)
	assert.Equal(t, "Bargeldauszahlung ", cfg.Bank.WithdrawalMarker)
	assert.Equal(t, []string{"VISA "}, cfg.Bank.PayeePrefixes)
	require.Len(t, cfg.Accounts, 1)
	assert.Equal(t, "acc-1", cfg.Accounts[0].LedgerAccount)
	assert.Equal(t, "EUR", cfg.Bank.Accounts[0].Currency)
}

func TestBuildFlagsAndEnvOverride(t *testing.T) {
	t.Setenv("FINTSZEN_LEDGER_WITHDRAW_ACCOUNT", "cash-2")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("mode", "bulk", "")
	flags.String("start", "", "")
	require.NoError(t, flags.Parse([]string{"--mode", "dry-run", "--start", "2024-03-01"}))

	cfg, err := Build(writeConfig(t, sample), flags)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "cash-2", cfg.Ledger.WithdrawAccount)
	settings := cfg.Settings()
	assert.Equal(t, importer.ModeDryRun, settings.Mode)
	assert.Equal(t, "2024-03-01", settings.Window.Start.Format("2006-01-02"))
}

func TestBuildMissingExplicitFile(t *testing.T) {
	_, err := Build(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := &Config{
		Mode: "sometimes",
		Bank: BankConfig{},
		Ledger: LedgerConfig{
			Backend:  BackendYNAB,
			TokenEnv: "FINTSZEN_TEST_UNSET_TOKEN",
		},
		Accounts: []models.AccountPair{{IBAN: "DE01", LedgerAccount: "acc 1"}},
	}

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "sometimes")
	assert.Contains(t, msg, "accounts[0]")
	assert.Contains(t, msg, "withdraw_account")
	assert.Contains(t, msg, "budget_id")
	assert.Contains(t, msg, "FINTSZEN_TEST_UNSET_TOKEN")
}

func TestValidateUnknownStatement(t *testing.T) {
	cfg := Example()
	cfg.Ledger.Token = "x"
	cfg.Accounts = append(cfg.Accounts, models.AccountPair{IBAN: "DE02", LedgerAccount: "acc-2"})

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no bank.accounts entry for DE02")
}

func TestLedgerTokenFromEnv(t *testing.T) {
	t.Setenv("MY_TOKEN", "from-env")
	cfg := &Config{Ledger: LedgerConfig{TokenEnv: "MY_TOKEN"}}
	tok, err := cfg.LedgerToken()
	require.NoError(t, err)
	assert.Equal(t, "from-env", tok)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "fintszen.yaml")
	require.NoError(t, Example().Save(path))
	assert.Error(t, Example().Save(path), "existing config must not be overwritten")

	t.Setenv("ZENMONEY_TOKEN", "tok")
	cfg, err := Build(path, nil)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, Example().Accounts, cfg.Accounts)
	assert.Equal(t, Example().Bank.Accounts, cfg.Bank.Accounts)
}

func TestValidateConnectionIgnoresPairs(t *testing.T) {
	cfg := Example()
	cfg.Ledger.Token = "x"
	cfg.Accounts = nil
	cfg.Ledger.WithdrawAccount = ""

	assert.NoError(t, cfg.ValidateConnection())
	assert.Error(t, cfg.Validate())
}
