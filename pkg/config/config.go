package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"

	"github.com/yurifrl/fintszen/pkg/bank"
	"github.com/yurifrl/fintszen/pkg/executors"
	"github.com/yurifrl/fintszen/pkg/importer"
	"github.com/yurifrl/fintszen/pkg/models"
	"github.com/yurifrl/fintszen/pkg/normalize"
	"github.com/yurifrl/fintszen/pkg/zenmoney"
)

const (
	BackendZenMoney = "zenmoney"
	BackendYNAB     = "ynab"

	envPrefix = "FINTSZEN"
	fileName  = "fintszen.yaml"
)

var accountIDPattern = regexp.MustCompile(`^[-a-zA-Z0-9]+$`)

type Config struct {
	Bank     BankConfig           `mapstructure:"bank" yaml:"bank"`
	Ledger   LedgerConfig         `mapstructure:"ledger" yaml:"ledger"`
	Accounts []models.AccountPair `mapstructure:"accounts" yaml:"accounts"`
	Mode     string               `mapstructure:"mode" yaml:"mode"`
	Start    string               `mapstructure:"start" yaml:"start,omitempty"`
	End      string               `mapstructure:"end" yaml:"end,omitempty"`
	Verbose  bool                 `mapstructure:"verbose" yaml:"-"`
}

type BankConfig struct {
	Accounts         []bank.Statement `mapstructure:"accounts" yaml:"accounts"`
	WithdrawalMarker string           `mapstructure:"withdrawal_marker" yaml:"withdrawal_marker"`
	PayeePrefixes    []string         `mapstructure:"payee_prefixes" yaml:"payee_prefixes"`
}

type LedgerConfig struct {
	Backend         string `mapstructure:"backend" yaml:"backend"`
	Token           string `mapstructure:"token" yaml:"token,omitempty"`
	TokenEnv        string `mapstructure:"token_env" yaml:"token_env"`
	Since           int64  `mapstructure:"since" yaml:"since"`
	URL             string `mapstructure:"url" yaml:"url"`
	BudgetID        string `mapstructure:"budget_id" yaml:"budget_id,omitempty"`
	Currency        string `mapstructure:"currency" yaml:"currency,omitempty"`
	WithdrawAccount string `mapstructure:"withdraw_account" yaml:"withdraw_account"`
}

// DefaultPath is where the config lives unless --config says otherwise.
func DefaultPath() string {
	dir := os.Getenv("APPDATA")
	if dir == "" {
		dir = os.Getenv("XDG_CONFIG_HOME")
	}
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fileName
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, fileName)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", string(importer.ModeBulk))
	v.SetDefault("start", "")
	v.SetDefault("end", "")
	v.SetDefault("verbose", false)
	v.SetDefault("bank.withdrawal_marker", normalize.DefaultWithdrawalMarker)
	v.SetDefault("bank.payee_prefixes", normalize.DefaultPayeePrefixes)
	v.SetDefault("ledger.backend", BackendZenMoney)
	v.SetDefault("ledger.token", "")
	v.SetDefault("ledger.token_env", "ZENMONEY_TOKEN")
	v.SetDefault("ledger.since", 1)
	v.SetDefault("ledger.url", zenmoney.DefaultURL)
	v.SetDefault("ledger.budget_id", "")
	v.SetDefault("ledger.currency", "")
	v.SetDefault("ledger.withdraw_account", "")
}

// Build loads .env, the config file, FINTSZEN_* environment variables and
// flags, in increasing order of precedence. An explicit cfgFile must
// exist; the default one may be missing.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := cfgFile
	if path == "" {
		path = DefaultPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if cfgFile != "" || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	return c.validate(true)
}

// ValidateConnection checks only what is needed to reach bank and ledger,
// so accounts can be listed before any pair is configured.
func (c *Config) ValidateConnection() error {
	return c.validate(false)
}

func (c *Config) validate(pairs bool) error {
	var errs []error

	if _, err := importer.ParseMode(c.Mode); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Window(); err != nil {
		errs = append(errs, err)
	}

	statements := make(map[string]bool, len(c.Bank.Accounts))
	for i, st := range c.Bank.Accounts {
		if st.IBAN == "" || st.File == "" {
			errs = append(errs, fmt.Errorf("bank.accounts[%d]: iban and file are required", i))
		}
		statements[st.IBAN] = true
	}

	if pairs && len(c.Accounts) == 0 {
		errs = append(errs, errors.New("accounts: at least one pair is required"))
	}
	for i, p := range c.Accounts {
		if !accountIDPattern.MatchString(p.IBAN) || !accountIDPattern.MatchString(p.LedgerAccount) {
			errs = append(errs, fmt.Errorf("accounts[%d]: iban and ledger_account must match %s", i, accountIDPattern))
			continue
		}
		if !statements[p.IBAN] {
			errs = append(errs, fmt.Errorf("accounts[%d]: no bank.accounts entry for %s", i, p.IBAN))
		}
	}

	if pairs && c.Ledger.WithdrawAccount == "" {
		errs = append(errs, errors.New("ledger.withdraw_account is required"))
	}
	switch c.Ledger.Backend {
	case BackendZenMoney:
	case BackendYNAB:
		if c.Ledger.BudgetID == "" || c.Ledger.Currency == "" {
			errs = append(errs, errors.New("ledger.budget_id and ledger.currency are required for ynab"))
		}
	default:
		errs = append(errs, fmt.Errorf("ledger.backend: unknown backend %q", c.Ledger.Backend))
	}
	if _, err := c.LedgerToken(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// LedgerToken returns ledger.token, or the variable named by
// ledger.token_env.
func (c *Config) LedgerToken() (string, error) {
	if c.Ledger.Token != "" {
		return c.Ledger.Token, nil
	}
	if c.Ledger.TokenEnv != "" {
		if tok := os.Getenv(c.Ledger.TokenEnv); tok != "" {
			return tok, nil
		}
	}
	return "", fmt.Errorf("ledger token missing: set ledger.token or $%s", c.Ledger.TokenEnv)
}

func (c *Config) Window() (executors.Window, error) {
	return executors.ParseWindow(c.Start, c.End)
}

// Settings derives executor settings. Call Validate first.
func (c *Config) Settings() executors.Settings {
	mode, _ := importer.ParseMode(c.Mode)
	window, _ := c.Window()
	return executors.Settings{
		WithdrawAccount: c.Ledger.WithdrawAccount,
		Mode:            mode,
		Window:          window,
	}
}

// Example is the starter config written by the init command.
func Example() *Config {
	return &Config{
		Bank: BankConfig{
			Accounts: []bank.Statement{
				{IBAN: "DE89370400440532013000", File: "~/statements/giro.csv", Currency: "EUR"},
			},
			WithdrawalMarker: normalize.DefaultWithdrawalMarker,
			PayeePrefixes:    normalize.DefaultPayeePrefixes,
		},
		Ledger: LedgerConfig{
			Backend:         BackendZenMoney,
			TokenEnv:        "ZENMONEY_TOKEN",
			Since:           1,
			URL:             zenmoney.DefaultURL,
			WithdrawAccount: "00000000-0000-0000-0000-000000000000",
		},
		Accounts: []models.AccountPair{
			{IBAN: "DE89370400440532013000", LedgerAccount: "00000000-0000-0000-0000-000000000001"},
		},
		Mode: string(importer.ModeBulk),
	}
}

// Save writes c as YAML. Existing files are not overwritten.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(data)
	return err
}
