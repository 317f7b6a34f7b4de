package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yurifrl/fintszen/pkg/config"
	"github.com/yurifrl/fintszen/pkg/executors"
	"github.com/yurifrl/fintszen/pkg/service"
)

var (
	cliFilters filters
	cfgFile    string
	noColor    bool
	csvOut     string
)

func newLogger(verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "fintszen",
		Level:           level,
	})
}

// open loads the configuration (config file + env + flag overrides) and
// connects to bank and ledger.
func open(cmd *cobra.Command) (*service.Service, *log.Logger, error) {
	cfg, err := config.Build(cfgFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(cfg.Verbose)
	svc, err := service.Open(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return svc, logger, nil
}

func color() bool {
	return !noColor && os.Getenv("NO_COLOR") == ""
}

var rootCmd = &cobra.Command{
	Use:           "fintszen",
	Short:         "Sync bank statements into a personal finance ledger",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Show help when no subcommand is provided
		return cmd.Help()
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Add bank transactions missing from the ledger",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, _, err := open(cmd)
		if err != nil {
			return err
		}
		return svc.Executor(color()).Apply(cmd.Context(), svc.Config().Accounts)
	},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Preview what sync would do without touching the ledger",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, logger, err := open(cmd)
		if err != nil {
			return err
		}
		reports, err := svc.Executor(color()).Plan(cmd.Context(), svc.Config().Accounts)
		if err != nil {
			return err
		}
		if csvOut == "" {
			return nil
		}

		var buf bytes.Buffer
		if err := executors.WriteCSV(&buf, reports, cliFilters.toFilterFunc()); err != nil {
			return err
		}
		if csvOut == "-" {
			_, err = os.Stdout.Write(buf.Bytes())
			return err
		}
		if err := os.WriteFile(csvOut, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", csvOut, err)
		}
		logger.Info("wrote plan csv", "path", csvOut)
		return nil
	},
}

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List bank and ledger accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		svc, err := service.OpenUnpaired(cmd.Context(), cfg, newLogger(cfg.Verbose))
		if err != nil {
			return err
		}
		return svc.ListAccounts(cmd.Context(), os.Stdout)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}
		if err := config.Example().Save(path); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		fmt.Printf("Config written to %s\n", path)
		return nil
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().StringP("mode", "m", "bulk", "Submission mode: bulk, serial or dry-run")
	rootCmd.PersistentFlags().String("start", "", "Ignore transactions before this date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().String("end", "", "Ignore transactions after this date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	// Flags specific to the plan subcommand
	planCmd.Flags().StringVar(&csvOut, "csv", "", "Write transactions to add as CSV (- for stdout)")
	planCmd.Flags().Float64Var(&cliFilters.minAmount, "min", 0, "Minimum amount for CSV rows")
	planCmd.Flags().Float64Var(&cliFilters.maxAmount, "max", 0, "Maximum amount for CSV rows")
	planCmd.Flags().StringVar(&cliFilters.payee, "payee", "", "Filter CSV rows by payee (case insensitive)")

	rootCmd.AddCommand(syncCmd, planCmd, accountsCmd, initCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
