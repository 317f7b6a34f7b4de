package executors

import (
	"context"
	"errors"
	"fmt"

	"github.com/k0kubun/pp/v3"

	"github.com/yurifrl/fintszen/pkg/importer"
	"github.com/yurifrl/fintszen/pkg/models"
	"github.com/yurifrl/fintszen/pkg/zenmoney"
)

// Apply syncs every pair in order: reconcile, report, then propose the
// bank-only transactions to the ledger and dispatch them under the
// configured mode. The first error aborts the remaining pairs; pairs that
// already went through stay submitted.
func (e *Executor) Apply(ctx context.Context, pairs []models.AccountPair) error {
	e.logger.Debug("applying pairs", "count", len(pairs), "mode", e.settings.Mode)
	imp := importer.New(e.logger, e.settings.Mode, e.ledger, e.prompter)

	for _, pair := range pairs {
		report, err := e.BuildReport(ctx, pair)
		if err != nil {
			return err
		}

		fmt.Fprint(e.out, report.Summary())
		e.logger.Info("pair reconciled",
			"pair", pair.String(),
			"only_bank", len(report.OnlyBank()),
			"only_ledger", len(report.OnlyLedger()),
			"synced", report.Synced())

		if len(report.OnlyBank()) == 0 {
			continue
		}

		subs, err := report.Submissions(e.ledger.UserID(), e.ledger.InstrumentID)
		if err != nil {
			return err
		}

		suggested, err := e.ledger.Suggest(ctx, subs)
		if err != nil {
			e.logFailure("suggest failed", pair, err)
			return fmt.Errorf("pair %s: suggest: %w", pair, err)
		}

		fmt.Fprintln(e.out, "Transactions to sync:")
		e.prettyPrint(suggested)

		submitted, err := imp.Import(ctx, suggested)
		if err != nil {
			e.logFailure("submission failed", pair, err)
			return fmt.Errorf("pair %s: %w", pair, err)
		}
		e.logger.Info("pair synced", "pair", pair.String(), "submitted", submitted, "mode", imp.Mode())
	}
	return nil
}

// logFailure surfaces the ledger's diagnostic payload when there is one.
func (e *Executor) logFailure(msg string, pair models.AccountPair, err error) {
	var apiErr *zenmoney.APIError
	if errors.As(err, &apiErr) {
		e.logger.Error(msg, "pair", pair.String(), "endpoint", apiErr.Endpoint, "status", apiErr.StatusCode, "payload", string(apiErr.Body))
		return
	}
	e.logger.Error(msg, "pair", pair.String(), "err", err)
}

// submissionView is what gets pretty printed; decimals are rendered as
// strings instead of their internal representation.
type submissionView struct {
	Date           string
	Payee          string
	OriginalPayee  string
	Income         string
	IncomeAccount  string
	Outcome        string
	OutcomeAccount string
	Comment        string
	Tag            []string
}

func (e *Executor) prettyPrint(subs []models.Submission) {
	views := make([]submissionView, 0, len(subs))
	for _, s := range subs {
		views = append(views, submissionView{
			Date:           s.Date,
			Payee:          s.Payee,
			OriginalPayee:  s.OriginalPayee,
			Income:         s.Income.StringFixed(2),
			IncomeAccount:  s.IncomeAccount,
			Outcome:        s.Outcome.StringFixed(2),
			OutcomeAccount: s.OutcomeAccount,
			Comment:        s.Comment,
			Tag:            s.Tag,
		})
	}
	printer := pp.New()
	printer.SetOutput(e.out)
	printer.SetColoringEnabled(e.settings.Color)
	printer.Println(views)
}
