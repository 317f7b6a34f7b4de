package executors

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/yurifrl/fintszen/pkg/compare"
	"github.com/yurifrl/fintszen/pkg/csv"
	"github.com/yurifrl/fintszen/pkg/models"
)

var (
	syncedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray
	addedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	ledgerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow
)

type planLine struct {
	key    models.MatchKey
	marker string
	tx     *models.Transaction
	style  lipgloss.Style
}

// Plan reconciles every pair and prints a preview without touching the
// ledger. Lines start with "=" when already synced, "+" when the bank
// transaction would be added and "-" when only the ledger has it.
func (e *Executor) Plan(ctx context.Context, pairs []models.AccountPair) ([]*Report, error) {
	reports, err := e.Reports(ctx, pairs)
	if err != nil {
		return nil, err
	}
	for _, r := range reports {
		e.logger.Debug("processing plan report", "pair", r.Pair.String(), "in_sync", r.Synced(), "to_add", len(r.OnlyBank()))
		e.printReport(r)
	}
	return reports, nil
}

func (e *Executor) printReport(r *Report) {
	lines := make([]planLine, 0, r.Synced()+len(r.OnlyBank())+len(r.OnlyLedger()))
	for _, m := range r.Result.Matched {
		lines = append(lines, planLine{key: m.Key, marker: "=", tx: m.Right, style: syncedStyle})
	}
	for _, tx := range r.OnlyBank() {
		lines = append(lines, planLine{key: tx.Key(), marker: "+", tx: tx, style: addedStyle})
	}
	for _, tx := range r.OnlyLedger() {
		lines = append(lines, planLine{key: tx.Key(), marker: "-", tx: tx, style: ledgerStyle})
	}
	sort.SliceStable(lines, func(i, j int) bool { return compare.Less(lines[i].key, lines[j].key) })

	fmt.Fprintf(e.out, "Pair %s\n", r.Pair)
	for _, l := range lines {
		text := fmt.Sprintf("%s %s | %-30s | %10s %s", l.marker, l.tx.DateString(), l.tx.Payee, l.tx.Amount.StringFixed(2), l.tx.Currency)
		if e.settings.Color {
			text = l.style.Render(text)
		}
		fmt.Fprintln(e.out, text)
	}

	if len(r.OnlyBank()) == 0 {
		fmt.Fprintf(e.out, "\nPlan: All %d transaction(s) are in sync\n\n", r.Synced())
		return
	}
	fmt.Fprintf(e.out, "\nPlan: %d transaction(s) will be added, %d already in sync, %d only in ledger\n\n",
		len(r.OnlyBank()), r.Synced(), len(r.OnlyLedger()))
}

// WriteCSV writes the bank-only transactions of all reports accepted by
// filter as CSV.
func WriteCSV(w io.Writer, reports []*Report, filter csv.FilterFunc[*models.Transaction]) error {
	var txs []*models.Transaction
	for _, r := range reports {
		txs = append(txs, r.OnlyBank()...)
	}
	_, err := w.Write(csv.Create(models.CSVHeader, txs, filter))
	return err
}
