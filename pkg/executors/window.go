package executors

import (
	"fmt"
	"time"

	"github.com/yurifrl/fintszen/pkg/models"
)

// Window restricts reconciliation to an inclusive date range. Zero bounds
// are open.
type Window struct {
	Start time.Time
	End   time.Time
}

// ParseWindow reads YYYY-MM-DD bounds; empty strings leave a bound open.
func ParseWindow(start, end string) (Window, error) {
	var w Window
	if start != "" {
		t, err := time.Parse(models.DateLayout, start)
		if err != nil {
			return w, fmt.Errorf("invalid start date: %w", err)
		}
		w.Start = t
	}
	if end != "" {
		t, err := time.Parse(models.DateLayout, end)
		if err != nil {
			return w, fmt.Errorf("invalid end date: %w", err)
		}
		w.End = t
	}
	if !w.Start.IsZero() && !w.End.IsZero() && w.End.Before(w.Start) {
		return w, fmt.Errorf("end date %s is before start date %s", end, start)
	}
	return w, nil
}

func (w Window) Contains(t time.Time) bool {
	if !w.Start.IsZero() && t.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && t.After(w.End) {
		return false
	}
	return true
}

func (w Window) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

func (w Window) filter(txs []*models.Transaction) []*models.Transaction {
	if w.IsZero() {
		return txs
	}
	out := make([]*models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if w.Contains(tx.Date) {
			out = append(out, tx)
		}
	}
	return out
}
