package compare

import (
	"strings"

	"github.com/yurifrl/fintszen/pkg/models"
)

// Equal reports whether two match keys identify the same transaction.
// Amounts are compared numerically, so 50 and 50.00 are equal.
func Equal(a, b models.MatchKey) bool {
	return a.Date == b.Date && a.Currency == b.Currency && a.Amount.Equal(b.Amount)
}

// Keys orders match keys lexicographically by date, amount, then currency.
// Dates are ISO formatted, so string order is calendar order.
func Keys(a, b models.MatchKey) int {
	if c := strings.Compare(a.Date, b.Date); c != 0 {
		return c
	}
	if c := a.Amount.Cmp(b.Amount); c != 0 {
		return c
	}
	return strings.Compare(a.Currency, b.Currency)
}

// Less is Keys(a, b) < 0.
func Less(a, b models.MatchKey) bool {
	return Keys(a, b) < 0
}
