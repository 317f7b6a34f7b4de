package main

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yurifrl/fintszen/pkg/csv"
	"github.com/yurifrl/fintszen/pkg/models"
)

type filters struct {
	minAmount float64
	maxAmount float64
	payee     string
}

// toFilterFunc returns nil when no filter is set.
func (f *filters) toFilterFunc() csv.FilterFunc[*models.Transaction] {
	if f.minAmount == 0 && f.maxAmount == 0 && f.payee == "" {
		return nil
	}
	min := decimal.NewFromFloat(f.minAmount)
	max := decimal.NewFromFloat(f.maxAmount)
	return func(t *models.Transaction) bool {
		if f.minAmount != 0 && t.Amount.LessThan(min) {
			return false
		}
		if f.maxAmount != 0 && t.Amount.GreaterThan(max) {
			return false
		}
		if f.payee != "" && !strings.Contains(strings.ToLower(t.Payee), strings.ToLower(f.payee)) {
			return false
		}
		return true
	}
}
