// Package reconcile partitions two canonical transaction collections into
// the transactions only one side knows about and the ones both sides share.
// It is pure: no I/O, no logging, inputs are never modified.
package reconcile

import (
	"sort"

	"github.com/yurifrl/fintszen/pkg/compare"
	"github.com/yurifrl/fintszen/pkg/models"
)

// Pair is one matched key together with the transaction taken from each side.
type Pair struct {
	Key   models.MatchKey
	Left  *models.Transaction
	Right *models.Transaction
}

// Result is the three-way partition. Every collection is sorted ascending by
// match key; equal keys keep their input order.
type Result struct {
	OnlyLeft  []*models.Transaction
	Matched   []Pair
	OnlyRight []*models.Transaction
}

// Reconcile pairs left and right transactions by match key. Duplicate keys
// are paired one to one in encounter order: each left transaction takes the
// first still unmatched right transaction with an equal key.
func Reconcile(left, right []*models.Transaction) *Result {
	// Right-side indices per key, in input order.
	queues := make(map[string][]int, len(right))
	for i, tx := range right {
		k := tx.Key().String()
		queues[k] = append(queues[k], i)
	}

	taken := make([]bool, len(right))
	res := &Result{
		OnlyLeft:  make([]*models.Transaction, 0),
		Matched:   make([]Pair, 0),
		OnlyRight: make([]*models.Transaction, 0),
	}

	for _, lt := range left {
		k := lt.Key()
		ks := k.String()
		q := queues[ks]
		if len(q) == 0 {
			res.OnlyLeft = append(res.OnlyLeft, lt)
			continue
		}
		idx := q[0]
		queues[ks] = q[1:]
		taken[idx] = true
		res.Matched = append(res.Matched, Pair{Key: k, Left: lt, Right: right[idx]})
	}

	for i, rt := range right {
		if !taken[i] {
			res.OnlyRight = append(res.OnlyRight, rt)
		}
	}

	sortTransactions(res.OnlyLeft)
	sortTransactions(res.OnlyRight)
	sort.SliceStable(res.Matched, func(i, j int) bool {
		return compare.Less(res.Matched[i].Key, res.Matched[j].Key)
	})
	return res
}

func sortTransactions(txs []*models.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return compare.Less(txs[i].Key(), txs[j].Key())
	})
}

// InSyncCount returns how many transactions both sides share.
func (r *Result) InSyncCount() int {
	return len(r.Matched)
}

// MissingRightCount returns how many left transactions the right side lacks.
func (r *Result) MissingRightCount() int {
	return len(r.OnlyLeft)
}

// MissingLeftCount returns how many right transactions the left side lacks.
func (r *Result) MissingLeftCount() int {
	return len(r.OnlyRight)
}
