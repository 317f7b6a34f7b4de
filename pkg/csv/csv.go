package csv

import (
	"bytes"
	"encoding/csv"
)

type Record interface {
	Fields() []string
}

type FilterFunc[T Record] func(T) bool

// Create renders header and every record accepted by filter as CSV. A nil
// filter accepts everything.
func Create[T Record](header []string, records []T, filter FilterFunc[T]) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(header)
	for _, r := range records {
		if filter == nil || filter(r) {
			_ = w.Write(r.Fields())
		}
	}
	w.Flush()
	return buf.Bytes()
}
