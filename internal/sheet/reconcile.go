package sheet

import (
	"strings"
	"time"

	"github.com/ycliao/jobtrack/internal/domain"
	"github.com/ycliao/jobtrack/internal/store"
)

// dateLayouts are the formats accepted for date cells on import, in the
// order they are tried. Everything is rewritten as 2006-01-02.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"01-02-06",
}

// CleanDate coerces a cell to YYYY-MM-DD. Values that parse under none
// of the accepted layouts become empty, so a bad date never survives
// into the dataset.
func CleanDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.Format("2006-01-02")
		}
	}
	return ""
}

// Reconcile reshapes an uploaded table into the dataset's schema:
// expected columns that are missing are added empty, unknown columns
// are dropped, the order is fixed to the schema order, date columns are
// coerced, and rows with no content at all are discarded.
func Reconcile(in *store.Table, d domain.Dataset) *store.Table {
	srcIndex := make(map[string]int, len(in.Columns))
	for i, col := range in.Columns {
		srcIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}

	schema := d.Schema()
	out := store.NewTable(d.Columns())

	for _, row := range in.Rows {
		mapped := make([]string, len(schema))
		empty := true
		for fi, f := range schema {
			var v string
			if si, ok := srcIndex[f.Name]; ok && si < len(row) {
				v = strings.TrimSpace(row[si])
			}
			if f.Kind == domain.Date {
				v = CleanDate(v)
			}
			if v != "" {
				empty = false
			}
			mapped[fi] = v
		}
		if empty {
			continue
		}
		out.Rows = append(out.Rows, mapped)
	}
	return out
}
