package store

// Table is an in-memory copy of one dataset file: a header and the rows
// beneath it. Every cell is a string; rows are always as wide as the
// header. A row's index in Rows is its only identity.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable returns an empty table with the given header.
func NewTable(columns []string) *Table {
	return &Table{Columns: columns}
}

// ColumnIndex returns the position of a column, or -1 if absent.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Record converts a row into a column name to value map.
func (t *Table) Record(row []string) map[string]string {
	rec := make(map[string]string, len(t.Columns))
	for i, col := range t.Columns {
		if i < len(row) {
			rec[col] = row[i]
		} else {
			rec[col] = ""
		}
	}
	return rec
}

// rowFromRecord lays a record out in the table's column order. Columns
// missing from the record become empty cells.
func (t *Table) rowFromRecord(rec map[string]string) []string {
	row := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		row[i] = rec[col]
	}
	return row
}

// normalize pads or truncates every row to the header width.
func (t *Table) normalize() {
	for i, row := range t.Rows {
		switch {
		case len(row) < len(t.Columns):
			padded := make([]string, len(t.Columns))
			copy(padded, row)
			t.Rows[i] = padded
		case len(row) > len(t.Columns):
			t.Rows[i] = row[:len(t.Columns)]
		}
	}
}
