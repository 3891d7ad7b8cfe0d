package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ycliao/jobtrack/internal/domain"
)

// Store reads and writes the dataset CSV files under a data directory.
// There is one file per dataset; the whole table is rewritten on every
// mutation, matching the size and usage of a personal tracker.
type Store struct {
	dir string
}

// New creates the data directory if needed and returns a store over it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the data directory the store operates on.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(d domain.Dataset) string {
	return filepath.Join(s.dir, d.FileName())
}

// Load reads a dataset file. A missing file yields an empty table with
// the schema columns, so a fresh data directory behaves like four empty
// datasets.
func (s *Store) Load(d domain.Dataset) (*Table, error) {
	f, err := os.Open(s.path(d))
	if os.IsNotExist(err) {
		return NewTable(d.Columns()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", d.FileName(), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate hand-edited files
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", d.FileName(), err)
	}
	if len(records) == 0 {
		return NewTable(d.Columns()), nil
	}

	t := &Table{Columns: records[0], Rows: records[1:]}
	t.normalize()
	return t, nil
}

// Save writes a table to the dataset file. The write goes through a
// temporary file and a rename so a crash never leaves a half-written
// dataset behind.
func (s *Store) Save(d domain.Dataset, t *Table) error {
	tmp, err := os.CreateTemp(s.dir, d.FileName()+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", d.FileName(), err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(t.Columns); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write header for %s: %w", d.FileName(), err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write rows for %s: %w", d.FileName(), err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush %s: %w", d.FileName(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file for %s: %w", d.FileName(), err)
	}
	if err := os.Rename(tmp.Name(), s.path(d)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", d.FileName(), err)
	}
	return nil
}

// Append adds one record to the end of a dataset.
func (s *Store) Append(d domain.Dataset, rec map[string]string) error {
	t, err := s.Load(d)
	if err != nil {
		return err
	}
	t.Rows = append(t.Rows, t.rowFromRecord(rec))
	return s.Save(d, t)
}

// Update replaces the record at the given position.
func (s *Store) Update(d domain.Dataset, index int, rec map[string]string) error {
	t, err := s.Load(d)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(t.Rows) {
		return fmt.Errorf("no %s entry at position %d", d, index)
	}
	t.Rows[index] = t.rowFromRecord(rec)
	return s.Save(d, t)
}

// Delete removes the record at the given position. Later rows shift up,
// which is the whole identity model of these files.
func (s *Store) Delete(d domain.Dataset, index int) error {
	t, err := s.Load(d)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(t.Rows) {
		return fmt.Errorf("no %s entry at position %d", d, index)
	}
	t.Rows = append(t.Rows[:index], t.Rows[index+1:]...)
	return s.Save(d, t)
}

// Replace overwrites a dataset with an imported table.
func (s *Store) Replace(d domain.Dataset, t *Table) error {
	return s.Save(d, t)
}

// AppendAll adds every row of an imported table to the existing
// dataset. The incoming table must already be in schema column order.
func (s *Store) AppendAll(d domain.Dataset, in *Table) error {
	t, err := s.Load(d)
	if err != nil {
		return err
	}
	for _, row := range in.Rows {
		t.Rows = append(t.Rows, t.rowFromRecord(in.Record(row)))
	}
	return s.Save(d, t)
}
