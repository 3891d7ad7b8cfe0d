package sheet

import (
	"testing"

	"github.com/ycliao/jobtrack/internal/domain"
	"github.com/ycliao/jobtrack/internal/store"
)

func TestCleanDate(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"already clean", "2025-08-20", "2025-08-20"},
		{"with time", "2025-08-20 14:30:00", "2025-08-20"},
		{"iso with T", "2025-08-20T14:30:00", "2025-08-20"},
		{"slashes", "2025/08/20", "2025-08-20"},
		{"us style", "08/20/2025", "2025-08-20"},
		{"spelled out", "Aug 20, 2025", "2025-08-20"},
		{"day first spelled", "20 Aug 2025", "2025-08-20"},
		{"whitespace", "  2025-08-20  ", "2025-08-20"},
		{"empty", "", ""},
		{"garbage becomes empty", "next week", ""},
		{"wrong order becomes empty", "20/08/2025", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanDate(tc.input); got != tc.expected {
				t.Errorf("CleanDate(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestReconcile(t *testing.T) {
	in := &store.Table{
		// Shuffled order, an unknown column, a missing "position", and
		// sloppy header casing.
		Columns: []string{"Company", "contact_name", "linkedin_url", "contact_date"},
		Rows: [][]string{
			{"PChome", "Sarah Chen", "https://linkedin.com/in/sc", "08/21/2025"},
			{"", "", "", ""},
			{"Cathay", "Wei Lin", "", "not a date"},
		},
	}

	out := Reconcile(in, domain.Networking)

	want := domain.Networking.Columns()
	if len(out.Columns) != len(want) {
		t.Fatalf("expected %d columns, got %v", len(want), out.Columns)
	}
	for i := range want {
		if out.Columns[i] != want[i] {
			t.Fatalf("expected schema column order, got %v", out.Columns)
		}
	}

	// The all-empty row is dropped.
	if len(out.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(out.Rows))
	}

	first := out.Record(out.Rows[0])
	if first["contact_name"] != "Sarah Chen" || first["company"] != "PChome" {
		t.Errorf("row not remapped by column name: %v", first)
	}
	if first["contact_date"] != "2025-08-21" {
		t.Errorf("expected coerced date 2025-08-21, got %q", first["contact_date"])
	}
	if first["position"] != "" {
		t.Errorf("expected missing column to be empty, got %q", first["position"])
	}
	if _, ok := first["linkedin_url"]; ok {
		t.Error("unknown column survived reconciliation")
	}

	second := out.Record(out.Rows[1])
	if second["contact_date"] != "" {
		t.Errorf("expected unparseable date to become empty, got %q", second["contact_date"])
	}
}

func TestReconcileShortRows(t *testing.T) {
	in := &store.Table{
		Columns: []string{"company", "role_title"},
		Rows:    [][]string{{"PChome"}},
	}
	out := Reconcile(in, domain.Applications)
	if len(out.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(out.Rows))
	}
	if rec := out.Record(out.Rows[0]); rec["role_title"] != "" {
		t.Errorf("expected short row to pad, got %q", rec["role_title"])
	}
}
