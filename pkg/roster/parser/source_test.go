package parser

import (
	"os"
	"testing"

	"github.com/PeterStieg/esc-odoo-absence-reasons/pkg/roster/models"
)

func openRosterXLS(t *testing.T) *XLSSource {
	t.Helper()

	f, err := os.Open("testdata/roster.xls")
	if err != nil {
		t.Fatalf("Failed to open fixture: %v", err)
	}
	t.Cleanup(func() { f.Close() })

	src, err := OpenXLS(f, "utf-8")
	if err != nil {
		t.Fatalf("OpenXLS failed: %v", err)
	}
	return src
}

func TestXLSSourceSheetNames(t *testing.T) {
	src := openRosterXLS(t)
	defer src.Close()

	names := src.SheetNames()
	if len(names) != 2 || names[0] != "Januar 2026" || names[1] != "Notizen" {
		t.Errorf("Expected [Januar 2026 Notizen], got %v", names)
	}
}

func TestXLSSourceGrid(t *testing.T) {
	src := openRosterXLS(t)
	defer src.Close()

	grid, err := src.Grid("Januar 2026")
	if err != nil {
		t.Fatalf("Grid failed: %v", err)
	}

	tests := []struct {
		cell string
		row  int
		col  int
		kind models.CellKind
		want string
	}{
		{"A1", 0, 0, models.KindText, "Nr"},
		{"B1", 0, 1, models.KindText, "Name"},
		{"C1", 0, 2, models.KindDate, "1.1.2026"}, // NUMBER, built-in format 14
		{"D1", 0, 3, models.KindDate, "2.1.2026"}, // MULRK, custom DD.MM.YYYY
		{"E1", 0, 4, models.KindDate, "3.1.2026"},
		{"F1", 0, 5, models.KindDate, "4.1.2026"}, // formula =E1+1
		{"A2", 1, 0, models.KindNumber, "1001"},
		{"B2", 1, 1, models.KindText, "Meier"},
		{"C2", 1, 2, models.KindText, "U"},
		{"D2", 1, 3, models.KindText, "U"},
		{"E2", 1, 4, models.KindEmpty, ""},
		{"F2", 1, 5, models.KindText, "U"}, // formula ="U"
		{"A3", 2, 0, models.KindNumber, "1002"},
		{"C3", 2, 2, models.KindEmpty, ""},
		{"D3", 2, 3, models.KindText, "K"},
		{"E3", 2, 4, models.KindText, "K"},
		{"A4", 3, 0, models.KindText, "1003"},
		{"E4", 3, 4, models.KindText, "U"},
	}

	for _, tt := range tests {
		got := grid.At(tt.row, tt.col)
		if got.Kind != tt.kind {
			t.Errorf("%s: Expected kind %v, got %v", tt.cell, tt.kind, got.Kind)
		}
		if got.String() != tt.want {
			t.Errorf("%s: Expected %q, got %q", tt.cell, tt.want, got.String())
		}
	}
}

func TestXLSSourceTextOnlySheet(t *testing.T) {
	src := openRosterXLS(t)
	defer src.Close()

	grid, err := src.Grid("Notizen")
	if err != nil {
		t.Fatalf("Grid failed: %v", err)
	}
	if got := grid.At(0, 0); got.Kind != models.KindText || got.Text != "nur Text" {
		t.Errorf("Expected text \"nur Text\", got %v %q", got.Kind, got.String())
	}
	if grid.Width() != 1 {
		t.Errorf("Expected width 1, got %d", grid.Width())
	}
}

func TestXLSSourceMissingSheet(t *testing.T) {
	src := openRosterXLS(t)
	defer src.Close()

	if _, err := src.Grid("Dezember"); err == nil {
		t.Error("Expected error for missing sheet")
	}
}
