package parser

import (
	"testing"

	"github.com/PeterStieg/esc-odoo-absence-reasons/pkg/roster/models"
)

func TestClassifyLabel(t *testing.T) {
	tests := []struct {
		input       string
		kind        models.CellKind
		yearMissing bool
		str         string
	}{
		{"", models.KindEmpty, false, ""},
		{"  ", models.KindEmpty, false, ""},
		{"2.3.", models.KindDate, true, "2.3.0000"},
		{"02.03.", models.KindDate, true, "2.3.0000"},
		{"2.3.2026", models.KindText, false, "2.3.2026"},
		{"1418", models.KindText, false, "1418"},
		{" KG ", models.KindText, false, "KG"},
	}

	for _, tt := range tests {
		c := classifyLabel(tt.input)
		if c.Kind != tt.kind {
			t.Errorf("classifyLabel(%q) kind = %v, expected %v", tt.input, c.Kind, tt.kind)
		}
		if c.YearMissing != tt.yearMissing {
			t.Errorf("classifyLabel(%q) yearMissing = %v, expected %v", tt.input, c.YearMissing, tt.yearMissing)
		}
		if c.String() != tt.str {
			t.Errorf("classifyLabel(%q) = %q, expected %q", tt.input, c.String(), tt.str)
		}
	}
}
