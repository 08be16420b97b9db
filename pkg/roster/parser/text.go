package parser

import (
	"strings"

	"github.com/PeterStieg/esc-odoo-absence-reasons/pkg/roster/models"
)

// classifyLabel classifies the text of a string cell. A "d.m." label is a
// date whose year comes from the sheet; any other non-blank label is text.
func classifyLabel(s string) models.Cell {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.EmptyCell()
	}
	if t, ok := parseDayMonth(s); ok {
		c := models.DateCell(t)
		c.YearMissing = true
		return c
	}
	return models.TextCell(s)
}
