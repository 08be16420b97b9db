// Package parser reads roster workbooks into typed cell grids.
package parser

import (
	"regexp"
	"strconv"
)

// DefaultYear is used when a sheet name carries no year.
const DefaultYear = 2026

var sheetYearPattern = regexp.MustCompile(`\b(20\d{2})\b`)

// SheetYear returns the first standalone year 2000-2099 found in a sheet name.
// Examples: "Januar" → fallback, "Januar 2027" → 2027.
func SheetYear(sheetName string, fallback int) int {
	m := sheetYearPattern.FindStringSubmatch(sheetName)
	if m == nil {
		return fallback
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return fallback
	}
	return year
}
