// Package roster converts monthly absence roster workbooks into consolidated
// absence blocks.
package roster

import (
	"github.com/PeterStieg/esc-odoo-absence-reasons/pkg/roster/absence"
	"github.com/PeterStieg/esc-odoo-absence-reasons/pkg/roster/parser"
)

// Progress is reported after each sheet has been scanned.
type Progress struct {
	// Index is the 1-based position of the sheet.
	Index int
	// Total is the number of sheets in the workbook.
	Total int
	// Sheet is the sheet name.
	Sheet string
	// Entries is the number of single-day records found in the sheet.
	Entries int
}

// ProgressFunc receives per-sheet progress.
type ProgressFunc func(Progress)

// Options configures a transform run.
type Options struct {
	// DefaultYear is assumed for sheets whose name carries no year.
	// Zero means parser.DefaultYear.
	DefaultYear int
	// Duplicates selects how repeated dates are consolidated.
	// Empty means absence.DuplicatesAbsorb.
	Duplicates absence.DuplicateMode
	// XLSCharset is the string charset of legacy xls workbooks.
	// Empty means "utf-8".
	XLSCharset string
	// Progress, if set, is called after every sheet.
	Progress ProgressFunc
}

// DefaultOptions returns default transform options.
func DefaultOptions() Options {
	return Options{
		DefaultYear: parser.DefaultYear,
		Duplicates:  absence.DuplicatesAbsorb,
		XLSCharset:  "utf-8",
	}
}

func (o Options) defaultYear() int {
	if o.DefaultYear == 0 {
		return parser.DefaultYear
	}
	return o.DefaultYear
}

func (o Options) duplicates() absence.DuplicateMode {
	if o.Duplicates == "" {
		return absence.DuplicatesAbsorb
	}
	return o.Duplicates
}

func (o Options) xlsCharset() string {
	if o.XLSCharset == "" {
		return "utf-8"
	}
	return o.XLSCharset
}
