package roster

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/PeterStieg/esc-odoo-absence-reasons/pkg/roster/absence"
	"github.com/PeterStieg/esc-odoo-absence-reasons/pkg/roster/models"
	"github.com/PeterStieg/esc-odoo-absence-reasons/pkg/roster/parser"
)

// Transform reads the roster workbook at path and consolidates its absences.
func Transform(path string, opts Options) (*models.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	return TransformReader(bytes.NewReader(data), filepath.Base(path), opts)
}

// TransformReader reads a roster workbook from r. name is the file name and
// selects the reader: ".xls" is read as a legacy workbook, anything else as xlsx.
func TransformReader(r io.ReadSeeker, name string, opts Options) (*models.Result, error) {
	src, err := open(r, name, opts)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return Run(src, filepath.Base(name), opts)
}

func open(r io.ReadSeeker, name string, opts Options) (parser.Source, error) {
	if strings.EqualFold(filepath.Ext(name), ".xls") {
		src, err := parser.OpenXLS(r, opts.xlsCharset())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		return src, nil
	}
	src, err := parser.OpenXLSX(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return src, nil
}

// Run scans every sheet of src in order and consolidates the combined records.
// A sheet that cannot be read aborts the run; no partial result is returned.
func Run(src parser.Source, bookName string, opts Options) (*models.Result, error) {
	res := &models.Result{BookName: bookName}

	names := src.SheetNames()
	var days []models.AbsenceDay
	for i, sheetName := range names {
		grid, err := src.Grid(sheetName)
		if err != nil {
			return nil, NewSheetError(sheetName, err)
		}

		year := parser.SheetYear(sheetName, opts.defaultYear())
		ext := absence.Extract(grid, year)
		days = append(days, ext.Days...)
		res.Summary.Sheets = append(res.Summary.Sheets, ext.Summary)
		res.Summary.TotalDays += ext.Summary.Entries

		if opts.Progress != nil {
			opts.Progress(Progress{
				Index:   i + 1,
				Total:   len(names),
				Sheet:   sheetName,
				Entries: ext.Summary.Entries,
			})
		}
	}

	res.Blocks = Consolidate(days, opts)
	res.Summary.TotalBlocks = len(res.Blocks)
	res.Stats = absence.Stats(res.Blocks)
	return res, nil
}

// Consolidate merges days into blocks and sorts them for presentation.
func Consolidate(days []models.AbsenceDay, opts Options) []models.AbsenceBlock {
	blocks := absence.Consolidate(days, opts.duplicates())
	absence.SortBlocks(blocks)
	return blocks
}
