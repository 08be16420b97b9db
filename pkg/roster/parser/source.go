package parser

import (
	"fmt"
	"io"

	"github.com/PeterStieg/esc-odoo-absence-reasons/pkg/roster/models"
	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Source gives sequential access to the sheets of an opened workbook.
type Source interface {
	// SheetNames returns the sheet names in workbook order.
	SheetNames() []string
	// Grid reads the named sheet.
	Grid(sheetName string) (models.Grid, error)
	// Close releases the workbook.
	Close() error
}

// XLSXSource reads sheets from an xlsx workbook.
type XLSXSource struct {
	f *excelize.File
}

// OpenXLSX opens an xlsx workbook from r.
func OpenXLSX(r io.Reader) (*XLSXSource, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	return &XLSXSource{f: f}, nil
}

func (s *XLSXSource) SheetNames() []string { return s.f.GetSheetList() }

func (s *XLSXSource) Grid(sheetName string) (models.Grid, error) {
	return ReadGrid(s.f, sheetName)
}

func (s *XLSXSource) Close() error { return s.f.Close() }

// XLSSource reads sheets from a legacy BIFF (.xls) workbook.
// String cells are decoded by the xls reader; numbers, dates and formula
// results come from a typed scan of the same workbook stream.
type XLSSource struct {
	wb    *xls.WorkBook
	book  *biffBook
	index map[string]int
	names []string
}

// OpenXLS opens a legacy workbook from r using the given string charset.
func OpenXLS(r io.ReadSeeker, charset string) (src *XLSSource, err error) {
	// the BIFF and OLE2 readers panic on some truncated or malformed files
	defer recoverMalformed(&err)

	wb, err := xls.OpenReader(r, charset)
	if err != nil {
		return nil, err
	}
	if wb == nil {
		return nil, fmt.Errorf("empty workbook")
	}
	s := &XLSSource{wb: wb, index: make(map[string]int)}
	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		s.index[sheet.Name] = i
		s.names = append(s.names, sheet.Name)
	}

	data, err := readWorkbookStream(r)
	if err != nil {
		return nil, fmt.Errorf("read workbook stream: %w", err)
	}
	if s.book, err = scanBIFF(data); err != nil {
		return nil, err
	}
	if len(s.book.sheets) != wb.NumSheets() {
		return nil, fmt.Errorf("workbook lists %d sheets, found %d", wb.NumSheets(), len(s.book.sheets))
	}
	return s, nil
}

func (s *XLSSource) SheetNames() []string { return s.names }

func (s *XLSSource) Grid(sheetName string) (grid models.Grid, err error) {
	defer recoverMalformed(&err)

	i, ok := s.index[sheetName]
	if !ok {
		return models.Grid{}, fmt.Errorf("sheet %q does not exist", sheetName)
	}
	sheet := s.wb.GetSheet(i)
	if sheet == nil {
		return models.Grid{}, fmt.Errorf("sheet %q could not be read", sheetName)
	}
	typed := s.book.sheets[i]

	grid = models.Grid{Name: sheetName, Rows: make([][]models.Cell, typed.rows)}
	for ref := range typed.cells {
		if n := ref.col + 1; n > len(grid.Rows[ref.row]) {
			grid.Rows[ref.row] = append(grid.Rows[ref.row], make([]models.Cell, n-len(grid.Rows[ref.row]))...)
		}
	}
	for ref, c := range typed.cells {
		if c.kind == biffLabel {
			grid.Rows[ref.row][ref.col] = classifyLabel(sharedString(sheet, ref.row, ref.col))
			continue
		}
		grid.Rows[ref.row][ref.col] = s.book.cell(c)
	}
	return grid, nil
}

// Close is a no-op; the legacy reader holds no resources after opening.
func (s *XLSSource) Close() error { return nil }

// sharedString resolves a string cell through the xls reader, which panics
// on rows it did not load.
func sharedString(sheet *xls.WorkSheet, row, col int) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()
	return sheet.Row(row).Col(col)
}

func recoverMalformed(err *error) {
	if p := recover(); p != nil {
		*err = fmt.Errorf("malformed xls workbook: %v", p)
	}
}
