package parser

import (
	"strconv"
	"strings"
	"time"

	"github.com/PeterStieg/esc-odoo-absence-reasons/pkg/roster/models"
	"github.com/xuri/excelize/v2"
)

// ReadGrid reads a sheet of an xlsx workbook into a typed grid.
// Cell values are read raw and classified by cell type and number format,
// so a date header is recognised regardless of how it is displayed.
func ReadGrid(f *excelize.File, sheetName string) (models.Grid, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return models.Grid{}, err
	}

	date1904 := uses1904(f)
	grid := models.Grid{Name: sheetName, Rows: make([][]models.Cell, len(rows))}
	for rowIdx, row := range rows {
		cells := make([]models.Cell, len(row))
		for colIdx, raw := range row {
			if strings.TrimSpace(raw) == "" {
				continue
			}
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				continue
			}
			cells[colIdx] = classifyCell(f, sheetName, cellName, raw, date1904)
		}
		grid.Rows[rowIdx] = cells
	}

	return grid, nil
}

// classifyCell turns a raw cell value into a typed cell.
func classifyCell(f *excelize.File, sheetName, cellName, raw string, date1904 bool) models.Cell {
	cellType, err := f.GetCellType(sheetName, cellName)
	if err != nil {
		cellType = excelize.CellTypeUnset
	}

	switch cellType {
	case excelize.CellTypeDate:
		// ISO 8601 value stored with t="d"
		if t, ok := parseTextDate(raw); ok {
			return models.DateCell(t)
		}
		return models.TextCell(raw)
	case excelize.CellTypeUnset, excelize.CellTypeNumber, excelize.CellTypeFormula:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return models.TextCell(raw)
		}
		if hasDateStyle(f, sheetName, cellName) {
			if t, ok := dateFromSerial(n, date1904); ok {
				return models.DateCell(t)
			}
		}
		return models.NumberCell(n)
	default:
		return classifyLabel(raw)
	}
}

// hasDateStyle reports whether the cell is formatted as a date.
func hasDateStyle(f *excelize.File, sheetName, cellName string) bool {
	styleID, err := f.GetCellStyle(sheetName, cellName)
	if err != nil || styleID == 0 {
		return false
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	return isDateFormat(style.NumFmt, style.CustomNumFmt)
}

// uses1904 reports whether the workbook uses the 1904 date system.
func uses1904(f *excelize.File) bool {
	props, err := f.GetWorkbookProps()
	if err != nil || props.Date1904 == nil {
		return false
	}
	return *props.Date1904
}

// dateFromSerial converts an Excel serial number to a calendar day.
func dateFromSerial(serial float64, date1904 bool) (time.Time, bool) {
	t, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return time.Time{}, false
	}
	return models.CalendarDay(t), true
}
