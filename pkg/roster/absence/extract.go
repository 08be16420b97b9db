// Package absence turns roster grids into single-day absences and merges
// them into contiguous blocks.
package absence

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/PeterStieg/esc-odoo-absence-reasons/pkg/roster/models"
)

const (
	// headerRow holds the date headers.
	headerRow = 0
	// employeeCol holds the employee number.
	employeeCol = 0
	// firstMarkerCol is the first column that may hold a date header.
	// Column 1 carries the employee name and is ignored.
	firstMarkerCol = 2
)

// SheetExtraction is the outcome of scanning one sheet.
type SheetExtraction struct {
	Days    []models.AbsenceDay
	Summary models.SheetSummary
}

// Extract scans a roster grid and returns one record per absence marker.
// year completes header dates that were stored without a year.
// Rows without a usable employee number and cells under a non-date header
// are skipped.
func Extract(grid models.Grid, year int) SheetExtraction {
	res := SheetExtraction{
		Summary: models.SheetSummary{Name: grid.Name, Year: year, Status: models.SheetOK},
	}

	width := grid.Width()
	firstDateCol := findFirstDateColumn(grid, width)
	if firstDateCol < 0 {
		res.Summary.Status = models.SheetNoDates
		return res
	}

	headerDates := make([]time.Time, width)
	hasDate := make([]bool, width)
	for col := firstDateCol; col < width; col++ {
		cell := grid.At(headerRow, col)
		if !cell.IsDate() {
			continue
		}
		headerDates[col] = headerDate(cell, year)
		hasDate[col] = true
	}

	for row := headerRow + 1; row < len(grid.Rows); row++ {
		employeeID, ok := EmployeeID(grid.At(row, employeeCol))
		if !ok {
			continue
		}
		for col := firstDateCol; col < width; col++ {
			marker := grid.At(row, col)
			if marker.IsEmpty() || !hasDate[col] {
				continue
			}
			absenceType := strings.TrimSpace(marker.String())
			if absenceType == "" {
				continue
			}
			res.Days = append(res.Days, models.AbsenceDay{
				EmployeeID:  employeeID,
				AbsenceType: absenceType,
				Date:        headerDates[col],
			})
		}
	}

	res.Summary.Entries = len(res.Days)
	return res
}

// findFirstDateColumn returns the first header column holding a date, or -1.
func findFirstDateColumn(grid models.Grid, width int) int {
	for col := firstMarkerCol; col < width; col++ {
		if grid.At(headerRow, col).IsDate() {
			return col
		}
	}
	return -1
}

func headerDate(cell models.Cell, year int) time.Time {
	if cell.YearMissing {
		return time.Date(year, cell.Date.Month(), cell.Date.Day(), 0, 0, 0, 0, time.UTC)
	}
	return models.CalendarDay(cell.Date)
}

// EmployeeID coerces an employee cell to an integer.
// Numbers are truncated toward zero; text must be a decimal integer.
func EmployeeID(cell models.Cell) (int, bool) {
	switch cell.Kind {
	case models.KindNumber:
		if math.IsNaN(cell.Number) || math.IsInf(cell.Number, 0) {
			return 0, false
		}
		if cell.Number >= math.MaxInt || cell.Number < math.MinInt {
			return 0, false
		}
		return int(cell.Number), true
	case models.KindText:
		id, err := strconv.Atoi(strings.TrimSpace(cell.Text))
		if err != nil {
			return 0, false
		}
		return id, true
	default:
		return 0, false
	}
}
