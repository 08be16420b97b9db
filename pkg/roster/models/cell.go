// Package models defines data structures for roster extraction and consolidation.
package models

import (
	"strconv"
	"time"
)

// CellKind tags the variant held by a Cell.
type CellKind int

const (
	// KindEmpty is a blank cell.
	KindEmpty CellKind = iota
	// KindDate is a cell holding a calendar date.
	KindDate
	// KindText is a cell holding free text.
	KindText
	// KindNumber is a cell holding a numeric value.
	KindNumber
)

func (k CellKind) String() string {
	switch k {
	case KindDate:
		return "date"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	default:
		return "empty"
	}
}

// Cell is a single grid value as read from a sheet.
type Cell struct {
	// Kind selects which of the value fields is meaningful.
	Kind CellKind
	// Text is the value of a text cell.
	Text string
	// Number is the value of a numeric cell.
	Number float64
	// Date is the value of a date cell, at midnight UTC.
	Date time.Time
	// YearMissing marks a date written as day and month only.
	YearMissing bool
}

// EmptyCell returns a blank cell.
func EmptyCell() Cell { return Cell{} }

// TextCell returns a text cell.
func TextCell(s string) Cell { return Cell{Kind: KindText, Text: s} }

// NumberCell returns a numeric cell.
func NumberCell(n float64) Cell { return Cell{Kind: KindNumber, Number: n} }

// DateCell returns a date cell truncated to the calendar day.
func DateCell(t time.Time) Cell { return Cell{Kind: KindDate, Date: CalendarDay(t)} }

// IsEmpty reports whether the cell is blank.
func (c Cell) IsEmpty() bool { return c.Kind == KindEmpty }

// IsDate reports whether the cell holds a date.
func (c Cell) IsDate() bool { return c.Kind == KindDate }

// String renders the cell value as text.
// Numbers use the shortest decimal form, dates use FormatDate.
func (c Cell) String() string {
	switch c.Kind {
	case KindText:
		return c.Text
	case KindNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case KindDate:
		return FormatDate(c.Date)
	default:
		return ""
	}
}
