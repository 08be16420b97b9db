package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the non-zero-padded day.month.year format ("7.1.2026").
const DateLayout = "2.1.2006"

// AbsenceDay is a single day of absence taken from one roster cell.
type AbsenceDay struct {
	EmployeeID  int
	AbsenceType string
	Date        time.Time
}

// AbsenceBlock is a run of consecutive days of one absence type for one employee.
// Start is never after End.
type AbsenceBlock struct {
	EmployeeID  int
	AbsenceType string
	Start       time.Time
	End         time.Time
}

// Days returns the number of calendar days covered by the block.
func (b AbsenceBlock) Days() int {
	return int(b.End.Sub(b.Start).Hours()/24) + 1
}

// SingleDay reports whether the block covers exactly one day.
func (b AbsenceBlock) SingleDay() bool {
	return b.Start.Equal(b.End)
}

func (b AbsenceBlock) String() string {
	return fmt.Sprintf("%d,%s,%s,%s", b.EmployeeID, b.AbsenceType, FormatDate(b.Start), FormatDate(b.End))
}

// CalendarDay strips the clock and location from t, keeping its calendar date.
func CalendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NextDay returns the calendar day after t.
func NextDay(t time.Time) time.Time {
	return CalendarDay(t).AddDate(0, 0, 1)
}

// FormatDate formats t as non-zero-padded d.m.yyyy.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a d.m.yyyy date; zero padding is accepted.
func ParseDate(s string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("invalid date %q: want d.m.yyyy", s)
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
		}
		nums[i] = n
	}
	day, month, year := nums[0], nums[1], nums[2]
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, fmt.Errorf("invalid date %q: out of range", s)
	}
	return t, nil
}
