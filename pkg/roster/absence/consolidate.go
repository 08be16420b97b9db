package absence

import (
	"fmt"
	"sort"
	"time"

	"github.com/PeterStieg/esc-odoo-absence-reasons/pkg/roster/models"
)

// DuplicateMode selects how a repeated date within one employee and type is handled.
type DuplicateMode string

const (
	// DuplicatesAbsorb drops a repeated date; blocks never overlap.
	DuplicatesAbsorb DuplicateMode = "absorb"
	// DuplicatesSplit closes the running block at a repeated date and starts
	// a new one-day block there, as the legacy spreadsheet macro did.
	DuplicatesSplit DuplicateMode = "split"
)

// ParseDuplicateMode validates a duplicate mode name. Empty means absorb.
func ParseDuplicateMode(s string) (DuplicateMode, error) {
	switch DuplicateMode(s) {
	case "", DuplicatesAbsorb:
		return DuplicatesAbsorb, nil
	case DuplicatesSplit:
		return DuplicatesSplit, nil
	default:
		return "", fmt.Errorf("unknown duplicate mode %q (must be absorb or split)", s)
	}
}

type groupKey struct {
	employeeID  int
	absenceType string
}

// Consolidate merges single-day absences into blocks of consecutive days.
// Records are grouped by employee and absence type; within a group a date
// exactly one day after the running block end extends the block, any other
// gap closes it. The output order is unspecified; see SortBlocks.
func Consolidate(days []models.AbsenceDay, mode DuplicateMode) []models.AbsenceBlock {
	if len(days) == 0 {
		return nil
	}

	groups := make(map[groupKey][]time.Time)
	var order []groupKey
	for _, d := range days {
		key := groupKey{employeeID: d.EmployeeID, absenceType: d.AbsenceType}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], models.CalendarDay(d.Date))
	}

	var blocks []models.AbsenceBlock
	for _, key := range order {
		blocks = append(blocks, mergeDates(key, groups[key], mode)...)
	}
	return blocks
}

// mergeDates walks the sorted dates of one group.
func mergeDates(key groupKey, dates []time.Time, mode DuplicateMode) []models.AbsenceBlock {
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	var blocks []models.AbsenceBlock
	emit := func(start, end time.Time) {
		blocks = append(blocks, models.AbsenceBlock{
			EmployeeID:  key.employeeID,
			AbsenceType: key.absenceType,
			Start:       start,
			End:         end,
		})
	}

	start, end := dates[0], dates[0]
	for _, d := range dates[1:] {
		switch {
		case d.Equal(models.NextDay(end)):
			end = d
		case d.Equal(end) && mode != DuplicatesSplit:
			// repeated date, already covered
		default:
			emit(start, end)
			start, end = d, d
		}
	}
	emit(start, end)

	return blocks
}

// SortBlocks orders blocks by employee, start date and absence type.
func SortBlocks(blocks []models.AbsenceBlock) {
	sort.SliceStable(blocks, func(i, j int) bool {
		a, b := blocks[i], blocks[j]
		if a.EmployeeID != b.EmployeeID {
			return a.EmployeeID < b.EmployeeID
		}
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		return a.AbsenceType < b.AbsenceType
	})
}

// Expand returns one single-day record per day covered by the blocks.
func Expand(blocks []models.AbsenceBlock) []models.AbsenceDay {
	var days []models.AbsenceDay
	for _, b := range blocks {
		for d := models.CalendarDay(b.Start); !d.After(b.End); d = d.AddDate(0, 0, 1) {
			days = append(days, models.AbsenceDay{
				EmployeeID:  b.EmployeeID,
				AbsenceType: b.AbsenceType,
				Date:        d,
			})
		}
	}
	return days
}

// Stats computes summary counters over consolidated blocks.
func Stats(blocks []models.AbsenceBlock) models.Stats {
	var st models.Stats
	employees := make(map[int]struct{})
	perType := make(map[string]int)
	for _, b := range blocks {
		employees[b.EmployeeID] = struct{}{}
		perType[b.AbsenceType]++
		if b.SingleDay() {
			st.SingleDayBlocks++
		} else {
			st.MultiDayBlocks++
		}
	}
	st.Employees = len(employees)

	for t, n := range perType {
		st.ByType = append(st.ByType, models.TypeCount{AbsenceType: t, Blocks: n})
	}
	sort.Slice(st.ByType, func(i, j int) bool {
		if st.ByType[i].Blocks != st.ByType[j].Blocks {
			return st.ByType[i].Blocks > st.ByType[j].Blocks
		}
		return st.ByType[i].AbsenceType < st.ByType[j].AbsenceType
	})
	return st
}
