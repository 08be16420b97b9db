package models

// Stats summarises the consolidated blocks.
type Stats struct {
	// Employees is the number of distinct employee ids.
	Employees int `json:"employees"`
	// MultiDayBlocks counts blocks spanning more than one day.
	MultiDayBlocks int `json:"multi_day_blocks"`
	// SingleDayBlocks counts blocks with start equal to end.
	SingleDayBlocks int `json:"single_day_blocks"`
	// ByType lists block counts per absence type, most frequent first.
	ByType []TypeCount `json:"by_type,omitempty"`
}

// TypeCount is the number of blocks of one absence type.
type TypeCount struct {
	AbsenceType string `json:"absence_type"`
	Blocks      int    `json:"blocks"`
}

// Summary reports per-sheet and total counters of a run.
type Summary struct {
	Sheets      []SheetSummary `json:"sheets"`
	TotalDays   int            `json:"total_days"`
	TotalBlocks int            `json:"total_blocks"`
}

// Reduction returns the percentage of rows saved by consolidation.
// It is zero when no days were found.
func (s Summary) Reduction() float64 {
	if s.TotalDays == 0 {
		return 0
	}
	return (1 - float64(s.TotalBlocks)/float64(s.TotalDays)) * 100
}

// Result is the outcome of a transform run.
type Result struct {
	// BookName is the workbook file name (no path).
	BookName string
	// Blocks holds the consolidated blocks sorted by employee, then start date.
	Blocks  []AbsenceBlock
	Summary Summary
	Stats   Stats
}
