package models

// Grid is the raw content of a single sheet.
// Rows may have different lengths; missing trailing cells are empty.
type Grid struct {
	// Name is the sheet name.
	Name string
	// Rows holds the cells row by row, 0-based.
	Rows [][]Cell
}

// Width returns the number of columns of the widest row.
func (g Grid) Width() int {
	width := 0
	for _, row := range g.Rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// At returns the cell at row r and column c (both 0-based).
// Out of range coordinates yield an empty cell.
func (g Grid) At(r, c int) Cell {
	if r < 0 || r >= len(g.Rows) {
		return Cell{}
	}
	row := g.Rows[r]
	if c < 0 || c >= len(row) {
		return Cell{}
	}
	return row[c]
}

// SheetStatus describes how a sheet was handled.
type SheetStatus string

const (
	// SheetOK means the sheet had a date header and was scanned.
	SheetOK SheetStatus = "ok"
	// SheetNoDates means no date header was found; the sheet contributed nothing.
	SheetNoDates SheetStatus = "no dates found"
)

// SheetSummary reports the outcome for a single sheet.
type SheetSummary struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// Year is the year inferred from the sheet name.
	Year int `json:"year"`
	// Entries is the number of single-day records found.
	Entries int `json:"entries"`
	// Status is the sheet status.
	Status SheetStatus `json:"status"`
}
