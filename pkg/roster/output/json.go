package output

import (
	"encoding/json"
	"math"

	"github.com/PeterStieg/esc-odoo-absence-reasons/pkg/roster/models"
)

// Row is the exported shape of one block.
type Row struct {
	PersNr          int    `json:"Pers_Nr"`
	Abwesenheitsart string `json:"Abwesenheitsart"`
	Start           string `json:"Start"`
	Ende            string `json:"Ende"`
}

// Report is the JSON document of a transform run.
type Report struct {
	BookName  string         `json:"book_name,omitempty"`
	Summary   models.Summary `json:"summary"`
	Reduction float64        `json:"reduction_percent"`
	Stats     models.Stats   `json:"stats"`
	Rows      []Row          `json:"rows"`
}

// Rows converts blocks to their exported shape.
func Rows(blocks []models.AbsenceBlock) []Row {
	rows := make([]Row, 0, len(blocks))
	for _, b := range blocks {
		rows = append(rows, Row{
			PersNr:          b.EmployeeID,
			Abwesenheitsart: b.AbsenceType,
			Start:           models.FormatDate(b.Start),
			Ende:            models.FormatDate(b.End),
		})
	}
	return rows
}

// NewReport builds the JSON document for a result.
func NewReport(res *models.Result) Report {
	return Report{
		BookName:  res.BookName,
		Summary:   res.Summary,
		Reduction: math.Round(res.Summary.Reduction()*10) / 10,
		Stats:     res.Stats,
		Rows:      Rows(res.Blocks),
	}
}

// ToJSON serializes a result.
func ToJSON(res *models.Result, pretty bool) ([]byte, error) {
	report := NewReport(res)
	if pretty {
		return json.MarshalIndent(report, "", "  ")
	}
	return json.Marshal(report)
}
