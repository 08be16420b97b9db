package roster

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/PeterStieg/esc-odoo-absence-reasons/pkg/roster/models"
	"github.com/xuri/excelize/v2"
)

// writeRoster saves a workbook with a January sheet, a sheet without date
// headers and a February sheet named with an explicit year.
func writeRoster(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	jan := "Januar"
	f.SetSheetName(f.GetSheetName(0), jan)
	f.SetCellValue(jan, "A1", "Heute ist")
	for d := 1; d <= 31; d++ {
		cell, _ := excelize.CoordinatesToCellName(d+2, 1)
		f.SetCellValue(jan, cell, time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC))
	}
	f.SetCellValue(jan, "A2", 1418)
	f.SetCellValue(jan, "B2", "Becker, Matthias")
	f.SetCellValue(jan, "AC2", "K") // 27.1.
	f.SetCellValue(jan, "AD2", "K")
	f.SetCellValue(jan, "AE2", "K")
	f.SetCellValue(jan, "AG2", "U") // 31.1.
	f.SetCellValue(jan, "A3", 5)
	f.SetCellValue(jan, "C3", "U")
	f.SetCellValue(jan, "E3", "U")
	f.SetCellValue(jan, "A4", "Summe")
	f.SetCellValue(jan, "C4", "U")

	notes := "Notizen"
	f.NewSheet(notes)
	f.SetCellValue(notes, "A1", "Pers_Nr")
	f.SetCellValue(notes, "C1", "kein Datum")
	f.SetCellValue(notes, "A2", 1418)
	f.SetCellValue(notes, "C2", "U")

	feb := "Februar 2027"
	f.NewSheet(feb)
	f.SetCellValue(feb, "C1", time.Date(2027, 2, 1, 0, 0, 0, 0, time.UTC))
	f.SetCellValue(feb, "D1", time.Date(2027, 2, 2, 0, 0, 0, 0, time.UTC))
	f.SetCellValue(feb, "A2", 1418)
	f.SetCellValue(feb, "C2", "U")
	f.SetCellValue(feb, "D2", "U")

	path := filepath.Join(t.TempDir(), "urlaubsplan.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save roster: %v", err)
	}
	return path
}

func TestTransform(t *testing.T) {
	path := writeRoster(t)

	var progress []Progress
	opts := DefaultOptions()
	opts.Progress = func(p Progress) { progress = append(progress, p) }

	res, err := Transform(path, opts)
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	var got []string
	for _, b := range res.Blocks {
		got = append(got, b.String())
	}
	want := []string{
		"5,U,1.1.2026,1.1.2026",
		"5,U,3.1.2026,3.1.2026",
		"1418,K,27.1.2026,29.1.2026",
		"1418,U,31.1.2026,31.1.2026",
		"1418,U,1.2.2027,2.2.2027",
	}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("Blocks = %v, want %v", got, want)
	}

	if res.BookName != "urlaubsplan.xlsx" {
		t.Errorf("BookName = %q", res.BookName)
	}
	if res.Summary.TotalDays != 8 || res.Summary.TotalBlocks != 5 {
		t.Errorf("TotalDays = %d, TotalBlocks = %d, want 8 and 5", res.Summary.TotalDays, res.Summary.TotalBlocks)
	}

	wantSheets := []models.SheetSummary{
		{Name: "Januar", Year: 2026, Entries: 6, Status: models.SheetOK},
		{Name: "Notizen", Year: 2026, Entries: 0, Status: models.SheetNoDates},
		{Name: "Februar 2027", Year: 2027, Entries: 2, Status: models.SheetOK},
	}
	if fmt.Sprint(res.Summary.Sheets) != fmt.Sprint(wantSheets) {
		t.Errorf("Sheets = %+v, want %+v", res.Summary.Sheets, wantSheets)
	}

	if len(progress) != 3 {
		t.Fatalf("Expected 3 progress reports, got %d", len(progress))
	}
	if progress[2].Index != 3 || progress[2].Total != 3 || progress[2].Sheet != "Februar 2027" || progress[2].Entries != 2 {
		t.Errorf("Unexpected last progress %+v", progress[2])
	}

	if res.Stats.Employees != 2 || res.Stats.MultiDayBlocks != 2 || res.Stats.SingleDayBlocks != 3 {
		t.Errorf("Unexpected stats %+v", res.Stats)
	}
}

func TestTransformJoinsAcrossSheets(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	dec := "Dezember 2026"
	f.SetSheetName(f.GetSheetName(0), dec)
	f.SetCellValue(dec, "C1", time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC))
	f.SetCellValue(dec, "A2", 80)
	f.SetCellValue(dec, "C2", "U")

	jan := "Januar 2027"
	f.NewSheet(jan)
	f.SetCellValue(jan, "C1", time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC))
	f.SetCellValue(jan, "A2", 80)
	f.SetCellValue(jan, "C2", "U")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Failed to write workbook: %v", err)
	}

	res, err := TransformReader(bytes.NewReader(buf.Bytes()), "upload.xlsx", DefaultOptions())
	if err != nil {
		t.Fatalf("TransformReader failed: %v", err)
	}
	if len(res.Blocks) != 1 || res.Blocks[0].String() != "80,U,31.12.2026,1.1.2027" {
		t.Errorf("Blocks = %v", res.Blocks)
	}
}

func TestTransformXLS(t *testing.T) {
	res, err := Transform(filepath.Join("parser", "testdata", "roster.xls"), DefaultOptions())
	if err != nil {
		t.Fatalf("Transform failed: %v", err)
	}

	var got []string
	for _, b := range res.Blocks {
		got = append(got, b.String())
	}
	want := []string{
		"1001,U,1.1.2026,2.1.2026",
		"1001,U,4.1.2026,4.1.2026",
		"1002,K,2.1.2026,3.1.2026",
		"1003,U,3.1.2026,3.1.2026",
	}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("Blocks = %v, want %v", got, want)
	}

	wantSheets := []models.SheetSummary{
		{Name: "Januar 2026", Year: 2026, Entries: 6, Status: models.SheetOK},
		{Name: "Notizen", Year: 2026, Entries: 0, Status: models.SheetNoDates},
	}
	if fmt.Sprint(res.Summary.Sheets) != fmt.Sprint(wantSheets) {
		t.Errorf("Sheets = %+v, want %+v", res.Summary.Sheets, wantSheets)
	}
}

func TestTransformFileNotFound(t *testing.T) {
	_, err := Transform(filepath.Join(t.TempDir(), "missing.xlsx"), DefaultOptions())
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}
}

func TestTransformInvalidFormat(t *testing.T) {
	for _, name := range []string{"broken.xlsx", "broken.xls"} {
		_, err := TransformReader(bytes.NewReader([]byte("not a workbook")), name, DefaultOptions())
		if !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("%s: Expected ErrInvalidFormat, got %v", name, err)
		}
	}
}

type failingSource struct{}

func (failingSource) SheetNames() []string { return []string{"Januar", "Februar"} }

func (failingSource) Grid(sheetName string) (models.Grid, error) {
	if sheetName == "Februar" {
		return models.Grid{}, errors.New("corrupt sheet data")
	}
	return models.Grid{Name: sheetName}, nil
}

func (failingSource) Close() error { return nil }

func TestRunSheetError(t *testing.T) {
	res, err := Run(failingSource{}, "book.xlsx", DefaultOptions())
	if res != nil {
		t.Error("Expected no partial result")
	}
	var sheetErr *SheetError
	if !errors.As(err, &sheetErr) {
		t.Fatalf("Expected SheetError, got %v", err)
	}
	if sheetErr.SheetName != "Februar" {
		t.Errorf("SheetName = %q, want Februar", sheetErr.SheetName)
	}
}

type emptySource struct{}

func (emptySource) SheetNames() []string             { return nil }
func (emptySource) Grid(string) (models.Grid, error) { return models.Grid{}, nil }
func (emptySource) Close() error                     { return nil }

func TestRunEmptyWorkbook(t *testing.T) {
	res, err := Run(emptySource{}, "book.xlsx", Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(res.Blocks) != 0 || res.Summary.TotalDays != 0 || res.Summary.TotalBlocks != 0 {
		t.Errorf("Expected empty result, got %+v", res)
	}
}
