// Package output serializes consolidated absence blocks.
package output

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/PeterStieg/esc-odoo-absence-reasons/pkg/roster/models"
)

// Header is the column header of the exported table.
var Header = []string{"Pers_Nr", "Abwesenheitsart", "Start", "Ende"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVOptions configures CSV writing.
type CSVOptions struct {
	// Delimiter separates fields; zero means ','.
	Delimiter rune
	// BOM prefixes the output with a UTF-8 byte order mark for Excel.
	BOM bool
}

// DefaultCSVOptions returns the export defaults: comma separated with BOM.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{Delimiter: ',', BOM: true}
}

// WriteCSV writes the blocks as a delimited table with a header row.
func WriteCSV(w io.Writer, blocks []models.AbsenceBlock, opts CSVOptions) error {
	if opts.BOM {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if opts.Delimiter != 0 {
		writer.Comma = opts.Delimiter
	}

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, b := range blocks {
		if err := writer.Write(Record(b)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// Record renders one block as a table row.
func Record(b models.AbsenceBlock) []string {
	return []string{
		strconv.Itoa(b.EmployeeID),
		b.AbsenceType,
		models.FormatDate(b.Start),
		models.FormatDate(b.End),
	}
}

// ReadCSV reads a table written by WriteCSV. A leading BOM is skipped and
// the delimiter is detected from the header line when delimiter is zero.
func ReadCSV(r io.Reader, delimiter rune) ([]models.AbsenceBlock, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return nil, err
		}
	}

	if delimiter == 0 {
		delimiter = sniffDelimiter(br)
	}

	reader := csv.NewReader(br)
	reader.Comma = delimiter
	reader.FieldsPerRecord = len(Header)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i, col := range Header {
		if !strings.EqualFold(strings.TrimSpace(header[i]), col) {
			return nil, fmt.Errorf("unexpected header column %d: got %q, want %q", i+1, header[i], col)
		}
	}

	var blocks []models.AbsenceBlock
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		b, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

func parseRecord(rec []string) (models.AbsenceBlock, error) {
	id, err := strconv.Atoi(strings.TrimSpace(rec[0]))
	if err != nil {
		return models.AbsenceBlock{}, fmt.Errorf("invalid Pers_Nr %q", rec[0])
	}
	start, err := models.ParseDate(rec[2])
	if err != nil {
		return models.AbsenceBlock{}, err
	}
	end, err := models.ParseDate(rec[3])
	if err != nil {
		return models.AbsenceBlock{}, err
	}
	if end.Before(start) {
		return models.AbsenceBlock{}, fmt.Errorf("end %s before start %s", rec[3], rec[2])
	}
	return models.AbsenceBlock{
		EmployeeID:  id,
		AbsenceType: strings.TrimSpace(rec[1]),
		Start:       start,
		End:         end,
	}, nil
}

// sniffDelimiter picks ';' or tab when the header line uses it, else ','.
func sniffDelimiter(br *bufio.Reader) rune {
	line, _ := br.Peek(256)
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	for _, d := range []byte{';', '\t'} {
		if bytes.IndexByte(line, d) >= 0 && bytes.IndexByte(line, ',') < 0 {
			return rune(d)
		}
	}
	return ','
}

// Filename returns the timestamped export file name.
func Filename(now time.Time) string {
	return fmt.Sprintf("urlaubsplan_consolidated_%s.csv", now.Format("20060102_150405"))
}
