package parser

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"unicode/utf16"

	"github.com/PeterStieg/esc-odoo-absence-reasons/pkg/roster/models"
	"github.com/extrame/ole2"
)

// BIFF record identifiers read by scanBIFF.
const (
	recFormula    = 0x0006
	recEOF        = 0x000A
	recDateMode   = 0x0022
	recBoundSheet = 0x0085
	recMulRK      = 0x00BD
	recXF         = 0x00E0
	recLabelSST   = 0x00FD
	recNumber     = 0x0203
	recLabel      = 0x0204
	recBoolErr    = 0x0205
	recString     = 0x0207
	recRK         = 0x027E
	recFormat     = 0x041E
	recBOF        = 0x0809
)

const biff8Version = 0x0600

type biffKind uint8

const (
	biffNumber biffKind = iota + 1
	// biffLabel is a string cell; its text is resolved by the xls reader.
	biffLabel
	biffString
	biffBool
)

// biffCell is a typed cell value recovered from a worksheet record.
type biffCell struct {
	kind   biffKind
	number float64
	text   string
	xf     uint16
}

type cellRef struct {
	row, col int
}

type biffSheet struct {
	cells map[cellRef]biffCell
	rows  int
}

func (s *biffSheet) set(row, col int, c biffCell) {
	s.cells[cellRef{row, col}] = c
	if row+1 > s.rows {
		s.rows = row + 1
	}
}

// biffBook holds the typed cells of every sheet plus the number format
// tables needed to tell dates from plain numbers.
type biffBook struct {
	biff8     bool
	date1904  bool
	formats   map[uint16]string
	xfFormats []uint16
	sheets    []*biffSheet
	// sheetAt maps the stream offset of a worksheet BOF to its sheet index.
	sheetAt map[int]int
}

// readWorkbookStream returns the BIFF workbook stream of an OLE2 file.
func readWorkbookStream(r io.ReadSeeker) ([]byte, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	ole, err := ole2.Open(r, "utf-8")
	if err != nil {
		return nil, err
	}
	dir, err := ole.ListDir()
	if err != nil {
		return nil, err
	}

	var book, root *ole2.File
	for _, file := range dir {
		switch file.Name() {
		case "Workbook", "Book":
			book = file
		case "Root Entry":
			root = file
		}
	}
	if book == nil || root == nil {
		return nil, fmt.Errorf("no workbook stream")
	}

	data, err := io.ReadAll(ole.OpenFile(book, root))
	if err != nil {
		return nil, err
	}
	if len(data) > int(book.Size) {
		data = data[:book.Size]
	}
	return data, nil
}

// scanBIFF walks the records of a workbook stream and collects the typed
// cell values of each worksheet, in BOUNDSHEET order.
func scanBIFF(data []byte) (*biffBook, error) {
	book := &biffBook{biff8: true, formats: make(map[uint16]string), sheetAt: make(map[int]int)}

	var cur *biffSheet
	depth := 0
	var pending *cellRef

	for off := 0; off+4 <= len(data); {
		start := off
		id := binary.LittleEndian.Uint16(data[off:])
		size := int(binary.LittleEndian.Uint16(data[off+2:]))
		off += 4
		if off+size > len(data) {
			return nil, fmt.Errorf("record 0x%04X at offset %d overruns the stream", id, start)
		}
		rec := data[off : off+size]
		off += size

		switch id {
		case recBOF:
			if i, ok := book.sheetAt[start]; ok {
				cur, depth = book.sheets[i], 1
			} else if depth > 0 {
				depth++
			} else if start == 0 && len(rec) >= 2 {
				book.biff8 = binary.LittleEndian.Uint16(rec) == biff8Version
			}
			continue
		case recEOF:
			if depth > 0 {
				depth--
				if depth == 0 {
					cur, pending = nil, nil
				}
			}
			continue
		}

		if depth == 0 {
			book.global(id, rec)
			continue
		}
		if depth != 1 || cur == nil {
			continue
		}

		switch id {
		case recNumber:
			if len(rec) >= 14 {
				cur.set(u16(rec, 0), u16(rec, 2), biffCell{
					kind:   biffNumber,
					number: math.Float64frombits(binary.LittleEndian.Uint64(rec[6:])),
					xf:     uint16(u16(rec, 4)),
				})
			}
		case recRK:
			if len(rec) >= 10 {
				cur.set(u16(rec, 0), u16(rec, 2), biffCell{
					kind:   biffNumber,
					number: rkValue(binary.LittleEndian.Uint32(rec[6:])),
					xf:     uint16(u16(rec, 4)),
				})
			}
		case recMulRK:
			if len(rec) >= 6 {
				row, first := u16(rec, 0), u16(rec, 2)
				for i, p := 0, 4; p+6 <= len(rec)-2; i, p = i+1, p+6 {
					cur.set(row, first+i, biffCell{
						kind:   biffNumber,
						number: rkValue(binary.LittleEndian.Uint32(rec[p+2:])),
						xf:     uint16(u16(rec, p)),
					})
				}
			}
		case recFormula:
			pending = nil
			if len(rec) < 14 {
				continue
			}
			row, col, xf := u16(rec, 0), u16(rec, 2), uint16(u16(rec, 4))
			result := rec[6:14]
			if result[6] != 0xFF || result[7] != 0xFF {
				cur.set(row, col, biffCell{
					kind:   biffNumber,
					number: math.Float64frombits(binary.LittleEndian.Uint64(result)),
					xf:     xf,
				})
				continue
			}
			switch result[0] {
			case 0x00:
				pending = &cellRef{row, col}
			case 0x01:
				cur.set(row, col, biffCell{kind: biffBool, number: float64(result[2]), xf: xf})
			}
		case recString:
			if pending != nil {
				text := book.decodeString(rec, 2)
				cur.set(pending.row, pending.col, biffCell{kind: biffString, text: text})
				pending = nil
			}
		case recLabelSST, recLabel:
			if len(rec) >= 6 {
				cur.set(u16(rec, 0), u16(rec, 2), biffCell{kind: biffLabel, xf: uint16(u16(rec, 4))})
			}
		case recBoolErr:
			if len(rec) >= 8 && rec[7] == 0 {
				cur.set(u16(rec, 0), u16(rec, 2), biffCell{kind: biffBool, number: float64(rec[6]), xf: uint16(u16(rec, 4))})
			}
		}
	}

	return book, nil
}

// global handles a record of the workbook globals substream.
func (b *biffBook) global(id uint16, rec []byte) {
	switch id {
	case recDateMode:
		if len(rec) >= 2 {
			b.date1904 = u16(rec, 0) == 1
		}
	case recFormat:
		if len(rec) < 3 {
			return
		}
		var code string
		if b.biff8 {
			code = b.decodeString(rec[2:], 2)
		} else {
			code = b.decodeString(rec[2:], 1)
		}
		b.formats[uint16(u16(rec, 0))] = code
	case recXF:
		if len(rec) >= 4 {
			b.xfFormats = append(b.xfFormats, uint16(u16(rec, 2)))
		}
	case recBoundSheet:
		if len(rec) >= 4 {
			b.sheetAt[int(binary.LittleEndian.Uint32(rec))] = len(b.sheets)
			b.sheets = append(b.sheets, &biffSheet{cells: make(map[cellRef]biffCell)})
		}
	}
}

// decodeString reads a length-prefixed string. lenSize is the width of the
// character count in bytes; BIFF8 strings carry an encoding flag after it.
func (b *biffBook) decodeString(rec []byte, lenSize int) string {
	if len(rec) < lenSize {
		return ""
	}
	n := int(rec[0])
	if lenSize == 2 {
		n = u16(rec, 0)
	}
	rest := rec[lenSize:]

	if !b.biff8 {
		if n > len(rest) {
			n = len(rest)
		}
		return latin1(rest[:n])
	}
	if len(rest) < 1 {
		return ""
	}
	flags, rest := rest[0], rest[1:]
	if flags&0x01 == 0 {
		if n > len(rest) {
			n = len(rest)
		}
		return latin1(rest[:n])
	}
	if 2*n > len(rest) {
		n = len(rest) / 2
	}
	units := make([]uint16, n)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(rest[2*i:])
	}
	return string(utf16.Decode(units))
}

// isDate reports whether the given XF applies a date number format.
func (b *biffBook) isDate(xf uint16) bool {
	if int(xf) >= len(b.xfFormats) {
		return false
	}
	id := b.xfFormats[xf]
	if code, ok := b.formats[id]; ok {
		return isDateFormat(int(id), &code)
	}
	return isDateFormat(int(id), nil)
}

// cell converts a non-label value to a grid cell.
func (b *biffBook) cell(c biffCell) models.Cell {
	switch c.kind {
	case biffNumber:
		if b.isDate(c.xf) {
			if t, ok := dateFromSerial(c.number, b.date1904); ok {
				return models.DateCell(t)
			}
		}
		return models.NumberCell(c.number)
	case biffString:
		return classifyLabel(c.text)
	case biffBool:
		if c.number != 0 {
			return models.TextCell("TRUE")
		}
		return models.TextCell("FALSE")
	default:
		return models.EmptyCell()
	}
}

// rkValue decodes an RK number: a 30-bit integer or the high bits of a
// double, optionally divided by 100.
func rkValue(rk uint32) float64 {
	var v float64
	if rk&0x02 != 0 {
		v = float64(int32(rk) >> 2)
	} else {
		v = math.Float64frombits(uint64(rk&0xFFFFFFFC) << 32)
	}
	if rk&0x01 != 0 {
		v /= 100
	}
	return v
}

func u16(b []byte, off int) int {
	return int(binary.LittleEndian.Uint16(b[off:]))
}

func latin1(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
