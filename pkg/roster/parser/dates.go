package parser

import (
	"strings"
	"time"
)

// builtInDateFormats lists the built-in number format ids that render a
// calendar date. Pure time formats (18-21, 45-47) are not included.
var builtInDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true,
	32: true, 33: true, 34: true, 35: true, 36: true,
	50: true, 51: true, 52: true, 53: true, 54: true,
	55: true, 56: true, 57: true, 58: true,
}

// isDateFormat reports whether a number format renders values as dates.
func isDateFormat(numFmt int, custom *string) bool {
	if custom != nil && *custom != "" {
		return isDateFormatCode(*custom)
	}
	return builtInDateFormats[numFmt]
}

// isDateFormatCode inspects a custom format code for day or year tokens.
// Quoted literals, escaped characters and bracketed sections are ignored.
func isDateFormatCode(code string) bool {
	var b strings.Builder
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case inQuote:
			if ch == '"' {
				inQuote = false
			}
		case inBracket:
			if ch == ']' {
				inBracket = false
			}
		case ch == '"':
			inQuote = true
		case ch == '[':
			inBracket = true
		case ch == '\\' || ch == '_' || ch == '*':
			i++
		default:
			b.WriteByte(ch)
		}
	}
	stripped := strings.ToLower(b.String())
	if strings.ContainsAny(stripped, "#0?") {
		return false
	}
	return strings.ContainsAny(stripped, "dy")
}

// textDateLayouts are the layouts of ISO 8601 date cell values.
var textDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTextDate parses an ISO 8601 date value. ok is false if s is not a date.
func parseTextDate(s string) (t time.Time, ok bool) {
	for _, layout := range textDateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// parseDayMonth parses a "d.m." date that lacks a year.
func parseDayMonth(s string) (t time.Time, ok bool) {
	if !strings.HasSuffix(s, ".") {
		return time.Time{}, false
	}
	for _, layout := range []string{"2.1.", "02.01."} {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
