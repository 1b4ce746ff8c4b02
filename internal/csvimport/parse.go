// Package csvimport reads actuals from user-supplied CSV files: it parses the
// text, guesses which column feeds which actual field, remembers confirmed
// mappings per header signature and turns rows into import drafts.
package csvimport

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnterminatedQuote is returned when a quoted field is still open at the
// end of the input.
var ErrUnterminatedQuote = errors.New("unterminated quoted field")

const bom = "\uFEFF"

// Parse splits CSV text into records. Fields are comma separated and may be
// quoted with '"', using "" for a literal quote. Carriage returns are
// dropped, a leading BOM is removed and blank lines are skipped.
func Parse(text string) ([][]string, error) {
	records, _, err := ParseLines(text)
	return records, err
}

// ParseLines is Parse that also returns the file line each record starts on.
func ParseLines(text string) ([][]string, []int, error) {
	text = strings.TrimPrefix(text, bom)

	var (
		records    [][]string
		lines      []int
		record     []string
		field      strings.Builder
		inQuotes   bool
		line       = 1
		recordLine = 1
		quoteLine  int
	)

	endRecord := func() {
		record = append(record, field.String())
		field.Reset()
		if len(record) > 1 || record[0] != "" {
			records = append(records, record)
			lines = append(lines, recordLine)
		}
		record = nil
		recordLine = line
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '\r':
			continue
		case c == '"':
			if inQuotes && i+1 < len(text) && text[i+1] == '"' {
				field.WriteByte('"')
				i++
				continue
			}
			if !inQuotes {
				quoteLine = line
			}
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			record = append(record, field.String())
			field.Reset()
		case c == '\n':
			line++
			if inQuotes {
				field.WriteByte(c)
				continue
			}
			endRecord()
		default:
			field.WriteByte(c)
		}
	}

	if inQuotes {
		return nil, nil, fmt.Errorf("line %d: %w", quoteLine, ErrUnterminatedQuote)
	}
	if field.Len() > 0 || len(record) > 0 {
		endRecord()
	}
	return records, lines, nil
}
