package csvimport

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/topsheet/internal/common"
	"github.com/Veraticus/topsheet/internal/model"
)

// SourceCSV marks drafts read from a CSV file.
const SourceCSV = "csv"

// Draft conversion errors.
var (
	ErrEmptyValue    = errors.New("value is empty")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
)

// RowError is a problem with one data row. Row is the 1-based line of the
// record in the file.
type RowError struct {
	Err   error
	Field Field
	Row   int
}

func (e *RowError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("row %d: %s: %v", e.Row, e.Field.Label(), e.Err)
	}
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"01-02-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"20060102",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate reads a date in one of the common spreadsheet layouts and
// returns it as YYYY-MM-DD.
func ParseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyValue
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// ParseAmount reads a money value. Currency symbols, thousands separators
// and spaces are ignored; parentheses or a trailing minus mean negative.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrEmptyValue
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case '$', '\u20ac', '\u00a3', '\u00a5', ',', ' ', '\u00a0':
			return -1
		}
		return r
	}, s)
	if strings.HasSuffix(s, "-") {
		negative = !negative
		s = strings.TrimSuffix(s, "-")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// SplitTags splits a tag cell on commas, semicolons or pipes.
func SplitTags(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == '|'
	})
	var tags []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// BuildDrafts converts data rows to drafts. lines[i] is the file line rows[i]
// starts on; rows without one are numbered from 1. Rows with problems are
// reported as RowErrors and skipped; blank rows are ignored. A mapping
// without the required fields is an error.
func BuildDrafts(rows [][]string, m Mapping, lines []int) ([]model.ActualDraft, []*RowError, error) {
	if missing := m.Missing(); len(missing) > 0 {
		labels := make([]string, len(missing))
		for i, f := range missing {
			labels[i] = f.Label()
		}
		return nil, nil, fmt.Errorf("%w: %s", common.ErrMissingMapping, strings.Join(labels, ", "))
	}

	var drafts []model.ActualDraft
	var rowErrs []*RowError
	for i, row := range rows {
		if blank(row) {
			continue
		}
		rowNum := i + 1
		if i < len(lines) {
			rowNum = lines[i]
		}
		draft, rowErr := buildDraft(row, m, rowNum)
		if rowErr != nil {
			rowErrs = append(rowErrs, rowErr)
			continue
		}
		drafts = append(drafts, draft)
	}
	return drafts, rowErrs, nil
}

func buildDraft(row []string, m Mapping, rowNum int) (model.ActualDraft, *RowError) {
	cell := func(f Field) string {
		col, ok := m[f]
		if !ok || col >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[col])
	}

	draft := model.ActualDraft{
		Description:     cell(FieldDescription),
		AccountID:       cell(FieldAccountID),
		Ref:             cell(FieldRef),
		PayID:           cell(FieldPayID),
		Status:          cell(FieldStatus),
		Notes:           cell(FieldNotes),
		PurchaseOrderID: cell(FieldPurchaseOrderID),
		Tags:            SplitTags(cell(FieldTags)),
		Source:          SourceCSV,
		Row:             rowNum,
	}
	if draft.Description == "" {
		return draft, &RowError{Row: rowNum, Field: FieldDescription, Err: ErrEmptyValue}
	}

	amount, err := ParseAmount(cell(FieldAmount))
	if err != nil {
		return draft, &RowError{Row: rowNum, Field: FieldAmount, Err: err}
	}
	draft.Amount = amount

	date, err := ParseDate(cell(FieldDate))
	if err != nil {
		return draft, &RowError{Row: rowNum, Field: FieldDate, Err: err}
	}
	draft.Date = date

	return draft, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
