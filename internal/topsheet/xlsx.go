package topsheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/topsheet/internal/model"
)

const maxSheetName = 31

var sheetNameReplacer = strings.NewReplacer(
	"[", "(", "]", ")", ":", "-", "*", "-", "?", "", "/", "-", `\`, "-",
)

// Values returns the header and rows as spreadsheet cell values.
func (t Table) Values() [][]any {
	values := make([][]any, 0, len(t.Rows)+1)
	if t.Header != nil {
		header := make([]any, len(t.Header))
		for i, h := range t.Header {
			header[i] = h
		}
		values = append(values, header)
	}
	for _, row := range t.Rows {
		values = append(values, TypedRow(row, t.Kinds))
	}
	return values
}

// SheetNames returns a unique, spreadsheet-safe tab name per table.
func SheetNames(tables []Table) []string {
	used := map[string]bool{}
	names := make([]string, len(tables))
	for i, t := range tables {
		base := strings.TrimSpace(sheetNameReplacer.Replace(t.Name))
		base = strings.Trim(base, "'")
		if base == "" {
			base = fmt.Sprintf("Table %d", i+1)
		}
		base = truncate(base, maxSheetName)

		name := base
		for n := 2; used[strings.ToLower(name)]; n++ {
			suffix := fmt.Sprintf(" (%d)", n)
			name = truncate(base, maxSheetName-len(suffix)) + suffix
		}
		used[strings.ToLower(name)] = true
		names[i] = name
	}
	return names
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// WriteXLSX writes the export as a workbook with one worksheet per table.
// Numeric columns are stored as numbers.
func WriteXLSX(w io.Writer, budget *model.Budget, opts Options) error {
	tables := Tables(budget, opts)
	if len(tables) == 0 {
		return fmt.Errorf("no tables to export")
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	names := SheetNames(tables)
	first := f.GetSheetName(0)
	for i, t := range tables {
		sheet := names[i]
		if i == 0 {
			if err := f.SetSheetName(first, sheet); err != nil {
				return fmt.Errorf("failed to name sheet %q: %w", sheet, err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
		}

		if err := writeSheet(f, sheet, t); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, t Table) error {
	for i, values := range t.Values() {
		if err := setRow(f, sheet, i+1, values); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("invalid row %d: %w", rowNum, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %q: %w", rowNum, sheet, err)
	}
	return nil
}

// TypedRow converts number-kind cells to float64 so spreadsheets can sum them.
func TypedRow(row []string, kinds []CellKind) []any {
	out := make([]any, len(row))
	for i, cell := range row {
		out[i] = cell
		if i >= len(kinds) || kinds[i] != KindNumber || cell == "" {
			continue
		}
		if n, err := strconv.ParseFloat(cell, 64); err == nil {
			out[i] = n
		}
	}
	return out
}
