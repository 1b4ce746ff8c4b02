package topsheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/topsheet/internal/model"
)

// BOM is written ahead of CSV files so spreadsheet apps detect UTF-8.
const BOM = "\uFEFF"

// TableSeparator sits between tables: two blank lines.
const TableSeparator = "\n\n\n"

// ExportCSV renders the budget as CSV text without a BOM.
func ExportCSV(budget *model.Budget, opts Options) string {
	tables := Tables(budget, opts)
	parts := make([]string, 0, len(tables))
	for _, t := range tables {
		parts = append(parts, TableCSV(t))
	}
	return strings.Join(parts, TableSeparator)
}

// TableCSV renders one table, rows separated by "\n".
func TableCSV(t Table) string {
	records := t.Records()
	lines := make([]string, 0, len(records))
	for _, record := range records {
		cells := make([]string, len(record))
		for i, cell := range record {
			cells[i] = EscapeCell(cell)
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return strings.Join(lines, "\n")
}

// WriteCSV writes the BOM followed by the CSV export.
func WriteCSV(w io.Writer, budget *model.Budget, opts Options) error {
	if _, err := io.WriteString(w, BOM+ExportCSV(budget, opts)); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
