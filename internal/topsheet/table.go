package topsheet

import (
	"strings"

	"github.com/Veraticus/topsheet/internal/model"
)

// IndentUnit is prefixed to the description once per nesting level.
const IndentUnit = "  "

// CellKind tells typed writers how to store a column.
type CellKind int

// Cell kinds.
const (
	KindText CellKind = iota
	KindNumber
)

// Table is one exported block. Header is nil when headers are disabled.
type Table struct {
	Name   string
	Path   string
	Header []string
	Kinds  []CellKind
	Rows   [][]string
}

// Records returns the header (if any) followed by the rows.
func (t Table) Records() [][]string {
	records := make([][]string, 0, len(t.Rows)+1)
	if t.Header != nil {
		records = append(records, t.Header)
	}
	return append(records, t.Rows...)
}

// RootTableName names the table built from the root account.
const RootTableName = "Topsheet"

// Tables builds the root table followed by one table per top-level account.
// Lines of an account line's sub-account are inlined one level deep; deeper
// descendants are not expanded.
func Tables(budget *model.Budget, opts Options) []Table {
	if budget == nil {
		return nil
	}
	r := opts.resolve(budget)
	b := builder{budget: budget, opts: r}

	tables := []Table{b.rootTable()}
	for _, acct := range budget.TopLevelAccounts() {
		tables = append(tables, b.accountTable(acct))
	}
	return tables
}

type builder struct {
	budget *model.Budget
	opts   resolved
}

func (b builder) newTable(name, path string) Table {
	t := Table{Name: name, Path: path, Kinds: b.kinds()}
	if b.opts.headers {
		t.Header = b.header()
	}
	return t
}

func (b builder) rootTable() Table {
	t := b.newTable(RootTableName, b.budget.Account.Path)
	for _, line := range b.budget.Account.Lines {
		if b.opts.lineTypes[line.Type] {
			t.Rows = append(t.Rows, b.row(line, 0))
		}
	}
	return t
}

func (b builder) accountTable(acct model.Account) Table {
	t := b.newTable(accountName(acct), acct.Path)
	for _, line := range acct.Lines {
		if b.opts.lineTypes[line.Type] {
			t.Rows = append(t.Rows, b.row(line, 0))
		}
		if line.Type != model.LineTypeAccount {
			continue
		}
		sub, ok := b.budget.SubAccount(line)
		if !ok {
			continue
		}
		for _, child := range sub.Lines {
			if b.opts.lineTypes[child.Type] {
				t.Rows = append(t.Rows, b.row(child, 1))
			}
		}
	}
	return t
}

func (b builder) header() []string {
	header := make([]string, 0, len(b.opts.global)+len(b.opts.phases)*(1+len(b.opts.phaseColumns)))
	for _, c := range b.opts.global {
		header = append(header, c.Label())
	}
	for _, phase := range b.opts.phases {
		label := phase.Label()
		header = append(header, label)
		for _, c := range b.opts.phaseColumns {
			header = append(header, label+" "+c.Label())
		}
	}
	return header
}

func (b builder) kinds() []CellKind {
	kinds := make([]CellKind, 0, len(b.opts.global)+len(b.opts.phases)*(1+len(b.opts.phaseColumns)))
	for range b.opts.global {
		kinds = append(kinds, KindText)
	}
	for range b.opts.phases {
		kinds = append(kinds, KindNumber)
		for _, c := range b.opts.phaseColumns {
			switch c {
			case ColumnQuantity, ColumnRate, ColumnX:
				kinds = append(kinds, KindNumber)
			default:
				kinds = append(kinds, KindText)
			}
		}
	}
	return kinds
}

func (b builder) row(line model.Line, depth int) []string {
	row := make([]string, 0, len(b.opts.global)+len(b.opts.phases)*(1+len(b.opts.phaseColumns)))
	for _, c := range b.opts.global {
		row = append(row, globalCell(line, c, depth))
	}
	for _, phase := range b.opts.phases {
		row = append(row, FormatAmount(line.Total(phase)))
		data, _ := line.DataFor(phase)
		for _, c := range b.opts.phaseColumns {
			row = append(row, phaseCell(data, c))
		}
	}
	return row
}

func globalCell(line model.Line, c Column, depth int) string {
	switch c {
	case ColumnID:
		return line.ID
	case ColumnDescription:
		return strings.Repeat(IndentUnit, depth) + deref(line.Description)
	case ColumnTags:
		return strings.Join(line.Tags, ", ")
	case ColumnContact:
		return line.Contact.Display()
	case ColumnNotes:
		return deref(line.Notes)
	}
	return ""
}

func phaseCell(data model.PhaseData, c Column) string {
	switch c {
	case ColumnFringes:
		return strings.Join(data.Fringes, "; ")
	case ColumnDates:
		return formatDates(data.Date)
	case ColumnQuantity:
		return FormatAmount(data.Quantity)
	case ColumnRate:
		return FormatAmount(data.Rate)
	case ColumnX:
		return FormatAmount(data.Multiplier)
	}
	return ""
}

func accountName(acct model.Account) string {
	code := deref(acct.AccountID)
	desc := deref(acct.Description)
	switch {
	case code != "" && desc != "":
		return code + " " + desc
	case desc != "":
		return desc
	case code != "":
		return code
	}
	return acct.Path
}
