// Package topsheet flattens a budget tree into tables: one for the root
// account and one for each top-level account. The tables render to CSV, XLSX
// or Google Sheets.
package topsheet

import (
	"fmt"
	"strings"

	"github.com/Veraticus/topsheet/internal/common"
	"github.com/Veraticus/topsheet/internal/model"
)

// Column selects a field of the export.
type Column string

// Global columns appear once per row.
const (
	ColumnID          Column = "id"
	ColumnDescription Column = "description"
	ColumnTags        Column = "tags"
	ColumnContact     Column = "contact"
	ColumnNotes       Column = "notes"
)

// Phase-scoped columns appear once per selected phase.
const (
	ColumnFringes  Column = "fringes"
	ColumnDates    Column = "dates"
	ColumnQuantity Column = "quantity"
	ColumnRate     Column = "rate"
	ColumnX        Column = "x"
)

// AllColumns lists every column in canonical order.
var AllColumns = []Column{
	ColumnID, ColumnDescription, ColumnTags, ColumnContact, ColumnNotes,
	ColumnFringes, ColumnDates, ColumnQuantity, ColumnRate, ColumnX,
}

var columnLabels = map[Column]string{
	ColumnID:          "ID",
	ColumnDescription: "Description",
	ColumnTags:        "Tags",
	ColumnContact:     "Contact",
	ColumnNotes:       "Notes",
	ColumnFringes:     "Fringes",
	ColumnDates:       "Dates",
	ColumnQuantity:    "Quantity",
	ColumnRate:        "Rate",
	ColumnX:           "X",
}

// Label is the header text of the column.
func (c Column) Label() string {
	if l, ok := columnLabels[c]; ok {
		return l
	}
	return string(c)
}

// Global reports whether the column is independent of phase.
func (c Column) Global() bool {
	switch c {
	case ColumnID, ColumnDescription, ColumnTags, ColumnContact, ColumnNotes:
		return true
	}
	return false
}

// PhaseScoped reports whether the column repeats for every phase.
func (c Column) PhaseScoped() bool {
	switch c {
	case ColumnFringes, ColumnDates, ColumnQuantity, ColumnRate, ColumnX:
		return true
	}
	return false
}

// Valid reports whether c is a known column.
func (c Column) Valid() bool {
	return c.Global() || c.PhaseScoped()
}

// Options controls which rows, columns and phases are exported. Zero values
// select the defaults.
type Options struct {
	// IncludeHeaders defaults to true when nil.
	IncludeHeaders *bool
	// LineTypes defaults to line, account and subtotal.
	LineTypes []model.LineType
	// Columns defaults to id and description.
	Columns []Column
	// Phases are matched by alias, id or name. Defaults to every budget
	// phase in budget order.
	Phases []string
}

// DefaultLineTypes are exported when Options.LineTypes is empty.
var DefaultLineTypes = []model.LineType{model.LineTypeLine, model.LineTypeAccount, model.LineTypeSubtotal}

// DefaultColumns are exported when Options.Columns is empty.
var DefaultColumns = []Column{ColumnID, ColumnDescription}

// Bool returns a pointer to b, for Options.IncludeHeaders.
func Bool(b bool) *bool {
	return &b
}

type resolved struct {
	lineTypes    map[model.LineType]bool
	global       []Column
	phaseColumns []Column
	phases       []model.Phase
	headers      bool
}

func (o Options) resolve(budget *model.Budget) resolved {
	r := resolved{
		headers:   o.IncludeHeaders == nil || *o.IncludeHeaders,
		lineTypes: map[model.LineType]bool{},
	}

	lineTypes := o.LineTypes
	if len(lineTypes) == 0 {
		lineTypes = DefaultLineTypes
	}
	for _, lt := range lineTypes {
		r.lineTypes[lt] = true
	}

	columns := o.Columns
	if len(columns) == 0 {
		columns = DefaultColumns
	}
	for _, c := range columns {
		switch {
		case c.Global():
			r.global = append(r.global, c)
		case c.PhaseScoped():
			r.phaseColumns = append(r.phaseColumns, c)
		}
	}

	if len(o.Phases) == 0 {
		r.phases = append(r.phases, budget.Phases...)
		return r
	}
	for _, sel := range o.Phases {
		if phase, ok := budget.FindPhase(sel); ok {
			r.phases = append(r.phases, phase)
		}
	}
	return r
}

// ParseOptions builds Options from command-line or config values. Column and
// line type names are case-insensitive.
func ParseOptions(phases, columns, lineTypes []string, noHeaders bool) (Options, error) {
	opts := Options{
		IncludeHeaders: Bool(!noHeaders),
		Phases:         phases,
	}

	for _, name := range columns {
		c := Column(strings.ToLower(strings.TrimSpace(name)))
		if !c.Valid() {
			return Options{}, fmt.Errorf("%w: unknown column %q", common.ErrUnsupportedInput, name)
		}
		opts.Columns = append(opts.Columns, c)
	}

	for _, name := range lineTypes {
		t := model.LineType(strings.ToLower(strings.TrimSpace(name)))
		if !t.Valid() {
			return Options{}, fmt.Errorf("%w: unknown line type %q", common.ErrUnsupportedInput, name)
		}
		opts.LineTypes = append(opts.LineTypes, t)
	}

	return opts, nil
}
