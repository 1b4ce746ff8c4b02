package csvimport

import (
	"math"
	"sort"
)

// Mapping assigns import fields to zero-based column indices. A field that
// is absent is unmapped.
type Mapping map[Field]int

// Column returns the column mapped to f.
func (m Mapping) Column(f Field) (int, bool) {
	col, ok := m[f]
	return col, ok
}

// Assign maps f to col. A column feeds at most one field, so any other field
// using col is unmapped.
func (m Mapping) Assign(f Field, col int) {
	for other, c := range m {
		if c == col && other != f {
			delete(m, other)
		}
	}
	m[f] = col
}

// Clone returns a copy of m.
func (m Mapping) Clone() Mapping {
	out := make(Mapping, len(m))
	for f, c := range m {
		out[f] = c
	}
	return out
}

// Sanitize drops unknown fields and columns outside [0, columnCount).
func (m Mapping) Sanitize(columnCount int) Mapping {
	out := Mapping{}
	for f, c := range m {
		if f.Valid() && c >= 0 && c < columnCount {
			out[f] = c
		}
	}
	return out
}

// Missing lists required fields that are not mapped.
func (m Mapping) Missing() []Field {
	var missing []Field
	for _, f := range RequiredFields {
		if _, ok := m[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

// Complete reports whether every required field is mapped.
func (m Mapping) Complete() bool {
	return len(m.Missing()) == 0
}

// Stored converts m to the loosely typed form kept in the preference store.
// Unmapped fields are stored as nil.
func (m Mapping) Stored() map[string]any {
	out := make(map[string]any, len(Fields))
	for _, f := range Fields {
		if c, ok := m[f]; ok {
			out[string(f)] = c
		} else {
			out[string(f)] = nil
		}
	}
	return out
}

// Fields returns the mapped fields sorted by column.
func (m Mapping) Fields() []Field {
	fields := make([]Field, 0, len(m))
	for f := range m {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool {
		if m[fields[i]] != m[fields[j]] {
			return m[fields[i]] < m[fields[j]]
		}
		return fields[i] < fields[j]
	})
	return fields
}

// FromStored rebuilds a mapping from stored values, keeping only known
// fields whose value is an integral column index within [0, columnCount).
func FromStored(stored map[string]any, columnCount int) Mapping {
	m := Mapping{}
	for key, v := range stored {
		col, ok := columnIndex(v)
		if !ok {
			continue
		}
		m[Field(key)] = col
	}
	return m.Sanitize(columnCount)
}

func columnIndex(v any) (int, bool) {
	var f float64
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		f = float64(n)
	case float64:
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f < 0 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
