package topsheet

import (
	"math"
	"strconv"
	"strings"

	"github.com/Veraticus/topsheet/internal/model"
)

// FormatNumber renders f the way a spreadsheet user expects to read it:
// shortest round-trip digits, exponent form only for very large or very
// small magnitudes. NaN and infinities render empty.
func FormatNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	if f == 0 {
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mantissa + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FormatAmount renders a numeric cell, or "" when the amount is missing or
// not a number.
func FormatAmount(a model.Amount) string {
	if !a.Valid {
		return ""
	}
	return FormatNumber(a.Number)
}

// EscapeCell quotes a cell if it contains a comma, a double quote or a
// newline, doubling embedded quotes.
func EscapeCell(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func formatDates(d *model.DateRange) string {
	if d == nil || (d.Start == nil && d.End == nil) {
		return ""
	}
	return deref(d.Start) + ".." + deref(d.End)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
