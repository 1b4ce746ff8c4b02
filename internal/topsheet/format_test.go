package topsheet

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/topsheet/internal/model"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		want string
		in   float64
	}{
		{in: 0, want: "0"},
		{in: math.Copysign(0, -1), want: "0"},
		{in: 1500, want: "1500"},
		{in: -12.5, want: "-12.5"},
		{in: 0.1 + 0.2, want: "0.30000000000000004"},
		{in: 1e21, want: "1e+21"},
		{in: 123456789012345680000, want: "123456789012345680000"},
		{in: 0.000001, want: "0.000001"},
		{in: 1.5e-7, want: "1.5e-7"},
		{in: math.NaN(), want: ""},
		{in: math.Inf(1), want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNumber(tt.in))
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "", FormatAmount(model.Amount{}))
	assert.Equal(t, "", FormatAmount(model.Amount{Set: true}))
	assert.Equal(t, "42", FormatAmount(model.NewAmount(42)))
}

func TestEscapeCell(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "plain", want: "plain"},
		{in: "  leading space", want: "  leading space"},
		{in: "a,b", want: `"a,b"`},
		{in: `say "hi"`, want: `"say ""hi"""`},
		{in: "two\nlines", want: "\"two\nlines\""},
		{in: "foo,\"bar\"\nbaz", want: "\"foo,\"\"bar\"\"\nbaz\""},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeCell(tt.in))
		})
	}
}
