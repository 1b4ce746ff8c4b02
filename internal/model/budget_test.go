package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestAmountUnmarshal(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantSet   bool
		wantValid bool
		want      float64
	}{
		{name: "number", input: `1500`, wantSet: true, wantValid: true, want: 1500},
		{name: "numeric string", input: `"1500"`, wantSet: true, wantValid: true, want: 1500},
		{name: "padded string", input: `" 12.5 "`, wantSet: true, wantValid: true, want: 12.5},
		{name: "null", input: `null`},
		{name: "garbage string", input: `"n/a"`, wantSet: true},
		{name: "empty string", input: `""`, wantSet: true},
		{name: "infinity string", input: `"Infinity"`, wantSet: true},
		{name: "boolean", input: `true`, wantSet: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Amount
			require.NoError(t, json.Unmarshal([]byte(tt.input), &a))
			assert.Equal(t, tt.wantSet, a.Set)
			assert.Equal(t, tt.wantValid, a.Valid)
			if tt.wantValid {
				assert.InDelta(t, tt.want, a.Number, 1e-9)
			}
		})
	}
}

func TestAmountMarshal(t *testing.T) {
	data, err := json.Marshal(map[string]Amount{"a": NewAmount(2.5), "b": {}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2.5,"b":null}`, string(data))
}

func TestLineTotalLookupOrder(t *testing.T) {
	phase := Phase{ID: "p1", Alias: "estimate", Name: "Estimate"}

	t.Run("alias wins", func(t *testing.T) {
		line := Line{Totals: map[string]Amount{
			"estimate": NewAmount(1),
			"p1":       NewAmount(2),
			"Estimate": NewAmount(3),
		}}
		assert.InDelta(t, 1.0, line.Total(phase).Number, 0)
	})

	t.Run("null alias falls through to id", func(t *testing.T) {
		line := Line{Totals: map[string]Amount{
			"estimate": {},
			"p1":       NewAmount(2),
		}}
		assert.InDelta(t, 2.0, line.Total(phase).Number, 0)
	})

	t.Run("name used last", func(t *testing.T) {
		line := Line{Totals: map[string]Amount{"Estimate": NewAmount(3)}}
		assert.InDelta(t, 3.0, line.Total(phase).Number, 0)
	})

	t.Run("missing", func(t *testing.T) {
		assert.False(t, Line{}.Total(phase).Set)
	})
}

func TestPathDepth(t *testing.T) {
	assert.Equal(t, 0, PathDepth("/"))
	assert.Equal(t, 0, PathDepth(""))
	assert.Equal(t, 1, PathDepth("/1000"))
	assert.Equal(t, 2, PathDepth("/1000/1100"))
	assert.Equal(t, 3, PathDepth("/1000/1100/1110/"))
}

func TestBudgetTopLevelAccounts(t *testing.T) {
	budget := Budget{
		Account: Account{
			ID:   "root",
			Path: "/",
			Lines: []Line{
				{ID: "l2", Type: LineTypeAccount, AccountID: strPtr("b")},
				{ID: "l1", Type: LineTypeAccount, AccountID: strPtr("a")},
				{ID: "l3", Type: LineTypeAccount, AccountID: strPtr("missing")},
				{ID: "l4", Type: LineTypeLine},
			},
		},
		Accounts: map[string]Account{
			"a":     {ID: "a", Path: "/1000"},
			"b":     {ID: "b", Path: "/2000"},
			"c":     {ID: "c", Path: "/3000"},
			"child": {ID: "child", Path: "/1000/1100"},
		},
	}

	accounts := budget.TopLevelAccounts()
	ids := make([]string, 0, len(accounts))
	for _, a := range accounts {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"b", "a", "c"}, ids)
}

func TestBudgetUnmarshal(t *testing.T) {
	payload := `{
		"account": {"id": "root", "path": "/", "lines": [
			{"id": "1", "type": "line", "description": "Camera", "totals": {"estimate": "1500"},
			 "phaseData": {"estimate": {"quantity": 2, "rate": "750", "fringes": ["PR", "WC"], "date": {"start": "2024-01-01"}}}}
		]},
		"phases": [{"id": "p1", "alias": "estimate", "name": "Estimate", "type": "estimate"}]
	}`

	var b Budget
	require.NoError(t, json.Unmarshal([]byte(payload), &b))
	require.Len(t, b.Account.Lines, 1)

	line := b.Account.Lines[0]
	assert.Equal(t, LineTypeLine, line.Type)
	assert.InDelta(t, 1500.0, line.Total(b.Phases[0]).Number, 0)

	data, ok := line.DataFor(b.Phases[0])
	require.True(t, ok)
	assert.InDelta(t, 750.0, data.Rate.Number, 0)
	assert.Equal(t, []string{"PR", "WC"}, data.Fringes)
	require.NotNil(t, data.Date)
	assert.Equal(t, "2024-01-01", *data.Date.Start)
	assert.Nil(t, data.Date.End)
}

func TestContactDisplay(t *testing.T) {
	var nilRef *ContactRef
	assert.Equal(t, "", nilRef.Display())
	assert.Equal(t, "Ana", (&ContactRef{ID: "1", Name: "Ana"}).Display())
	assert.Equal(t, "Acme", (&ContactRef{ID: "1", Company: strPtr("Acme")}).Display())
	assert.Equal(t, "1", (&ContactRef{ID: "1"}).Display())
}
