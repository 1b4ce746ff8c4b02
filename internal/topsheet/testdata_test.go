package topsheet

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Veraticus/topsheet/internal/model"
)

const fixtureBudget = `{
  "phases": [
    {"id": "ph-est", "alias": "estimate", "name": "Estimate", "type": "estimate"},
    {"id": "ph-act", "alias": "actual", "name": "Actual", "type": "actual"}
  ],
  "account": {
    "id": "root",
    "path": "/",
    "lines": [
      {"id": "l-1000", "type": "account", "accountId": "1000", "description": "Above the line", "totals": {"estimate": "1500", "actual": 1200}},
      {"id": "l-2000", "type": "account", "accountId": "2000", "description": "Production, Crew", "totals": {"ph-est": 800}},
      {"id": "l-sub", "type": "subtotal", "description": "Total", "totals": {"Estimate": 2300}},
      {"id": "l-mk", "type": "markup", "description": "Contingency", "totals": {"estimate": 100}}
    ]
  },
  "accounts": {
    "1000": {
      "id": "a1000", "accountId": "1000", "description": "Above the line", "path": "/1000",
      "lines": [
        {"id": "l-1100", "type": "account", "accountId": "1100", "description": "Writers", "totals": {"estimate": 1000}},
        {"id": "l-1001", "type": "line", "description": "Rights", "tags": ["legal", "rights"], "notes": "Option, renewal",
         "contact": {"id": "c1", "name": "Ada"},
         "totals": {"estimate": 500},
         "phaseData": {"estimate": {"quantity": 2, "rate": "250", "multiplier": 1, "unit": "flat",
                                    "fringes": ["FICA", "WC"], "date": {"start": "2024-01-01", "end": "2024-02-01"}}}}
      ]
    },
    "1100": {
      "id": "a1100", "accountId": "1100", "description": "Writers", "path": "/1000/1100",
      "lines": [
        {"id": "l-1101", "type": "line", "description": "Draft", "totals": {"estimate": 1000}},
        {"id": "l-1102", "type": "account", "accountId": "1110", "description": "Deep", "totals": {}}
      ]
    },
    "1110": {
      "id": "a1110", "accountId": "1110", "path": "/1000/1100/1110",
      "lines": [{"id": "l-1111", "type": "line", "description": "Too deep"}]
    },
    "2000": {
      "id": "a2000", "accountId": "2000", "description": "Production", "path": "/2000",
      "lines": [{"id": "l-2001", "type": "line", "description": "Grip", "totals": {"estimate": "abc"}}]
    }
  }
}`

func loadFixture(t *testing.T) *model.Budget {
	t.Helper()
	var budget model.Budget
	require.NoError(t, json.Unmarshal([]byte(fixtureBudget), &budget))
	return &budget
}
