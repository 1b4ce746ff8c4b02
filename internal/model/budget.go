package model

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// LineType tags the variant of a budget line.
type LineType string

// Budget line variants.
const (
	LineTypeLine     LineType = "line"
	LineTypeAccount  LineType = "account"
	LineTypeSubtotal LineType = "subtotal"
	LineTypeMarkup   LineType = "markup"
	LineTypeFringes  LineType = "fringes"
)

// Valid reports whether t is one of the known line variants.
func (t LineType) Valid() bool {
	switch t {
	case LineTypeLine, LineTypeAccount, LineTypeSubtotal, LineTypeMarkup, LineTypeFringes:
		return true
	default:
		return false
	}
}

// PhaseType classifies a budget phase.
type PhaseType string

// Phase types returned by the API.
const (
	PhaseTypeEstimate  PhaseType = "estimate"
	PhaseTypeActual    PhaseType = "actual"
	PhaseTypeRollup    PhaseType = "rollup"
	PhaseTypeCommitted PhaseType = "committed"
)

// Phase is one budget column class (estimate, actual, ...).
type Phase struct {
	ID       string    `json:"id"`
	Alias    string    `json:"alias"`
	Name     string    `json:"name"`
	Type     PhaseType `json:"type"`
	IsHidden bool      `json:"isHidden"`
}

// Label is the display name used for export column headers.
func (p Phase) Label() string {
	switch {
	case p.Name != "":
		return p.Name
	case p.Alias != "":
		return p.Alias
	default:
		return p.ID
	}
}

// Keys returns the lookup keys for phase-keyed maps in priority order.
func (p Phase) Keys() []string {
	keys := make([]string, 0, 3)
	for _, k := range []string{p.Alias, p.ID, p.Name} {
		if k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// Matches reports whether selector names this phase by alias, id or name.
func (p Phase) Matches(selector string) bool {
	return selector != "" && (selector == p.Alias || selector == p.ID || selector == p.Name)
}

// Amount is a money value as sent by the API: a JSON number, a numeric
// string, or null. Set is true for any non-null value; Valid only when a
// finite number could be read from it.
type Amount struct {
	Number float64
	Set    bool
	Valid  bool
}

// NewAmount returns a valid amount.
func NewAmount(v float64) Amount {
	return Amount{Number: v, Set: true, Valid: !math.IsNaN(v) && !math.IsInf(v, 0)}
}

// UnmarshalJSON accepts numbers, numeric strings and null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = Amount{}
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		return nil
	}
	a.Set = true

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		a.Number, a.Valid = ParseNumber(s)
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		// Booleans, objects and arrays carry no amount.
		return nil
	}
	a.Number, a.Valid = n, true
	return nil
}

// MarshalJSON writes the number, or null when no valid number is held.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(a.Number)
}

// ParseNumber parses a trimmed, finite decimal number from s.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// DateRange is an optional start/end pair for a line's phase data.
type DateRange struct {
	Start *string `json:"start,omitempty"`
	End   *string `json:"end,omitempty"`
}

// PhaseData holds the per-phase inputs of a line.
type PhaseData struct {
	Quantity   Amount     `json:"quantity"`
	Unit       *string    `json:"unit,omitempty"`
	Rate       Amount     `json:"rate"`
	Multiplier Amount     `json:"multiplier"`
	Fringes    []string   `json:"fringes,omitempty"`
	Date       *DateRange `json:"date,omitempty"`
}

// ContactRef is the contact attached to a line.
type ContactRef struct {
	ID      string  `json:"id"`
	Name    string  `json:"name,omitempty"`
	Company *string `json:"company,omitempty"`
}

// Display returns the best human-readable label for the contact.
func (c *ContactRef) Display() string {
	if c == nil {
		return ""
	}
	if c.Name != "" {
		return c.Name
	}
	if c.Company != nil && *c.Company != "" {
		return *c.Company
	}
	return c.ID
}

// Line is one row within an account.
type Line struct {
	ID          string               `json:"id"`
	Type        LineType             `json:"type"`
	AccountID   *string              `json:"accountId,omitempty"`
	Description *string              `json:"description,omitempty"`
	Notes       *string              `json:"notes,omitempty"`
	Tags        []string             `json:"tags,omitempty"`
	Contact     *ContactRef          `json:"contact,omitempty"`
	PhaseData   map[string]PhaseData `json:"phaseData,omitempty"`
	Totals      map[string]Amount    `json:"totals,omitempty"`
}

// Total returns the line's total for phase, trying alias, id and name.
func (l Line) Total(phase Phase) Amount {
	for _, k := range phase.Keys() {
		if v, ok := l.Totals[k]; ok && v.Set {
			return v
		}
	}
	return Amount{}
}

// DataFor returns the line's phase data for phase, trying alias, id and name.
func (l Line) DataFor(phase Phase) (PhaseData, bool) {
	for _, k := range phase.Keys() {
		if v, ok := l.PhaseData[k]; ok {
			return v, true
		}
	}
	return PhaseData{}, false
}

// Account is a node of the budget tree.
type Account struct {
	ID          string            `json:"id"`
	AccountID   *string           `json:"accountId,omitempty"`
	Description *string           `json:"description,omitempty"`
	Path        string            `json:"path"`
	Lines       []Line            `json:"lines"`
	Totals      map[string]Amount `json:"totals,omitempty"`
}

// Depth is the number of path segments below the root account.
func (a Account) Depth() int {
	return PathDepth(a.Path)
}

// PathDepth counts the non-empty "/" segments of path.
func PathDepth(path string) int {
	depth := 0
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			depth++
		}
	}
	return depth
}

// Budget is a project's budget tree with its phases and sub-account index.
type Budget struct {
	Account  Account            `json:"account"`
	Phases   []Phase            `json:"phases"`
	Accounts map[string]Account `json:"accounts,omitempty"`
}

// SubAccount resolves an account-typed line to its sub-account.
func (b *Budget) SubAccount(line Line) (Account, bool) {
	if line.Type != LineTypeAccount || line.AccountID == nil {
		return Account{}, false
	}
	acct, ok := b.Accounts[*line.AccountID]
	return acct, ok
}

// TopLevelAccounts returns the depth-1 accounts. Accounts referenced by the
// root lines come first in line order; any others follow sorted by path.
func (b *Budget) TopLevelAccounts() []Account {
	seen := make(map[string]bool)
	var out []Account
	for _, line := range b.Account.Lines {
		acct, ok := b.SubAccount(line)
		if !ok || acct.Depth() != 1 || seen[acct.ID] {
			continue
		}
		seen[acct.ID] = true
		out = append(out, acct)
	}

	var rest []Account
	for _, acct := range b.Accounts {
		if acct.Depth() == 1 && !seen[acct.ID] {
			rest = append(rest, acct)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].Path < rest[j].Path })

	return append(out, rest...)
}

// FindPhase returns the first phase matching selector.
func (b *Budget) FindPhase(selector string) (Phase, bool) {
	for _, p := range b.Phases {
		if p.Matches(selector) {
			return p, true
		}
	}
	return Phase{}, false
}
