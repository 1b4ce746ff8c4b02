package csvimport

import (
	"strings"
	"unicode"
)

// hints are normalized header tokens per field. Tokens longer than two
// characters match anywhere in a header; shorter ones only as a suffix.
var hints = map[Field][]string{
	FieldDescription:     {"description", "desc", "memo", "details", "narrative", "particulars"},
	FieldAmount:          {"amount", "amt", "total", "debit", "price"},
	FieldDate:            {"date", "posted", "dt"},
	FieldAccountID:       {"accountid", "accountcode", "account", "acct", "glcode", "costcode", "code"},
	FieldRef:             {"reference", "ref", "invoice", "check", "cheque"},
	FieldPayID:           {"payid", "paymentid", "transactionid", "txnid", "fitid"},
	FieldStatus:          {"status", "state", "cleared"},
	FieldNotes:           {"notes", "note", "comment", "remarks"},
	FieldTags:            {"tags", "tag", "labels", "label"},
	FieldPurchaseOrderID: {"purchaseorder", "ponumber", "poid", "pono", "po"},
}

// exactHints only match a whole header. "Cost Code" is an account and
// "Value Date" a date.
var exactHints = map[Field][]string{
	FieldAmount: {"cost", "value", "sum"},
}

// fallbackDescriptionHints are tried when no column looks like a description.
var fallbackDescriptionHints = []string{"payee", "vendor", "merchant", "name", "item", "title"}

// Normalize lowercases a header and strips everything but letters and
// digits, so "Account ID", "account-id" and "ACCOUNT_ID" compare equal.
func Normalize(header string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(header) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func matchesHint(normalized, hint string) bool {
	if normalized == "" {
		return false
	}
	if normalized == hint {
		return true
	}
	if len(hint) > 2 {
		return strings.Contains(normalized, hint)
	}
	return strings.HasSuffix(normalized, hint)
}

// Guess proposes a mapping from headers. Each field, in priority order,
// takes the leftmost free column whose whole header is one of its hints,
// or failing that the leftmost free column containing one. If nothing
// resembles a description, column 0 is used when still free.
func Guess(headers []string) Mapping {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = Normalize(h)
	}

	m := Mapping{}
	taken := make([]bool, len(headers))

	find := func(field Field, tokens []string, match func(header, hint string) bool) bool {
		for col, header := range normalized {
			if taken[col] || header == "" {
				continue
			}
			for _, hint := range tokens {
				if match(header, hint) {
					m[field] = col
					taken[col] = true
					return true
				}
			}
		}
		return false
	}
	exact := func(header, hint string) bool { return header == hint }

	assign := func(field Field, tokens, whole []string) bool {
		all := append(append([]string(nil), tokens...), whole...)
		return find(field, all, exact) || find(field, tokens, matchesHint)
	}

	for _, field := range Fields {
		assign(field, hints[field], exactHints[field])
	}

	if _, ok := m[FieldDescription]; !ok {
		if !assign(FieldDescription, fallbackDescriptionHints, nil) && len(headers) > 0 && !taken[0] {
			m[FieldDescription] = 0
		}
	}
	return m
}
