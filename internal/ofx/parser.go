// Package ofx reads OFX/QFX bank and card statements into actual drafts.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/topsheet/internal/model"
)

// SourceOFX marks drafts read from an OFX statement.
const SourceOFX = "ofx"

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Parser converts statements to drafts. Debits become positive costs and
// credits negative ones.
type Parser struct {
	logger    *slog.Logger
	accountID string
}

// Option customizes a Parser.
type Option func(*Parser)

// WithAccountID assigns every draft to a budget account.
func WithAccountID(id string) Option {
	return func(p *Parser) {
		p.accountID = id
	}
}

// WithLogger sets the parser logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewParser creates a new OFX parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{logger: slog.Default().With("component", "ofx")}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// preprocess fixes formatting issues banks commonly ship.
func preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case.
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML files sometimes drop the closing bracket of a bare tag.
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

func parse(reader io.Reader) (*ofxgo.Response, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}
	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}
	return resp, nil
}

// ParseFile reads every bank and credit card transaction in the statement.
// Row numbers are assigned in file order starting at 1.
func (p *Parser) ParseFile(_ context.Context, reader io.Reader) ([]model.ActualDraft, error) {
	resp, err := parse(reader)
	if err != nil {
		return nil, err
	}

	var drafts []model.ActualDraft
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			if stmt.BankTranList != nil {
				drafts = p.appendDrafts(drafts, stmt.BankTranList.Transactions)
			}
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			if stmt.BankTranList != nil {
				drafts = p.appendDrafts(drafts, stmt.BankTranList.Transactions)
			}
		}
	}

	p.logger.Info("Parsed OFX file",
		"drafts", len(drafts),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return drafts, nil
}

func (p *Parser) appendDrafts(drafts []model.ActualDraft, txns []ofxgo.Transaction) []model.ActualDraft {
	for _, tx := range txns {
		d, err := p.convert(tx)
		if err != nil {
			p.logger.Warn("Skipping OFX transaction",
				"fitid", string(tx.FiTID),
				"error", err)
			continue
		}
		d.Row = len(drafts) + 1
		drafts = append(drafts, d)
	}
	return drafts
}

func (p *Parser) convert(tx ofxgo.Transaction) (model.ActualDraft, error) {
	amount, err := decimal.NewFromString(tx.TrnAmt.FloatString(2))
	if err != nil {
		return model.ActualDraft{}, fmt.Errorf("invalid amount: %w", err)
	}

	d := model.ActualDraft{
		Description: payeeName(tx),
		Amount:      amount.Neg(),
		Date:        tx.DtPosted.Time.Format("2006-01-02"),
		AccountID:   p.accountID,
		PayID:       string(tx.FiTID),
		Ref:         string(tx.CheckNum),
		Source:      SourceOFX,
	}
	if memo := strings.TrimSpace(string(tx.Memo)); memo != "" && memo != d.Description {
		d.Notes = memo
	}
	if tx.TrnType.Valid() {
		d.Tags = []string{strings.ToLower(tx.TrnType.String())}
	}
	return d, nil
}

var cardPrefixes = []string{
	"POS PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"ACH DEBIT ",
	"CHECK CARD ",
	"VISA PURCHASE ",
	"MC PURCHASE ",
	"DEBIT PURCHASE ",
}

var genericNames = map[string]bool{
	"DEBIT":           true,
	"CREDIT":          true,
	"PURCHASE":        true,
	"PAYMENT":         true,
	"POS TRANSACTION": true,
	"CARD PURCHASE":   true,
}

// payeeName prefers PAYEE, then NAME (or MEMO when NAME says nothing), with
// card processor prefixes removed.
func payeeName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && genericNames[strings.ToUpper(name)] {
		name = strings.TrimSpace(string(tx.Memo))
	}

	for _, prefix := range cardPrefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// "MM/DD " authorization dates.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

// Accounts lists the distinct statement account ids, sorted.
func (p *Parser) Accounts(_ context.Context, reader io.Reader) ([]string, error) {
	resp, err := parse(reader)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankAcctFrom.AcctID != "" {
			seen[string(stmt.BankAcctFrom.AcctID)] = true
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.CCAcctFrom.AcctID != "" {
			seen[string(stmt.CCAcctFrom.AcctID)] = true
		}
	}

	accounts := make([]string, 0, len(seen))
	for acct := range seen {
		accounts = append(accounts, acct)
	}
	sort.Strings(accounts)
	return accounts, nil
}
