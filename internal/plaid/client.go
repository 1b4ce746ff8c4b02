// Package plaid pulls bank transactions from Plaid as actual drafts.
package plaid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/plaid/plaid-go/v20/plaid"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/topsheet/internal/common"
	"github.com/Veraticus/topsheet/internal/model"
	"github.com/Veraticus/topsheet/internal/service"
)

// SourcePlaid marks drafts read from Plaid.
const SourcePlaid = "plaid"

const (
	dateLayout = "2006-01-02"
	// Plaid's max page size.
	pageSize = int32(500)
)

// Config holds Plaid API configuration.
type Config struct {
	ClientID    string
	Secret      string
	Environment string // sandbox or production
	AccessToken string
	// AccountIDs limits drafts to these Plaid accounts. Empty means all.
	AccountIDs []string
	// BudgetAccountID is assigned to every draft.
	BudgetAccountID string
	// IncludePending keeps transactions that have not posted yet.
	IncludePending bool
}

// Validate ensures all required fields are present.
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("plaid client ID is required")
	}
	if c.Secret == "" {
		return fmt.Errorf("plaid secret is required")
	}
	if c.AccessToken == "" {
		return fmt.Errorf("plaid access token is required")
	}
	if c.Environment == "" {
		return fmt.Errorf("plaid environment is required")
	}
	if c.Environment != "sandbox" && c.Environment != "production" {
		return fmt.Errorf("invalid Plaid environment %q: must be sandbox or production", c.Environment)
	}
	return nil
}

// Account is a Plaid account available to the access token.
type Account struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Mask string `json:"mask,omitempty" yaml:"mask,omitempty"`
	Type string `json:"type" yaml:"type"`
}

// Client reads transactions through the Plaid API.
type Client struct {
	client    *plaid.APIClient
	logger    *slog.Logger
	retryOpts service.RetryOptions
	cfg       Config
}

// NewClient creates a new Plaid client with the given configuration.
func NewClient(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	configuration := plaid.NewConfiguration()
	configuration.AddDefaultHeader("PLAID-CLIENT-ID", cfg.ClientID)
	configuration.AddDefaultHeader("PLAID-SECRET", cfg.Secret)
	switch cfg.Environment {
	case "sandbox":
		configuration.UseEnvironment(plaid.Sandbox)
	case "production":
		configuration.UseEnvironment(plaid.Production)
	}

	return &Client{
		client: plaid.NewAPIClient(configuration),
		cfg:    *cfg,
		logger: slog.Default().With("component", "plaid"),
		retryOpts: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 1 * time.Second,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
		},
	}, nil
}

var _ Source = (*Client)(nil)

// Drafts fetches every transaction between startDate and endDate and
// converts it to a draft. Plaid reports money out as a positive amount,
// which is also how actuals record a cost.
func (c *Client) Drafts(ctx context.Context, startDate, endDate time.Time) ([]model.ActualDraft, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if startDate.After(endDate) {
		return nil, fmt.Errorf("start date must be before end date")
	}

	c.logger.Info("Fetching transactions from Plaid",
		"start_date", startDate.Format(dateLayout),
		"end_date", endDate.Format(dateLayout))

	var all []plaid.Transaction
	offset := int32(0)
	for {
		var page []plaid.Transaction
		err := common.WithRetry(ctx, func() error {
			request := plaid.NewTransactionsGetRequest(
				c.cfg.AccessToken,
				startDate.Format(dateLayout),
				endDate.Format(dateLayout),
			)
			options := plaid.TransactionsGetRequestOptions{
				Count:  plaid.PtrInt32(pageSize),
				Offset: plaid.PtrInt32(offset),
			}
			if len(c.cfg.AccountIDs) > 0 {
				options.AccountIds = &c.cfg.AccountIDs
			}
			request.SetOptions(options)

			resp, _, err := c.client.PlaidApi.TransactionsGet(ctx).TransactionsGetRequest(*request).Execute()
			if err != nil {
				return c.classify(err, "failed to fetch transactions")
			}
			page = resp.GetTransactions()
			c.logger.Debug("Fetched transaction batch",
				"count", len(page),
				"offset", offset,
				"total", resp.GetTotalTransactions())
			return nil
		}, c.retryOpts)
		if err != nil {
			return nil, err
		}

		all = append(all, page...)
		if len(page) < int(pageSize) {
			break
		}
		offset += pageSize
	}

	txns := make([]transaction, 0, len(all))
	for _, pt := range all {
		txns = append(txns, fromPlaid(pt))
	}
	drafts := c.toDrafts(txns)

	c.logger.Info("Fetched Plaid drafts",
		"transactions", len(all),
		"drafts", len(drafts))
	return drafts, nil
}

// Accounts lists the accounts behind the access token.
func (c *Client) Accounts(ctx context.Context) ([]Account, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}

	var accounts []plaid.AccountBase
	err := common.WithRetry(ctx, func() error {
		request := plaid.NewAccountsGetRequest(c.cfg.AccessToken)
		resp, _, err := c.client.PlaidApi.AccountsGet(ctx).AccountsGetRequest(*request).Execute()
		if err != nil {
			return c.classify(err, "failed to fetch accounts")
		}
		accounts = resp.GetAccounts()
		return nil
	}, c.retryOpts)
	if err != nil {
		return nil, err
	}

	out := make([]Account, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, Account{
			ID:   a.GetAccountId(),
			Name: a.GetName(),
			Mask: a.GetMask(),
			Type: string(a.GetType()),
		})
	}
	return out, nil
}

// classify marks Plaid rate limits as retryable and everything else as
// final.
func (c *Client) classify(err error, msg string) error {
	plaidErr, convErr := plaid.ToPlaidError(err)
	if convErr != nil {
		return &common.RetryableError{Err: fmt.Errorf("%s: %w", msg, err), Retryable: false}
	}
	if plaidErr.ErrorCode == "RATE_LIMIT_EXCEEDED" {
		c.logger.Warn("Rate limit hit, will retry", "error", plaidErr.ErrorMessage)
		return &common.RetryableError{Err: errors.Join(common.ErrRateLimit, err), Retryable: true}
	}
	return &common.RetryableError{
		Err:       fmt.Errorf("plaid API error: %s - %s", plaidErr.ErrorCode, plaidErr.ErrorMessage),
		Retryable: false,
	}
}

// transaction is the subset of a Plaid transaction a draft needs.
type transaction struct {
	ID          string
	Date        string
	Name        string
	Merchant    string
	CheckNumber string
	Channel     string
	Amount      float64
	Pending     bool
}

func fromPlaid(pt plaid.Transaction) transaction {
	return transaction{
		ID:          pt.GetTransactionId(),
		Date:        pt.GetDate(),
		Name:        pt.GetName(),
		Merchant:    pt.GetMerchantName(),
		CheckNumber: pt.GetCheckNumber(),
		Channel:     string(pt.GetPaymentChannel()),
		Amount:      pt.GetAmount(),
		Pending:     pt.GetPending(),
	}
}

func (c *Client) toDrafts(txns []transaction) []model.ActualDraft {
	drafts := make([]model.ActualDraft, 0, len(txns))
	for _, tx := range txns {
		if tx.Pending && !c.cfg.IncludePending {
			continue
		}
		d := toDraft(tx)
		d.AccountID = c.cfg.BudgetAccountID
		d.Row = len(drafts) + 1
		drafts = append(drafts, d)
	}
	return drafts
}

func toDraft(tx transaction) model.ActualDraft {
	name := tx.Merchant
	if name == "" {
		name = tx.Name
	}

	d := model.ActualDraft{
		Description: cleanMerchantName(name),
		Amount:      decimal.NewFromFloat(tx.Amount).Round(2),
		Date:        tx.Date,
		PayID:       tx.ID,
		Ref:         tx.CheckNumber,
		Source:      SourcePlaid,
	}
	if tx.Name != "" && tx.Name != name {
		d.Notes = tx.Name
	}
	if tx.Pending {
		d.Status = "pending"
	}
	if tx.Channel != "" && tx.Channel != "other" {
		d.Tags = []string{strings.ReplaceAll(tx.Channel, "_", "-")}
	}
	return d
}

var corporateSuffixes = []string{
	" Llc",
	" Inc",
	" Corp",
	" Corporation",
	" Company",
	" Co",
	" Ltd",
	" Limited",
}

// cleanMerchantName title-cases a merchant, drops a trailing transaction id
// and strips corporate suffixes.
func cleanMerchantName(name string) string {
	words := strings.Fields(strings.ToLower(name))
	for i, word := range words {
		runes := []rune(word)
		for j := range runes {
			if j == 0 || !isLetter(runes[j-1]) {
				runes[j] = toUpper(runes[j])
			}
		}
		words[i] = string(runes)
	}

	if len(words) > 1 {
		last := words[len(words)-1]
		if len(last) > 5 && isAllDigits(last) {
			words = words[:len(words)-1]
		}
	}
	name = strings.Join(words, " ")

	for changed := true; changed; {
		changed = false
		for _, suffix := range corporateSuffixes {
			if strings.HasSuffix(name, suffix) {
				name = strings.TrimSuffix(name, suffix)
				changed = true
			}
		}
	}

	return strings.TrimSpace(name)
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 32
	}
	return r
}
