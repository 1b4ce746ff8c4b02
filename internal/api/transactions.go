package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Veraticus/topsheet/internal/model"
)

// ListTransactionsParams filters a transaction listing.
type ListTransactionsParams struct {
	ProjectID string
	Status    string
	From      string
	To        string
	Page      int
	Limit     int
}

func (p ListTransactionsParams) params() Params {
	return Params{
		"projectId": optional(p.ProjectID),
		"status":    optional(p.Status),
		"from":      optional(p.From),
		"to":        optional(p.To),
		"page":      optionalInt(p.Page),
		"limit":     optionalInt(p.Limit),
	}
}

// ListTransactions returns synced bank and card transactions.
func (c *Client) ListTransactions(ctx context.Context, params ListTransactionsParams) ([]model.Transaction, error) {
	result, err := c.Request(ctx, http.MethodGet, "/transactions", nil, params.params())
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return decodeList[model.Transaction](result)
}

// GetTransaction returns one transaction.
func (c *Client) GetTransaction(ctx context.Context, transactionID string) (*model.Transaction, error) {
	var txn model.Transaction
	if err := c.Get(ctx, "/transactions/"+segment(transactionID), nil, &txn); err != nil {
		return nil, fmt.Errorf("failed to get transaction %s: %w", transactionID, err)
	}
	return &txn, nil
}

// UpdateTransaction reassigns a transaction.
func (c *Client) UpdateTransaction(ctx context.Context, transactionID string, update model.TransactionUpdate) (*model.Transaction, error) {
	var txn model.Transaction
	if err := c.Patch(ctx, "/transactions/"+segment(transactionID), update, nil, &txn); err != nil {
		return nil, fmt.Errorf("failed to update transaction %s: %w", transactionID, err)
	}
	return &txn, nil
}
