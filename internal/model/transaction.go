package model

import "github.com/shopspring/decimal"

// Transaction is a bank or card transaction synced into the workspace.
type Transaction struct {
	ID          string          `json:"id" yaml:"id"`
	Date        string          `json:"date" yaml:"date"`
	Description string          `json:"description" yaml:"description"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
	Status      string          `json:"status,omitempty" yaml:"status,omitempty"`
	ProjectID   *string         `json:"projectId,omitempty" yaml:"projectId,omitempty"`
	ActualID    *string         `json:"actualId,omitempty" yaml:"actualId,omitempty"`
	Account     *string         `json:"account,omitempty" yaml:"account,omitempty"`
}

// TransactionUpdate is the body for reassigning a transaction.
type TransactionUpdate struct {
	ProjectID *string `json:"projectId,omitempty"`
	AccountID *string `json:"accountId,omitempty"`
	Status    *string `json:"status,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}
