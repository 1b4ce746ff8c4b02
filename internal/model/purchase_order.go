package model

import "github.com/shopspring/decimal"

// PurchaseOrder is a commitment against a project budget.
type PurchaseOrder struct {
	ID          string          `json:"id" yaml:"id"`
	Number      string          `json:"number" yaml:"number"`
	Description *string         `json:"description,omitempty" yaml:"description,omitempty"`
	Status      string          `json:"status" yaml:"status"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
	Date        *string         `json:"date,omitempty" yaml:"date,omitempty"`
	AccountID   *string         `json:"accountId,omitempty" yaml:"accountId,omitempty"`
	Contact     *ContactRef     `json:"contact,omitempty" yaml:"contact,omitempty"`
}

// PurchaseOrderInput is the body for creating or updating a purchase order.
type PurchaseOrderInput struct {
	Number      string           `json:"number,omitempty"`
	Description *string          `json:"description,omitempty"`
	Status      string           `json:"status,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Date        *string          `json:"date,omitempty"`
	AccountID   *string          `json:"accountId,omitempty"`
	ContactID   *string          `json:"contactId,omitempty"`
}
