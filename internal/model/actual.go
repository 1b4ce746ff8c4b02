package model

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Actual is a recorded cost against a project budget.
type Actual struct {
	ID              string          `json:"id" yaml:"id"`
	Description     string          `json:"description" yaml:"description"`
	Amount          decimal.Decimal `json:"amount" yaml:"amount"`
	Date            string          `json:"date" yaml:"date"`
	AccountID       *string         `json:"accountId,omitempty" yaml:"accountId,omitempty"`
	Ref             *string         `json:"ref,omitempty" yaml:"ref,omitempty"`
	PayID           *string         `json:"payId,omitempty" yaml:"payId,omitempty"`
	Status          *string         `json:"status,omitempty" yaml:"status,omitempty"`
	Notes           *string         `json:"notes,omitempty" yaml:"notes,omitempty"`
	Tags            []string        `json:"tags,omitempty" yaml:"tags,omitempty"`
	PurchaseOrderID *string         `json:"purchaseOrderId,omitempty" yaml:"purchaseOrderId,omitempty"`
	Contact         *ContactRef     `json:"contact,omitempty" yaml:"contact,omitempty"`
}

// ActualInput is the body for creating or updating an actual. Amount is a
// json.Number so it goes over the wire as a JSON number.
type ActualInput struct {
	Description     string      `json:"description,omitempty"`
	Amount          json.Number `json:"amount,omitempty"`
	Date            string      `json:"date,omitempty"`
	AccountID       *string     `json:"accountId,omitempty"`
	Ref             *string     `json:"ref,omitempty"`
	PayID           *string     `json:"payId,omitempty"`
	Status          *string     `json:"status,omitempty"`
	Notes           *string     `json:"notes,omitempty"`
	Tags            []string    `json:"tags,omitempty"`
	PurchaseOrderID *string     `json:"purchaseOrderId,omitempty"`
}

// ActualDraft is one row read from an import source, not yet posted.
type ActualDraft struct {
	Amount          decimal.Decimal
	Description     string
	Date            string
	AccountID       string
	Ref             string
	PayID           string
	Status          string
	Notes           string
	PurchaseOrderID string
	Source          string
	Tags            []string
	Row             int
}

// Input converts the draft to an API body, leaving empty optional fields unset.
func (d ActualDraft) Input() ActualInput {
	return ActualInput{
		Description:     d.Description,
		Amount:          json.Number(d.Amount.String()),
		Date:            d.Date,
		AccountID:       optional(d.AccountID),
		Ref:             optional(d.Ref),
		PayID:           optional(d.PayID),
		Status:          optional(d.Status),
		Notes:           optional(d.Notes),
		Tags:            d.Tags,
		PurchaseOrderID: optional(d.PurchaseOrderID),
	}
}

// Hash identifies a draft for duplicate detection within one import.
func (d ActualDraft) Hash() string {
	data := fmt.Sprintf("%s:%s:%s:%s:%s",
		d.Date,
		d.Amount.StringFixed(2),
		d.Description,
		d.AccountID,
		d.PayID)
	sum := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", sum)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
