package model

import "github.com/shopspring/decimal"

// Rate is a reusable rate card entry.
type Rate struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Description *string         `json:"description,omitempty" yaml:"description,omitempty"`
	Unit        string          `json:"unit" yaml:"unit"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
	Currency    string          `json:"currency,omitempty" yaml:"currency,omitempty"`
}

// RateInput is the body for creating or updating a rate.
type RateInput struct {
	Name        string           `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Unit        string           `json:"unit,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Currency    string           `json:"currency,omitempty"`
}
