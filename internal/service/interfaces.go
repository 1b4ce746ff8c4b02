// Package service defines the interfaces shared between application packages.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/topsheet/internal/model"
)

// ImportPreferencesNamespace is the store key under which CSV import mappings
// are remembered.
const ImportPreferencesNamespace = "actuals-import-preferences"

// ImportPreference is a remembered column mapping for one header signature.
type ImportPreference struct {
	UpdatedAt              time.Time      `json:"-"`
	Mapping                map[string]any `json:"mapping"`
	Signature              string         `json:"-"`
	Columns                []string       `json:"columns"`
	ImportFirstRow         bool           `json:"importFirstRow"`
	ReplaceExistingActuals bool           `json:"replaceExistingActuals"`
}

// PreferenceStore persists import preferences keyed by header signature.
type PreferenceStore interface {
	GetImportPreference(ctx context.Context, signature string) (*ImportPreference, error)
	SaveImportPreference(ctx context.Context, pref *ImportPreference) error
	ListImportPreferences(ctx context.Context) ([]ImportPreference, error)
	DeleteImportPreference(ctx context.Context, signature string) error
}

// ActualsService is the subset of the API client the importer needs.
type ActualsService interface {
	ListActuals(ctx context.Context, projectID string, params ActualListParams) ([]model.Actual, error)
	CreateActual(ctx context.Context, projectID string, input model.ActualInput) (*model.Actual, error)
	DeleteActual(ctx context.Context, projectID, actualID string) error
}

// ActualListParams filters an actuals listing.
type ActualListParams struct {
	AccountIDs []string
	Tags       []string
	From       string
	To         string
}

// DraftSource produces import drafts from an external feed.
type DraftSource interface {
	Drafts(ctx context.Context, startDate, endDate time.Time) ([]model.ActualDraft, error)
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
