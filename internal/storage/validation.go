package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/topsheet/internal/service"
)

// Validation errors.
var (
	ErrNilContext        = errors.New("context cannot be nil")
	ErrEmptyString       = errors.New("string parameter cannot be empty")
	ErrNilParameter      = errors.New("parameter cannot be nil")
	ErrInvalidPreference = errors.New("invalid import preference")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validatePreference checks a preference before it is stored. Mapping values
// must be column numbers or nil.
func validatePreference(pref *service.ImportPreference) error {
	if pref == nil {
		return fmt.Errorf("%w: preference", ErrNilParameter)
	}
	for key, v := range pref.Mapping {
		if key == "" {
			return fmt.Errorf("%w: empty mapping key", ErrInvalidPreference)
		}
		switch v.(type) {
		case nil, int, int64, float64:
		default:
			return fmt.Errorf("%w: mapping %q has non-numeric value %v", ErrInvalidPreference, key, v)
		}
	}
	return nil
}
