package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/Veraticus/topsheet/internal/service"
)

func TestValidateContext(t *testing.T) {
	tests := []struct {
		ctx     context.Context
		name    string
		wantErr bool
	}{
		{
			name:    "valid context",
			ctx:     context.Background(),
			wantErr: false,
		},
		{
			name:    "nil context",
			ctx:     nil,
			wantErr: true,
		},
		{
			name: "canceled context still valid",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			}(),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateContext(tt.ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateContext() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateString(t *testing.T) {
	tests := []struct {
		name    string
		str     string
		wantErr bool
	}{
		{name: "valid string", str: "test"},
		{name: "empty string", str: "", wantErr: true},
		{name: "whitespace only", str: "   ", wantErr: true},
		{name: "string with spaces", str: "  test  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateString(tt.str, "param")
			if (err != nil) != tt.wantErr {
				t.Errorf("validateString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrEmptyString) {
				t.Errorf("validateString() error = %v, want ErrEmptyString", err)
			}
		})
	}
}

func TestValidatePreference(t *testing.T) {
	tests := []struct {
		pref    *service.ImportPreference
		wantErr error
		name    string
	}{
		{
			name:    "nil",
			pref:    nil,
			wantErr: ErrNilParameter,
		},
		{
			name: "numeric and nil values",
			pref: &service.ImportPreference{
				Signature: "a|b",
				Mapping:   map[string]any{"description": 0, "amount": 1.0, "date": nil},
			},
		},
		{
			name: "string value",
			pref: &service.ImportPreference{
				Signature: "a|b",
				Mapping:   map[string]any{"description": "0"},
			},
			wantErr: ErrInvalidPreference,
		},
		{
			name: "empty key",
			pref: &service.ImportPreference{
				Signature: "a|b",
				Mapping:   map[string]any{"": 1},
			},
			wantErr: ErrInvalidPreference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePreference(tt.pref)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("validatePreference() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validatePreference() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
