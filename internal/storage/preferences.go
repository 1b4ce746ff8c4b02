package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/topsheet/internal/common"
	"github.com/Veraticus/topsheet/internal/service"
)

// GetImportPreference returns the preference stored for signature, or
// common.ErrNotFound.
func (s *SQLiteStorage) GetImportPreference(ctx context.Context, signature string) (*service.ImportPreference, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var payload string
	var updatedAt time.Time
	err := s.db.QueryRowContext(ctx, `
		SELECT payload, updated_at FROM preferences
		WHERE namespace = ? AND signature = ?
	`, service.ImportPreferencesNamespace, signature).Scan(&payload, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get import preference: %w", err)
	}

	return decodePreference(signature, payload, updatedAt)
}

// SaveImportPreference inserts or replaces the preference for its signature.
func (s *SQLiteStorage) SaveImportPreference(ctx context.Context, pref *service.ImportPreference) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePreference(pref); err != nil {
		return err
	}

	payload, err := json.Marshal(pref)
	if err != nil {
		return fmt.Errorf("failed to encode import preference: %w", err)
	}

	pref.UpdatedAt = time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO preferences (namespace, signature, payload, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(namespace, signature) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, service.ImportPreferencesNamespace, pref.Signature, string(payload), pref.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save import preference: %w", err)
	}
	return nil
}

// ListImportPreferences returns every stored preference, most recently
// updated first. Rows whose payload cannot be decoded are skipped.
func (s *SQLiteStorage) ListImportPreferences(ctx context.Context) ([]service.ImportPreference, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT signature, payload, updated_at FROM preferences
		WHERE namespace = ?
		ORDER BY updated_at DESC, signature
	`, service.ImportPreferencesNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to list import preferences: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var prefs []service.ImportPreference
	for rows.Next() {
		var signature, payload string
		var updatedAt time.Time
		if err := rows.Scan(&signature, &payload, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan import preference: %w", err)
		}
		pref, err := decodePreference(signature, payload, updatedAt)
		if err != nil {
			s.logger.Warn("Skipping unreadable import preference",
				"signature", signature,
				"error", err)
			continue
		}
		prefs = append(prefs, *pref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate import preferences: %w", err)
	}
	return prefs, nil
}

// DeleteImportPreference removes the preference for signature. Deleting a
// missing preference returns common.ErrNotFound.
func (s *SQLiteStorage) DeleteImportPreference(ctx context.Context, signature string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM preferences WHERE namespace = ? AND signature = ?`,
		service.ImportPreferencesNamespace, signature)
	if err != nil {
		return fmt.Errorf("failed to delete import preference: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// ClearImportPreferences removes every stored preference and returns how
// many were deleted.
func (s *SQLiteStorage) ClearImportPreferences(ctx context.Context) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM preferences WHERE namespace = ?`, service.ImportPreferencesNamespace)
	if err != nil {
		return 0, fmt.Errorf("failed to clear import preferences: %w", err)
	}
	return result.RowsAffected()
}

func decodePreference(signature, payload string, updatedAt time.Time) (*service.ImportPreference, error) {
	var pref service.ImportPreference
	if err := json.Unmarshal([]byte(payload), &pref); err != nil {
		return nil, fmt.Errorf("%w: preference %q: %w", common.ErrDatabaseCorrupted, signature, err)
	}
	pref.Signature = signature
	pref.UpdatedAt = updatedAt
	return &pref, nil
}
