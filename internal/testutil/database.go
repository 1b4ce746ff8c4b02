// Package testutil provides shared helpers for tests that need a real
// preference store.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/topsheet/internal/service"
	"github.com/Veraticus/topsheet/internal/storage"
)

// TestDB wraps an in-memory preference store.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a migrated in-memory SQLite store that is closed when
// the test ends.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{})
}

// TestDBOptions provides configuration options for test database setup.
type TestDBOptions struct {
	Preferences    []service.ImportPreference
	SkipMigrations bool
}

// SetupTestDBWithOptions creates a test database with custom options.
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if !opts.SkipMigrations {
		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}

	for i := range opts.Preferences {
		pref := opts.Preferences[i]
		if err := store.SaveImportPreference(ctx, &pref); err != nil {
			t.Fatalf("failed to seed preference %q: %v", pref.Signature, err)
		}
	}

	return &TestDB{Storage: store, t: t}
}

// MustGetPreference returns the stored preference for signature or fails
// the test.
func (db *TestDB) MustGetPreference(signature string) *service.ImportPreference {
	db.t.Helper()
	pref, err := db.Storage.GetImportPreference(context.Background(), signature)
	if err != nil {
		db.t.Fatalf("preference %q: %v", signature, err)
	}
	return pref
}
