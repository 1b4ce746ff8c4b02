package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/topsheet/internal/api"
	"github.com/Veraticus/topsheet/internal/common"
	"github.com/Veraticus/topsheet/internal/config"
	"github.com/Veraticus/topsheet/internal/service"
	"github.com/Veraticus/topsheet/internal/storage"
)

var apiRetryOptions = service.RetryOptions{
	MaxAttempts:  3,
	InitialDelay: 500 * time.Millisecond,
	MaxDelay:     10 * time.Second,
	Multiplier:   2.0,
}

// newAPIClient builds a client from the loaded configuration.
func newAPIClient() (*api.Client, error) {
	client, err := api.New(appConfig.API, api.WithLogger(slog.Default().With("component", "api")))
	if err != nil {
		return nil, common.NewUserError(
			"API credentials are not configured. Set api.key (or api.token and api.workspace_id) in the config file or TOPSHEET_API_KEY.",
			err)
	}
	return client, nil
}

// initStorage opens the preference database and runs migrations.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := config.ExpandPath(appConfig.Database.Path)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// withAPIRetry retries op while the API reports transient failures.
func withAPIRetry(ctx context.Context, op func() error) error {
	return common.WithRetry(ctx, func() error {
		err := op()
		if err != nil && !api.IsTransient(err) {
			return &common.RetryableError{Err: err, Retryable: false}
		}
		return err
	}, apiRetryOptions)
}

// fetch runs a read call under withAPIRetry.
func fetch[T any](ctx context.Context, call func(context.Context) (T, error)) (T, error) {
	var out T
	err := withAPIRetry(ctx, func() error {
		var err error
		out, err = call(ctx)
		return err
	})
	return out, err
}

// readInput reads a file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(config.ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
