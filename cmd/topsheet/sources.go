package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/topsheet/internal/common"
	"github.com/Veraticus/topsheet/internal/config"
	"github.com/Veraticus/topsheet/internal/model"
	"github.com/Veraticus/topsheet/internal/ofx"
	"github.com/Veraticus/topsheet/internal/plaid"
)

const dateLayout = "2006-01-02"

// expandFiles resolves glob patterns, keeping plain paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		pattern = config.ExpandPath(pattern)
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) > 0 {
			files = append(files, matches...)
			continue
		}
		if _, err := os.Stat(pattern); err == nil {
			files = append(files, pattern)
		} else {
			slog.Warn("No files found matching pattern", "pattern", pattern)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files found to import", common.ErrNoRows)
	}
	return files, nil
}

func actualsImportOFXCmd() *cobra.Command {
	var flags importFlags
	var accountID string

	cmd := &cobra.Command{
		Use:   "import-ofx PROJECT_ID FILE...",
		Short: "Import actuals from OFX/QFX bank or card statements",
		Long: `Import actuals from OFX or QFX (Quicken) files exported from a bank.

Debits become positive costs and credits negative ones. Statements that
overlap are fine: identical transactions are imported once.

Examples:
  topsheet actuals import-ofx prj_123 ~/Downloads/chase_*.qfx --account acct_camera`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandFiles(args[1:])
			if err != nil {
				return err
			}

			parser := ofx.NewParser(
				ofx.WithAccountID(accountID),
				ofx.WithLogger(slog.Default().With("component", "ofx")))

			var drafts []model.ActualDraft
			for _, path := range files {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", path, err)
				}
				fileDrafts, err := parser.ParseFile(cmd.Context(), bytes.NewReader(data))
				if err != nil {
					return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
				}
				slog.Info("Parsed statement", "file", filepath.Base(path), "transactions", len(fileDrafts))
				drafts = append(drafts, fileDrafts...)
			}

			return runImport(cmd, args[0], drafts, flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&accountID, "account", "", "budget account id to charge the imported actuals to")

	return cmd
}

func actualsOFXAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ofx-accounts FILE...",
		Short: "List the bank and card accounts in OFX/QFX files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandFiles(args)
			if err != nil {
				return err
			}

			parser := ofx.NewParser()
			accounts := map[string][]string{}
			for _, path := range files {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", path, err)
				}
				ids, err := parser.Accounts(cmd.Context(), f)
				_ = f.Close()
				if err != nil {
					return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
				}
				accounts[filepath.Base(path)] = ids
			}
			return render(cmd, accounts)
		},
	}
}

// newPlaidSource is replaced in tests.
var newPlaidSource = func(cfg *plaid.Config) (plaid.Source, error) {
	client, err := plaid.NewClient(cfg)
	if err != nil {
		return nil, common.NewUserError(
			"Plaid is not configured. Set plaid.client_id, plaid.secret and plaid.access_token.",
			err)
	}
	return client, nil
}

// syncWindow resolves --start/--end/--days into a date range ending today
// by default.
func syncWindow(start, end string, days int, now time.Time) (time.Time, time.Time, error) {
	endDate := now
	if end != "" {
		t, err := time.Parse(dateLayout, end)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: end date %q", common.ErrUnsupportedInput, end)
		}
		endDate = t
	}

	startDate := endDate.AddDate(0, 0, -days)
	if start != "" {
		t, err := time.Parse(dateLayout, start)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: start date %q", common.ErrUnsupportedInput, start)
		}
		startDate = t
	}

	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start date is after end date", common.ErrUnsupportedInput)
	}
	return startDate, endDate, nil
}

func actualsSyncPlaidCmd() *cobra.Command {
	var flags importFlags
	var start, end string
	var days int
	var includePending bool

	cmd := &cobra.Command{
		Use:   "sync-plaid PROJECT_ID",
		Short: "Import card and bank transactions from Plaid as actuals",
		Long: `Fetch transactions from the Plaid item configured under "plaid" and import
them as actuals. Transactions imported by an earlier sync are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, endDate, err := syncWindow(start, end, days, time.Now())
			if err != nil {
				return err
			}

			cfg := appConfig.Plaid
			if cmd.Flags().Changed("include-pending") {
				cfg.IncludePending = includePending
			}
			source, err := newPlaidSource(&cfg)
			if err != nil {
				return err
			}

			drafts, err := source.Drafts(cmd.Context(), startDate, endDate)
			if err != nil {
				return err
			}
			slog.Info("Fetched Plaid transactions",
				"start", startDate.Format(dateLayout),
				"end", endDate.Format(dateLayout),
				"count", len(drafts))

			return runImport(cmd, args[0], drafts, flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&start, "start", "", "first date to fetch (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "last date to fetch (YYYY-MM-DD, default today)")
	cmd.Flags().IntVar(&days, "days", 30, "days to fetch when --start is not set")
	cmd.Flags().BoolVar(&includePending, "include-pending", false, "also import pending transactions")

	return cmd
}

func actualsPlaidAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plaid-accounts",
		Short: "List the accounts of the configured Plaid item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := appConfig.Plaid
			source, err := newPlaidSource(&cfg)
			if err != nil {
				return err
			}

			accounts, err := source.Accounts(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd, accounts)
		},
	}
}
