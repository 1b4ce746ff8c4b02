package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/topsheet/internal/cli"
	"github.com/Veraticus/topsheet/internal/common"
	"github.com/Veraticus/topsheet/internal/csvimport"
	"github.com/Veraticus/topsheet/internal/importer"
	"github.com/Veraticus/topsheet/internal/model"
	"github.com/Veraticus/topsheet/internal/service"
	"github.com/Veraticus/topsheet/internal/tui"
)

const resumeHint = "Rows already imported are skipped as duplicates on the next run."

func actualsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "actuals",
		Short: "List and import a project's actuals",
	}

	cmd.AddCommand(actualsListCmd())
	cmd.AddCommand(actualsImportCmd())
	cmd.AddCommand(actualsImportOFXCmd())
	cmd.AddCommand(actualsOFXAccountsCmd())
	cmd.AddCommand(actualsSyncPlaidCmd())
	cmd.AddCommand(actualsPlaidAccountsCmd())

	return cmd
}

func actualsListCmd() *cobra.Command {
	var params service.ActualListParams

	cmd := &cobra.Command{
		Use:   "list PROJECT_ID",
		Short: "List a project's actuals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}
			defer client.Close()

			actuals, err := fetch(cmd.Context(), func(ctx context.Context) ([]model.Actual, error) {
				return client.ListActuals(ctx, args[0], params)
			})
			if err != nil {
				return err
			}
			return render(cmd, actuals)
		},
	}

	cmd.Flags().StringSliceVar(&params.AccountIDs, "account", nil, "filter by budget account id (repeatable)")
	cmd.Flags().StringSliceVar(&params.Tags, "tag", nil, "filter by tag (repeatable)")
	cmd.Flags().StringVar(&params.From, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&params.To, "to", "", "end date (YYYY-MM-DD)")

	return cmd
}

// importFlags are shared by every import command.
type importFlags struct {
	replace bool
	dryRun  bool
	yes     bool
}

func (f *importFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.replace, "replace", false, "delete the project's existing actuals before importing")
	cmd.Flags().BoolVarP(&f.dryRun, "dry-run", "d", false, "count what would change without writing")
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "do not ask before deleting existing actuals")
}

func actualsImportCmd() *cobra.Command {
	var flags importFlags
	var interactive, firstRow, skipInvalid bool

	cmd := &cobra.Command{
		Use:   "import PROJECT_ID FILE",
		Short: "Import actuals from a CSV file",
		Long: `Import actuals from a CSV file ("-" reads stdin).

Columns are matched to actual fields by their headers. The mapping is
remembered per header layout, so the next file with the same columns reuses
whatever was chosen last time. Use --interactive to review and adjust the
mapping before importing.

Description, Amount and Date must be mapped.

Each actual already in the project matches one identical row (same date,
amount, description, account and pay id), which is skipped. Re-running a
file after an interruption only creates what is missing; identical rows
within one file are imported as separate actuals.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID := args[0]

			data, err := readInput(cmd, args[1])
			if err != nil {
				return err
			}

			var store service.PreferenceStore
			if db, err := initStorage(ctx); err != nil {
				slog.Warn("Import preferences unavailable; the mapping will not be remembered", "error", err)
			} else {
				defer func() { _ = db.Close() }()
				store = db
			}

			session, err := csvimport.Load(ctx, string(data), store,
				csvimport.WithLogger(slog.Default().With("component", "csvimport")))
			if err != nil {
				return err
			}
			if session.Remembered() {
				slog.Info("Using remembered column mapping", "signature", session.Signature())
			}

			if cmd.Flags().Changed("first-row") {
				session.SetImportFirstRow(ctx, firstRow)
			}
			if cmd.Flags().Changed("replace") {
				session.SetReplaceExisting(ctx, flags.replace)
			}

			if interactive {
				confirmed, err := tui.RunMappingEditor(ctx, session)
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatInfo("Import canceled"))
					return nil
				}
			}

			if missing := session.Missing(); len(missing) > 0 {
				return common.NewUserError(
					"Could not map "+fieldList(missing)+" from the CSV headers. Re-run with --interactive to choose the columns.",
					common.ErrMissingMapping)
			}

			drafts, rowErrs, err := session.Drafts()
			if err != nil {
				return err
			}
			if len(rowErrs) > 0 {
				w := cmd.ErrOrStderr()
				for _, rowErr := range rowErrs {
					fmt.Fprintln(w, cli.FormatWarning(rowErr.Error()))
				}
				if !skipInvalid {
					return fmt.Errorf("%d rows could not be read; fix them or pass --skip-invalid", len(rowErrs))
				}
			}

			flags.replace = session.ReplaceExisting()
			return runImport(cmd, projectID, drafts, flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "review the column mapping before importing")
	cmd.Flags().BoolVar(&firstRow, "first-row", false, "treat the first row as data rather than headers")
	cmd.Flags().BoolVar(&skipInvalid, "skip-invalid", false, "import the readable rows and skip the rest")

	return cmd
}

func fieldList(fields []csvimport.Field) string {
	out := ""
	for i, f := range fields {
		if i > 0 {
			out += ", "
		}
		out += f.Label()
	}
	return out
}

// runImport creates drafts in a project, drawing progress and a summary.
func runImport(cmd *cobra.Command, projectID string, drafts []model.ActualDraft, flags importFlags) error {
	if len(drafts) == 0 {
		return common.NewUserError("Nothing to import", common.ErrNoRows)
	}

	w := cmd.ErrOrStderr()

	if flags.replace && !flags.dryRun && !flags.yes {
		reader := cli.NewNonBlockingReader(cmd.InOrStdin())
		ok, err := reader.Confirm(cmd.Context(), w, "Delete all existing actuals in "+projectID+" before importing?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(w, cli.FormatInfo("Import canceled"))
			return nil
		}
	}

	client, err := newAPIClient()
	if err != nil {
		return err
	}
	defer client.Close()

	interrupts := cli.NewInterruptHandler(w, "Import", resumeHint)
	ctx, stop := interrupts.HandleInterrupts(cmd.Context())
	defer stop()

	progress := cli.NewProgress(w, "Importing actuals...")
	summary, err := importer.New(client, slog.Default().With("component", "importer")).
		Run(ctx, projectID, drafts, importer.Options{
			Replace:  flags.replace,
			DryRun:   flags.dryRun,
			Progress: progress.Update,
		})
	progress.Finish()

	if summary != nil {
		printSummary(w, summary)
	}
	if err != nil {
		if interrupts.WasInterrupted() && errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	if !summary.OK() {
		return fmt.Errorf("%d of %d actuals failed to import", len(summary.Failures), len(drafts))
	}
	return nil
}

func printSummary(w io.Writer, summary *importer.Summary) {
	title := "Import complete"
	if summary.DryRun {
		title = "Dry run (nothing was written)"
	}

	fmt.Fprintln(w, cli.RenderSummary(title, []cli.Stat{
		{Label: "Created", Value: summary.Created},
		{Label: "Deleted", Value: summary.Deleted},
		{Label: "Duplicates skipped", Value: summary.Duplicates},
		{Label: "Failed", Value: len(summary.Failures)},
	}))

	for _, failure := range summary.Failures {
		fmt.Fprintln(w, cli.FormatError(failure.Error()))
	}
}
