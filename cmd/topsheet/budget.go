package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/topsheet/internal/api"
	"github.com/Veraticus/topsheet/internal/cli"
	"github.com/Veraticus/topsheet/internal/common"
	"github.com/Veraticus/topsheet/internal/config"
	"github.com/Veraticus/topsheet/internal/gcs"
	"github.com/Veraticus/topsheet/internal/model"
	"github.com/Veraticus/topsheet/internal/sheets"
	"github.com/Veraticus/topsheet/internal/topsheet"
)

const (
	exportCSV    = "csv"
	exportXLSX   = "xlsx"
	exportSheets = "sheets"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Fetch and export project budgets",
	}

	cmd.AddCommand(budgetGetCmd())
	cmd.AddCommand(budgetExportCmd())

	return cmd
}

func budgetGetCmd() *cobra.Command {
	var params api.BudgetParams

	cmd := &cobra.Command{
		Use:   "get PROJECT_ID",
		Short: "Print a project's raw budget tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newAPIClient()
			if err != nil {
				return err
			}
			defer client.Close()

			budget, err := fetch(cmd.Context(), func(ctx context.Context) (*model.Budget, error) {
				return client.GetBudget(ctx, args[0], params)
			})
			if err != nil {
				return err
			}
			return render(cmd, budget)
		},
	}

	cmd.Flags().StringSliceVar(&params.Phases, "phase", nil, "limit to phases (repeatable)")
	cmd.Flags().StringSliceVar(&params.Tags, "tag", nil, "limit to tags (repeatable)")
	cmd.Flags().StringSliceVar(&params.Expands, "expand", nil, "embed related objects (repeatable)")

	return cmd
}

type exportFlags struct {
	format          string
	out             string
	gcsURI          string
	spreadsheetID   string
	spreadsheetName string
	phases          []string
	columns         []string
	lineTypes       []string
	noHeaders       bool
}

func budgetExportCmd() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export PROJECT_ID",
		Short: "Export a budget as a topsheet (CSV, XLSX or Google Sheets)",
		Long: `Export a project budget flattened into one table for the root account and
one for each top-level account.

Examples:
  # CSV to stdout with the default id and description columns
  topsheet budget export prj_123

  # Rate and quantity for two phases, to a workbook
  topsheet budget export prj_123 --format xlsx --columns id,description,quantity,rate \
    --phases estimate,actual --out topsheet.xlsx

  # Upload the CSV to a bucket
  topsheet budget export prj_123 --gcs gs://exports/budgets/

  # Write to a Google spreadsheet
  topsheet budget export prj_123 --format sheets`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBudgetExport(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "export format: csv, xlsx or sheets (default from export.format)")
	cmd.Flags().StringVar(&flags.out, "out", "", "output file (default: stdout for csv, PROJECT_ID-topsheet.xlsx for xlsx)")
	cmd.Flags().StringVar(&flags.gcsURI, "gcs", "", "upload the file to gs://bucket/path instead of writing it locally")
	cmd.Flags().StringVar(&flags.spreadsheetID, "spreadsheet-id", "", "existing spreadsheet to overwrite (sheets format)")
	cmd.Flags().StringVar(&flags.spreadsheetName, "spreadsheet-name", "", "title for a new spreadsheet (sheets format)")
	cmd.Flags().StringSliceVar(&flags.phases, "phases", nil, "phases to include, by alias, id or name")
	cmd.Flags().StringSliceVar(&flags.columns, "columns", nil, "columns to include (id, description, tags, contact, notes, fringes, dates, quantity, rate, x)")
	cmd.Flags().StringSliceVar(&flags.lineTypes, "line-types", nil, "line types to include (line, account, subtotal, markup, fringes)")
	cmd.Flags().BoolVar(&flags.noHeaders, "no-headers", false, "omit header rows")

	return cmd
}

// exportOptions merges flags over the export section of the config.
func exportOptions(cmd *cobra.Command, flags exportFlags, defaults config.ExportConfig) (string, topsheet.Options, error) {
	format := defaults.Format
	if flags.format != "" {
		format = flags.format
	}
	format = strings.ToLower(format)

	phases, columns, lineTypes, noHeaders := defaults.Phases, defaults.Columns, defaults.LineTypes, defaults.NoHeaders
	if cmd.Flags().Changed("phases") {
		phases = flags.phases
	}
	if cmd.Flags().Changed("columns") {
		columns = flags.columns
	}
	if cmd.Flags().Changed("line-types") {
		lineTypes = flags.lineTypes
	}
	if cmd.Flags().Changed("no-headers") {
		noHeaders = flags.noHeaders
	}

	opts, err := topsheet.ParseOptions(phases, columns, lineTypes, noHeaders)
	return format, opts, err
}

func runBudgetExport(cmd *cobra.Command, projectID string, flags exportFlags) error {
	ctx := cmd.Context()

	format, opts, err := exportOptions(cmd, flags, appConfig.Export)
	if err != nil {
		return err
	}
	if format == exportSheets && flags.gcsURI != "" {
		return fmt.Errorf("%w: --gcs cannot be combined with the sheets format", common.ErrUnsupportedInput)
	}

	client, err := newAPIClient()
	if err != nil {
		return err
	}
	defer client.Close()

	budget, err := fetch(ctx, func(ctx context.Context) (*model.Budget, error) {
		return client.GetBudget(ctx, projectID, api.BudgetParams{})
	})
	if err != nil {
		return err
	}

	if format == exportSheets {
		return exportToSheets(cmd, budget, opts, flags)
	}

	data, contentType, err := renderExport(budget, format, opts)
	if err != nil {
		return err
	}

	name := flags.out
	if name == "" {
		name = exportFileName(projectID, format, time.Now())
	}

	switch {
	case flags.gcsURI != "":
		return uploadExport(ctx, cmd, flags.gcsURI, name, data, contentType)
	case flags.out == "" && format == exportCSV:
		_, err := cmd.OutOrStdout().Write(data)
		return err
	default:
		path := config.ExpandPath(name)
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess("Exported budget to "+path))
		return nil
	}
}

// renderExport produces the file body and its content type.
func renderExport(budget *model.Budget, format string, opts topsheet.Options) ([]byte, string, error) {
	var buf bytes.Buffer
	switch format {
	case exportCSV:
		if err := topsheet.WriteCSV(&buf, budget, opts); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "text/csv; charset=utf-8", nil
	case exportXLSX:
		if err := topsheet.WriteXLSX(&buf, budget, opts); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil
	default:
		return nil, "", fmt.Errorf("%w: export format %q", common.ErrUnsupportedInput, format)
	}
}

// exportFileName names an export that has no explicit --out.
func exportFileName(projectID, format string, now time.Time) string {
	return fmt.Sprintf("%s-topsheet-%s.%s", projectID, now.Format("20060102"), format)
}

func uploadExport(ctx context.Context, cmd *cobra.Command, uri, name string, data []byte, contentType string) error {
	loc, err := gcs.ParseURI(uri)
	if err != nil {
		return err
	}
	loc = loc.Resolve(name)

	uploader, err := gcs.NewUploader(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = uploader.Close() }()

	if err := uploader.Upload(ctx, loc, bytes.NewReader(data), contentType); err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess("Uploaded budget to "+loc.String()))
	return nil
}

func exportToSheets(cmd *cobra.Command, budget *model.Budget, opts topsheet.Options, flags exportFlags) error {
	cfg := config.LoadSheetsConfig(viper.GetViper())
	if flags.spreadsheetID != "" {
		cfg.SpreadsheetID = flags.spreadsheetID
	}
	if flags.spreadsheetName != "" {
		cfg.SpreadsheetName = flags.spreadsheetName
	}
	if err := cfg.Validate(); err != nil {
		return common.NewUserError(
			"Google Sheets is not configured. Run 'topsheet auth sheets' or set sheets.service_account_path.",
			err)
	}

	writer, err := sheets.NewWriter(cmd.Context(), *cfg, slog.Default().With("component", "sheets"))
	if err != nil {
		return err
	}

	result, err := writer.Write(cmd.Context(), topsheet.Tables(budget, opts))
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess(fmt.Sprintf("Wrote %d sheets to %s", len(result.Sheets), result.URL)))
	return render(cmd, result)
}
