package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/topsheet/internal/common"
	"github.com/Veraticus/topsheet/internal/service"
	"github.com/Veraticus/topsheet/internal/topsheet"
)

// Result describes a finished export.
type Result struct {
	SpreadsheetID string   `json:"spreadsheetId" yaml:"spreadsheetId"`
	URL           string   `json:"url" yaml:"url"`
	Sheets        []string `json:"sheets" yaml:"sheets"`
}

// Writer writes topsheet tables to Google Sheets.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a writer authenticated per config. Extra client options
// are passed to the Sheets service.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger, opts ...option.ClientOption) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	ts, err := tokenSource(ctx, config)
	if err != nil {
		return nil, err
	}

	opts = append([]option.ClientOption{option.WithHTTPClient(oauth2.NewClient(ctx, ts))}, opts...)
	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}
	return newWriter(srv, config, logger), nil
}

func newWriter(srv *sheets.Service, config Config, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		service: srv,
		config:  config,
		logger:  logger.With("component", "sheets"),
	}
}

func tokenSource(ctx context.Context, config Config) (oauth2.TokenSource, error) {
	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}
		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}
		return jwtConfig.TokenSource(ctx), nil
	}

	oauthConfig := OAuth2Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		TokenFile:    config.TokenFile,
	}
	token := &oauth2.Token{RefreshToken: config.RefreshToken, TokenType: "Bearer"}
	if config.RefreshToken == "" {
		saved, err := LoadToken(config.TokenFile)
		if err != nil {
			return nil, fmt.Errorf("no saved Google token (run 'topsheet auth sheets'): %w", err)
		}
		token = saved
	}
	return oauthConfig.tokenSource(ctx, token), nil
}

// Write exports tables, one tab each. An existing spreadsheet gets missing
// tabs added and existing ones cleared before writing; otherwise a new
// spreadsheet is created.
func (w *Writer) Write(ctx context.Context, tables []topsheet.Table) (*Result, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("no tables to export")
	}
	names := topsheet.SheetNames(tables)

	w.logger.Info("Starting sheets export", "tables", len(tables))

	id, url, sheetIDs, err := w.prepare(ctx, names)
	if err != nil {
		return nil, err
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	data := w.valueRanges(tables, names)
	err = common.WithRetry(ctx, func() error {
		_, err := w.service.Spreadsheets.Values.BatchUpdate(id, &sheets.BatchUpdateValuesRequest{
			ValueInputOption: "RAW",
			Data:             data,
		}).Context(ctx).Do()
		return err
	}, retryOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to write values: %w", err)
	}

	if w.config.EnableFormatting {
		requests := formatRequests(tables, names, sheetIDs)
		if len(requests) > 0 {
			err := common.WithRetry(ctx, func() error {
				_, err := w.service.Spreadsheets.BatchUpdate(id, &sheets.BatchUpdateSpreadsheetRequest{
					Requests: requests,
				}).Context(ctx).Do()
				return err
			}, retryOpts)
			if err != nil {
				// Values are already written.
				w.logger.Warn("Failed to apply formatting", "error", err)
			}
		}
	}

	w.logger.Info("Sheets export completed",
		"spreadsheet_id", id,
		"tabs", len(names))

	return &Result{SpreadsheetID: id, URL: url, Sheets: names}, nil
}

// prepare makes sure every named tab exists and is empty, returning the
// spreadsheet id, its URL and the tab ids by name.
func (w *Writer) prepare(ctx context.Context, names []string) (string, string, map[string]int64, error) {
	if w.config.SpreadsheetID == "" {
		return w.create(ctx, names)
	}

	id := w.config.SpreadsheetID
	existing, err := w.service.Spreadsheets.Get(id).Context(ctx).Do()
	if err != nil {
		return "", "", nil, fmt.Errorf("unable to access spreadsheet %s: %w", id, err)
	}

	sheetIDs := make(map[string]int64, len(names))
	for _, s := range existing.Sheets {
		if s.Properties != nil {
			sheetIDs[s.Properties.Title] = s.Properties.SheetId
		}
	}

	var add []*sheets.Request
	var ranges []string
	for _, name := range names {
		if _, ok := sheetIDs[name]; ok {
			ranges = append(ranges, quoteSheet(name))
			continue
		}
		add = append(add, &sheets.Request{
			AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: name}},
		})
	}

	if len(add) > 0 {
		resp, err := w.service.Spreadsheets.BatchUpdate(id, &sheets.BatchUpdateSpreadsheetRequest{
			Requests: add,
		}).Context(ctx).Do()
		if err != nil {
			return "", "", nil, fmt.Errorf("failed to add sheets: %w", err)
		}
		for _, reply := range resp.Replies {
			if reply.AddSheet != nil && reply.AddSheet.Properties != nil {
				sheetIDs[reply.AddSheet.Properties.Title] = reply.AddSheet.Properties.SheetId
			}
		}
	}

	if len(ranges) > 0 {
		_, err := w.service.Spreadsheets.Values.BatchClear(id, &sheets.BatchClearValuesRequest{
			Ranges: ranges,
		}).Context(ctx).Do()
		if err != nil {
			return "", "", nil, fmt.Errorf("failed to clear sheets: %w", err)
		}
	}

	return id, existing.SpreadsheetUrl, sheetIDs, nil
}

func (w *Writer) create(ctx context.Context, names []string) (string, string, map[string]int64, error) {
	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
	}
	for _, name := range names {
		spreadsheet.Sheets = append(spreadsheet.Sheets, &sheets.Sheet{
			Properties: &sheets.SheetProperties{Title: name},
		})
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", "", nil, fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	sheetIDs := make(map[string]int64, len(created.Sheets))
	for _, s := range created.Sheets {
		if s.Properties != nil {
			sheetIDs[s.Properties.Title] = s.Properties.SheetId
		}
	}

	w.logger.Info("Created spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	return created.SpreadsheetId, created.SpreadsheetUrl, sheetIDs, nil
}

// valueRanges splits each table into BatchSize-row ranges.
func (w *Writer) valueRanges(tables []topsheet.Table, names []string) []*sheets.ValueRange {
	batch := w.config.BatchSize
	if batch <= 0 {
		batch = 1000
	}

	var data []*sheets.ValueRange
	for i, t := range tables {
		values := t.Values()
		for start := 0; start < len(values); start += batch {
			end := min(start+batch, len(values))
			data = append(data, &sheets.ValueRange{
				Range:  fmt.Sprintf("%s!A%d", quoteSheet(names[i]), start+1),
				Values: values[start:end],
			})
		}
	}
	return data
}

// formatRequests bolds and freezes the header row of every tab that has one
// and sizes its columns.
func formatRequests(tables []topsheet.Table, names []string, sheetIDs map[string]int64) []*sheets.Request {
	var requests []*sheets.Request
	for i, t := range tables {
		sheetID, ok := sheetIDs[names[i]]
		if !ok || t.Header == nil {
			continue
		}
		requests = append(requests,
			&sheets.Request{
				RepeatCell: &sheets.RepeatCellRequest{
					Range: &sheets.GridRange{
						SheetId:       sheetID,
						StartRowIndex: 0,
						EndRowIndex:   1,
					},
					Cell: &sheets.CellData{
						UserEnteredFormat: &sheets.CellFormat{
							TextFormat: &sheets.TextFormat{Bold: true},
						},
					},
					Fields: "userEnteredFormat.textFormat.bold",
				},
			},
			&sheets.Request{
				UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
					Properties: &sheets.SheetProperties{
						SheetId:        sheetID,
						GridProperties: &sheets.GridProperties{FrozenRowCount: 1},
					},
					Fields: "gridProperties.frozenRowCount",
				},
			},
			&sheets.Request{
				AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
					Dimensions: &sheets.DimensionRange{
						SheetId:    sheetID,
						Dimension:  "COLUMNS",
						StartIndex: 0,
						EndIndex:   int64(len(t.Header)),
					},
				},
			},
		)
	}
	return requests
}

// quoteSheet quotes a tab name for A1 notation.
func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
