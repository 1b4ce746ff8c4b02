package csvimport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/topsheet/internal/common"
	"github.com/Veraticus/topsheet/internal/model"
	"github.com/Veraticus/topsheet/internal/service"
)

// ErrNoHeader is returned for input without any records.
var ErrNoHeader = errors.New("csv has no header row")

// Session is one CSV file being prepared for import. The mapping and flags
// are saved to the preference store whenever they change so the next file
// with the same headers starts from them.
type Session struct {
	store           service.PreferenceStore
	logger          *slog.Logger
	mapping         Mapping
	signature       string
	records         [][]string
	lines           []int
	remembered      bool
	importFirstRow  bool
	replaceExisting bool
}

// SessionOption customizes a Session.
type SessionOption func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Load parses text and starts a session. store may be nil, in which case
// nothing is remembered.
func Load(ctx context.Context, text string, store service.PreferenceStore, opts ...SessionOption) (*Session, error) {
	records, lines, err := ParseLines(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return newSession(ctx, records, lines, store, opts...)
}

// NewSession starts a session over already parsed records. The first record
// is the header row. A remembered mapping for the same header signature is
// reused; otherwise one is guessed and saved. Records are numbered as
// consecutive file lines.
func NewSession(ctx context.Context, records [][]string, store service.PreferenceStore, opts ...SessionOption) (*Session, error) {
	lines := make([]int, len(records))
	for i := range lines {
		lines[i] = i + 1
	}
	return newSession(ctx, records, lines, store, opts...)
}

func newSession(ctx context.Context, records [][]string, lines []int, store service.PreferenceStore, opts ...SessionOption) (*Session, error) {
	if len(records) == 0 {
		return nil, ErrNoHeader
	}

	s := &Session{
		store:     store,
		records:   records,
		lines:     lines,
		signature: Signature(records[0]),
		logger:    slog.Default().With("component", "csvimport"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if pref := s.lookup(ctx); pref != nil {
		s.mapping = FromStored(pref.Mapping, s.ColumnCount())
		s.importFirstRow = pref.ImportFirstRow
		s.replaceExisting = pref.ReplaceExistingActuals
		s.remembered = true
		s.logger.Debug("Using remembered column mapping",
			"signature", s.signature,
			"updated_at", pref.UpdatedAt)
		return s, nil
	}

	s.mapping = Guess(s.Headers())
	s.persist(ctx)
	return s, nil
}

func (s *Session) lookup(ctx context.Context) *service.ImportPreference {
	if s.store == nil {
		return nil
	}
	pref, err := s.store.GetImportPreference(ctx, s.signature)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.logger.Warn("Ignoring stored import preference",
				"signature", s.signature,
				"error", err)
		}
		return nil
	}
	return pref
}

func (s *Session) persist(ctx context.Context) {
	if s.store == nil {
		return
	}
	pref := &service.ImportPreference{
		Signature:              s.signature,
		Columns:                s.Headers(),
		Mapping:                s.mapping.Stored(),
		ImportFirstRow:         s.importFirstRow,
		ReplaceExistingActuals: s.replaceExisting,
	}
	if err := s.store.SaveImportPreference(ctx, pref); err != nil {
		s.logger.Warn("Failed to save import preference",
			"signature", s.signature,
			"error", err)
	}
}

// Headers returns the header row.
func (s *Session) Headers() []string {
	return append([]string(nil), s.records[0]...)
}

// ColumnCount is the number of header columns.
func (s *Session) ColumnCount() int {
	return len(s.records[0])
}

// Signature is the header signature the session is remembered under.
func (s *Session) Signature() string {
	return s.signature
}

// Remembered reports whether the mapping came from the preference store.
func (s *Session) Remembered() bool {
	return s.remembered
}

// Mapping returns a copy of the current mapping.
func (s *Session) Mapping() Mapping {
	return s.mapping.Clone()
}

// Missing lists unmapped required fields.
func (s *Session) Missing() []Field {
	return s.mapping.Missing()
}

// ImportFirstRow reports whether the header row is imported as data.
func (s *Session) ImportFirstRow() bool {
	return s.importFirstRow
}

// ReplaceExisting reports whether existing actuals are deleted before import.
func (s *Session) ReplaceExisting() bool {
	return s.replaceExisting
}

// SetField maps f to col and saves the change.
func (s *Session) SetField(ctx context.Context, f Field, col int) error {
	if !f.Valid() {
		return fmt.Errorf("%w: unknown field %q", common.ErrUnsupportedInput, f)
	}
	if col < 0 || col >= s.ColumnCount() {
		return fmt.Errorf("%w: column %d out of range", common.ErrUnsupportedInput, col)
	}
	s.mapping.Assign(f, col)
	s.persist(ctx)
	return nil
}

// ClearField unmaps f and saves the change.
func (s *Session) ClearField(ctx context.Context, f Field) {
	delete(s.mapping, f)
	s.persist(ctx)
}

// SetMapping replaces the whole mapping, dropping out-of-range columns.
func (s *Session) SetMapping(ctx context.Context, m Mapping) {
	s.mapping = m.Sanitize(s.ColumnCount())
	s.persist(ctx)
}

// SetImportFirstRow toggles importing the header row as data.
func (s *Session) SetImportFirstRow(ctx context.Context, v bool) {
	s.importFirstRow = v
	s.persist(ctx)
}

// SetReplaceExisting toggles deleting existing actuals before import.
func (s *Session) SetReplaceExisting(ctx context.Context, v bool) {
	s.replaceExisting = v
	s.persist(ctx)
}

// Apply replaces the mapping and both flags, saving once.
func (s *Session) Apply(ctx context.Context, m Mapping, importFirstRow, replaceExisting bool) {
	s.mapping = m.Sanitize(s.ColumnCount())
	s.importFirstRow = importFirstRow
	s.replaceExisting = replaceExisting
	s.persist(ctx)
}

// DataRows returns the records to import and the file line each starts on.
func (s *Session) DataRows() ([][]string, []int) {
	if s.importFirstRow {
		return s.records, s.lines
	}
	return s.records[1:], s.lines[1:]
}

// Preview returns up to n data rows.
func (s *Session) Preview(n int) [][]string {
	rows, _ := s.DataRows()
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// Drafts converts the data rows using the current mapping.
func (s *Session) Drafts() ([]model.ActualDraft, []*RowError, error) {
	rows, lines := s.DataRows()
	return BuildDrafts(rows, s.mapping, lines)
}
