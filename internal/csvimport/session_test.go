package csvimport

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/topsheet/internal/common"
	"github.com/Veraticus/topsheet/internal/service"
)

type fakeStore struct {
	prefs   map[string]service.ImportPreference
	getErr  error
	saveErr error
	saves   int
	mu      sync.Mutex
}

func newFakeStore() *fakeStore {
	return &fakeStore{prefs: map[string]service.ImportPreference{}}
}

func (f *fakeStore) GetImportPreference(_ context.Context, signature string) (*service.ImportPreference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	pref, ok := f.prefs[signature]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &pref, nil
}

func (f *fakeStore) SaveImportPreference(_ context.Context, pref *service.ImportPreference) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.prefs[pref.Signature] = *pref
	return nil
}

func (f *fakeStore) ListImportPreferences(context.Context) ([]service.ImportPreference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]service.ImportPreference, 0, len(f.prefs))
	for _, p := range f.prefs {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStore) DeleteImportPreference(_ context.Context, signature string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.prefs, signature)
	return nil
}

const sampleCSV = "Description,Amount,Date,Account Code\r\n" +
	"Camera rental,1250.50,2024-03-01,2100\r\n" +
	"\"Lunch, crew\",\"$80.00\",03/02/2024,2200\r\n"

func TestLoad_GuessesAndPersists(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()

	s, err := Load(ctx, sampleCSV, store)
	require.NoError(t, err)

	assert.False(t, s.Remembered())
	assert.Equal(t, "description|amount|date|account code", s.Signature())
	assert.Equal(t, Mapping{FieldDescription: 0, FieldAmount: 1, FieldDate: 2, FieldAccountID: 3}, s.Mapping())
	assert.Empty(t, s.Missing())

	pref, ok := store.prefs[s.Signature()]
	require.True(t, ok, "guessed mapping should be saved")
	assert.Equal(t, []string{"Description", "Amount", "Date", "Account Code"}, pref.Columns)
	assert.Equal(t, 0, pref.Mapping["description"])

	drafts, rowErrs, err := s.Drafts()
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, drafts, 2)
	assert.Equal(t, "Lunch, crew", drafts[1].Description)
	assert.Equal(t, "2024-03-02", drafts[1].Date)
	assert.Equal(t, 3, drafts[1].Row)
}

func TestLoad_ReusesRememberedMapping(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()

	first, err := Load(ctx, sampleCSV, store)
	require.NoError(t, err)
	require.NoError(t, first.SetField(ctx, FieldNotes, 3))
	first.SetReplaceExisting(ctx, true)

	// Same headers with different casing and padding.
	second, err := Load(ctx, " DESCRIPTION ,amount,DATE,account code\nx,1,2024-01-01,n\n", store)
	require.NoError(t, err)

	assert.True(t, second.Remembered())
	assert.Equal(t, first.Signature(), second.Signature())
	assert.Equal(t, Mapping{FieldDescription: 0, FieldAmount: 1, FieldDate: 2, FieldNotes: 3}, second.Mapping())
	assert.True(t, second.ReplaceExisting())
	assert.False(t, second.ImportFirstRow())
}

func TestLoad_StoredMappingIsSanitized(t *testing.T) {
	store := newFakeStore()
	store.prefs["a|b"] = service.ImportPreference{
		Signature: "a|b",
		Mapping: map[string]any{
			"description": float64(1),
			"amount":      float64(5),
			"date":        "0",
		},
		ImportFirstRow: true,
	}

	s, err := Load(context.Background(), "A,B\n1,2\n", store)
	require.NoError(t, err)
	assert.True(t, s.Remembered())
	assert.Equal(t, Mapping{FieldDescription: 1}, s.Mapping())
	assert.Equal(t, []Field{FieldAmount, FieldDate}, s.Missing())

	rows, lines := s.DataRows()
	assert.Equal(t, []int{1, 2}, lines)
	assert.Len(t, rows, 2)
}

func TestLoad_StoreFailuresDegrade(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	store := newFakeStore()
	store.getErr = errors.New("invalid preference payload")
	store.saveErr = errors.New("disk full")

	s, err := Load(context.Background(), sampleCSV, store, WithLogger(logger))
	require.NoError(t, err)

	assert.False(t, s.Remembered())
	assert.Equal(t, Mapping{FieldDescription: 0, FieldAmount: 1, FieldDate: 2, FieldAccountID: 3}, s.Mapping())
	assert.Equal(t, 1, store.saves)
	assert.Contains(t, logs.String(), "Ignoring stored import preference")
	assert.Contains(t, logs.String(), "Failed to save import preference")

	s.SetImportFirstRow(context.Background(), true)
	assert.True(t, s.ImportFirstRow())
}

func TestLoad_NilStore(t *testing.T) {
	s, err := Load(context.Background(), sampleCSV, nil)
	require.NoError(t, err)
	require.NoError(t, s.SetField(context.Background(), FieldRef, 3))
	assert.Equal(t, 3, s.Mapping()[FieldRef])
	_, ok := s.Mapping()[FieldAccountID]
	assert.False(t, ok)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(context.Background(), "", nil)
	assert.ErrorIs(t, err, ErrNoHeader)

	_, err = Load(context.Background(), "a,\"b\n", nil)
	assert.ErrorIs(t, err, ErrUnterminatedQuote)
}

func TestSession_SetField(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()
	s, err := Load(ctx, sampleCSV, store)
	require.NoError(t, err)

	assert.Error(t, s.SetField(ctx, FieldNotes, 4))
	assert.Error(t, s.SetField(ctx, Field("nope"), 0))

	s.ClearField(ctx, FieldAccountID)
	assert.Nil(t, store.prefs[s.Signature()].Mapping["accountId"])

	s.SetMapping(ctx, Mapping{FieldDescription: 1, FieldAmount: 9})
	assert.Equal(t, Mapping{FieldDescription: 1}, s.Mapping())
	assert.Len(t, s.Preview(1), 1)
}

func TestSession_ApplySavesOnce(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()
	s, err := Load(ctx, sampleCSV, store)
	require.NoError(t, err)
	before := store.saves

	s.Apply(ctx, Mapping{FieldDescription: 0, FieldAmount: 1, FieldNotes: 42}, true, true)

	assert.Equal(t, before+1, store.saves)
	assert.Equal(t, Mapping{FieldDescription: 0, FieldAmount: 1}, s.Mapping())
	assert.True(t, s.ImportFirstRow())
	assert.True(t, s.ReplaceExisting())

	pref := store.prefs[s.Signature()]
	assert.True(t, pref.ImportFirstRow)
	assert.True(t, pref.ReplaceExistingActuals)
}

func TestSession_DraftRowsAreFileLines(t *testing.T) {
	text := "Description,Amount,Date\n" +
		"\n" +
		"\"Camera\nrental\",100,2024-03-01\n" +
		"Fuel,abc,2024-03-02\n" +
		"\n" +
		"Parking,12,someday\n"

	s, err := Load(context.Background(), text, nil)
	require.NoError(t, err)

	drafts, rowErrs, err := s.Drafts()
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, 3, drafts[0].Row)

	require.Len(t, rowErrs, 2)
	assert.Equal(t, 5, rowErrs[0].Row)
	assert.Equal(t, 7, rowErrs[1].Row)
}
