package importer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/topsheet/internal/model"
	"github.com/Veraticus/topsheet/internal/service"
)

type fakeActuals struct {
	listErr  error
	failOn   map[string]error
	existing []model.Actual
	created  []model.ActualInput
	deleted  []string
	mu       sync.Mutex
}

func (f *fakeActuals) ListActuals(context.Context, string, service.ActualListParams) ([]model.Actual, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.existing, nil
}

func (f *fakeActuals) CreateActual(_ context.Context, _ string, input model.ActualInput) (*model.Actual, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failOn[input.Description]; err != nil {
		return nil, err
	}
	f.created = append(f.created, input)
	return &model.Actual{ID: "new", Description: input.Description}, nil
}

func (f *fakeActuals) DeleteActual(_ context.Context, _ string, actualID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, actualID)
	return nil
}

func draft(row int, desc, amount string) model.ActualDraft {
	return model.ActualDraft{
		Row:         row,
		Description: desc,
		Amount:      decimal.RequireFromString(amount),
		Date:        "2024-03-01",
	}
}

func TestRun_CreatesEachDraft(t *testing.T) {
	svc := &fakeActuals{}
	var progress []int

	summary, err := New(svc, nil).Run(context.Background(), "p1", []model.ActualDraft{
		draft(2, "Lumber", "120.50"),
		draft(3, "Paint", "45"),
	}, Options{Progress: func(done, _ int) { progress = append(progress, done) }})

	require.NoError(t, err)
	assert.True(t, summary.OK())
	assert.Equal(t, 2, summary.Created)
	require.Len(t, svc.created, 2)
	assert.Equal(t, "120.5", svc.created[0].Amount.String())
	assert.Equal(t, []int{1, 2}, progress)
}

func TestRun_CollectsFailuresAndContinues(t *testing.T) {
	boom := errors.New("rejected")
	svc := &fakeActuals{failOn: map[string]error{"Paint": boom}}

	summary, err := New(svc, nil).Run(context.Background(), "p1", []model.ActualDraft{
		draft(2, "Lumber", "10"),
		draft(3, "Paint", "20"),
		draft(4, "Nails", "30"),
	}, Options{})

	require.NoError(t, err)
	assert.False(t, summary.OK())
	assert.Equal(t, 2, summary.Created)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, 3, summary.Failures[0].Draft.Row)
	assert.ErrorIs(t, summary.Failures[0], boom)
	assert.Equal(t, "row 3: rejected", summary.Failures[0].Error())
}

func TestRun_SkipsDuplicates(t *testing.T) {
	svc := &fakeActuals{existing: []model.Actual{
		{ID: "a1", Description: "Lumber", Amount: decimal.RequireFromString("10.00"), Date: "2024-03-01"},
	}}

	summary, err := New(svc, nil).Run(context.Background(), "p1", []model.ActualDraft{
		draft(2, "Lumber", "10"),
		draft(3, "Paint", "20"),
		draft(4, "Paint", "20"),
	}, Options{})

	require.NoError(t, err)
	assert.Equal(t, 2, summary.Created)
	assert.Equal(t, 1, summary.Duplicates)
	assert.Empty(t, svc.deleted)
}

func TestRun_RepeatedRowsAreSeparateCharges(t *testing.T) {
	svc := &fakeActuals{}
	drafts := []model.ActualDraft{
		draft(2, "Parking", "12"),
		draft(3, "Parking", "12"),
		draft(4, "Parking", "12"),
	}

	summary, err := New(svc, nil).Run(context.Background(), "p1", drafts, Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Created)
	assert.Zero(t, summary.Duplicates)

	// A second run over a project holding two of them creates only the third.
	svc = &fakeActuals{existing: []model.Actual{
		{ID: "a1", Description: "Parking", Amount: decimal.NewFromInt(12), Date: "2024-03-01"},
		{ID: "a2", Description: "Parking", Amount: decimal.NewFromInt(12), Date: "2024-03-01"},
	}}
	summary, err = New(svc, nil).Run(context.Background(), "p1", drafts, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 2, summary.Duplicates)
	require.Len(t, svc.created, 1)
}

func TestRun_ReplaceDeletesExisting(t *testing.T) {
	svc := &fakeActuals{existing: []model.Actual{
		{ID: "a1", Description: "Lumber", Amount: decimal.NewFromInt(10), Date: "2024-03-01"},
		{ID: "a2", Description: "Old", Amount: decimal.NewFromInt(5), Date: "2024-02-01"},
	}}

	summary, err := New(svc, nil).Run(context.Background(), "p1", []model.ActualDraft{
		draft(2, "Lumber", "10"),
	}, Options{Replace: true})

	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a2"}, svc.deleted)
	assert.Equal(t, 2, summary.Deleted)
	assert.Equal(t, 1, summary.Created)
	assert.Zero(t, summary.Duplicates)
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	svc := &fakeActuals{existing: []model.Actual{{ID: "a1"}}}

	summary, err := New(svc, nil).Run(context.Background(), "p1", []model.ActualDraft{
		draft(2, "Lumber", "10"),
	}, Options{Replace: true, DryRun: true})

	require.NoError(t, err)
	assert.True(t, summary.DryRun)
	assert.Equal(t, 1, summary.Deleted)
	assert.Equal(t, 1, summary.Created)
	assert.Empty(t, svc.deleted)
	assert.Empty(t, svc.created)
}

func TestRun_Errors(t *testing.T) {
	_, err := New(&fakeActuals{}, nil).Run(context.Background(), "", nil, Options{})
	assert.ErrorIs(t, err, ErrNoProject)

	listErr := errors.New("down")
	_, err = New(&fakeActuals{listErr: listErr}, nil).Run(context.Background(), "p1", nil, Options{})
	assert.ErrorIs(t, err, listErr)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	summary, err := New(&fakeActuals{}, nil).Run(ctx, "p1", []model.ActualDraft{draft(2, "x", "1")}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, summary.Created)
}
