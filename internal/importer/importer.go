// Package importer posts actual drafts to a project.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/topsheet/internal/model"
	"github.com/Veraticus/topsheet/internal/service"
)

// ErrNoProject is returned when Run is called without a project id.
var ErrNoProject = errors.New("project id is required")

// Options controls one import run.
type Options struct {
	// Progress is called after each draft is handled.
	Progress func(done, total int)
	// Replace deletes the project's existing actuals before importing.
	Replace bool
	// DryRun reports what would happen without writing anything.
	DryRun bool
}

// Failure is a draft the API rejected.
type Failure struct {
	Err   error
	Draft model.ActualDraft
}

func (f Failure) Error() string {
	if f.Draft.Row > 0 {
		return fmt.Sprintf("row %d: %v", f.Draft.Row, f.Err)
	}
	return f.Err.Error()
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Summary describes the outcome of a run.
type Summary struct {
	Failures   []Failure
	Created    int
	Deleted    int
	Duplicates int
	DryRun     bool
}

// OK reports whether every draft was created or skipped as a duplicate.
func (s *Summary) OK() bool {
	return len(s.Failures) == 0
}

// Importer creates actuals through an ActualsService.
type Importer struct {
	actuals service.ActualsService
	logger  *slog.Logger
}

// New returns an Importer. A nil logger uses the default logger.
func New(actuals service.ActualsService, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		actuals: actuals,
		logger:  logger.With("component", "importer"),
	}
}

// Run imports drafts into projectID. Each actual already in the project
// absorbs one identical draft, so re-running a file skips what it created
// while repeated rows within a file are all imported. With Replace the
// existing actuals are deleted first instead. A rejected draft is recorded in the
// summary and the run continues. Only listing, deleting and a canceled ctx
// abort the run.
func (im *Importer) Run(ctx context.Context, projectID string, drafts []model.ActualDraft, opts Options) (*Summary, error) {
	if projectID == "" {
		return nil, ErrNoProject
	}

	summary := &Summary{DryRun: opts.DryRun}

	existing, err := im.actuals.ListActuals(ctx, projectID, service.ActualListParams{})
	if err != nil {
		return nil, fmt.Errorf("failed to list existing actuals: %w", err)
	}

	// Existing actuals per hash not yet matched by a draft.
	unmatched := make(map[string]int, len(existing))
	if opts.Replace {
		deleted, err := im.deleteAll(ctx, projectID, existing, opts.DryRun)
		summary.Deleted = deleted
		if err != nil {
			return summary, err
		}
	} else {
		for _, a := range existing {
			unmatched[DraftFromActual(a).Hash()]++
		}
	}

	for i, draft := range drafts {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("import canceled: %w", err)
		}

		hash := draft.Hash()
		switch {
		case unmatched[hash] > 0:
			unmatched[hash]--
			summary.Duplicates++
			im.logger.Debug("Skipping duplicate draft",
				"row", draft.Row,
				"description", draft.Description)
		case opts.DryRun:
			summary.Created++
		default:
			if _, err := im.actuals.CreateActual(ctx, projectID, draft.Input()); err != nil {
				im.logger.Warn("Failed to create actual",
					"project_id", projectID,
					"row", draft.Row,
					"error", err)
				summary.Failures = append(summary.Failures, Failure{Draft: draft, Err: err})
			} else {
				summary.Created++
			}
		}

		if opts.Progress != nil {
			opts.Progress(i+1, len(drafts))
		}
	}

	im.logger.Info("Import finished",
		"project_id", projectID,
		"created", summary.Created,
		"deleted", summary.Deleted,
		"duplicates", summary.Duplicates,
		"failed", len(summary.Failures),
		"dry_run", opts.DryRun)

	return summary, nil
}

func (im *Importer) deleteAll(ctx context.Context, projectID string, existing []model.Actual, dryRun bool) (int, error) {
	if dryRun {
		return len(existing), nil
	}
	deleted := 0
	for _, a := range existing {
		if err := im.actuals.DeleteActual(ctx, projectID, a.ID); err != nil {
			return deleted, fmt.Errorf("failed to delete actual %s: %w", a.ID, err)
		}
		deleted++
	}
	return deleted, nil
}

// DraftFromActual converts a stored actual back into a draft so it can be
// compared by Hash.
func DraftFromActual(a model.Actual) model.ActualDraft {
	return model.ActualDraft{
		Amount:      a.Amount,
		Description: a.Description,
		Date:        a.Date,
		AccountID:   deref(a.AccountID),
		PayID:       deref(a.PayID),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
