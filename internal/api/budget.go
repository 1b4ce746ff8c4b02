package api

import (
	"context"
	"fmt"

	"github.com/Veraticus/topsheet/internal/model"
)

// BudgetParams narrows a budget fetch. Phases and Tags are sent as array
// parameters; Expands asks the server to embed related objects.
type BudgetParams struct {
	Phases  []string
	Tags    []string
	Expands []string
}

func (p BudgetParams) params() Params {
	return Params{
		"phases":  p.Phases,
		"tags":    p.Tags,
		"expands": p.Expands,
	}
}

// BudgetLineInput describes a line to add or update.
type BudgetLineInput struct {
	Type        model.LineType             `json:"type,omitempty"`
	AccountID   *string                    `json:"accountId,omitempty"`
	Description *string                    `json:"description,omitempty"`
	Notes       *string                    `json:"notes,omitempty"`
	Tags        []string                   `json:"tags,omitempty"`
	ContactID   *string                    `json:"contactId,omitempty"`
	PhaseData   map[string]model.PhaseData `json:"phaseData,omitempty"`
}

// AddBudgetLinesInput adds lines under an account path.
type AddBudgetLinesInput struct {
	Path  string            `json:"path"`
	Lines []BudgetLineInput `json:"lines"`
}

// GetBudget fetches the project's budget tree.
func (c *Client) GetBudget(ctx context.Context, projectID string, params BudgetParams) (*model.Budget, error) {
	var budget model.Budget
	if err := c.Get(ctx, projectPath(projectID, "budget"), params.params(), &budget); err != nil {
		return nil, fmt.Errorf("failed to get budget for project %s: %w", projectID, err)
	}
	return &budget, nil
}

// AddBudgetLines appends lines to the budget and returns the updated tree.
func (c *Client) AddBudgetLines(ctx context.Context, projectID string, input AddBudgetLinesInput) (*model.Budget, error) {
	var budget model.Budget
	if err := c.Post(ctx, projectPath(projectID, "budget"), input, nil, &budget); err != nil {
		return nil, fmt.Errorf("failed to add budget lines to project %s: %w", projectID, err)
	}
	return &budget, nil
}

// UpdateBudgetLine applies a partial update to one line.
func (c *Client) UpdateBudgetLine(ctx context.Context, projectID, lineID string, input BudgetLineInput) (*model.Line, error) {
	var line model.Line
	if err := c.Patch(ctx, projectPath(projectID, "budget", "lines", segment(lineID)), input, nil, &line); err != nil {
		return nil, fmt.Errorf("failed to update budget line %s: %w", lineID, err)
	}
	return &line, nil
}

// DeleteBudgetLine removes one line.
func (c *Client) DeleteBudgetLine(ctx context.Context, projectID, lineID string) error {
	if err := c.Delete(ctx, projectPath(projectID, "budget", "lines", segment(lineID)), nil, nil); err != nil {
		return fmt.Errorf("failed to delete budget line %s: %w", lineID, err)
	}
	return nil
}
