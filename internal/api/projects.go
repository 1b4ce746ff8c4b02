package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Veraticus/topsheet/internal/model"
)

// ListProjectsParams filters a project listing.
type ListProjectsParams struct {
	Status model.ProjectStatus
	Search string
	Labels []string
	Page   int
	Limit  int
}

func (p ListProjectsParams) params() Params {
	return Params{
		"status": optional(string(p.Status)),
		"search": optional(p.Search),
		"labels": p.Labels,
		"page":   optionalInt(p.Page),
		"limit":  optionalInt(p.Limit),
	}
}

// ListProjects returns the projects visible to the workspace.
func (c *Client) ListProjects(ctx context.Context, params ListProjectsParams) ([]model.Project, error) {
	result, err := c.Request(ctx, http.MethodGet, "/projects", nil, params.params())
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return decodeList[model.Project](result)
}

// GetProject returns a single project.
func (c *Client) GetProject(ctx context.Context, projectID string) (*model.Project, error) {
	var project model.Project
	if err := c.Get(ctx, projectPath(projectID), nil, &project); err != nil {
		return nil, fmt.Errorf("failed to get project %s: %w", projectID, err)
	}
	return &project, nil
}

// CreateProject creates a project.
func (c *Client) CreateProject(ctx context.Context, input model.ProjectInput) (*model.Project, error) {
	var project model.Project
	if err := c.Post(ctx, "/projects", input, nil, &project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return &project, nil
}

// UpdateProject applies a partial update to a project.
func (c *Client) UpdateProject(ctx context.Context, projectID string, input model.ProjectInput) (*model.Project, error) {
	var project model.Project
	if err := c.Patch(ctx, projectPath(projectID), input, nil, &project); err != nil {
		return nil, fmt.Errorf("failed to update project %s: %w", projectID, err)
	}
	return &project, nil
}

// DeleteProject deletes a project.
func (c *Client) DeleteProject(ctx context.Context, projectID string) error {
	if err := c.Delete(ctx, projectPath(projectID), nil, nil); err != nil {
		return fmt.Errorf("failed to delete project %s: %w", projectID, err)
	}
	return nil
}
