package api

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/Veraticus/topsheet/internal/model"
	"github.com/Veraticus/topsheet/internal/service"
)

func actualParams(p service.ActualListParams) Params {
	return Params{
		"accountIds": p.AccountIDs,
		"tags":       p.Tags,
		"from":       optional(p.From),
		"to":         optional(p.To),
	}
}

// ListActuals returns the actuals recorded against a project.
func (c *Client) ListActuals(ctx context.Context, projectID string, params service.ActualListParams) ([]model.Actual, error) {
	result, err := c.Request(ctx, http.MethodGet, projectPath(projectID, "actuals"), nil, actualParams(params))
	if err != nil {
		return nil, fmt.Errorf("failed to list actuals for project %s: %w", projectID, err)
	}
	return decodeList[model.Actual](result)
}

// CreateActual records one actual.
func (c *Client) CreateActual(ctx context.Context, projectID string, input model.ActualInput) (*model.Actual, error) {
	var actual model.Actual
	if err := c.Post(ctx, projectPath(projectID, "actuals"), input, nil, &actual); err != nil {
		return nil, fmt.Errorf("failed to create actual: %w", err)
	}
	return &actual, nil
}

// UpdateActual applies a partial update to an actual.
func (c *Client) UpdateActual(ctx context.Context, projectID, actualID string, input model.ActualInput) (*model.Actual, error) {
	var actual model.Actual
	if err := c.Patch(ctx, projectPath(projectID, "actuals", segment(actualID)), input, nil, &actual); err != nil {
		return nil, fmt.Errorf("failed to update actual %s: %w", actualID, err)
	}
	return &actual, nil
}

// DeleteActual removes an actual.
func (c *Client) DeleteActual(ctx context.Context, projectID, actualID string) error {
	if err := c.Delete(ctx, projectPath(projectID, "actuals", segment(actualID)), nil, nil); err != nil {
		return fmt.Errorf("failed to delete actual %s: %w", actualID, err)
	}
	return nil
}

// Attachment is a file stored against an actual.
type Attachment struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	URL         string `json:"url,omitempty" yaml:"url,omitempty"`
	ContentType string `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	Size        int64  `json:"size,omitempty" yaml:"size,omitempty"`
}

// UploadActualAttachment uploads a receipt or invoice as multipart form data.
func (c *Client) UploadActualAttachment(ctx context.Context, projectID, actualID, name, contentType string, content io.Reader) (*Attachment, error) {
	form := &Form{
		Files: []FormFile{{
			Field:       "file",
			Name:        name,
			ContentType: contentType,
			Content:     content,
		}},
	}

	var attachment Attachment
	if err := c.Post(ctx, projectPath(projectID, "actuals", segment(actualID), "attachments"), form, nil, &attachment); err != nil {
		return nil, fmt.Errorf("failed to upload attachment %s: %w", name, err)
	}
	return &attachment, nil
}
