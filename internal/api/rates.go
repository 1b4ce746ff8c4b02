package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Veraticus/topsheet/internal/model"
)

// ListRates returns the workspace rate card. An empty search lists all.
func (c *Client) ListRates(ctx context.Context, search string) ([]model.Rate, error) {
	result, err := c.Request(ctx, http.MethodGet, "/rates", nil, Params{"search": optional(search)})
	if err != nil {
		return nil, fmt.Errorf("failed to list rates: %w", err)
	}
	return decodeList[model.Rate](result)
}

// GetRate returns one rate.
func (c *Client) GetRate(ctx context.Context, rateID string) (*model.Rate, error) {
	var rate model.Rate
	if err := c.Get(ctx, "/rates/"+segment(rateID), nil, &rate); err != nil {
		return nil, fmt.Errorf("failed to get rate %s: %w", rateID, err)
	}
	return &rate, nil
}

// CreateRate creates a rate.
func (c *Client) CreateRate(ctx context.Context, input model.RateInput) (*model.Rate, error) {
	var rate model.Rate
	if err := c.Post(ctx, "/rates", input, nil, &rate); err != nil {
		return nil, fmt.Errorf("failed to create rate: %w", err)
	}
	return &rate, nil
}

// UpdateRate applies a partial update to a rate.
func (c *Client) UpdateRate(ctx context.Context, rateID string, input model.RateInput) (*model.Rate, error) {
	var rate model.Rate
	if err := c.Patch(ctx, "/rates/"+segment(rateID), input, nil, &rate); err != nil {
		return nil, fmt.Errorf("failed to update rate %s: %w", rateID, err)
	}
	return &rate, nil
}

// DeleteRate removes a rate.
func (c *Client) DeleteRate(ctx context.Context, rateID string) error {
	if err := c.Delete(ctx, "/rates/"+segment(rateID), nil, nil); err != nil {
		return fmt.Errorf("failed to delete rate %s: %w", rateID, err)
	}
	return nil
}
