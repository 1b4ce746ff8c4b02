package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Veraticus/topsheet/internal/model"
)

// ListPurchaseOrdersParams filters a purchase order listing.
type ListPurchaseOrdersParams struct {
	Status string
	Search string
	Tags   []string
}

func (p ListPurchaseOrdersParams) params() Params {
	return Params{
		"status": optional(p.Status),
		"search": optional(p.Search),
		"tags":   p.Tags,
	}
}

// ListPurchaseOrders returns a project's purchase orders.
func (c *Client) ListPurchaseOrders(ctx context.Context, projectID string, params ListPurchaseOrdersParams) ([]model.PurchaseOrder, error) {
	result, err := c.Request(ctx, http.MethodGet, projectPath(projectID, "purchase-orders"), nil, params.params())
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase orders for project %s: %w", projectID, err)
	}
	return decodeList[model.PurchaseOrder](result)
}

// GetPurchaseOrder returns one purchase order.
func (c *Client) GetPurchaseOrder(ctx context.Context, projectID, poID string) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	if err := c.Get(ctx, projectPath(projectID, "purchase-orders", segment(poID)), nil, &po); err != nil {
		return nil, fmt.Errorf("failed to get purchase order %s: %w", poID, err)
	}
	return &po, nil
}

// CreatePurchaseOrder creates a purchase order.
func (c *Client) CreatePurchaseOrder(ctx context.Context, projectID string, input model.PurchaseOrderInput) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	if err := c.Post(ctx, projectPath(projectID, "purchase-orders"), input, nil, &po); err != nil {
		return nil, fmt.Errorf("failed to create purchase order: %w", err)
	}
	return &po, nil
}

// UpdatePurchaseOrder applies a partial update to a purchase order.
func (c *Client) UpdatePurchaseOrder(ctx context.Context, projectID, poID string, input model.PurchaseOrderInput) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	if err := c.Patch(ctx, projectPath(projectID, "purchase-orders", segment(poID)), input, nil, &po); err != nil {
		return nil, fmt.Errorf("failed to update purchase order %s: %w", poID, err)
	}
	return &po, nil
}

// DeletePurchaseOrder removes a purchase order.
func (c *Client) DeletePurchaseOrder(ctx context.Context, projectID, poID string) error {
	if err := c.Delete(ctx, projectPath(projectID, "purchase-orders", segment(poID)), nil, nil); err != nil {
		return fmt.Errorf("failed to delete purchase order %s: %w", poID, err)
	}
	return nil
}
