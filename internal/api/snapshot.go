package api

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/topsheet/internal/model"
	"github.com/Veraticus/topsheet/internal/service"
)

// Snapshot resource names used as keys in ProjectSnapshot.Errors.
const (
	ResourceBudget         = "budget"
	ResourceActuals        = "actuals"
	ResourcePurchaseOrders = "purchase-orders"
)

// ProjectSnapshot is the dashboard view of a project. A resource that failed
// to load is left empty and its error recorded in Errors.
type ProjectSnapshot struct {
	Budget         *model.Budget
	Errors         map[string]error
	Actuals        []model.Actual
	PurchaseOrders []model.PurchaseOrder
}

// OK reports whether every resource loaded.
func (s *ProjectSnapshot) OK() bool {
	return len(s.Errors) == 0
}

// FetchProjectSnapshot loads the budget, actuals and purchase orders of a
// project concurrently. Individual failures do not cancel the other fetches;
// only a canceled ctx stops them.
func (c *Client) FetchProjectSnapshot(ctx context.Context, projectID string) *ProjectSnapshot {
	snap := &ProjectSnapshot{
		Budget:         &model.Budget{Accounts: map[string]model.Account{}},
		Actuals:        []model.Actual{},
		PurchaseOrders: []model.PurchaseOrder{},
		Errors:         map[string]error{},
	}

	var mu sync.Mutex
	record := func(resource string, err error) {
		mu.Lock()
		defer mu.Unlock()
		snap.Errors[resource] = err
		c.logger.Warn("Project resource unavailable",
			"project_id", projectID,
			"resource", resource,
			"error", err)
	}

	var g errgroup.Group

	g.Go(func() error {
		budget, err := c.GetBudget(ctx, projectID, BudgetParams{})
		if err != nil {
			record(ResourceBudget, err)
			return nil
		}
		mu.Lock()
		snap.Budget = budget
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		actuals, err := c.ListActuals(ctx, projectID, service.ActualListParams{})
		if err != nil {
			record(ResourceActuals, err)
			return nil
		}
		mu.Lock()
		snap.Actuals = actuals
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		pos, err := c.ListPurchaseOrders(ctx, projectID, ListPurchaseOrdersParams{})
		if err != nil {
			record(ResourcePurchaseOrders, err)
			return nil
		}
		mu.Lock()
		snap.PurchaseOrders = pos
		mu.Unlock()
		return nil
	})

	_ = g.Wait()
	return snap
}
