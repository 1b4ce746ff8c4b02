package plaid

import (
	"context"

	"github.com/Veraticus/topsheet/internal/service"
)

// Source is a Plaid feed of actual drafts.
type Source interface {
	service.DraftSource
	Accounts(ctx context.Context) ([]Account, error)
}
