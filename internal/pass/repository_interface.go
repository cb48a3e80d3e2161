package pass

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, p *Pass) (*Pass, error)
	GetByID(ctx context.Context, id int) (*Pass, error)
	// Update persists mutable fields with a compare-and-swap on the version
	// column; ErrVersionConflict is returned when another writer got there first.
	Update(ctx context.Context, p *Pass) (*Pass, error)
	Delete(ctx context.Context, id int) error
	// ListForUser returns passes whose validity window intersects [from, to];
	// nil bounds are open.
	ListForUser(ctx context.Context, userID int, from, to *time.Time) ([]Pass, error)
	// LatestActiveForUser picks the user's pass with the furthest end date
	// not yet behind now (ties broken by highest id).
	LatestActiveForUser(ctx context.Context, userID int, now time.Time) (*Pass, error)
	// ListByPurchaseWindow pages over all passes purchased inside [from, to].
	ListByPurchaseWindow(ctx context.Context, from, to *time.Time, limit, offset int) ([]Pass, int, error)
}
