package tombstones

import (
	"context"

	"github.com/dmitrijs2005/dealsync/internal/models"
)

// Ledger records deal deletions so they propagate through sync instead of
// being resurrected by a peer's older copy. Implementations prune entries
// older than the retention window.
type Ledger interface {
	// Active returns the unexpired tombstones.
	Active(ctx context.Context) ([]models.Tombstone, error)

	// Record appends a tombstone for dealID deleted by userID at the current
	// time. Recording the same deal twice is allowed; readers deduplicate.
	Record(ctx context.Context, dealID, userID string) error
}

// IDSet builds a lookup set of tombstoned deal ids.
func IDSet(stones []models.Tombstone) map[string]struct{} {
	ids := make(map[string]struct{}, len(stones))
	for _, s := range stones {
		ids[s.DealID] = struct{}{}
	}
	return ids
}
