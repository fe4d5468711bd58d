// Package synclog keeps the local sync audit trail. It is observational only:
// merge logic never reads it.
package synclog

import (
	"context"

	"github.com/dmitrijs2005/dealsync/internal/models"
)

// Repository stores sync log entries, capped to the most recent ones.
type Repository interface {
	// Append adds an entry, dropping the oldest entries beyond the cap.
	Append(ctx context.Context, entry models.SyncLogEntry) error

	// Recent returns up to n entries, oldest first.
	Recent(ctx context.Context, n int) ([]models.SyncLogEntry, error)
}
