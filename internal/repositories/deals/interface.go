// Package deals stores the local deal list. The sync engine treats the store
// as an injectable load/save pair: it reads the whole list, merges in memory,
// and writes the whole list back.
package deals

import (
	"context"

	"github.com/dmitrijs2005/dealsync/internal/models"
)

// Repository is the durable local deal store.
type Repository interface {
	// Load returns all local deals. A store that was never written returns an
	// empty slice.
	Load(ctx context.Context) ([]models.Deal, error)

	// Save replaces the stored deal list.
	Save(ctx context.Context, deals []models.Deal) error
}
