package tombstones

import (
	"context"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/dealsync/internal/filex"
	"github.com/dmitrijs2005/dealsync/internal/models"
	"github.com/dmitrijs2005/dealsync/internal/timex"
)

const (
	fileName = "deleted_deals.json"

	// RetentionDays is how long a deletion is remembered. After this window a
	// deal id may legitimately reappear through sync.
	RetentionDays = 30
)

// JSONFileLedger persists tombstones as a JSON array in the data directory.
type JSONFileLedger struct {
	path string
	now  func() time.Time
}

func NewJSONFileLedger(dataDir string) *JSONFileLedger {
	return &JSONFileLedger{
		path: filepath.Join(dataDir, fileName),
		now:  time.Now,
	}
}

func (l *JSONFileLedger) load() ([]models.Tombstone, error) {
	var stones []models.Tombstone
	if _, err := filex.ReadJSON(l.path, &stones); err != nil {
		return nil, err
	}
	return stones, nil
}

// prune drops tombstones whose deleted_at is older than the retention window.
// Entries with unparseable timestamps are kept: forgetting a deletion is
// worse than remembering it too long.
func (l *JSONFileLedger) prune(stones []models.Tombstone) []models.Tombstone {
	cutoff := l.now().AddDate(0, 0, -RetentionDays)
	kept := make([]models.Tombstone, 0, len(stones))
	for _, s := range stones {
		deletedAt, err := timex.ParseISO(s.DeletedAt)
		if err == nil && !deletedAt.After(cutoff) {
			continue
		}
		kept = append(kept, s)
	}
	return kept
}

func (l *JSONFileLedger) Active(ctx context.Context) ([]models.Tombstone, error) {
	stones, err := l.load()
	if err != nil {
		return nil, err
	}
	return l.prune(stones), nil
}

func (l *JSONFileLedger) Record(ctx context.Context, dealID, userID string) error {
	stones, err := l.load()
	if err != nil {
		return err
	}

	stones = append(stones, models.Tombstone{
		DealID:    dealID,
		DeletedBy: userID,
		DeletedAt: timex.FormatISO(l.now()),
	})

	return filex.WriteJSON(l.path, l.prune(stones))
}
