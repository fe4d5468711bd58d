package synclog

import (
	"context"
	"path/filepath"

	"github.com/dmitrijs2005/dealsync/internal/filex"
	"github.com/dmitrijs2005/dealsync/internal/models"
)

const (
	fileName = "sync_log.json"

	// maxEntries caps the audit trail; it is a log of recent activity, not an
	// archive.
	maxEntries = 100
)

// JSONFileRepository persists the sync log as a JSON array.
type JSONFileRepository struct {
	path string
}

func NewJSONFileRepository(dataDir string) *JSONFileRepository {
	return &JSONFileRepository{path: filepath.Join(dataDir, fileName)}
}

func (r *JSONFileRepository) load() ([]models.SyncLogEntry, error) {
	var entries []models.SyncLogEntry
	if _, err := filex.ReadJSON(r.path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *JSONFileRepository) Append(ctx context.Context, entry models.SyncLogEntry) error {
	entries, err := r.load()
	if err != nil {
		return err
	}

	entries = append(entries, entry)
	if len(entries) > maxEntries {
		entries = entries[len(entries)-maxEntries:]
	}

	return filex.WriteJSON(r.path, entries)
}

func (r *JSONFileRepository) Recent(ctx context.Context, n int) ([]models.SyncLogEntry, error) {
	entries, err := r.load()
	if err != nil {
		return nil, err
	}
	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}
