package processed

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/dmitrijs2005/dealsync/internal/blobname"
	"github.com/dmitrijs2005/dealsync/internal/filex"
)

const (
	fileName      = "synced_files.json"
	retentionDays = 30
)

// JSONFileTracker persists the processed-blob set as a JSON array of names.
type JSONFileTracker struct {
	path string
	now  func() time.Time
}

func NewJSONFileTracker(dataDir string) *JSONFileTracker {
	return &JSONFileTracker{
		path: filepath.Join(dataDir, fileName),
		now:  time.Now,
	}
}

func (t *JSONFileTracker) load() ([]string, error) {
	var names []string
	if _, err := filex.ReadJSON(t.path, &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (t *JSONFileTracker) Seen(ctx context.Context) (map[string]struct{}, error) {
	names, err := t.load()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		seen[name] = struct{}{}
	}
	return seen, nil
}

func (t *JSONFileTracker) Mark(ctx context.Context, name string) error {
	seen, err := t.Seen(ctx)
	if err != nil {
		return err
	}
	seen[name] = struct{}{}

	// Prune names older than the retention window by the date embedded in the
	// name. Names that do not parse are kept rather than forgotten.
	cutoff := t.now().AddDate(0, 0, -retentionDays)
	kept := make([]string, 0, len(seen))
	for n := range seen {
		if uploaded, err := blobname.Date(n); err == nil && uploaded.Before(cutoff) {
			continue
		}
		kept = append(kept, n)
	}
	sort.Strings(kept)

	return filex.WriteJSON(t.path, kept)
}
