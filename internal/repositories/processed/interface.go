// Package processed tracks which inbound sync blobs have already been merged,
// making repeated download-merge cycles idempotent.
package processed

import "context"

// Tracker remembers blob names that were merged. Implementations prune names
// whose embedded date is older than the retention window, since the blobs
// themselves age out of the drop.
type Tracker interface {
	// Seen returns the set of already-merged blob names.
	Seen(ctx context.Context) (map[string]struct{}, error)

	// Mark records that the named blob has been merged.
	Mark(ctx context.Context, name string) error
}
