package processed

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/dealsync/internal/blobname"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_SeenEmptyByDefault(t *testing.T) {
	tr := NewJSONFileTracker(t.TempDir())

	seen, err := tr.Seen(context.Background())
	require.NoError(t, err)
	assert.Empty(t, seen)
}

func TestTracker_MarkIsPersistent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	tr := NewJSONFileTracker(dir)

	name := blobname.Encode("bob", time.Now())
	require.NoError(t, tr.Mark(ctx, name))

	// A fresh tracker over the same directory sees the mark.
	seen, err := NewJSONFileTracker(dir).Seen(ctx)
	require.NoError(t, err)
	assert.Contains(t, seen, name)
}

func TestTracker_MarkIdempotent(t *testing.T) {
	ctx := context.Background()
	tr := NewJSONFileTracker(t.TempDir())

	name := blobname.Encode("bob", time.Now())
	require.NoError(t, tr.Mark(ctx, name))
	require.NoError(t, tr.Mark(ctx, name))

	seen, err := tr.Seen(ctx)
	require.NoError(t, err)
	assert.Len(t, seen, 1)
}

func TestTracker_PrunesOldNames(t *testing.T) {
	ctx := context.Background()
	tr := NewJSONFileTracker(t.TempDir())

	old := blobname.Encode("bob", time.Now().AddDate(0, 0, -40))
	require.NoError(t, tr.Mark(ctx, old))

	fresh := blobname.Encode("carol", time.Now())
	require.NoError(t, tr.Mark(ctx, fresh))

	seen, err := tr.Seen(ctx)
	require.NoError(t, err)
	assert.NotContains(t, seen, old)
	assert.Contains(t, seen, fresh)
}

func TestTracker_KeepsUnparseableNames(t *testing.T) {
	ctx := context.Background()
	tr := NewJSONFileTracker(t.TempDir())

	require.NoError(t, tr.Mark(ctx, "deals_legacy.json"))
	require.NoError(t, tr.Mark(ctx, blobname.Encode("bob", time.Now())))

	seen, err := tr.Seen(ctx)
	require.NoError(t, err)
	assert.Contains(t, seen, "deals_legacy.json")
}
