package synclog

import (
	"context"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/dealsync/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_AppendAndRecent(t *testing.T) {
	ctx := context.Background()
	r := NewJSONFileRepository(t.TempDir())

	require.NoError(t, r.Append(ctx, models.SyncLogEntry{Action: "upload", Filename: "f1", UserID: "alice", DealCount: 3}))
	require.NoError(t, r.Append(ctx, models.SyncLogEntry{Action: "upload", Filename: "f2", UserID: "alice", DealCount: 4}))

	entries, err := r.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "f1", entries[0].Filename)
	assert.Equal(t, "f2", entries[1].Filename)
}

func TestRepository_RecentLimits(t *testing.T) {
	ctx := context.Background()
	r := NewJSONFileRepository(t.TempDir())

	for i := 0; i < 5; i++ {
		require.NoError(t, r.Append(ctx, models.SyncLogEntry{Filename: fmt.Sprintf("f%d", i)}))
	}

	entries, err := r.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "f3", entries[0].Filename)
	assert.Equal(t, "f4", entries[1].Filename)
}

func TestRepository_CapsAtMaxEntries(t *testing.T) {
	ctx := context.Background()
	r := NewJSONFileRepository(t.TempDir())

	for i := 0; i < maxEntries+20; i++ {
		require.NoError(t, r.Append(ctx, models.SyncLogEntry{Filename: fmt.Sprintf("f%d", i)}))
	}

	entries, err := r.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, maxEntries)
	assert.Equal(t, fmt.Sprintf("f%d", 20), entries[0].Filename)
}
