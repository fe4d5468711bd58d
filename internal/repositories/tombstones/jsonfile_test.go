package tombstones

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/dealsync/internal/models"
	"github.com/dmitrijs2005/dealsync/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T) *JSONFileLedger {
	t.Helper()
	return NewJSONFileLedger(t.TempDir())
}

func TestLedger_EmptyByDefault(t *testing.T) {
	l := newTestLedger(t)

	stones, err := l.Active(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stones)
}

func TestLedger_RecordAndRead(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)

	require.NoError(t, l.Record(ctx, "d1", "alice"))
	require.NoError(t, l.Record(ctx, "d2", "bob"))

	stones, err := l.Active(ctx)
	require.NoError(t, err)
	require.Len(t, stones, 2)
	assert.Equal(t, "d1", stones[0].DealID)
	assert.Equal(t, "alice", stones[0].DeletedBy)
	assert.NotEmpty(t, stones[0].DeletedAt)

	ids := IDSet(stones)
	assert.Contains(t, ids, "d1")
	assert.Contains(t, ids, "d2")
}

func TestLedger_PrunesExpiredTombstones(t *testing.T) {
	ctx := context.Background()
	l := newTestLedger(t)

	// Record one tombstone 31 days in the past, one fresh.
	l.now = func() time.Time { return time.Now().AddDate(0, 0, -31) }
	require.NoError(t, l.Record(ctx, "old", "alice"))
	l.now = time.Now
	require.NoError(t, l.Record(ctx, "fresh", "alice"))

	stones, err := l.Active(ctx)
	require.NoError(t, err)
	require.Len(t, stones, 1)
	assert.Equal(t, "fresh", stones[0].DealID)
}

func TestLedger_KeepsUnparseableTimestamps(t *testing.T) {
	l := newTestLedger(t)
	kept := l.prune([]models.Tombstone{
		{DealID: "d1", DeletedAt: "not-a-date"},
		{DealID: "d2", DeletedAt: timex.FormatISO(time.Now().AddDate(0, 0, -40))},
	})
	require.Len(t, kept, 1)
	assert.Equal(t, "d1", kept[0].DealID)
}
