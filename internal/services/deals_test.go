package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/dealsync/internal/common"
	"github.com/dmitrijs2005/dealsync/internal/models"
	"github.com/dmitrijs2005/dealsync/internal/repositories/deals"
	"github.com/dmitrijs2005/dealsync/internal/repositories/tombstones"
)

func newTestService(t *testing.T) (*DealService, tombstones.Ledger) {
	t.Helper()
	dir := t.TempDir()
	ledger := tombstones.NewJSONFileLedger(dir)
	s := NewDealService(deals.NewJSONFileRepository(dir), ledger, "alice")
	s.now = func() time.Time {
		return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	}
	return s, ledger
}

func TestDealService_AddAssignsIdentity(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	added, err := s.Add(ctx, models.Deal{Fields: map[string]any{"customerName": "Acme"}})
	require.NoError(t, err)

	assert.NotEmpty(t, added.ID)
	assert.Equal(t, "alice", added.OwnedBy)
	assert.Equal(t, "alice", added.CreatedBy)
	assert.Equal(t, added.CreatedAt, added.UpdatedAt)
	assert.NotNil(t, added.Notes)

	got, err := s.Get(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Fields["customerName"])
}

func TestDealService_AddKeepsExplicitOwnership(t *testing.T) {
	s, _ := newTestService(t)

	added, err := s.Add(context.Background(), models.Deal{CreatedBy: "bob"})
	require.NoError(t, err)
	assert.Equal(t, "bob", added.OwnedBy)
	assert.Equal(t, "bob", added.CreatedBy)
}

func TestDealService_Update(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	added, err := s.Add(ctx, models.Deal{Fields: map[string]any{"status": "open"}})
	require.NoError(t, err)
	_, err = s.AddNote(ctx, added.ID, "call back tuesday")
	require.NoError(t, err)

	updated, err := s.Update(ctx, models.Deal{
		ID:      added.ID,
		OwnedBy: "mallory",
		Fields:  map[string]any{"status": "won"},
	})
	require.NoError(t, err)

	assert.Equal(t, "won", updated.Fields["status"])
	assert.Equal(t, "alice", updated.OwnedBy, "ownership must not change through update")
	assert.Equal(t, added.CreatedAt, updated.CreatedAt)
	assert.Len(t, updated.Notes, 1, "notes survive an update that omits them")
}

func TestDealService_UpdateMissing(t *testing.T) {
	s, _ := newTestService(t)
	_, err := s.Update(context.Background(), models.Deal{ID: "nope"})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestDealService_DeleteRecordsTombstone(t *testing.T) {
	s, ledger := newTestService(t)
	ctx := context.Background()

	added, err := s.Add(ctx, models.Deal{})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, added.ID))

	_, err = s.Get(ctx, added.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	stones, err := ledger.Active(ctx)
	require.NoError(t, err)
	require.Len(t, stones, 1)
	assert.Equal(t, added.ID, stones[0].DealID)
	assert.Equal(t, "alice", stones[0].DeletedBy)
}

func TestDealService_DeleteMissing(t *testing.T) {
	s, ledger := newTestService(t)
	ctx := context.Background()

	err := s.Delete(ctx, "nope")
	assert.ErrorIs(t, err, common.ErrNotFound)

	stones, err := ledger.Active(ctx)
	require.NoError(t, err)
	assert.Empty(t, stones, "no tombstone for a deal that never existed")
}

func TestDealService_Notes(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	added, err := s.Add(ctx, models.Deal{})
	require.NoError(t, err)

	note, err := s.AddNote(ctx, added.ID, "first contact")
	require.NoError(t, err)
	assert.NotEmpty(t, note.ID)
	assert.Equal(t, "alice", note.Author)
	assert.NotEmpty(t, note.Timestamp)

	got, err := s.Get(ctx, added.ID)
	require.NoError(t, err)
	require.Len(t, got.Notes, 1)
	assert.Equal(t, "first contact", got.Notes[0].Text)

	require.NoError(t, s.RemoveNote(ctx, added.ID, note.ID))
	got, err = s.Get(ctx, added.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Notes)
}

func TestDealService_NoteOnMissingDeal(t *testing.T) {
	s, _ := newTestService(t)
	_, err := s.AddNote(context.Background(), "nope", "text")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
