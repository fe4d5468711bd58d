package syncer

import (
	"context"
	"sort"
	"time"

	"github.com/dmitrijs2005/dealsync/internal/logging"
	"github.com/dmitrijs2005/dealsync/internal/models"
	"github.com/dmitrijs2005/dealsync/internal/repositories/tombstones"
	"github.com/dmitrijs2005/dealsync/internal/timex"
)

// Strategy selects how an incoming deal competes with the local copy.
type Strategy string

const (
	// StrategyNewestWins updates only when the remote copy is newer, and
	// flags same-timestamp content divergence as a conflict.
	StrategyNewestWins Strategy = "newest_wins"

	// StrategyMergeAll merges every incoming copy regardless of timestamps.
	StrategyMergeAll Strategy = "merge_all"
)

const conflictSameTimestamp = "same_timestamp_different_content"

// MergeStats summarizes one manifest's merge.
type MergeStats struct {
	New            int
	Updated        int
	Deleted        int
	SkippedDeleted int
	Conflicts      []models.Conflict
}

// Merger folds one inbound manifest into the local deal list. It consults and
// updates the tombstone ledger, so a deletion recorded by any peer stays dead
// here for the retention window.
type Merger struct {
	strategy Strategy
	ledger   tombstones.Ledger
	logger   logging.Logger
	now      func() time.Time
}

func NewMerger(strategy Strategy, ledger tombstones.Ledger, logger logging.Logger) *Merger {
	if strategy == "" {
		strategy = StrategyNewestWins
	}
	return &Merger{
		strategy: strategy,
		ledger:   ledger,
		logger:   logger,
		now:      time.Now,
	}
}

// Merge produces a new deal list from the local list and one manifest.
// source is the blob name the manifest came from, recorded as provenance.
// The input slice is not modified.
func (m *Merger) Merge(ctx context.Context, local []models.Deal, manifest *Manifest, source string) ([]models.Deal, *MergeStats, error) {
	stats := &MergeStats{}
	nowISO := timex.FormatISO(m.now())

	merged := make([]models.Deal, len(local))
	copy(merged, local)

	index := make(map[string]int, len(merged))
	for i, d := range merged {
		index[d.ID] = i
	}

	active, err := m.ledger.Active(ctx)
	if err != nil {
		return local, nil, err
	}
	deletedIDs := tombstones.IDSet(active)

	// Absorb the sender's tombstones so their offline deletions stick here
	// even when the active-id mechanism misses them.
	for _, stone := range manifest.DeletedDeals {
		if _, ok := deletedIDs[stone.DealID]; ok {
			continue
		}
		if err := m.ledger.Record(ctx, stone.DealID, stone.DeletedBy); err != nil {
			return local, nil, err
		}
		deletedIDs[stone.DealID] = struct{}{}
	}

	for _, remote := range manifest.Deals {
		if remote.ID == "" {
			continue
		}

		if _, dead := deletedIDs[remote.ID]; dead {
			stats.SkippedDeleted++
			m.logger.Debug(ctx, "skipping tombstoned deal", "deal_id", remote.ID, "source", source)
			continue
		}

		i, exists := index[remote.ID]
		if !exists {
			adopted := remote.Clone()
			adopted.SyncMetadata.ImportedFrom = source
			adopted.SyncMetadata.ImportedAt = nowISO
			if adopted.OwnedBy == "" && adopted.CreatedBy != "" {
				adopted.OwnedBy = adopted.CreatedBy
			}
			index[adopted.ID] = len(merged)
			merged = append(merged, adopted)
			stats.New++
			m.logger.Info(ctx, "adopted new deal", "deal_id", adopted.ID, "company", adopted.CompanyName(), "owned_by", adopted.OwnedBy)
			continue
		}

		update, conflict := m.shouldUpdate(merged[i], remote)
		if conflict != nil {
			stats.Conflicts = append(stats.Conflicts, *conflict)
		}
		if !update {
			continue
		}

		result := mergeFields(merged[i], remote)
		result.SyncMetadata.LastMerged = nowISO
		result.SyncMetadata.MergedFrom = source
		merged[i] = result
		stats.Updated++
		m.logger.Info(ctx, "updated deal", "deal_id", result.ID, "company", result.CompanyName())
	}

	// Deletion-by-absence: a deal the sender owns but no longer lists as
	// active was deleted on their side.
	if manifest.UserID != "" && manifest.ActiveDealIDs != nil {
		activeSet := make(map[string]struct{}, len(manifest.ActiveDealIDs))
		for _, id := range manifest.ActiveDealIDs {
			activeSet[id] = struct{}{}
		}

		kept := merged[:0:0]
		for _, d := range merged {
			if d.OwnedBy != manifest.UserID {
				kept = append(kept, d)
				continue
			}
			if _, live := activeSet[d.ID]; live {
				kept = append(kept, d)
				continue
			}
			if _, dead := deletedIDs[d.ID]; dead {
				kept = append(kept, d)
				continue
			}
			if err := m.ledger.Record(ctx, d.ID, manifest.UserID); err != nil {
				return local, nil, err
			}
			deletedIDs[d.ID] = struct{}{}
			stats.Deleted++
			m.logger.Info(ctx, "removing deal deleted by owner", "deal_id", d.ID, "company", d.CompanyName(), "owned_by", manifest.UserID)
		}
		merged = kept
	}

	return merged, stats, nil
}

// shouldUpdate decides whether the remote copy replaces the local one, and
// reports a conflict when both sides changed at the same logical time with
// different content. A conflict does not block the update.
func (m *Merger) shouldUpdate(local, remote models.Deal) (bool, *models.Conflict) {
	if m.strategy == StrategyMergeAll {
		return true, nil
	}

	localUpdated := local.UpdatedOrCreated()
	remoteUpdated := remote.UpdatedOrCreated()

	switch {
	case remoteUpdated > localUpdated:
		return true, nil
	case remoteUpdated == localUpdated && !local.ContentEquals(remote):
		return true, &models.Conflict{
			DealID:        local.ID,
			Company:       local.CompanyName(),
			LocalUpdated:  localUpdated,
			RemoteUpdated: remoteUpdated,
			Type:          conflictSameTimestamp,
		}
	}
	return false, nil
}

// mergeFields combines two copies of the same deal. The newer side supplies
// the business fields; ownership is immutable once set on either side, notes
// are unioned by id, and a recorded win date survives an update that omits it.
func mergeFields(local, remote models.Deal) models.Deal {
	merged := local.Clone()
	remoteNewer := remote.UpdatedAt > local.UpdatedAt

	if remoteNewer {
		merged.UpdatedAt = remote.UpdatedAt
		if remote.CreatedAt != "" {
			merged.CreatedAt = remote.CreatedAt
		}
		if remote.DateWon != "" {
			merged.DateWon = remote.DateWon
		}
		if remote.FinancialYear != nil {
			merged.FinancialYear = remote.FinancialYear
		}
		if len(remote.Fields) > 0 && merged.Fields == nil {
			merged.Fields = make(map[string]any, len(remote.Fields))
		}
		for key, v := range remote.Fields {
			merged.Fields[key] = v
		}
	}

	if local.OwnedBy != "" {
		merged.OwnedBy = local.OwnedBy
	} else {
		merged.OwnedBy = remote.OwnedBy
	}
	if local.CreatedBy != "" {
		merged.CreatedBy = local.CreatedBy
	} else {
		merged.CreatedBy = remote.CreatedBy
	}

	merged.Notes = mergeNotes(local.Notes, remote.Notes)

	if merged.DateWon == "" && remote.DateWon != "" {
		merged.DateWon = remote.DateWon
		merged.FinancialYear = remote.FinancialYear
	}

	return merged
}

// mergeNotes unions two note lists by note id, newest first.
func mergeNotes(local, remote []models.Note) []models.Note {
	merged := make([]models.Note, len(local))
	copy(merged, local)

	seen := make(map[string]struct{}, len(local))
	for _, n := range local {
		if n.ID != "" {
			seen[n.ID] = struct{}{}
		}
	}
	for _, n := range remote {
		if n.ID != "" {
			if _, ok := seen[n.ID]; ok {
				continue
			}
			seen[n.ID] = struct{}{}
		}
		merged = append(merged, n)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp > merged[j].Timestamp
	})
	return merged
}
