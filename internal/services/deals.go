// Package services implements the local deal operations exposed to the CLI:
// CRUD over the deal store plus note handling, with the tombstone bookkeeping
// synchronization depends on.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/dealsync/internal/common"
	"github.com/dmitrijs2005/dealsync/internal/models"
	"github.com/dmitrijs2005/dealsync/internal/repositories/deals"
	"github.com/dmitrijs2005/dealsync/internal/repositories/tombstones"
	"github.com/dmitrijs2005/dealsync/internal/timex"
)

// DealService mediates every local change to the deal list. Deletions go
// through here so the tombstone ledger always learns about them; a deal
// removed without a tombstone would be resurrected by the next merge.
type DealService struct {
	repo   deals.Repository
	ledger tombstones.Ledger
	userID string
	now    func() time.Time
}

func NewDealService(repo deals.Repository, ledger tombstones.Ledger, userID string) *DealService {
	return &DealService{
		repo:   repo,
		ledger: ledger,
		userID: userID,
		now:    time.Now,
	}
}

// List returns all local deals.
func (s *DealService) List(ctx context.Context) ([]models.Deal, error) {
	return s.repo.Load(ctx)
}

// Get returns the deal with the given id.
func (s *DealService) Get(ctx context.Context, id string) (models.Deal, error) {
	all, err := s.repo.Load(ctx)
	if err != nil {
		return models.Deal{}, err
	}
	for _, d := range all {
		if d.ID == id {
			return d, nil
		}
	}
	return models.Deal{}, fmt.Errorf("deal %s: %w", id, common.ErrNotFound)
}

// Add stores a new deal, assigning an id and timestamps. Ownership defaults
// to the local user when the caller leaves it blank.
func (s *DealService) Add(ctx context.Context, d models.Deal) (models.Deal, error) {
	nowISO := timex.FormatISO(s.now())

	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	d.CreatedAt = nowISO
	d.UpdatedAt = nowISO
	if d.CreatedBy == "" {
		d.CreatedBy = s.userID
	}
	if d.OwnedBy == "" {
		d.OwnedBy = d.CreatedBy
	}
	if d.Notes == nil {
		d.Notes = []models.Note{}
	}

	all, err := s.repo.Load(ctx)
	if err != nil {
		return models.Deal{}, err
	}
	all = append(all, d)
	if err := s.repo.Save(ctx, all); err != nil {
		return models.Deal{}, err
	}
	return d, nil
}

// Update replaces the stored deal with the same id. Identity, creation time
// and ownership survive the update; notes survive unless the caller supplies
// a replacement list.
func (s *DealService) Update(ctx context.Context, d models.Deal) (models.Deal, error) {
	all, err := s.repo.Load(ctx)
	if err != nil {
		return models.Deal{}, err
	}

	for i, existing := range all {
		if existing.ID != d.ID {
			continue
		}

		d.CreatedAt = existing.CreatedAt
		if d.CreatedAt == "" {
			d.CreatedAt = timex.FormatISO(s.now())
		}
		d.UpdatedAt = timex.FormatISO(s.now())
		d.OwnedBy = existing.OwnedBy
		d.CreatedBy = existing.CreatedBy
		if d.Notes == nil {
			d.Notes = existing.Notes
		}

		all[i] = d
		if err := s.repo.Save(ctx, all); err != nil {
			return models.Deal{}, err
		}
		return d, nil
	}

	return models.Deal{}, fmt.Errorf("deal %s: %w", d.ID, common.ErrNotFound)
}

// Delete removes the deal and records a tombstone so the deletion propagates
// to peers instead of being undone by their next upload.
func (s *DealService) Delete(ctx context.Context, id string) error {
	all, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}

	kept := all[:0:0]
	for _, d := range all {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	if len(kept) == len(all) {
		return fmt.Errorf("deal %s: %w", id, common.ErrNotFound)
	}

	if err := s.ledger.Record(ctx, id, s.userID); err != nil {
		return err
	}
	return s.repo.Save(ctx, kept)
}

// AddNote appends a note to the deal, assigning the note an id and timestamp
// and bumping the deal's updated_at.
func (s *DealService) AddNote(ctx context.Context, dealID, text string) (models.Note, error) {
	all, err := s.repo.Load(ctx)
	if err != nil {
		return models.Note{}, err
	}

	note := models.Note{
		ID:        uuid.NewString(),
		Text:      text,
		Author:    s.userID,
		Timestamp: timex.FormatISO(s.now()),
	}

	for i, d := range all {
		if d.ID != dealID {
			continue
		}
		all[i].Notes = append(all[i].Notes, note)
		all[i].UpdatedAt = note.Timestamp
		if err := s.repo.Save(ctx, all); err != nil {
			return models.Note{}, err
		}
		return note, nil
	}

	return models.Note{}, fmt.Errorf("deal %s: %w", dealID, common.ErrNotFound)
}

// RemoveNote deletes a note from the deal and bumps its updated_at.
func (s *DealService) RemoveNote(ctx context.Context, dealID, noteID string) error {
	all, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}

	for i, d := range all {
		if d.ID != dealID {
			continue
		}
		kept := d.Notes[:0:0]
		for _, n := range d.Notes {
			if n.ID != noteID {
				kept = append(kept, n)
			}
		}
		all[i].Notes = kept
		all[i].UpdatedAt = timex.FormatISO(s.now())
		if err := s.repo.Save(ctx, all); err != nil {
			return err
		}
		return nil
	}

	return fmt.Errorf("deal %s: %w", dealID, common.ErrNotFound)
}
