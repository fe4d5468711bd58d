package syncer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/dealsync/internal/blobname"
	"github.com/dmitrijs2005/dealsync/internal/common"
	"github.com/dmitrijs2005/dealsync/internal/config"
	"github.com/dmitrijs2005/dealsync/internal/logging"
	"github.com/dmitrijs2005/dealsync/internal/models"
	"github.com/dmitrijs2005/dealsync/internal/repositories/processed"
	"github.com/dmitrijs2005/dealsync/internal/repositories/synclog"
	"github.com/dmitrijs2005/dealsync/internal/repositories/tombstones"
	"github.com/dmitrijs2005/dealsync/internal/timex"
	"github.com/dmitrijs2005/dealsync/internal/transport"
)

// maxOwnBlobs is how many of the local user's own uploads are kept on the
// drop when retention cleanup runs.
const maxOwnBlobs = 10

// Report accumulates the outcome of one download-and-merge cycle. A non-empty
// Errors list means some peer blobs could not be processed; the rest were
// still merged.
type Report struct {
	FilesProcessed int               `json:"files_processed"`
	NewDeals       int               `json:"new_deals"`
	UpdatedDeals   int               `json:"updated_deals"`
	DeletedDeals   int               `json:"deleted_deals"`
	Conflicts      []models.Conflict `json:"conflicts"`
	Errors         []string          `json:"errors"`
}

// Status describes the sync subsystem for display.
type Status struct {
	Configured  bool                  `json:"configured"`
	UserID      string                `json:"user_id"`
	TeamMembers []string              `json:"team_members"`
	LastSync    string                `json:"last_sync,omitempty"`
	History     []models.SyncLogEntry `json:"sync_history"`
}

// Orchestrator sequences full sync cycles over an injected transport and the
// local bookkeeping repositories. Each operation connects, does its unit of
// work and disconnects; no connection is held between calls.
type Orchestrator struct {
	cfg       *config.Config
	transport transport.Client
	merger    *Merger
	tracker   processed.Tracker
	log       synclog.Repository
	logger    logging.Logger
	now       func() time.Time
}

func NewOrchestrator(cfg *config.Config, client transport.Client, ledger tombstones.Ledger,
	tracker processed.Tracker, log synclog.Repository, logger logging.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		transport: client,
		merger:    NewMerger(Strategy(cfg.Sync.ConflictStrategy), ledger, logger),
		tracker:   tracker,
		log:       log,
		logger:    logger,
		now:       time.Now,
	}
}

// UploadDeals publishes the local deal list as a manifest blob. It returns
// the deals with refreshed sync metadata; the caller persists them. A non-nil
// error means nothing was uploaded.
func (o *Orchestrator) UploadDeals(ctx context.Context, deals []models.Deal) ([]models.Deal, error) {
	if !o.cfg.Configured() {
		return deals, fmt.Errorf("upload: %w", common.ErrNotConfigured)
	}
	if err := o.transport.Connect(ctx); err != nil {
		return deals, fmt.Errorf("upload: %w", err)
	}
	defer func() {
		if err := o.transport.Disconnect(); err != nil {
			o.logger.Warn(ctx, "disconnect failed", "err", err)
		}
	}()

	now := o.now()
	nowISO := timex.FormatISO(now)

	stamped := make([]models.Deal, len(deals))
	for i, d := range deals {
		c := d.Clone()
		c.SyncMetadata.LastSynced = nowISO
		c.SyncMetadata.SyncedBy = o.cfg.UserID
		stamped[i] = c
	}

	active := make([]string, 0, len(stamped))
	for _, d := range stamped {
		if d.OwnedBy == o.cfg.UserID {
			active = append(active, d.ID)
		}
	}

	stones, err := o.merger.ledger.Active(ctx)
	if err != nil {
		return deals, fmt.Errorf("upload: %w", err)
	}
	if stones == nil {
		stones = []models.Tombstone{}
	}

	data, err := EncodeManifest(&Manifest{
		UserID:        o.cfg.UserID,
		Timestamp:     nowISO,
		ActiveDealIDs: active,
		DeletedDeals:  stones,
		Deals:         stamped,
	})
	if err != nil {
		return deals, fmt.Errorf("upload: %w", err)
	}

	name := blobname.Encode(o.cfg.UserID, now)
	if err := o.transport.Upload(ctx, name, data); err != nil {
		return deals, fmt.Errorf("upload %s: %w", name, err)
	}
	o.logger.Info(ctx, "uploaded deals", "file", name, "count", len(stamped))

	if o.cfg.Sync.KeepDays > 0 {
		o.cleanupOwnBlobs(ctx)
	}

	o.appendLog(ctx, "upload", name, len(stamped))

	return stamped, nil
}

// DownloadAndMerge folds every unprocessed peer blob into the deal list, one
// blob at a time. Per-blob failures go into Report.Errors and processing
// continues; a non-nil error means the cycle could not run at all and deals
// is returned unchanged.
func (o *Orchestrator) DownloadAndMerge(ctx context.Context, deals []models.Deal) ([]models.Deal, *Report, error) {
	if !o.cfg.Configured() {
		return deals, nil, fmt.Errorf("download: %w", common.ErrNotConfigured)
	}
	if err := o.transport.Connect(ctx); err != nil {
		return deals, nil, fmt.Errorf("download: %w", err)
	}
	defer func() {
		if err := o.transport.Disconnect(); err != nil {
			o.logger.Warn(ctx, "disconnect failed", "err", err)
		}
	}()

	names, err := o.transport.List(ctx)
	if err != nil {
		return deals, nil, fmt.Errorf("download: %w", err)
	}

	seen, err := o.tracker.Seen(ctx)
	if err != nil {
		return deals, nil, fmt.Errorf("download: %w", err)
	}

	var pending []string
	for _, name := range names {
		if !blobname.IsDealBlob(name) || blobname.Owner(name, o.cfg.UserID) {
			continue
		}
		if _, done := seen[name]; done {
			continue
		}
		pending = append(pending, name)
	}
	// The embedded timestamp makes lexicographic order chronological, so
	// older uploads merge first.
	sort.Strings(pending)

	o.logger.Info(ctx, "processing peer blobs", "total", len(names), "pending", len(pending))

	report := &Report{}
	current := deals

	for _, name := range pending {
		data, err := o.transport.Download(ctx, name)
		if err != nil {
			o.recordFailure(ctx, report, name, err)
			continue
		}

		manifest, err := DecodeManifest(data)
		if err != nil {
			o.recordFailure(ctx, report, name, err)
			continue
		}

		merged, stats, err := o.merger.Merge(ctx, current, manifest, name)
		if err != nil {
			o.recordFailure(ctx, report, name, err)
			continue
		}

		current = merged
		report.FilesProcessed++
		report.NewDeals += stats.New
		report.UpdatedDeals += stats.Updated
		report.DeletedDeals += stats.Deleted
		report.Conflicts = append(report.Conflicts, stats.Conflicts...)

		if err := o.tracker.Mark(ctx, name); err != nil {
			o.logger.Warn(ctx, "failed to mark blob processed", "file", name, "err", err)
		}
	}

	return current, report, nil
}

// Status reports configuration and recent sync activity.
func (o *Orchestrator) Status(ctx context.Context) (*Status, error) {
	history, err := o.log.Recent(ctx, 10)
	if err != nil {
		return nil, err
	}

	st := &Status{
		Configured:  o.cfg.Configured(),
		UserID:      o.cfg.UserID,
		TeamMembers: o.cfg.TeamIDs,
		History:     history,
	}
	if len(history) > 0 {
		st.LastSync = history[len(history)-1].Timestamp
	}
	return st, nil
}

// cleanupOwnBlobs deletes the local user's older uploads from the drop,
// keeping the most recent maxOwnBlobs. Failures are logged and ignored; a
// stale blob left behind only costs space.
func (o *Orchestrator) cleanupOwnBlobs(ctx context.Context) {
	names, err := o.transport.List(ctx)
	if err != nil {
		o.logger.Warn(ctx, "cleanup: list failed", "err", err)
		return
	}

	type ownBlob struct {
		name     string
		uploaded time.Time
	}
	var own []ownBlob
	for _, name := range names {
		if !blobname.Owner(name, o.cfg.UserID) {
			continue
		}
		_, uploaded, err := blobname.Parse(name)
		if err != nil {
			o.logger.Warn(ctx, "cleanup: unparseable blob name", "file", name, "err", err)
			continue
		}
		own = append(own, ownBlob{name: name, uploaded: uploaded})
	}

	if len(own) <= maxOwnBlobs {
		return
	}

	sort.Slice(own, func(i, j int) bool { return own[i].uploaded.After(own[j].uploaded) })

	for _, blob := range own[maxOwnBlobs:] {
		if err := o.transport.Delete(ctx, blob.name); err != nil {
			o.logger.Warn(ctx, "cleanup: delete failed", "file", blob.name, "err", err)
			continue
		}
		o.logger.Info(ctx, "deleted old sync blob", "file", blob.name)
	}
}

func (o *Orchestrator) recordFailure(ctx context.Context, report *Report, name string, err error) {
	o.logger.Error(ctx, "failed to process blob", "file", name, "err", err)
	report.Errors = append(report.Errors, fmt.Sprintf("failed to process %s: %v", name, err))
}

func (o *Orchestrator) appendLog(ctx context.Context, action, filename string, count int) {
	entry := models.SyncLogEntry{
		Timestamp: timex.FormatISO(o.now()),
		Action:    action,
		Filename:  filename,
		UserID:    o.cfg.UserID,
		DealCount: count,
	}
	if err := o.log.Append(ctx, entry); err != nil {
		o.logger.Warn(ctx, "failed to append sync log", "err", err)
	}
}
