// Package app wires the dealsync components together and drives the
// interactive command loop.
package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/dealsync/internal/cli"
	"github.com/dmitrijs2005/dealsync/internal/config"
	"github.com/dmitrijs2005/dealsync/internal/filex"
	"github.com/dmitrijs2005/dealsync/internal/logging"
	"github.com/dmitrijs2005/dealsync/internal/repositories/deals"
	"github.com/dmitrijs2005/dealsync/internal/repositories/processed"
	"github.com/dmitrijs2005/dealsync/internal/repositories/synclog"
	"github.com/dmitrijs2005/dealsync/internal/repositories/tombstones"
	"github.com/dmitrijs2005/dealsync/internal/services"
	"github.com/dmitrijs2005/dealsync/internal/syncer"
	"github.com/dmitrijs2005/dealsync/internal/transport"
)

// syncCycleTimeout bounds one automatic sync cycle so a hung transport call
// cannot stall the watcher forever.
const syncCycleTimeout = 5 * time.Minute

type App struct {
	cfg          *config.Config
	logger       logging.Logger
	dealRepo     deals.Repository
	dealService  *services.DealService
	orchestrator *syncer.Orchestrator
	reader       *bufio.Reader
	out          io.Writer
}

func New(cfg *config.Config, logger logging.Logger) (*App, error) {
	if _, err := filex.EnsureDir(cfg.DataDir); err != nil {
		return nil, fmt.Errorf("data dir %s: %w", cfg.DataDir, err)
	}

	client, err := newTransport(cfg, logger)
	if err != nil {
		return nil, err
	}

	dealRepo := deals.NewJSONFileRepository(cfg.DataDir)
	ledger := tombstones.NewJSONFileLedger(cfg.DataDir)
	tracker := processed.NewJSONFileTracker(cfg.DataDir)
	log := synclog.NewJSONFileRepository(cfg.DataDir)

	return &App{
		cfg:          cfg,
		logger:       logger,
		dealRepo:     dealRepo,
		dealService:  services.NewDealService(dealRepo, ledger, cfg.UserID),
		orchestrator: syncer.NewOrchestrator(cfg, client, ledger, tracker, log, logger),
		reader:       bufio.NewReader(os.Stdin),
		out:          os.Stdout,
	}, nil
}

func newTransport(cfg *config.Config, logger logging.Logger) (transport.Client, error) {
	switch cfg.Transport {
	case "", "ftp":
		return transport.NewFTPClient(cfg.FTP, logger), nil
	case "s3":
		return transport.NewS3Client(cfg.S3, cfg.FTP.RemoteDir, logger), nil
	default:
		return nil, fmt.Errorf("unknown transport: %s", cfg.Transport)
	}
}

// Run prompts for missing credentials, starts the auto-sync watcher when
// configured and enters the command loop until exit or context cancellation.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.promptPassword(); err != nil {
		return err
	}

	if a.cfg.Sync.AutoSyncInterval > 0 && a.cfg.Configured() {
		go a.StartAutoSync(ctx, a.cfg.Sync.AutoSyncInterval)
	}

	a.Root(ctx)
	return nil
}

// promptPassword asks for the FTP password interactively when the transport
// is configured but the config file leaves the password out.
func (a *App) promptPassword() error {
	if a.cfg.Transport == "s3" || !a.cfg.Configured() || a.cfg.FTP.Password != "" {
		return nil
	}
	pw, err := cli.GetPassword(a.out, fmt.Sprintf("FTP password for %s@%s", a.cfg.FTP.Username, a.cfg.FTP.Host))
	if err != nil {
		return err
	}
	a.cfg.FTP.Password = pw
	return nil
}

// StartAutoSync runs full sync cycles on a fixed interval until the context
// is cancelled. Cycle failures are logged and the loop keeps going.
func (a *App) StartAutoSync(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cycleCtx, cancel := context.WithTimeout(context.Background(), syncCycleTimeout)
			if err := a.syncCycle(cycleCtx); err != nil {
				a.logger.Error(cycleCtx, "auto-sync cycle failed", "err", err)
			}
			cancel()

		case <-ctx.Done():
			return
		}
	}
}

// syncCycle merges everything new from peers, persists the result, then
// publishes the local state.
func (a *App) syncCycle(ctx context.Context) error {
	local, err := a.dealService.List(ctx)
	if err != nil {
		return err
	}

	merged, report, err := a.orchestrator.DownloadAndMerge(ctx, local)
	if err != nil {
		return err
	}
	if err := a.dealRepo.Save(ctx, merged); err != nil {
		return err
	}
	for _, msg := range report.Errors {
		a.logger.Warn(ctx, "sync cycle blob failure", "detail", msg)
	}

	stamped, err := a.orchestrator.UploadDeals(ctx, merged)
	if err != nil {
		return err
	}
	return a.dealRepo.Save(ctx, stamped)
}
