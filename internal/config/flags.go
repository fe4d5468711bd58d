package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/dealsync/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-u string   local user id
//	-d string   data directory for local JSON state
//	-t string   transport: "ftp" or "s3"
//	-i int      auto-sync interval in seconds (0 disables)
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-u", "-d", "-t", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.UserID, "u", cfg.UserID, "local user id")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory for local JSON state")
	fs.StringVar(&cfg.Transport, "t", cfg.Transport, "transport: ftp or s3")
	autoSyncInterval := fs.Int("i", int(cfg.Sync.AutoSyncInterval.Seconds()), "auto-sync interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.Sync.AutoSyncInterval = time.Duration(*autoSyncInterval) * time.Second
}
