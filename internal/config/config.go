package config

import "time"

// FTPConfig holds connection settings for the shared FTP/FTPS drop.
type FTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	RemoteDir string
	UseTLS    bool
}

// S3Config holds connection settings for an S3-compatible drop
// (AWS, MinIO, R2). Used when Transport is "s3".
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

// SyncSettings tunes the synchronization behaviour.
//
//   - KeepDays > 0 enables retention cleanup of the local user's own remote
//     blobs after each upload.
//   - ConflictStrategy is "newest_wins" (default) or "merge_all".
//   - AutoSyncInterval > 0 starts the periodic background sync loop.
type SyncSettings struct {
	KeepDays         int
	ConflictStrategy string
	AutoSyncInterval time.Duration
}

// Config holds runtime settings for the dealsync CLI.
type Config struct {
	UserID    string
	TeamIDs   []string
	DataDir   string
	Transport string
	FTP       FTPConfig
	S3        S3Config
	Sync      SyncSettings
}

// Configured reports whether a transport target has been set up at all.
func (c *Config) Configured() bool {
	switch c.Transport {
	case "s3":
		return c.S3.Bucket != ""
	default:
		return c.FTP.Host != ""
	}
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = "data"
	c.Transport = "ftp"
	c.FTP.Port = 21
	c.FTP.RemoteDir = "/"
	c.FTP.UseTLS = true
	c.Sync.KeepDays = 30
	c.Sync.ConflictStrategy = "newest_wins"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
