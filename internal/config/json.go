package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/dealsync/internal/flagx"
	"github.com/dmitrijs2005/dealsync/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. The field names
// match the configuration format shared with other deployments, so a config
// file written for one instance works for all of them. It relies on
// timex.Duration so intervals can be given either as strings like "5m" or as
// integer nanoseconds.
type JsonConfig struct {
	UserID    string   `json:"user_id"`
	TeamIDs   []string `json:"team_ids"`
	DataDir   string   `json:"data_dir"`
	Transport string   `json:"transport"`

	FTPConfig struct {
		Host      string `json:"host"`
		Port      *int   `json:"port"`
		Username  string `json:"username"`
		Password  string `json:"password"`
		RemoteDir string `json:"remote_dir"`
		UseTLS    *bool  `json:"use_tls"`
	} `json:"ftp_config"`

	S3Config struct {
		Endpoint  string `json:"endpoint"`
		Bucket    string `json:"bucket"`
		Region    string `json:"region"`
		AccessKey string `json:"access_key"`
		SecretKey string `json:"secret_key"`
	} `json:"s3_config"`

	SyncSettings struct {
		KeepDays         *int           `json:"keep_days"`
		ConflictStrategy string         `json:"conflict_strategy"`
		AutoSyncInterval timex.Duration `json:"auto_sync_interval"`
	} `json:"sync_settings"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path is resolved from the -c or -config flags via
// flagx.JsonConfigFlags(); if empty, no JSON is loaded. Read or unmarshal
// errors panic (caller may recover if desired). Optional scalars use pointers
// so an absent key does not clobber a default.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.UserID != "" {
		cfg.UserID = jc.UserID
	}
	if jc.TeamIDs != nil {
		cfg.TeamIDs = jc.TeamIDs
	}
	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.Transport != "" {
		cfg.Transport = jc.Transport
	}

	if jc.FTPConfig.Host != "" {
		cfg.FTP.Host = jc.FTPConfig.Host
	}
	if jc.FTPConfig.Port != nil {
		cfg.FTP.Port = *jc.FTPConfig.Port
	}
	if jc.FTPConfig.Username != "" {
		cfg.FTP.Username = jc.FTPConfig.Username
	}
	if jc.FTPConfig.Password != "" {
		cfg.FTP.Password = jc.FTPConfig.Password
	}
	if jc.FTPConfig.RemoteDir != "" {
		cfg.FTP.RemoteDir = jc.FTPConfig.RemoteDir
	}
	if jc.FTPConfig.UseTLS != nil {
		cfg.FTP.UseTLS = *jc.FTPConfig.UseTLS
	}

	cfg.S3.Endpoint = jc.S3Config.Endpoint
	if jc.S3Config.Bucket != "" {
		cfg.S3.Bucket = jc.S3Config.Bucket
	}
	if jc.S3Config.Region != "" {
		cfg.S3.Region = jc.S3Config.Region
	}
	if jc.S3Config.AccessKey != "" {
		cfg.S3.AccessKey = jc.S3Config.AccessKey
	}
	if jc.S3Config.SecretKey != "" {
		cfg.S3.SecretKey = jc.S3Config.SecretKey
	}

	if jc.SyncSettings.KeepDays != nil {
		cfg.Sync.KeepDays = *jc.SyncSettings.KeepDays
	}
	if jc.SyncSettings.ConflictStrategy != "" {
		cfg.Sync.ConflictStrategy = jc.SyncSettings.ConflictStrategy
	}
	if jc.SyncSettings.AutoSyncInterval.Duration > 0 {
		cfg.Sync.AutoSyncInterval = time.Duration(jc.SyncSettings.AutoSyncInterval.Duration)
	}
}
