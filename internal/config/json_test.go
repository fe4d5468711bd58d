package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{
		"user_id":  "alice",
		"team_ids": []string{"bob", "carol"},
		"ftp_config": map[string]any{
			"host":       "ftp.example.com",
			"port":       2121,
			"username":   "deals",
			"password":   "secret",
			"remote_dir": "/sync/deals",
			"use_tls":    false,
		},
		"sync_settings": map[string]any{
			"keep_days":          14,
			"conflict_strategy":  "merge_all",
			"auto_sync_interval": "5m",
		},
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "alice", cfg.UserID)
		assert.Equal(t, []string{"bob", "carol"}, cfg.TeamIDs)
		assert.Equal(t, "ftp.example.com", cfg.FTP.Host)
		assert.Equal(t, 2121, cfg.FTP.Port)
		assert.Equal(t, "deals", cfg.FTP.Username)
		assert.Equal(t, "/sync/deals", cfg.FTP.RemoteDir)
		assert.False(t, cfg.FTP.UseTLS)
		assert.Equal(t, 14, cfg.Sync.KeepDays)
		assert.Equal(t, "merge_all", cfg.Sync.ConflictStrategy)
		assert.Equal(t, 5*time.Minute, cfg.Sync.AutoSyncInterval)
	})

	t.Run("absent keys keep defaults", func(t *testing.T) {
		minimal := writeTempJSON(t, map[string]any{
			"user_id": "dave",
		})
		os.Args = []string{"testbin", "-config", minimal}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "dave", cfg.UserID)
		assert.Equal(t, 21, cfg.FTP.Port)
		assert.True(t, cfg.FTP.UseTLS)
		assert.Equal(t, 30, cfg.Sync.KeepDays)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{UserID: "defaults"}
		parseJson(cfg)

		assert.Equal(t, "defaults", cfg.UserID)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
