package transport

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dmitrijs2005/dealsync/internal/config"
	"github.com/dmitrijs2005/dealsync/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testFTPConfig() config.FTPConfig {
	return config.FTPConfig{
		Host:      "127.0.0.1",
		Port:      1, // nothing listens here
		Username:  "sync",
		Password:  "secret",
		RemoteDir: "/",
		UseTLS:    true,
	}
}

func contextWithShortTimeout(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithTimeout(context.Background(), 2*time.Second)
}
