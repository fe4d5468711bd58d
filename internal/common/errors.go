// Package common defines shared sentinel errors used across dealsync layers.
// Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Manifest / merge errors.
	ErrManifestDecode = errors.New("manifest decode error")

	// Configuration errors.
	ErrNotConfigured = errors.New("sync not configured")
)
