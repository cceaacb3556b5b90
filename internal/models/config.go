package models

import "time"

// SyncConfig contains configuration for a catalog sync run
type SyncConfig struct {
	// Registry
	RegistryURL string
	Timeout     time.Duration
	UserAgent   string

	// Output
	OutputDir    string
	FallbackIcon string
	Compress     bool // Also write gzip and zstd copies of the catalog

	// Signing
	GPGKeyPath    string
	GPGPassphrase string

	// Rebuild ignores the persisted catalog and always writes a new one
	Rebuild bool
}
