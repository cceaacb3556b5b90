package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ralt/rhinopackages/internal/history"
	"github.com/ralt/rhinopackages/internal/inspector"
	"github.com/ralt/rhinopackages/internal/models"
	"github.com/ralt/rhinopackages/internal/reconcile"
	"github.com/ralt/rhinopackages/internal/registry"
	"github.com/ralt/rhinopackages/internal/signer"
	"github.com/ralt/rhinopackages/internal/store"
	"github.com/ralt/rhinopackages/internal/utils"
	"github.com/sirupsen/logrus"
)

func runSync(ctx context.Context, config *models.SyncConfig) error {
	if err := utils.EnsureDir(config.OutputDir); err != nil {
		return &models.SyncError{
			Type: models.ErrFileOp,
			Err:  fmt.Errorf("failed to create output directory: %w", err),
		}
	}

	opts := []store.Option{store.WithCompression(config.Compress)}
	if config.GPGKeyPath != "" {
		logrus.Infof("Signing catalog with %s", config.GPGKeyPath)
		sig, err := signer.NewGPGSigner(config.GPGKeyPath, config.GPGPassphrase)
		if err != nil {
			return &models.SyncError{
				Type: models.ErrSigning,
				Err:  fmt.Errorf("failed to load GPG key: %w", err),
			}
		}
		opts = append(opts, store.WithSigner(sig))
	}
	catalog := store.New(config.OutputDir, opts...)

	client := registry.NewClient(config.RegistryURL, config.Timeout, config.UserAgent)
	engine := reconcile.NewEngine(
		client,
		inspector.New(client.HTTP()),
		history.NewWriter(filepath.Join(config.OutputDir, store.HistoryDir)),
		reconcile.WithFallbackIcon(config.FallbackIcon),
	)

	mode := reconcile.ModeIncremental
	if config.Rebuild {
		mode = reconcile.ModeRebuild
	}

	logrus.Infof("Syncing %s into %s", config.RegistryURL, catalog.Path())
	summary, err := reconcile.Run(ctx, engine, catalog, mode)
	if err != nil {
		return err
	}

	for _, skip := range summary.Skipped {
		logrus.Debugf("Skipped %s: %v", skip.ID, skip.Err)
	}
	if missing := summary.MissingVersions(); missing > 0 {
		logrus.Infof("%d packages list a version the registry does not serve", missing)
	}
	if failed := len(summary.Skipped) - summary.MissingVersions(); failed > 0 {
		logrus.Warnf("%d packages were skipped after errors and keep their previous record", failed)
	}
	if len(summary.HistoryFailures) > 0 {
		logrus.Warnf("Version history could not be refreshed for %d packages", len(summary.HistoryFailures))
	}

	if summary.Saved {
		logrus.Infof("Catalog written with %d packages", summary.Total)
	}
	logrus.Info("Sync complete!")
	return nil
}
