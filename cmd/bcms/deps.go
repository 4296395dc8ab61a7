package main

import (
	"context"
	"time"

	"bcms/internal/blobstore"
	"bcms/internal/config"
	"bcms/internal/export"
	"bcms/internal/posts"
	"bcms/internal/store"
)

// appDeps bundles the wired application: durable stores, the lifecycle
// manager and the exporter.
type appDeps struct {
	store    *store.Store
	blobs    *blobstore.Local
	manager  *posts.Manager
	exporter *export.Exporter
}

// withDeps opens the stores, runs fn, then flushes pending autosaves and
// closes the database.
func withDeps(ctx context.Context, cfg *config.Config, fn func(deps *appDeps) error) error {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	blobs, err := blobstore.NewLocal(cfg.BlobDir, blobstore.WithCompression(cfg.CompressBlobs))
	if err != nil {
		return err
	}

	manager := posts.NewManager(st,
		posts.WithAutosaveDelay(time.Duration(cfg.AutosaveDelayMS)*time.Millisecond),
	)
	if err := manager.Load(ctx); err != nil {
		return err
	}

	deps := &appDeps{
		store:    st,
		blobs:    blobs,
		manager:  manager,
		exporter: export.New(blobs, nil),
	}

	runErr := fn(deps)

	// One-shot CLI process: commit whatever the debounce window still holds.
	if err := manager.Flush(ctx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
