// Package export materializes a single post as a self-contained JSON
// document with every referenced image inlined, viewable without access to
// the blob store.
package export

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"bcms/internal/blobstore"
	"bcms/internal/models"
)

// fallbackFilename is used when a title sanitizes down to nothing.
const fallbackFilename = "post"

var unsafeFilenameRuns = regexp.MustCompile(`[^0-9A-Za-z_]+`)

// Exporter builds export artifacts by resolving blob references against the
// blob store.
type Exporter struct {
	blobs  blobstore.BlobStore
	logger *slog.Logger
}

// New creates an Exporter reading assets from blobs.
func New(blobs blobstore.BlobStore, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{blobs: blobs, logger: logger}
}

// Build assembles the export artifact for one post. Image blocks are walked
// in document order and each referenced blob is fetched and embedded exactly
// once. A missing or unreadable blob is omitted from the asset map; only a
// failure to read the post itself is fatal, and that is the caller's concern
// before Build is invoked.
func (e *Exporter) Build(ctx context.Context, post models.Post) (*models.ExportArtifact, error) {
	artifact := &models.ExportArtifact{
		ID:        post.ID,
		Title:     post.Title,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
		Published: post.Published,
		Content:   post.Content,
		Assets:    models.ExportAssets{Images: map[string]models.ExportImage{}},
	}
	if post.Content == nil {
		return artifact, nil
	}

	for _, block := range post.Content.Blocks {
		id := block.ImageID()
		if id == "" {
			continue
		}
		if _, done := artifact.Assets.Images[id]; done {
			continue
		}

		asset, err := e.blobs.Get(ctx, id)
		if err != nil {
			// Asset unavailable; the export still succeeds without it.
			e.logger.Warn("export: asset unreadable, omitting", "post", post.ID, "blob", id, "error", err)
			continue
		}
		if asset == nil {
			e.logger.Warn("export: asset missing, omitting", "post", post.ID, "blob", id)
			continue
		}

		artifact.Assets.Images[id] = models.ExportImage{
			Mime: asset.ContentType,
			Data: base64.StdEncoding.EncodeToString(asset.Payload),
		}
	}

	return artifact, nil
}

// WriteFile writes the artifact into dir under a filename derived from the
// post title and returns the full path.
func (e *Exporter) WriteFile(artifact *models.ExportArtifact, dir string) (string, error) {
	raw, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode artifact: %w", err)
	}

	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("%w: create export dir: %v", models.ErrStorageUnavailable, err)
		}
	}

	path := filepath.Join(dir, Filename(artifact.Title))
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("%w: write export: %v", models.ErrStorageUnavailable, err)
	}
	return path, nil
}

// Filename derives a filesystem-safe name from a post title: runs of
// non-alphanumeric characters collapse to underscores, with a generic
// fallback when nothing survives.
func Filename(title string) string {
	safe := unsafeFilenameRuns.ReplaceAllString(strings.TrimSpace(title), "_")
	safe = strings.Trim(safe, "_")
	if safe == "" {
		safe = fallbackFilename
	}
	return safe + ".json"
}
