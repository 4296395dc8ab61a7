package blobstore

import (
	"context"
	"io"

	"bcms/internal/models"
)

// BlobStore is the durable, id-keyed byte storage for binary image assets.
// Ids are generated on save and never reused; posts reference blobs by id
// only, so a missing id at lookup time is an expected outcome, not an error.
type BlobStore interface {
	// Save persists the payload and returns a freshly generated unique id.
	Save(ctx context.Context, r io.Reader) (string, error)
	// Get returns the stored asset, or (nil, nil) when the id is unknown.
	Get(ctx context.Context, id string) (*models.BlobAsset, error)
	// Delete removes the asset. Deleting an unknown id is a no-op.
	Delete(ctx context.Context, id string) error
}
