package blobstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"bcms/internal/models"
)

const (
	tempDirName  = "tmp"
	blobDirName  = "blobs"
	dataFileName = "data"
	metaFileName = "meta.json"

	encodingRaw  = "raw"
	encodingZstd = "zstd"

	sniffLen = 512
)

// blobMeta is the sidecar record stored next to each payload. Keeping it
// separate from the data file allows metadata reads without touching the
// payload, and lets the payload encoding vary per blob.
type blobMeta struct {
	ID          string `json:"id"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes"`
	Encoding    string `json:"encoding"`
	CreatedAt   int64  `json:"createdAt"`
}

// Local stores blob payloads in a sharded local directory tree, one
// directory per generated id, with a JSON metadata sidecar.
type Local struct {
	root     string
	compress bool

	enc *zstd.Encoder
	dec *zstd.Decoder
}

// Option configures a Local store.
type Option func(*Local)

// WithCompression enables transparent zstd compression of stored payloads.
// Reads handle both compressed and raw blobs, so the option can be toggled
// on an existing store.
func WithCompression(enabled bool) Option {
	return func(l *Local) {
		l.compress = enabled
	}
}

// NewLocal creates a local blob store rooted at root.
func NewLocal(root string, opts ...Option) (*Local, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("blob store root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	for _, dir := range []string{blobDirName, tempDirName} {
		if err := os.MkdirAll(filepath.Join(abs, dir), 0o755); err != nil {
			return nil, fmt.Errorf("%w: init blob store: %v", models.ErrStorageUnavailable, err)
		}
	}

	l := &Local{root: abs}
	for _, opt := range opts {
		opt(l)
	}

	if l.enc, err = zstd.NewWriter(nil); err != nil {
		return nil, err
	}
	if l.dec, err = zstd.NewReader(nil); err != nil {
		return nil, err
	}
	return l, nil
}

// Save persists the payload under a freshly generated id and returns it.
// The data file is written to a temp location and renamed, so a blob either
// fully exists or does not exist at all.
func (l *Local) Save(ctx context.Context, r io.Reader) (string, error) {
	if r == nil {
		return "", fmt.Errorf("reader is required")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	payload, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read payload: %w", err)
	}

	id := uuid.NewString()
	dir := l.blobDir(id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: save blob: %v", models.ErrStorageUnavailable, err)
	}

	meta := blobMeta{
		ID:          id,
		ContentType: sniffContentType(payload),
		SizeBytes:   int64(len(payload)),
		Encoding:    encodingRaw,
		CreatedAt:   models.NowMillis(),
	}

	stored := payload
	if l.compress {
		stored = l.enc.EncodeAll(payload, nil)
		meta.Encoding = encodingZstd
	}

	if err := l.writeMeta(dir, meta); err != nil {
		return "", err
	}
	if err := l.writeData(dir, stored); err != nil {
		_ = os.RemoveAll(dir)
		return "", err
	}

	return id, nil
}

// Get returns the stored asset for id, or (nil, nil) when absent.
func (l *Local) Get(ctx context.Context, id string) (*models.BlobAsset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, err := l.validBlobDir(id)
	if err != nil {
		return nil, err
	}

	meta, err := readMeta(filepath.Join(dir, metaFileName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read blob meta %s: %v", models.ErrStorageUnavailable, id, err)
	}

	stored, err := os.ReadFile(filepath.Join(dir, dataFileName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read blob %s: %v", models.ErrStorageUnavailable, id, err)
	}

	payload := stored
	if meta.Encoding == encodingZstd {
		if payload, err = l.dec.DecodeAll(stored, nil); err != nil {
			return nil, fmt.Errorf("decode blob %s: %w", id, err)
		}
	}

	return &models.BlobAsset{
		ID:          meta.ID,
		ContentType: meta.ContentType,
		SizeBytes:   meta.SizeBytes,
		CreatedAt:   meta.CreatedAt,
		Payload:     payload,
	}, nil
}

// Stat returns asset metadata without reading the payload, or (nil, nil)
// when absent.
func (l *Local) Stat(ctx context.Context, id string) (*models.BlobAsset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, err := l.validBlobDir(id)
	if err != nil {
		return nil, err
	}

	meta, err := readMeta(filepath.Join(dir, metaFileName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read blob meta %s: %v", models.ErrStorageUnavailable, id, err)
	}

	return &models.BlobAsset{
		ID:          meta.ID,
		ContentType: meta.ContentType,
		SizeBytes:   meta.SizeBytes,
		CreatedAt:   meta.CreatedAt,
	}, nil
}

// Delete removes the asset. Deleting an unknown id is a no-op. Deletion is
// never triggered by post deletion; orphaned blobs persist until removed
// explicitly.
func (l *Local) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir, err := l.validBlobDir(id)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("%w: delete blob %s: %v", models.ErrStorageUnavailable, id, err)
	}
	return nil
}

// List returns metadata for every stored blob, without payloads.
func (l *Local) List(ctx context.Context) ([]models.BlobAsset, error) {
	var assets []models.BlobAsset
	root := filepath.Join(l.root, blobDirName)
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || d.Name() != metaFileName {
			return nil
		}
		meta, err := readMeta(path)
		if err != nil {
			// Skip corrupted sidecars rather than failing the walk.
			return nil
		}
		assets = append(assets, models.BlobAsset{
			ID:          meta.ID,
			ContentType: meta.ContentType,
			SizeBytes:   meta.SizeBytes,
			CreatedAt:   meta.CreatedAt,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: list blobs: %v", models.ErrStorageUnavailable, err)
	}
	return assets, nil
}

func (l *Local) blobDir(id string) string {
	// Two-character shard keeps directory fan-out bounded.
	return filepath.Join(l.root, blobDirName, id[:2], id)
}

func (l *Local) validBlobDir(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("blob id is required")
	}
	if len(id) < 2 || strings.ContainsAny(id, `/\.`) {
		return "", fmt.Errorf("invalid blob id %q", id)
	}
	return l.blobDir(id), nil
}

func (l *Local) writeMeta(dir string, meta blobMeta) error {
	raw, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, metaFileName), raw, 0o644); err != nil {
		return fmt.Errorf("%w: write blob meta: %v", models.ErrStorageUnavailable, err)
	}
	return nil
}

func (l *Local) writeData(dir string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Join(l.root, tempDirName), "put-*")
	if err != nil {
		return fmt.Errorf("%w: write blob: %v", models.ErrStorageUnavailable, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: write blob: %v", models.ErrStorageUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: write blob: %v", models.ErrStorageUnavailable, err)
	}
	if err := os.Rename(tmpPath, filepath.Join(dir, dataFileName)); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: commit blob: %v", models.ErrStorageUnavailable, err)
	}
	return nil
}

func sniffContentType(payload []byte) string {
	head := payload
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	return http.DetectContentType(head)
}

func readMeta(path string) (*blobMeta, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var meta blobMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("decode blob meta: %w", err)
	}
	return &meta, nil
}

var _ BlobStore = (*Local)(nil)
