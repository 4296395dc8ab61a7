package store

import (
	"context"

	"bcms/internal/models"
)

// PostStore abstracts the durable post collection.
type PostStore interface {
	LoadAll(ctx context.Context) ([]models.Post, error)
	Save(ctx context.Context, post models.Post) error
	Delete(ctx context.Context, id string) error
}

var _ PostStore = (*Store)(nil)
