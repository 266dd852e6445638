package storage

import (
	"context"
)

// ImageStore persists recipe image payloads. Save returns the storage key
// recorded on the recipe row; Delete removes the object for that key.
// ListKeys exists for the orphan sweep and returns every stored key.
type ImageStore interface {
	Save(ctx context.Context, data []byte, ext string) (string, error)
	Delete(ctx context.Context, key string) error
	ListKeys(ctx context.Context) ([]string, error)
	URL(key string) string
}
