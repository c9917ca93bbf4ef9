package catalog

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// ProductRepository persists catalog entries.
type ProductRepository interface {
	Create(ctx context.Context, product Product) error
	Update(ctx context.Context, product Product) error
	Delete(ctx context.Context, id uuid.UUID, userID int64) error
	Get(ctx context.Context, id uuid.UUID, userID int64) (Product, bool, error)
	List(ctx context.Context, userID int64) ([]Product, error)
	ListActive(ctx context.Context, userID int64) ([]Product, error)
}

// RoutineMaintainer reacts to catalog mutations. ProductDeleting runs
// synchronously before the row is removed and its error aborts the deletion;
// the other hooks only schedule background work.
type RoutineMaintainer interface {
	ProductCreated(ctx context.Context, product Product)
	ProductUpdated(ctx context.Context, before, after Product)
	ProductDeleting(ctx context.Context, userID int64, productID uuid.UUID) error
	ProductDeleted(ctx context.Context, userID int64)
}

// ObjectStorage holds product photos.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) (StoredObject, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// StoredObject captures persisted blob metadata.
type StoredObject struct {
	Key      string
	Size     int64
	MimeType string
	ETag     string
}
