package catalogrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/glowedge/skincare-backend/internal/domain/catalog"
)

// MemoryRepository keeps products in process memory. It backs local runs and
// tests where no database is configured.
type MemoryRepository struct {
	mu       sync.RWMutex
	products map[uuid.UUID]catalog.Product
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{products: make(map[uuid.UUID]catalog.Product)}
}

func (r *MemoryRepository) Create(_ context.Context, product catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = product
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, product catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.products[product.ID]; ok && existing.UserID == product.UserID {
		r.products[product.ID] = product
	}
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id uuid.UUID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.products[id]; ok && existing.UserID == userID {
		delete(r.products, id)
	}
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id uuid.UUID, userID int64) (catalog.Product, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok || product.UserID != userID {
		return catalog.Product{}, false, nil
	}
	return product, true, nil
}

func (r *MemoryRepository) List(_ context.Context, userID int64) ([]catalog.Product, error) {
	return r.collect(userID, false), nil
}

func (r *MemoryRepository) ListActive(_ context.Context, userID int64) ([]catalog.Product, error) {
	return r.collect(userID, true), nil
}

func (r *MemoryRepository) collect(userID int64, activeOnly bool) []catalog.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []catalog.Product
	for _, product := range r.products {
		if product.UserID != userID {
			continue
		}
		if activeOnly && !product.IsActive {
			continue
		}
		out = append(out, product)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

var _ catalog.ProductRepository = (*MemoryRepository)(nil)
