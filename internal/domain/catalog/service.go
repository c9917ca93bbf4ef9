package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/glowedge/skincare-backend/pkg/errors"
)

// Service owns catalog CRUD and feeds every mutation into the routine
// maintainer so stored routines stay consistent with the catalog.
type Service struct {
	products   ProductRepository
	maintainer RoutineMaintainer
	storage    ObjectStorage
	logger     *slog.Logger
}

// NewService constructs the catalog service.
func NewService(products ProductRepository, maintainer RoutineMaintainer, storage ObjectStorage, logger *slog.Logger) *Service {
	return &Service{
		products:   products,
		maintainer: maintainer,
		storage:    storage,
		logger:     logger.With("component", "catalog.service"),
	}
}

// CreateRequest carries a new product submission.
type CreateRequest struct {
	Name           string   `json:"name"`
	Brand          string   `json:"brand"`
	Type           string   `json:"type"`
	KeyIngredients []string `json:"keyIngredients"`
	Usage          string   `json:"usage"`
	IsActive       *bool    `json:"isActive"`
}

// UpdateRequest carries a partial product edit; nil fields are untouched.
type UpdateRequest struct {
	Name           *string   `json:"name"`
	Brand          *string   `json:"brand"`
	Type           *string   `json:"type"`
	KeyIngredients *[]string `json:"keyIngredients"`
	Usage          *string   `json:"usage"`
	IsActive       *bool     `json:"isActive"`
}

// List returns the user's catalog.
func (s *Service) List(ctx context.Context, userID int64) ([]Product, error) {
	if userID == 0 {
		return nil, apperrors.Wrap(apperrors.CodeUnauthorized, "missing user", nil)
	}
	products, err := s.products.List(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageError, "failed to list products", err)
	}
	return products, nil
}

// Get fetches one owned product.
func (s *Service) Get(ctx context.Context, userID int64, id uuid.UUID) (Product, error) {
	product, found, err := s.products.Get(ctx, id, userID)
	if err != nil {
		return Product{}, apperrors.Wrap(apperrors.CodeStorageError, "failed to load product", err)
	}
	if !found {
		return Product{}, apperrors.Wrap(apperrors.CodeNotFound, "product not found", nil)
	}
	return product, nil
}

// Create persists a product and schedules routine regeneration.
func (s *Service) Create(ctx context.Context, userID int64, req CreateRequest) (Product, error) {
	if userID == 0 {
		return Product{}, apperrors.Wrap(apperrors.CodeUnauthorized, "missing user", nil)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return Product{}, apperrors.Wrap(apperrors.CodeInvalidInput, "product name cannot be empty", nil)
	}
	productType, err := ParseProductType(req.Type)
	if err != nil {
		return Product{}, err
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	now := time.Now()
	product := Product{
		ID:             uuid.New(),
		UserID:         userID,
		Name:           name,
		Brand:          strings.TrimSpace(req.Brand),
		Type:           productType,
		KeyIngredients: toIngredients(req.KeyIngredients),
		Usage:          strings.TrimSpace(req.Usage),
		IsActive:       active,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return Product{}, apperrors.Wrap(apperrors.CodeStorageError, "failed to persist product", err)
	}
	if s.maintainer != nil {
		s.maintainer.ProductCreated(ctx, product)
	}
	return product, nil
}

// Update applies a partial edit and lets the maintainer decide whether the
// change warrants regeneration.
func (s *Service) Update(ctx context.Context, userID int64, id uuid.UUID, req UpdateRequest) (Product, error) {
	before, err := s.Get(ctx, userID, id)
	if err != nil {
		return Product{}, err
	}
	after := before
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return Product{}, apperrors.Wrap(apperrors.CodeInvalidInput, "product name cannot be empty", nil)
		}
		after.Name = name
	}
	if req.Brand != nil {
		after.Brand = strings.TrimSpace(*req.Brand)
	}
	if req.Type != nil {
		productType, err := ParseProductType(*req.Type)
		if err != nil {
			return Product{}, err
		}
		after.Type = productType
	}
	if req.KeyIngredients != nil {
		after.KeyIngredients = toIngredients(*req.KeyIngredients)
	}
	if req.Usage != nil {
		after.Usage = strings.TrimSpace(*req.Usage)
	}
	if req.IsActive != nil {
		after.IsActive = *req.IsActive
	}
	after.UpdatedAt = time.Now()
	if err := s.products.Update(ctx, after); err != nil {
		return Product{}, apperrors.Wrap(apperrors.CodeStorageError, "failed to update product", err)
	}
	if s.maintainer != nil {
		s.maintainer.ProductUpdated(ctx, before, after)
	}
	return after, nil
}

// Delete removes a product. Routine integrity repair runs first and a repair
// failure aborts the deletion so no step is left pointing at a missing row.
func (s *Service) Delete(ctx context.Context, userID int64, id uuid.UUID) error {
	product, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if s.maintainer != nil {
		if err := s.maintainer.ProductDeleting(ctx, userID, id); err != nil {
			return apperrors.Wrap(apperrors.CodeStorageError, "routine repair failed, product not deleted", err)
		}
	}
	if err := s.products.Delete(ctx, id, userID); err != nil {
		return apperrors.Wrap(apperrors.CodeStorageError, "failed to delete product", err)
	}
	if product.ImageKey != nil && s.storage != nil {
		if err := s.storage.Delete(ctx, *product.ImageKey); err != nil {
			s.logger.Warn("product image cleanup failed", "product_id", id, "error", err)
		}
	}
	if s.maintainer != nil {
		s.maintainer.ProductDeleted(ctx, userID)
	}
	return nil
}

// AttachImage stores a product photo and records its key.
func (s *Service) AttachImage(ctx context.Context, userID int64, id uuid.UUID, data []byte, mimeType string) (Product, error) {
	if s.storage == nil {
		return Product{}, apperrors.Wrap(apperrors.CodeInvalidInput, "image storage not configured", nil)
	}
	if len(data) == 0 {
		return Product{}, apperrors.Wrap(apperrors.CodeInvalidInput, "image content cannot be empty", nil)
	}
	product, err := s.Get(ctx, userID, id)
	if err != nil {
		return Product{}, err
	}
	key := fmt.Sprintf("products/%d/%s", userID, id.String())
	obj, err := s.storage.Put(ctx, key, data, mimeType)
	if err != nil {
		return Product{}, apperrors.Wrap(apperrors.CodeStorageError, "failed to store image", err)
	}
	product.ImageKey = &obj.Key
	product.UpdatedAt = time.Now()
	if err := s.products.Update(ctx, product); err != nil {
		return Product{}, apperrors.Wrap(apperrors.CodeStorageError, "failed to record image key", err)
	}
	return product, nil
}

// RemoveImage deletes a stored photo and clears the key.
func (s *Service) RemoveImage(ctx context.Context, userID int64, id uuid.UUID) (Product, error) {
	product, err := s.Get(ctx, userID, id)
	if err != nil {
		return Product{}, err
	}
	if product.ImageKey == nil {
		return product, nil
	}
	if s.storage != nil {
		if err := s.storage.Delete(ctx, *product.ImageKey); err != nil {
			s.logger.Warn("product image delete failed", "product_id", id, "error", err)
		}
	}
	product.ImageKey = nil
	product.UpdatedAt = time.Now()
	if err := s.products.Update(ctx, product); err != nil {
		return Product{}, apperrors.Wrap(apperrors.CodeStorageError, "failed to clear image key", err)
	}
	return product, nil
}

func toIngredients(names []string) []Ingredient {
	out := make([]Ingredient, 0, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		out = append(out, Ingredient{Name: trimmed})
	}
	return out
}
