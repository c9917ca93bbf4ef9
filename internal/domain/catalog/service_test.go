package catalog

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	apperrors "github.com/glowedge/skincare-backend/pkg/errors"
)

var errBoom = errors.New("boom")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeProducts struct {
	mu   sync.Mutex
	data map[uuid.UUID]Product
}

func newFakeProducts() *fakeProducts {
	return &fakeProducts{data: make(map[uuid.UUID]Product)}
}

func (f *fakeProducts) Create(_ context.Context, p Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[p.ID] = p
	return nil
}

func (f *fakeProducts) Update(_ context.Context, p Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[p.ID] = p
	return nil
}

func (f *fakeProducts) Delete(_ context.Context, id uuid.UUID, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.data[id]; ok && p.UserID == userID {
		delete(f.data, id)
	}
	return nil
}

func (f *fakeProducts) Get(_ context.Context, id uuid.UUID, userID int64) (Product, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.data[id]
	if !ok || p.UserID != userID {
		return Product{}, false, nil
	}
	return p, true, nil
}

func (f *fakeProducts) List(_ context.Context, userID int64) ([]Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Product
	for _, p := range f.data {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) ListActive(ctx context.Context, userID int64) ([]Product, error) {
	all, err := f.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	var out []Product
	for _, p := range all {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

var _ ProductRepository = (*fakeProducts)(nil)

type fakeMaintainer struct {
	created     []Product
	updated     [][2]Product
	deletingErr error
	deletingN   int
	deletedN    int
}

func (f *fakeMaintainer) ProductCreated(_ context.Context, p Product) {
	f.created = append(f.created, p)
}

func (f *fakeMaintainer) ProductUpdated(_ context.Context, before, after Product) {
	f.updated = append(f.updated, [2]Product{before, after})
}

func (f *fakeMaintainer) ProductDeleting(context.Context, int64, uuid.UUID) error {
	f.deletingN++
	return f.deletingErr
}

func (f *fakeMaintainer) ProductDeleted(context.Context, int64) {
	f.deletedN++
}

var _ RoutineMaintainer = (*fakeMaintainer)(nil)

type fakeStorage struct {
	objects map[string][]byte
	putErr  error
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (f *fakeStorage) Put(_ context.Context, key string, data []byte, mimeType string) (StoredObject, error) {
	if f.putErr != nil {
		return StoredObject{}, f.putErr
	}
	f.objects[key] = data
	return StoredObject{Key: key, Size: int64(len(data)), MimeType: mimeType}, nil
}

func (f *fakeStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, errBoom
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	delete(f.objects, key)
	return nil
}

var _ ObjectStorage = (*fakeStorage)(nil)

func newTestService(products *fakeProducts, maintainer *fakeMaintainer, storage *fakeStorage) *Service {
	return NewService(products, maintainer, storage, testLogger())
}

func mustCreate(t *testing.T, svc *Service, userID int64, name, productType string) Product {
	t.Helper()
	p, err := svc.Create(context.Background(), userID, CreateRequest{Name: name, Type: productType})
	require.NoError(t, err)
	return p
}

func TestCreateProduct(t *testing.T) {
	products := newFakeProducts()
	maintainer := &fakeMaintainer{}
	svc := newTestService(products, maintainer, newFakeStorage())

	p, err := svc.Create(context.Background(), 1, CreateRequest{
		Name:           "  CeraVe Foaming Cleanser  ",
		Brand:          "CeraVe",
		Type:           "cleanser",
		KeyIngredients: []string{"niacinamide", " ", "ceramides"},
		Usage:          "morning and night",
	})
	require.NoError(t, err)
	require.Equal(t, "CeraVe Foaming Cleanser", p.Name)
	require.Equal(t, ProductTypeCleanser, p.Type)
	require.True(t, p.IsActive)
	require.Len(t, p.KeyIngredients, 2)
	require.Len(t, maintainer.created, 1)
	require.Equal(t, p.ID, maintainer.created[0].ID)
}

func TestCreateProductValidation(t *testing.T) {
	svc := newTestService(newFakeProducts(), &fakeMaintainer{}, newFakeStorage())
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, CreateRequest{Name: " ", Type: "cleanser"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	_, err = svc.Create(ctx, 1, CreateRequest{Name: "p", Type: "shampoo"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	_, err = svc.Create(ctx, 0, CreateRequest{Name: "p", Type: "cleanser"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}

func TestUpdateProductNotifiesMaintainerWithBeforeAndAfter(t *testing.T) {
	products := newFakeProducts()
	maintainer := &fakeMaintainer{}
	svc := newTestService(products, maintainer, newFakeStorage())
	p := mustCreate(t, svc, 1, "Toner", "toner")

	inactive := false
	updated, err := svc.Update(context.Background(), 1, p.ID, UpdateRequest{IsActive: &inactive})
	require.NoError(t, err)
	require.False(t, updated.IsActive)
	require.Len(t, maintainer.updated, 1)
	require.True(t, maintainer.updated[0][0].IsActive)
	require.False(t, maintainer.updated[0][1].IsActive)
}

func TestDeleteProductRepairOrder(t *testing.T) {
	products := newFakeProducts()
	maintainer := &fakeMaintainer{}
	svc := newTestService(products, maintainer, newFakeStorage())
	p := mustCreate(t, svc, 1, "Serum", "serum")

	require.NoError(t, svc.Delete(context.Background(), 1, p.ID))
	require.Equal(t, 1, maintainer.deletingN)
	require.Equal(t, 1, maintainer.deletedN)

	_, found, err := products.Get(context.Background(), p.ID, 1)
	require.NoError(t, err)
	require.False(t, found)
}

func TestDeleteAbortedWhenRepairFails(t *testing.T) {
	products := newFakeProducts()
	maintainer := &fakeMaintainer{deletingErr: errBoom}
	svc := newTestService(products, maintainer, newFakeStorage())
	p := mustCreate(t, svc, 1, "Serum", "serum")

	err := svc.Delete(context.Background(), 1, p.ID)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeStorageError))
	require.Zero(t, maintainer.deletedN)

	_, found, err := products.Get(context.Background(), p.ID, 1)
	require.NoError(t, err)
	require.True(t, found)
}

func TestDeleteEnforcesOwnership(t *testing.T) {
	products := newFakeProducts()
	maintainer := &fakeMaintainer{}
	svc := newTestService(products, maintainer, newFakeStorage())
	p := mustCreate(t, svc, 1, "Serum", "serum")

	err := svc.Delete(context.Background(), 2, p.ID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	require.Zero(t, maintainer.deletingN)
}

func TestAttachAndRemoveImage(t *testing.T) {
	products := newFakeProducts()
	storage := newFakeStorage()
	svc := newTestService(products, &fakeMaintainer{}, storage)
	p := mustCreate(t, svc, 1, "Sunscreen", "sunscreen")

	withImage, err := svc.AttachImage(context.Background(), 1, p.ID, []byte("jpeg bytes"), "image/jpeg")
	require.NoError(t, err)
	require.NotNil(t, withImage.ImageKey)
	body, err := storage.Get(context.Background(), *withImage.ImageKey)
	require.NoError(t, err)
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	require.NoError(t, body.Close())
	require.Equal(t, []byte("jpeg bytes"), data)

	cleared, err := svc.RemoveImage(context.Background(), 1, p.ID)
	require.NoError(t, err)
	require.Nil(t, cleared.ImageKey)
	require.Contains(t, storage.deleted, *withImage.ImageKey)
}

func TestAttachImageRejectsEmptyContent(t *testing.T) {
	svc := newTestService(newFakeProducts(), &fakeMaintainer{}, newFakeStorage())
	p := mustCreate(t, svc, 1, "Sunscreen", "sunscreen")

	_, err := svc.AttachImage(context.Background(), 1, p.ID, nil, "image/jpeg")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestDeleteCleansUpStoredImage(t *testing.T) {
	products := newFakeProducts()
	storage := newFakeStorage()
	svc := newTestService(products, &fakeMaintainer{}, storage)
	p := mustCreate(t, svc, 1, "Sunscreen", "sunscreen")

	withImage, err := svc.AttachImage(context.Background(), 1, p.ID, []byte("jpeg bytes"), "image/jpeg")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), 1, p.ID))
	require.Contains(t, storage.deleted, *withImage.ImageKey)
}
