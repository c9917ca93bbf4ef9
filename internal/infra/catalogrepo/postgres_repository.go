package catalogrepo

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glowedge/skincare-backend/internal/domain/catalog"
)

// PostgresRepository persists products in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, product catalog.Product) error {
	ingredients, err := json.Marshal(product.KeyIngredients)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO products (id, user_id, name, brand, type, key_ingredients, usage, is_active, image_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, product.ID, product.UserID, product.Name, product.Brand, product.Type, ingredients,
		product.Usage, product.IsActive, product.ImageKey, product.CreatedAt, product.UpdatedAt)
	return err
}

func (r *PostgresRepository) Update(ctx context.Context, product catalog.Product) error {
	ingredients, err := json.Marshal(product.KeyIngredients)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		UPDATE products
		SET name = $1, brand = $2, type = $3, key_ingredients = $4, usage = $5,
			is_active = $6, image_key = $7, updated_at = $8
		WHERE id = $9 AND user_id = $10
	`, product.Name, product.Brand, product.Type, ingredients, product.Usage,
		product.IsActive, product.ImageKey, product.UpdatedAt, product.ID, product.UserID)
	return err
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID, userID int64) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM products
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	return err
}

func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID, userID int64) (catalog.Product, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name, brand, type, key_ingredients, usage, is_active, image_key, created_at, updated_at
		FROM products
		WHERE id = $1 AND user_id = $2
		LIMIT 1
	`, id, userID)
	product, err := scanProduct(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return catalog.Product{}, false, nil
		}
		return catalog.Product{}, false, err
	}
	return product, true, nil
}

func (r *PostgresRepository) List(ctx context.Context, userID int64) ([]catalog.Product, error) {
	return r.list(ctx, `
		SELECT id, user_id, name, brand, type, key_ingredients, usage, is_active, image_key, created_at, updated_at
		FROM products
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, userID)
}

func (r *PostgresRepository) ListActive(ctx context.Context, userID int64) ([]catalog.Product, error) {
	return r.list(ctx, `
		SELECT id, user_id, name, brand, type, key_ingredients, usage, is_active, image_key, created_at, updated_at
		FROM products
		WHERE user_id = $1 AND is_active
		ORDER BY created_at ASC
	`, userID)
}

func (r *PostgresRepository) list(ctx context.Context, query string, userID int64) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []catalog.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func scanProduct(row pgx.Row) (catalog.Product, error) {
	var (
		product     catalog.Product
		ingredients []byte
		imageKey    *string
	)
	if err := row.Scan(&product.ID, &product.UserID, &product.Name, &product.Brand, &product.Type,
		&ingredients, &product.Usage, &product.IsActive, &imageKey, &product.CreatedAt, &product.UpdatedAt); err != nil {
		return catalog.Product{}, err
	}
	if len(ingredients) > 0 {
		if err := json.Unmarshal(ingredients, &product.KeyIngredients); err != nil {
			return catalog.Product{}, err
		}
	}
	product.ImageKey = imageKey
	return product, nil
}

var _ catalog.ProductRepository = (*PostgresRepository)(nil)
