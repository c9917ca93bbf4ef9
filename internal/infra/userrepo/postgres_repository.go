package userrepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glowedge/skincare-backend/internal/domain/user"
)

// PostgresRepository persists users in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, u user.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, email, display_name, skin_type, skin_concerns, current_streak, longest_streak, last_login_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, u.ID, u.Email, u.DisplayName, u.SkinType, u.SkinConcerns,
		u.CurrentStreak, u.LongestStreak, u.LastLoginAt, u.CreatedAt, u.UpdatedAt)
	return err
}

func (r *PostgresRepository) Update(ctx context.Context, u user.User) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $1, display_name = $2, skin_type = $3, skin_concerns = $4,
			current_streak = $5, longest_streak = $6, last_login_at = $7, updated_at = $8
		WHERE id = $9
	`, u.Email, u.DisplayName, u.SkinType, u.SkinConcerns,
		u.CurrentStreak, u.LongestStreak, u.LastLoginAt, u.UpdatedAt, u.ID)
	return err
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (user.User, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, display_name, skin_type, skin_concerns, current_streak, longest_streak, last_login_at, created_at, updated_at
		FROM users
		WHERE id = $1
		LIMIT 1
	`, id)
	var u user.User
	if err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.SkinType, &u.SkinConcerns,
		&u.CurrentStreak, &u.LongestStreak, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return user.User{}, false, nil
		}
		return user.User{}, false, err
	}
	return u, true, nil
}

var _ user.Repository = (*PostgresRepository)(nil)
