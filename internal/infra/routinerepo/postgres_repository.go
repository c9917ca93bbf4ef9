package routinerepo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glowedge/skincare-backend/internal/domain/routine"
)

// PostgresRepository persists routines in Postgres. Steps and warnings live
// in JSONB columns alongside the routine row.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, rt routine.Routine) error {
	steps, warnings, err := encodeRoutine(rt)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO routines (id, user_id, name, type, steps, is_ai_generated, compatibility_warnings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, rt.ID, rt.UserID, rt.Name, rt.Type, steps, rt.IsAIGenerated, warnings, rt.CreatedAt, rt.UpdatedAt)
	return err
}

func (r *PostgresRepository) Update(ctx context.Context, rt routine.Routine) error {
	steps, warnings, err := encodeRoutine(rt)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		UPDATE routines
		SET name = $1, steps = $2, compatibility_warnings = $3, updated_at = $4
		WHERE id = $5 AND user_id = $6
	`, rt.Name, steps, warnings, rt.UpdatedAt, rt.ID, rt.UserID)
	return err
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID, userID int64) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM routines
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	return err
}

func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID, userID int64) (routine.Routine, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name, type, steps, is_ai_generated, compatibility_warnings, created_at, updated_at
		FROM routines
		WHERE id = $1 AND user_id = $2
		LIMIT 1
	`, id, userID)
	rt, err := scanRoutine(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return routine.Routine{}, false, nil
		}
		return routine.Routine{}, false, err
	}
	return rt, true, nil
}

func (r *PostgresRepository) List(ctx context.Context, userID int64) ([]routine.Routine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, name, type, steps, is_ai_generated, compatibility_warnings, created_at, updated_at
		FROM routines
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	return collectRoutines(rows)
}

func (r *PostgresRepository) ListReferencingProduct(ctx context.Context, userID int64, productID uuid.UUID) ([]routine.Routine, error) {
	needle := fmt.Sprintf(`[{"productId": %q}]`, productID)
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, name, type, steps, is_ai_generated, compatibility_warnings, created_at, updated_at
		FROM routines
		WHERE user_id = $1 AND steps @> $2::jsonb
		ORDER BY created_at ASC
	`, userID, needle)
	if err != nil {
		return nil, err
	}
	return collectRoutines(rows)
}

func (r *PostgresRepository) ReplaceAIGenerated(ctx context.Context, rt routine.Routine) error {
	steps, warnings, err := encodeRoutine(rt)
	if err != nil {
		return err
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		DELETE FROM routines
		WHERE user_id = $1 AND type = $2 AND is_ai_generated
	`, rt.UserID, rt.Type); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO routines (id, user_id, name, type, steps, is_ai_generated, compatibility_warnings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, rt.ID, rt.UserID, rt.Name, rt.Type, steps, rt.IsAIGenerated, warnings, rt.CreatedAt, rt.UpdatedAt); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func collectRoutines(rows pgx.Rows) ([]routine.Routine, error) {
	defer rows.Close()
	var routines []routine.Routine
	for rows.Next() {
		rt, err := scanRoutine(rows)
		if err != nil {
			return nil, err
		}
		routines = append(routines, rt)
	}
	return routines, rows.Err()
}

func scanRoutine(row pgx.Row) (routine.Routine, error) {
	var (
		rt       routine.Routine
		steps    []byte
		warnings []byte
	)
	if err := row.Scan(&rt.ID, &rt.UserID, &rt.Name, &rt.Type, &steps, &rt.IsAIGenerated,
		&warnings, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
		return routine.Routine{}, err
	}
	if len(steps) > 0 {
		if err := json.Unmarshal(steps, &rt.Steps); err != nil {
			return routine.Routine{}, err
		}
	}
	if len(warnings) > 0 {
		if err := json.Unmarshal(warnings, &rt.CompatibilityWarnings); err != nil {
			return routine.Routine{}, err
		}
	}
	return rt, nil
}

func encodeRoutine(rt routine.Routine) ([]byte, []byte, error) {
	steps, err := json.Marshal(rt.Steps)
	if err != nil {
		return nil, nil, err
	}
	if rt.CompatibilityWarnings == nil {
		rt.CompatibilityWarnings = []string{}
	}
	warnings, err := json.Marshal(rt.CompatibilityWarnings)
	if err != nil {
		return nil, nil, err
	}
	return steps, warnings, nil
}

var _ routine.RoutineRepository = (*PostgresRepository)(nil)
