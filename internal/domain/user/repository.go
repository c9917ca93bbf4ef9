package user

import "context"

// Repository persists user records.
type Repository interface {
	Create(ctx context.Context, user User) error
	Update(ctx context.Context, user User) error
	Get(ctx context.Context, id int64) (User, bool, error)
}
