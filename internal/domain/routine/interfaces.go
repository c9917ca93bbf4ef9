package routine

import (
	"context"

	"github.com/google/uuid"

	"github.com/glowedge/skincare-backend/pkg/metrics"
)

// RoutineRepository persists routines.
type RoutineRepository interface {
	Create(ctx context.Context, routine Routine) error
	Update(ctx context.Context, routine Routine) error
	Delete(ctx context.Context, id uuid.UUID, userID int64) error
	Get(ctx context.Context, id uuid.UUID, userID int64) (Routine, bool, error)
	List(ctx context.Context, userID int64) ([]Routine, error)
	// ListReferencingProduct returns the user's routines with at least one
	// step pointing at the product.
	ListReferencingProduct(ctx context.Context, userID int64, productID uuid.UUID) ([]Routine, error)
	// ReplaceAIGenerated removes any existing AI-generated routine for the
	// same (user, type) and inserts the given one, transactionally where the
	// backend supports it.
	ReplaceAIGenerated(ctx context.Context, routine Routine) error
}

// CompletionStatus normalizes the provider's finish signal.
type CompletionStatus string

const (
	CompletionStatusOK        CompletionStatus = "ok"
	CompletionStatusTruncated CompletionStatus = "truncated"
	CompletionStatusBlocked   CompletionStatus = "blocked"
	CompletionStatusOther     CompletionStatus = "other"
)

// Completion is the raw result of one text-generation call.
type Completion struct {
	Text   string
	Status CompletionStatus
	Usage  metrics.TokenUsage
}

// Completer is the external text-generation capability. Implementations fail
// distinguishably on auth, rate-limit, and transport errors and carry a
// bounded timeout.
type Completer interface {
	Complete(ctx context.Context, prompt string) (Completion, error)
}

// ProfileReader fetches the skin profile used to build prompts.
type ProfileReader interface {
	SkinProfile(ctx context.Context, userID int64) (SkinProfile, error)
}

// JobQueue schedules background work decoupled from the request path.
type JobQueue interface {
	Enqueue(ctx context.Context, name string, payload any) error
}

// TokenCounter estimates prompt token counts for observability.
type TokenCounter interface {
	Count(text string) int
}
