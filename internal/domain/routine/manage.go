package routine

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/glowedge/skincare-backend/pkg/errors"
)

// Manager covers user-authored routine CRUD. AI-generated routines are only
// written by the Engine; the manager refuses to edit them in place so the
// single-slot replace semantics stay intact.
type Manager struct {
	routines RoutineRepository
	logger   *slog.Logger
}

// NewManager constructs the routine manager.
func NewManager(routines RoutineRepository, logger *slog.Logger) *Manager {
	return &Manager{
		routines: routines,
		logger:   logger.With("component", "routine.manager"),
	}
}

// StepInput is one submitted routine step.
type StepInput struct {
	ProductID       uuid.UUID `json:"productId"`
	Instruction     string    `json:"instruction"`
	WaitTimeMinutes int       `json:"waitTimeMinutes"`
}

// CreateRequest carries a manual routine submission.
type CreateRequest struct {
	Name  string      `json:"name"`
	Type  string      `json:"type"`
	Steps []StepInput `json:"steps"`
}

// UpdateRequest edits a manual routine; nil fields are untouched.
type UpdateRequest struct {
	Name  *string      `json:"name"`
	Steps *[]StepInput `json:"steps"`
}

// List returns the user's routines.
func (m *Manager) List(ctx context.Context, userID int64) ([]Routine, error) {
	if userID == 0 {
		return nil, apperrors.Wrap(apperrors.CodeUnauthorized, "missing user", nil)
	}
	routines, err := m.routines.List(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorageError, "failed to list routines", err)
	}
	return routines, nil
}

// Get fetches one owned routine.
func (m *Manager) Get(ctx context.Context, userID int64, id uuid.UUID) (Routine, error) {
	rt, found, err := m.routines.Get(ctx, id, userID)
	if err != nil {
		return Routine{}, apperrors.Wrap(apperrors.CodeStorageError, "failed to load routine", err)
	}
	if !found {
		return Routine{}, apperrors.Wrap(apperrors.CodeNotFound, "routine not found", nil)
	}
	return rt, nil
}

// Create persists a user-authored routine. Steps are renumbered densely in
// submission order; an empty routine is rejected rather than stored.
func (m *Manager) Create(ctx context.Context, userID int64, req CreateRequest) (Routine, error) {
	if userID == 0 {
		return Routine{}, apperrors.Wrap(apperrors.CodeUnauthorized, "missing user", nil)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return Routine{}, apperrors.Wrap(apperrors.CodeInvalidInput, "routine name cannot be empty", nil)
	}
	routineType, err := ParseRoutineType(req.Type)
	if err != nil {
		return Routine{}, err
	}
	steps, err := buildSteps(req.Steps)
	if err != nil {
		return Routine{}, err
	}
	now := time.Now()
	rt := Routine{
		ID:                    uuid.New(),
		UserID:                userID,
		Name:                  name,
		Type:                  routineType,
		Steps:                 steps,
		CompatibilityWarnings: []string{},
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := m.routines.Create(ctx, rt); err != nil {
		return Routine{}, apperrors.Wrap(apperrors.CodeStorageError, "failed to persist routine", err)
	}
	return rt, nil
}

// Update edits a user-authored routine.
func (m *Manager) Update(ctx context.Context, userID int64, id uuid.UUID, req UpdateRequest) (Routine, error) {
	rt, err := m.Get(ctx, userID, id)
	if err != nil {
		return Routine{}, err
	}
	if rt.IsAIGenerated {
		return Routine{}, apperrors.Wrap(apperrors.CodeInvalidInput, "AI-generated routines are replaced by regeneration, not edited", nil)
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return Routine{}, apperrors.Wrap(apperrors.CodeInvalidInput, "routine name cannot be empty", nil)
		}
		rt.Name = name
	}
	if req.Steps != nil {
		steps, err := buildSteps(*req.Steps)
		if err != nil {
			return Routine{}, err
		}
		rt.Steps = steps
	}
	rt.UpdatedAt = time.Now()
	if err := m.routines.Update(ctx, rt); err != nil {
		return Routine{}, apperrors.Wrap(apperrors.CodeStorageError, "failed to update routine", err)
	}
	return rt, nil
}

// Delete removes an owned routine of either kind.
func (m *Manager) Delete(ctx context.Context, userID int64, id uuid.UUID) error {
	if _, err := m.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := m.routines.Delete(ctx, id, userID); err != nil {
		return apperrors.Wrap(apperrors.CodeStorageError, "failed to delete routine", err)
	}
	return nil
}

func buildSteps(inputs []StepInput) ([]Step, error) {
	if len(inputs) == 0 {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "a routine needs at least one step", nil)
	}
	steps := make([]Step, 0, len(inputs))
	for _, input := range inputs {
		if input.ProductID == uuid.Nil {
			return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "every step needs a product", nil)
		}
		if input.WaitTimeMinutes < 0 {
			return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "wait time cannot be negative", nil)
		}
		steps = append(steps, Step{
			ProductID:       input.ProductID,
			Instruction:     strings.TrimSpace(input.Instruction),
			WaitTimeMinutes: input.WaitTimeMinutes,
		})
	}
	return renumberSteps(steps), nil
}
