package routinerepo

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/glowedge/skincare-backend/internal/domain/routine"
)

// MemoryRepository keeps routines in process memory. It backs local runs and
// tests where no database is configured.
type MemoryRepository struct {
	mu       sync.RWMutex
	routines map[uuid.UUID]routine.Routine
}

// NewMemoryRepository constructs the repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{routines: make(map[uuid.UUID]routine.Routine)}
}

func (r *MemoryRepository) Create(_ context.Context, rt routine.Routine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routines[rt.ID] = cloneRoutine(rt)
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, rt routine.Routine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.routines[rt.ID]; ok && existing.UserID == rt.UserID {
		r.routines[rt.ID] = cloneRoutine(rt)
	}
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, id uuid.UUID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.routines[id]; ok && existing.UserID == userID {
		delete(r.routines, id)
	}
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id uuid.UUID, userID int64) (routine.Routine, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.routines[id]
	if !ok || rt.UserID != userID {
		return routine.Routine{}, false, nil
	}
	return cloneRoutine(rt), true, nil
}

func (r *MemoryRepository) List(_ context.Context, userID int64) ([]routine.Routine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []routine.Routine
	for _, rt := range r.routines {
		if rt.UserID == userID {
			out = append(out, cloneRoutine(rt))
		}
	}
	sortRoutines(out)
	return out, nil
}

func (r *MemoryRepository) ListReferencingProduct(_ context.Context, userID int64, productID uuid.UUID) ([]routine.Routine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []routine.Routine
	for _, rt := range r.routines {
		if rt.UserID != userID {
			continue
		}
		for _, step := range rt.Steps {
			if step.ProductID == productID {
				out = append(out, cloneRoutine(rt))
				break
			}
		}
	}
	sortRoutines(out)
	return out, nil
}

func (r *MemoryRepository) ReplaceAIGenerated(_ context.Context, rt routine.Routine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.routines {
		if existing.UserID == rt.UserID && existing.Type == rt.Type && existing.IsAIGenerated {
			delete(r.routines, id)
		}
	}
	r.routines[rt.ID] = cloneRoutine(rt)
	return nil
}

func sortRoutines(routines []routine.Routine) {
	sort.Slice(routines, func(i, j int) bool {
		return routines[i].CreatedAt.Before(routines[j].CreatedAt)
	})
}

func cloneRoutine(rt routine.Routine) routine.Routine {
	rt.Steps = append([]routine.Step(nil), rt.Steps...)
	rt.CompatibilityWarnings = append([]string(nil), rt.CompatibilityWarnings...)
	return rt
}

var _ routine.RoutineRepository = (*MemoryRepository)(nil)
