package routine

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/glowedge/skincare-backend/internal/domain/catalog"
	apperrors "github.com/glowedge/skincare-backend/pkg/errors"
)

// JobRegenerateRoutines is the queue job that runs RegenerateAll for a user.
const JobRegenerateRoutines = "regenerate_routines"

// Reconciler keeps stored routines consistent with catalog mutations. It
// implements catalog.RoutineMaintainer: regeneration is scheduled through the
// job queue and never blocks the triggering request; integrity repair on
// delete runs synchronously and its failure aborts the deletion.
type Reconciler struct {
	routines RoutineRepository
	queue    JobQueue
	logger   *slog.Logger
}

// NewReconciler constructs the reconciler.
func NewReconciler(routines RoutineRepository, queue JobQueue, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		routines: routines,
		queue:    queue,
		logger:   logger.With("component", "routine.reconciler"),
	}
}

// ProductCreated schedules regeneration unconditionally.
func (r *Reconciler) ProductCreated(ctx context.Context, product catalog.Product) {
	r.schedule(ctx, product.UserID, "product created")
}

// ProductUpdated schedules regeneration only for significant edits.
func (r *Reconciler) ProductUpdated(ctx context.Context, before, after catalog.Product) {
	if !significantChange(before, after) {
		r.logger.Debug("product edit not significant, skipping regeneration",
			"user_id", after.UserID, "product_id", after.ID)
		return
	}
	r.schedule(ctx, after.UserID, "significant product update")
}

// ProductDeleting repairs routines referencing the product before its row is
// removed. The error is fatal to the deletion.
func (r *Reconciler) ProductDeleting(ctx context.Context, userID int64, productID uuid.UUID) error {
	affected, err := r.RepairRoutinesForDeletedProduct(ctx, userID, productID)
	if err != nil {
		return err
	}
	if affected > 0 {
		r.logger.Info("routines repaired for product deletion",
			"user_id", userID, "product_id", productID, "routines_affected", affected)
	}
	return nil
}

// ProductDeleted schedules regeneration once the row is gone.
func (r *Reconciler) ProductDeleted(ctx context.Context, userID int64) {
	r.schedule(ctx, userID, "product deleted")
}

// RepairRoutinesForDeletedProduct removes every step referencing the product
// from the user's routines, renumbering survivors densely and deleting
// routines left with zero steps. Persistence errors propagate so the caller
// can abort the product deletion.
func (r *Reconciler) RepairRoutinesForDeletedProduct(ctx context.Context, userID int64, productID uuid.UUID) (int, error) {
	referencing, err := r.routines.ListReferencingProduct(ctx, userID, productID)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeStorageError, "failed to find routines referencing product", err)
	}

	affected := 0
	for _, rt := range referencing {
		kept := make([]Step, 0, len(rt.Steps))
		for _, step := range rt.Steps {
			if step.ProductID == productID {
				continue
			}
			kept = append(kept, step)
		}
		if len(kept) == len(rt.Steps) {
			continue
		}
		affected++
		if len(kept) == 0 {
			if err := r.routines.Delete(ctx, rt.ID, userID); err != nil {
				return affected, apperrors.Wrap(apperrors.CodeStorageError, "failed to delete emptied routine", err)
			}
			continue
		}
		rt.Steps = renumberSteps(kept)
		rt.UpdatedAt = time.Now()
		if err := r.routines.Update(ctx, rt); err != nil {
			return affected, apperrors.Wrap(apperrors.CodeStorageError, "failed to update repaired routine", err)
		}
	}
	return affected, nil
}

func (r *Reconciler) schedule(ctx context.Context, userID int64, reason string) {
	if r.queue == nil {
		return
	}
	payload := map[string]any{"user_id": userID}
	if err := r.queue.Enqueue(ctx, JobRegenerateRoutines, payload); err != nil {
		r.logger.Warn("failed to enqueue routine regeneration",
			"user_id", userID, "reason", reason, "error", err)
		return
	}
	r.logger.Debug("routine regeneration scheduled", "user_id", userID, "reason", reason)
}

// significantChange reports whether a product edit warrants regenerating the
// user's routines: only type, usage, and active-flag changes qualify.
func significantChange(before, after catalog.Product) bool {
	return before.Type != after.Type ||
		before.Usage != after.Usage ||
		before.IsActive != after.IsActive
}
