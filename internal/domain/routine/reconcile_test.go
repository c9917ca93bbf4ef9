package routine

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/glowedge/skincare-backend/internal/domain/catalog"
	apperrors "github.com/glowedge/skincare-backend/pkg/errors"
)

func seedRoutine(t *testing.T, repo *fakeRoutineRepo, userID int64, steps []Step) Routine {
	t.Helper()
	rt := Routine{
		ID:     uuid.New(),
		UserID: userID,
		Name:   "evening wind-down",
		Type:   RoutineTypeNight,
		Steps:  steps,
	}
	require.NoError(t, repo.Create(context.Background(), rt))
	return rt
}

func TestRepairDeletesEmptiedRoutine(t *testing.T) {
	repo := newFakeRoutineRepo()
	gone := uuid.New()
	rt := seedRoutine(t, repo, 1, []Step{{StepNumber: 1, ProductID: gone, Instruction: "apply"}})

	rec := NewReconciler(repo, &fakeQueue{}, testLogger())
	affected, err := rec.RepairRoutinesForDeletedProduct(context.Background(), 1, gone)
	require.NoError(t, err)
	require.Equal(t, 1, affected)

	_, found, err := repo.Get(context.Background(), rt.ID, 1)
	require.NoError(t, err)
	require.False(t, found)
}

func TestRepairRenumbersSurvivingSteps(t *testing.T) {
	repo := newFakeRoutineRepo()
	gone := uuid.New()
	first := uuid.New()
	third := uuid.New()
	rt := seedRoutine(t, repo, 1, []Step{
		{StepNumber: 1, ProductID: first, Instruction: "cleanse", WaitTimeMinutes: 0},
		{StepNumber: 2, ProductID: gone, Instruction: "tone", WaitTimeMinutes: 2},
		{StepNumber: 3, ProductID: third, Instruction: "moisturize", WaitTimeMinutes: 5},
	})

	rec := NewReconciler(repo, &fakeQueue{}, testLogger())
	affected, err := rec.RepairRoutinesForDeletedProduct(context.Background(), 1, gone)
	require.NoError(t, err)
	require.Equal(t, 1, affected)

	repaired, found, err := repo.Get(context.Background(), rt.ID, 1)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, repaired.Steps, 2)
	require.Equal(t, 1, repaired.Steps[0].StepNumber)
	require.Equal(t, first, repaired.Steps[0].ProductID)
	require.Equal(t, 2, repaired.Steps[1].StepNumber)
	require.Equal(t, third, repaired.Steps[1].ProductID)
	require.Equal(t, 5, repaired.Steps[1].WaitTimeMinutes)
}

func TestRepairLeavesUnrelatedRoutinesAlone(t *testing.T) {
	repo := newFakeRoutineRepo()
	rt := seedRoutine(t, repo, 1, []Step{{StepNumber: 1, ProductID: uuid.New(), Instruction: "apply"}})

	rec := NewReconciler(repo, &fakeQueue{}, testLogger())
	affected, err := rec.RepairRoutinesForDeletedProduct(context.Background(), 1, uuid.New())
	require.NoError(t, err)
	require.Zero(t, affected)

	_, found, err := repo.Get(context.Background(), rt.ID, 1)
	require.NoError(t, err)
	require.True(t, found)
}

func TestRepairPropagatesPersistenceErrors(t *testing.T) {
	repo := newFakeRoutineRepo()
	gone := uuid.New()
	seedRoutine(t, repo, 1, []Step{
		{StepNumber: 1, ProductID: gone, Instruction: "apply"},
		{StepNumber: 2, ProductID: uuid.New(), Instruction: "apply"},
	})
	repo.updateErr = errBoom

	rec := NewReconciler(repo, &fakeQueue{}, testLogger())
	_, err := rec.RepairRoutinesForDeletedProduct(context.Background(), 1, gone)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeStorageError))
}

func TestProductDeletingAbortsOnListError(t *testing.T) {
	repo := newFakeRoutineRepo()
	repo.listErr = errBoom

	rec := NewReconciler(repo, &fakeQueue{}, testLogger())
	err := rec.ProductDeleting(context.Background(), 1, uuid.New())
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeStorageError))
}

func TestProductCreatedSchedulesRegeneration(t *testing.T) {
	queue := &fakeQueue{}
	rec := NewReconciler(newFakeRoutineRepo(), queue, testLogger())

	rec.ProductCreated(context.Background(), product("Toner", catalog.ProductTypeToner))
	require.Equal(t, 1, queue.count())
	require.Equal(t, JobRegenerateRoutines, queue.jobs[0].name)
	require.Equal(t, int64(1), queue.jobs[0].payload["user_id"])
}

func TestProductUpdatedRequiresSignificantChange(t *testing.T) {
	queue := &fakeQueue{}
	rec := NewReconciler(newFakeRoutineRepo(), queue, testLogger())

	before := product("Old Name", catalog.ProductTypeSerum)
	after := before
	after.Name = "New Name"
	after.Brand = "New Brand"
	rec.ProductUpdated(context.Background(), before, after)
	require.Zero(t, queue.count())

	deactivated := before
	deactivated.IsActive = false
	rec.ProductUpdated(context.Background(), before, deactivated)
	require.Equal(t, 1, queue.count())

	retyped := before
	retyped.Type = catalog.ProductTypeMoisturizer
	rec.ProductUpdated(context.Background(), before, retyped)
	require.Equal(t, 2, queue.count())

	repurposed := before
	repurposed.Usage = "night only"
	rec.ProductUpdated(context.Background(), before, repurposed)
	require.Equal(t, 3, queue.count())
}

func TestProductDeletedSchedulesRegeneration(t *testing.T) {
	queue := &fakeQueue{}
	rec := NewReconciler(newFakeRoutineRepo(), queue, testLogger())

	rec.ProductDeleted(context.Background(), 7)
	require.Equal(t, 1, queue.count())
	require.Equal(t, int64(7), queue.jobs[0].payload["user_id"])
}

func TestScheduleSwallowsEnqueueErrors(t *testing.T) {
	queue := &fakeQueue{err: errBoom}
	rec := NewReconciler(newFakeRoutineRepo(), queue, testLogger())

	rec.ProductCreated(context.Background(), product("Toner", catalog.ProductTypeToner))
	require.Zero(t, queue.count())
}
