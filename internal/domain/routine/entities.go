package routine

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/glowedge/skincare-backend/pkg/errors"
)

// RoutineType is the time-of-day category a routine belongs to.
type RoutineType string

const (
	RoutineTypeMorning RoutineType = "morning"
	RoutineTypeNight   RoutineType = "night"
)

// AllRoutineTypes lists the categories the engine regenerates, in order.
var AllRoutineTypes = []RoutineType{RoutineTypeMorning, RoutineTypeNight}

// ParseRoutineType validates a free-form type string.
func ParseRoutineType(raw string) (RoutineType, error) {
	switch RoutineType(raw) {
	case RoutineTypeMorning, RoutineTypeNight:
		return RoutineType(raw), nil
	}
	return "", apperrors.Wrap(apperrors.CodeInvalidInput, "unknown routine type: "+raw, nil)
}

// Step is one product application within a routine. StepNumber values are
// dense 1..N within their routine after every mutation.
type Step struct {
	StepNumber      int       `json:"stepNumber"`
	ProductID       uuid.UUID `json:"productId"`
	Instruction     string    `json:"instruction"`
	WaitTimeMinutes int       `json:"waitTimeMinutes"`
}

// Routine is an ordered sequence of steps for a user. At most one routine
// with IsAIGenerated set exists per (user, type); a routine with zero steps
// is never persisted.
type Routine struct {
	ID                    uuid.UUID   `json:"id"`
	UserID                int64       `json:"userId"`
	Name                  string      `json:"name"`
	Type                  RoutineType `json:"type"`
	Steps                 []Step      `json:"steps"`
	IsAIGenerated         bool        `json:"isAIGenerated"`
	CompatibilityWarnings []string    `json:"compatibilityWarnings"`
	CreatedAt             time.Time   `json:"createdAt"`
	UpdatedAt             time.Time   `json:"updatedAt"`
}

// Draft is the validated but unbound output of the response parser. It lives
// only inside a single synthesis call.
type Draft struct {
	Steps                    []DraftStep
	CompatibilityWarnings    []string
	EstimatedDurationMinutes int
	Tips                     []string
}

// DraftStep carries the AI's free-text product suggestion before matching.
type DraftStep struct {
	StepNumber      int
	ProductName     string
	Instruction     string
	WaitTimeMinutes int
}

// SkinProfile is the read-only prompt input describing the user's skin.
type SkinProfile struct {
	SkinType string
	Concerns []string
}

// renumberSteps rewrites step numbers to a dense 1..N sequence preserving
// relative order, clamping negative wait times to zero.
func renumberSteps(steps []Step) []Step {
	out := make([]Step, 0, len(steps))
	for i, step := range steps {
		step.StepNumber = i + 1
		if step.WaitTimeMinutes < 0 {
			step.WaitTimeMinutes = 0
		}
		out = append(out, step)
	}
	return out
}
