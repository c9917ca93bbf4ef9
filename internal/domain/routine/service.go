package routine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/glowedge/skincare-backend/internal/domain/catalog"
	apperrors "github.com/glowedge/skincare-backend/pkg/errors"
)

// Config drives the synthesis pipeline.
type Config struct {
	// MinCatalogSize is the hard floor of active products below which no
	// routine is attempted.
	MinCatalogSize int
	MinSteps       int
	MaxSteps       int
	// DefaultDurationMinutes backfills a draft missing estimatedDuration.
	DefaultDurationMinutes int
	MaxTips                int
	// PromptTokenBudget is advisory; exceeding it logs a warning since the
	// provider will truncate oversized requests on its own.
	PromptTokenBudget int
}

// Synthesis outcome reasons reported when no routine was written.
const (
	ReasonInsufficientProducts = "insufficient_products"
	ReasonNoStepsResolved      = "no_steps_resolved"
)

// SynthesisResult reports one routine type's outcome.
type SynthesisResult struct {
	Regenerated bool   `json:"regenerated"`
	StepCount   int    `json:"stepCount,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// TypeResult is one entry of a batch regeneration report.
type TypeResult struct {
	Regenerated bool   `json:"regenerated"`
	StepCount   int    `json:"stepCount,omitempty"`
	Reason      string `json:"reason,omitempty"`
	Error       string `json:"error,omitempty"`
}

// RegenerationReport aggregates a RegenerateAll run. A failure on one routine
// type never hides the other type's outcome.
type RegenerationReport struct {
	Regenerated bool                       `json:"regenerated"`
	Count       int                        `json:"count"`
	Results     map[RoutineType]TypeResult `json:"results"`
}

// Engine turns the user's catalog into AI-generated routines and keeps the
// stored ones consistent with it.
type Engine struct {
	cfg       Config
	routines  RoutineRepository
	products  catalog.ProductRepository
	profiles  ProfileReader
	completer Completer
	tokens    TokenCounter
	logger    *slog.Logger
}

// NewEngine constructs the synthesis engine.
func NewEngine(cfg Config, routines RoutineRepository, products catalog.ProductRepository, profiles ProfileReader, completer Completer, tokens TokenCounter, logger *slog.Logger) *Engine {
	return &Engine{
		cfg:       cfg,
		routines:  routines,
		products:  products,
		profiles:  profiles,
		completer: completer,
		tokens:    tokens,
		logger:    logger.With("component", "routine.engine"),
	}
}

// Synthesize generates and persists the AI routine for one type, replacing
// any previous AI-generated routine for the same (user, type).
func (e *Engine) Synthesize(ctx context.Context, userID int64, routineType RoutineType) (SynthesisResult, error) {
	products, profile, err := e.loadInputs(ctx, userID)
	if err != nil {
		return SynthesisResult{}, err
	}
	return e.synthesizeFrom(ctx, userID, routineType, profile, products)
}

// RegenerateAll runs synthesis for every routine type independently. Inputs
// are loaded once; each type's failure is recorded in the report rather than
// aborting the other types.
func (e *Engine) RegenerateAll(ctx context.Context, userID int64) (RegenerationReport, error) {
	products, profile, err := e.loadInputs(ctx, userID)
	if err != nil {
		return RegenerationReport{}, err
	}

	report := RegenerationReport{Results: make(map[RoutineType]TypeResult, len(AllRoutineTypes))}
	for _, routineType := range AllRoutineTypes {
		result, err := e.synthesizeFrom(ctx, userID, routineType, profile, products)
		if err != nil {
			e.logger.Warn("routine synthesis failed",
				"user_id", userID, "routine_type", routineType, "code", apperrors.CodeOf(err), "error", err)
			report.Results[routineType] = TypeResult{Error: err.Error()}
			continue
		}
		report.Results[routineType] = TypeResult{
			Regenerated: result.Regenerated,
			StepCount:   result.StepCount,
			Reason:      result.Reason,
		}
		if result.Regenerated {
			report.Count++
		}
	}
	report.Regenerated = report.Count > 0
	return report, nil
}

func (e *Engine) loadInputs(ctx context.Context, userID int64) ([]catalog.Product, SkinProfile, error) {
	if userID == 0 {
		return nil, SkinProfile{}, apperrors.Wrap(apperrors.CodeUnauthorized, "missing user", nil)
	}
	products, err := e.products.ListActive(ctx, userID)
	if err != nil {
		return nil, SkinProfile{}, apperrors.Wrap(apperrors.CodeStorageError, "failed to load active products", err)
	}
	profile, err := e.profiles.SkinProfile(ctx, userID)
	if err != nil {
		return nil, SkinProfile{}, apperrors.Wrap(apperrors.CodeStorageError, "failed to load skin profile", err)
	}
	return products, profile, nil
}

func (e *Engine) synthesizeFrom(ctx context.Context, userID int64, routineType RoutineType, profile SkinProfile, products []catalog.Product) (SynthesisResult, error) {
	if len(products) < e.cfg.MinCatalogSize {
		e.logger.Info("catalog below synthesis floor",
			"user_id", userID, "routine_type", routineType, "active_products", len(products))
		return SynthesisResult{Reason: ReasonInsufficientProducts}, nil
	}

	prompt := buildPrompt(e.cfg, routineType, profile, products)
	if e.tokens != nil {
		count := e.tokens.Count(prompt)
		if e.cfg.PromptTokenBudget > 0 && count > e.cfg.PromptTokenBudget {
			e.logger.Warn("prompt exceeds token budget",
				"user_id", userID, "routine_type", routineType, "tokens", count, "budget", e.cfg.PromptTokenBudget)
		} else {
			e.logger.Debug("prompt built", "user_id", userID, "routine_type", routineType, "tokens", count)
		}
	}

	completion, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		return SynthesisResult{}, err
	}
	if !completion.Usage.IsZero() {
		e.logger.Debug("completion usage",
			"user_id", userID, "routine_type", routineType,
			"prompt_tokens", completion.Usage.PromptTokens,
			"completion_tokens", completion.Usage.CompletionTokens)
	}

	draft, err := parseDraft(completion.Text, completion.Status, e.cfg)
	if err != nil {
		return SynthesisResult{}, err
	}

	steps := e.bindSteps(draft, products)
	if len(steps) == 0 {
		e.logger.Warn("no draft steps resolved to catalog products",
			"user_id", userID, "routine_type", routineType, "draft_steps", len(draft.Steps))
		return SynthesisResult{Reason: ReasonNoStepsResolved}, nil
	}

	now := time.Now()
	generated := Routine{
		ID:                    uuid.New(),
		UserID:                userID,
		Name:                  fmt.Sprintf("AI %s routine", routineType),
		Type:                  routineType,
		Steps:                 steps,
		IsAIGenerated:         true,
		CompatibilityWarnings: draft.CompatibilityWarnings,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := e.routines.ReplaceAIGenerated(ctx, generated); err != nil {
		return SynthesisResult{}, apperrors.Wrap(apperrors.CodeStorageError, "failed to persist routine", err)
	}

	e.logger.Info("routine synthesized",
		"user_id", userID, "routine_type", routineType,
		"steps", len(steps), "dropped", len(draft.Steps)-len(steps))
	return SynthesisResult{Regenerated: true, StepCount: len(steps)}, nil
}

// bindSteps resolves draft steps against the candidate set, silently dropping
// unresolved suggestions and renumbering the survivors densely.
func (e *Engine) bindSteps(draft Draft, candidates []catalog.Product) []Step {
	bound := make([]Step, 0, len(draft.Steps))
	for _, draftStep := range draft.Steps {
		product, ok := matchProduct(draftStep.ProductName, candidates)
		if !ok {
			continue
		}
		bound = append(bound, Step{
			ProductID:       product.ID,
			Instruction:     draftStep.Instruction,
			WaitTimeMinutes: draftStep.WaitTimeMinutes,
		})
	}
	return renumberSteps(bound)
}
