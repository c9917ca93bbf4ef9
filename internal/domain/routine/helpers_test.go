package routine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/glowedge/skincare-backend/internal/domain/catalog"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() Config {
	return Config{
		MinCatalogSize:         3,
		MinSteps:               3,
		MaxSteps:               6,
		DefaultDurationMinutes: 19,
		MaxTips:                3,
		PromptTokenBudget:      4096,
	}
}

type fakeRoutineRepo struct {
	mu        sync.Mutex
	data      map[uuid.UUID]Routine
	replaceN  int
	updateErr error
	deleteErr error
	listErr   error
}

func newFakeRoutineRepo() *fakeRoutineRepo {
	return &fakeRoutineRepo{data: make(map[uuid.UUID]Routine)}
}

func (f *fakeRoutineRepo) Create(_ context.Context, rt Routine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[rt.ID] = rt
	return nil
}

func (f *fakeRoutineRepo) Update(_ context.Context, rt Routine) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[rt.ID] = rt
	return nil
}

func (f *fakeRoutineRepo) Delete(_ context.Context, id uuid.UUID, userID int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if rt, ok := f.data[id]; ok && rt.UserID == userID {
		delete(f.data, id)
	}
	return nil
}

func (f *fakeRoutineRepo) Get(_ context.Context, id uuid.UUID, userID int64) (Routine, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rt, ok := f.data[id]
	if !ok || rt.UserID != userID {
		return Routine{}, false, nil
	}
	return rt, true, nil
}

func (f *fakeRoutineRepo) List(_ context.Context, userID int64) ([]Routine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Routine
	for _, rt := range f.data {
		if rt.UserID == userID {
			out = append(out, rt)
		}
	}
	return out, nil
}

func (f *fakeRoutineRepo) ListReferencingProduct(_ context.Context, userID int64, productID uuid.UUID) ([]Routine, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Routine
	for _, rt := range f.data {
		if rt.UserID != userID {
			continue
		}
		for _, step := range rt.Steps {
			if step.ProductID == productID {
				out = append(out, rt)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeRoutineRepo) ReplaceAIGenerated(_ context.Context, rt Routine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaceN++
	for id, existing := range f.data {
		if existing.UserID == rt.UserID && existing.Type == rt.Type && existing.IsAIGenerated {
			delete(f.data, id)
		}
	}
	f.data[rt.ID] = rt
	return nil
}

func (f *fakeRoutineRepo) aiRoutines(userID int64, routineType RoutineType) []Routine {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Routine
	for _, rt := range f.data {
		if rt.UserID == userID && rt.Type == routineType && rt.IsAIGenerated {
			out = append(out, rt)
		}
	}
	return out
}

var _ RoutineRepository = (*fakeRoutineRepo)(nil)

type fakeProductRepo struct {
	active []catalog.Product
	err    error
}

func (f *fakeProductRepo) Create(context.Context, catalog.Product) error { return nil }
func (f *fakeProductRepo) Update(context.Context, catalog.Product) error { return nil }
func (f *fakeProductRepo) Delete(context.Context, uuid.UUID, int64) error {
	return nil
}
func (f *fakeProductRepo) Get(context.Context, uuid.UUID, int64) (catalog.Product, bool, error) {
	return catalog.Product{}, false, nil
}
func (f *fakeProductRepo) List(context.Context, int64) ([]catalog.Product, error) {
	return f.active, f.err
}
func (f *fakeProductRepo) ListActive(context.Context, int64) ([]catalog.Product, error) {
	return f.active, f.err
}

var _ catalog.ProductRepository = (*fakeProductRepo)(nil)

type fakeProfiles struct {
	profile SkinProfile
	err     error
}

func (f fakeProfiles) SkinProfile(context.Context, int64) (SkinProfile, error) {
	return f.profile, f.err
}

type fakeCompleter struct {
	completion Completion
	err        error
	perPrompt  map[string]Completion
	calls      int
	prompts    []string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (Completion, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return Completion{}, f.err
	}
	if f.perPrompt != nil {
		if completion, ok := f.perPrompt[prompt]; ok {
			return completion, nil
		}
	}
	return f.completion, nil
}

type fakeQueue struct {
	mu   sync.Mutex
	jobs []struct {
		name    string
		payload map[string]any
	}
	err error
}

func (f *fakeQueue) Enqueue(_ context.Context, name string, payload any) error {
	if f.err != nil {
		return f.err
	}
	typed, _ := payload.(map[string]any)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, struct {
		name    string
		payload map[string]any
	}{name: name, payload: typed})
	return nil
}

func (f *fakeQueue) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.jobs)
}

type fakeTokens struct{}

func (fakeTokens) Count(text string) int { return len(text) / 4 }

var errBoom = errors.New("boom")

func product(name string, productType catalog.ProductType) catalog.Product {
	return catalog.Product{
		ID:       uuid.New(),
		UserID:   1,
		Name:     name,
		Type:     productType,
		IsActive: true,
	}
}

func stepsJSON(names ...string) string {
	var b strings.Builder
	b.WriteString(`{"steps": [`)
	for i, name := range names {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"stepNumber": %d, "productName": %q, "instruction": "apply", "waitTime": 1}`, i+1, name)
	}
	b.WriteString(`]}`)
	return b.String()
}
