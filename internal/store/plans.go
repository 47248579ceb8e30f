package store

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"briefboard/internal/domain"
)

// Store keeps plans keyed by their opaque id. Implementations must apply
// updates as field merges: absent fields never clobber existing values.
type Store interface {
	Create(prompt string, bundle domain.Bundle) *domain.Plan
	Get(id string) (*domain.Plan, error)
	Update(id string, upd PlanUpdate) (*domain.Plan, error)
}

// PlanUpdate carries the fields of a partial update. Nil fields are left
// untouched; a non-nil Bundle replaces the stored bundle wholesale.
type PlanUpdate struct {
	Bundle     *domain.Bundle
	Moodboard  *domain.AssetRef
	Storyboard *domain.AssetRef
}

// Memory is a process-wide, mutex-guarded plan store. Plans are never
// deleted; their lifetime is the lifetime of the process.
type Memory struct {
	mu    sync.Mutex
	plans map[string]*domain.Plan
}

func NewMemory() *Memory {
	return &Memory{plans: make(map[string]*domain.Plan)}
}

func (m *Memory) Create(prompt string, bundle domain.Bundle) *domain.Plan {
	now := time.Now()
	plan := &domain.Plan{
		ID:        strings.ReplaceAll(uuid.NewString(), "-", ""),
		Prompt:    prompt,
		Bundle:    bundle,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.mu.Lock()
	m.plans[plan.ID] = plan
	m.mu.Unlock()
	return copyPlan(plan)
}

func (m *Memory) Get(id string) (*domain.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	plan, ok := m.plans[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyPlan(plan), nil
}

func (m *Memory) Update(id string, upd PlanUpdate) (*domain.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	plan, ok := m.plans[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Bundle != nil {
		plan.Bundle = *upd.Bundle
	}
	if upd.Moodboard != nil {
		ref := *upd.Moodboard
		plan.Moodboard = &ref
	}
	if upd.Storyboard != nil {
		ref := *upd.Storyboard
		plan.Storyboard = &ref
	}
	plan.UpdatedAt = time.Now()
	return copyPlan(plan), nil
}

// copyPlan returns a detached copy so callers cannot mutate stored state.
func copyPlan(p *domain.Plan) *domain.Plan {
	out := *p
	if p.Moodboard != nil {
		ref := *p.Moodboard
		out.Moodboard = &ref
	}
	if p.Storyboard != nil {
		ref := *p.Storyboard
		out.Storyboard = &ref
	}
	return &out
}

var _ Store = (*Memory)(nil)
