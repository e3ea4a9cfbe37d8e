package marketplace

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// RequirementStore persists raw customer requirements.
type RequirementStore interface {
	// Create assigns ID and CreatedAt
	Create(ctx context.Context, r *CustomerRequirement) error
	Get(ctx context.Context, id int64) (*CustomerRequirement, error)
	// ListByCustomer returns the customer's requirements, newest first
	ListByCustomer(ctx context.Context, customerID int64) ([]*CustomerRequirement, error)
}

// QuotationStore persists quotations.
type QuotationStore interface {
	// Create assigns CreatedAt; the caller sets ID
	Create(ctx context.Context, q *Quotation) error
	Get(ctx context.Context, id string) (*Quotation, error)
}

// InMemoryRequirementStore keeps requirements in a map. Safe for concurrent use.
type InMemoryRequirementStore struct {
	requirements map[int64]*CustomerRequirement
	nextID       int64
	now          func() time.Time
	mu           sync.RWMutex
}

func NewInMemoryRequirementStore() *InMemoryRequirementStore {
	return &InMemoryRequirementStore{
		requirements: make(map[int64]*CustomerRequirement),
		now:          time.Now,
	}
}

func (s *InMemoryRequirementStore) Create(_ context.Context, r *CustomerRequirement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	r.ID = s.nextID
	r.CreatedAt = s.now()
	stored := *r
	s.requirements[r.ID] = &stored
	return nil
}

func (s *InMemoryRequirementStore) Get(_ context.Context, id int64) (*CustomerRequirement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.requirements[id]
	if !ok {
		return nil, fmt.Errorf("requirement %d: %w", id, ErrRequirementNotFound)
	}
	out := *r
	return &out, nil
}

func (s *InMemoryRequirementStore) ListByCustomer(_ context.Context, customerID int64) ([]*CustomerRequirement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*CustomerRequirement{}
	for _, r := range s.requirements {
		if r.CustomerID == customerID {
			c := *r
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// InMemoryQuotationStore keeps quotations in a map. Safe for concurrent use.
type InMemoryQuotationStore struct {
	quotations map[string]*Quotation
	now        func() time.Time
	mu         sync.RWMutex
}

func NewInMemoryQuotationStore() *InMemoryQuotationStore {
	return &InMemoryQuotationStore{
		quotations: make(map[string]*Quotation),
		now:        time.Now,
	}
}

func (s *InMemoryQuotationStore) Create(_ context.Context, q *Quotation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.quotations[q.ID]; exists {
		return fmt.Errorf("quotation %s already exists", q.ID)
	}
	q.CreatedAt = s.now()
	stored := *q
	stored.Car = nil
	s.quotations[q.ID] = &stored
	return nil
}

func (s *InMemoryQuotationStore) Get(_ context.Context, id string) (*Quotation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.quotations[id]
	if !ok {
		return nil, fmt.Errorf("quotation %s: %w", id, ErrQuotationNotFound)
	}
	out := *q
	return &out, nil
}
