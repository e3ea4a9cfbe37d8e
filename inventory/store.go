// Package inventory serves the active car inventory the matcher scores.
package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/liamcoop/carmatch/matching"
)

var ErrNotFound = errors.New("car not found")

// Filter narrows a search of active cars. Zero values are ignored.
type Filter struct {
	MinPrice   float64 `json:"min_price,omitempty"`
	MaxPrice   float64 `json:"max_price,omitempty"`
	FuelType   string  `json:"fuel_type,omitempty"`
	MinMileage int     `json:"min_mileage,omitempty"` // odometer reading at least this many km
}

func (f Filter) matches(c matching.Car) bool {
	if !c.IsActive {
		return false
	}
	if f.MinPrice > 0 && c.BasePrice < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && c.BasePrice > f.MaxPrice {
		return false
	}
	if f.FuelType != "" && c.FuelType != f.FuelType {
		return false
	}
	if f.MinMileage > 0 && c.Mileage < f.MinMileage {
		return false
	}
	return true
}

// Store is read-only access to cars.
type Store interface {
	// ListActive returns every active car, newest first
	ListActive(ctx context.Context) ([]matching.Car, error)

	// Search returns active cars matching f, newest first
	Search(ctx context.Context, f Filter) ([]matching.Car, error)

	// Get returns a car by ID whether or not it is active
	Get(ctx context.Context, id int64) (matching.Car, error)
}

// InMemoryStore serves a fixed inventory. Newest means highest ID.
// Safe for concurrent use.
type InMemoryStore struct {
	cars []matching.Car
	mu   sync.RWMutex
}

// NewInMemoryStore creates a store holding a copy of cars.
func NewInMemoryStore(cars []matching.Car) *InMemoryStore {
	s := &InMemoryStore{cars: make([]matching.Car, len(cars))}
	copy(s.cars, cars)
	sort.SliceStable(s.cars, func(i, j int) bool { return s.cars[i].ID > s.cars[j].ID })
	return s
}

// LoadCarsFromFile reads a JSON array of cars.
func LoadCarsFromFile(path string) ([]matching.Car, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read inventory %s: %w", path, err)
	}

	var cars []matching.Car
	if err := json.Unmarshal(data, &cars); err != nil {
		return nil, fmt.Errorf("parse inventory %s: %w", path, err)
	}

	seen := make(map[int64]struct{}, len(cars))
	for i, c := range cars {
		if c.ID == 0 {
			return nil, fmt.Errorf("inventory %s: car at index %d has no id", path, i)
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("inventory %s: duplicate car id %d", path, c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return cars, nil
}

// NewInMemoryStoreFromFile loads path into a new InMemoryStore.
func NewInMemoryStoreFromFile(path string) (*InMemoryStore, error) {
	cars, err := LoadCarsFromFile(path)
	if err != nil {
		return nil, err
	}
	return NewInMemoryStore(cars), nil
}

func (s *InMemoryStore) ListActive(ctx context.Context) ([]matching.Car, error) {
	return s.Search(ctx, Filter{})
}

func (s *InMemoryStore) Search(_ context.Context, f Filter) ([]matching.Car, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]matching.Car, 0, len(s.cars))
	for _, c := range s.cars {
		if f.matches(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *InMemoryStore) Get(_ context.Context, id int64) (matching.Car, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.cars {
		if c.ID == id {
			return c, nil
		}
	}
	return matching.Car{}, fmt.Errorf("car %d: %w", id, ErrNotFound)
}
