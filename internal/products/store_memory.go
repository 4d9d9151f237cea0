package products

import (
	"context"
	"slices"
	"sync"
)

// MemStore keeps products in insertion order. Ids come from a counter that
// starts above the largest seeded id and is never rewound, so deleted ids
// are not handed out again.
type MemStore struct {
	mu       sync.RWMutex
	products []Product
	nextID   int64
}

func NewMemStore(seed ...Product) *MemStore {
	s := &MemStore{
		products: make([]Product, 0, len(seed)),
		nextID:   1,
	}
	for _, p := range seed {
		if s.indexOf(p.ID) >= 0 {
			continue
		}
		s.products = append(s.products, p)
		if p.ID >= s.nextID {
			s.nextID = p.ID + 1
		}
	}
	return s
}

// NewStore returns a store holding SeedProducts.
func NewStore() *MemStore {
	return NewMemStore(SeedProducts()...)
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) List(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.products), nil
}

func (s *MemStore) Get(ctx context.Context, id int64) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Product{}, ErrNotFound
	}
	return s.products[i], nil
}

func (s *MemStore) Create(ctx context.Context, in CreateInput) (Product, error) {
	name, price, err := in.validate()
	if err != nil {
		return Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := Product{ID: s.nextID, Name: name, Price: price}
	s.nextID++
	s.products = append(s.products, p)
	return p, nil
}

func (s *MemStore) Update(ctx context.Context, id int64, in UpdateInput) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Product{}, ErrNotFound
	}
	if err := in.validate(); err != nil {
		return Product{}, err
	}

	in.apply(&s.products[i])
	return s.products[i], nil
}

func (s *MemStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.products)
	s.products = slices.DeleteFunc(s.products, func(p Product) bool { return p.ID == id })
	if len(s.products) == before {
		return ErrNotFound
	}
	return nil
}

// indexOf must be called with mu held.
func (s *MemStore) indexOf(id int64) int {
	return slices.IndexFunc(s.products, func(p Product) bool { return p.ID == id })
}
