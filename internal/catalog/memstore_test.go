package catalog

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecofood/internal/models"
)

// memStore applies Criteria the way the mongo store does: AND filter,
// order by sort key then id, strictly after the cursor, limited.
type memStore struct {
	mu       sync.Mutex
	products []models.Product
	calls    int
	err      error
}

func newMemStore(products ...models.Product) *memStore {
	return &memStore{products: products}
}

func (m *memStore) Find(_ context.Context, c Criteria) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}

	matched := m.match(c)
	sort.SliceStable(matched, func(i, j int) bool {
		return compareAt(matched[i], PositionOf(matched[j], c.Sort), c) < 0
	})

	out := make([]models.Product, 0, len(matched))
	for _, p := range matched {
		if c.After != nil && compareAt(p, *c.After, c) <= 0 {
			continue
		}
		out = append(out, p)
		if c.Limit > 0 && len(out) == c.Limit {
			break
		}
	}
	return out, nil
}

func (m *memStore) Count(_ context.Context, c Criteria) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return 0, m.err
	}
	return int64(len(m.match(c))), nil
}

func (m *memStore) Get(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return models.Product{}, m.err
	}
	for _, p := range m.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, ErrNotFound
}

func (m *memStore) Insert(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return m.err
	}
	p.ID = primitive.NewObjectID()
	m.products = append(m.products, *p)
	return nil
}

func (m *memStore) Update(_ context.Context, p models.Product) (models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return models.Product{}, m.err
	}
	for i, existing := range m.products {
		if existing.ID == p.ID && existing.OwnerID == p.OwnerID {
			p.CreatedAt = existing.CreatedAt
			m.products[i] = p
			return p, nil
		}
	}
	return models.Product{}, ErrNotFound
}

func (m *memStore) Delete(_ context.Context, ownerID, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return m.err
	}
	for i, existing := range m.products {
		if existing.ID == id && existing.OwnerID == ownerID {
			m.products = append(m.products[:i], m.products[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *memStore) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *memStore) match(c Criteria) []models.Product {
	lo, hi := c.NameRange()
	out := make([]models.Product, 0)
	for _, p := range m.products {
		if p.OwnerID != c.OwnerID {
			continue
		}
		if c.Status != "" && p.Status != c.Status {
			continue
		}
		if c.NamePrefix != "" && (p.Name < lo || p.Name >= hi) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// compareAt orders p against pos in the criteria's direction.
func compareAt(p models.Product, pos Position, c Criteria) int {
	var cmp int
	switch c.Sort {
	case SortByPrice:
		switch {
		case p.Price < pos.Price:
			cmp = -1
		case p.Price > pos.Price:
			cmp = 1
		}
	default:
		switch {
		case p.Name < pos.Name:
			cmp = -1
		case p.Name > pos.Name:
			cmp = 1
		}
	}
	if cmp == 0 {
		cmp = bytes.Compare(p.ID[:], pos.ID[:])
	}
	if !c.Ascending {
		cmp = -cmp
	}
	return cmp
}
