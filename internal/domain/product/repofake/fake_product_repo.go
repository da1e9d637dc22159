package fakeproductrepo

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/nishantmakwanaa/clothing-store/internal/domain/product"
)

var _ product.Repository = (*FakeProductRepo)(nil)

// FakeProductRepo is an in-memory product.Repository for tests
type FakeProductRepo struct {
	mu         sync.RWMutex
	products   map[uint]product.Product
	categories []product.Category
	colors     []product.Color
	sizes      []product.Size
	nextID     uint
}

func NewFakeProductRepo() *FakeProductRepo {
	return &FakeProductRepo{products: make(map[uint]product.Product)}
}

func (r *FakeProductRepo) id() uint {
	r.nextID++
	return r.nextID
}

func (r *FakeProductRepo) ListProducts(_ context.Context, filter product.ListFilter) ([]product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(filter.Query))
	var out []product.Product
	for _, p := range r.products {
		if filter.CategoryID != 0 && p.CategoryID != filter.CategoryID {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Brand), q) {
			continue
		}
		out = append(out, r.withCategory(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *FakeProductRepo) GetProduct(_ context.Context, id uint) (*product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	p = r.withCategory(p)
	return &p, nil
}

func (r *FakeProductRepo) SaveProduct(_ context.Context, p *product.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == 0 {
		p.ID = r.id()
	}
	stored := *p
	stored.Category = nil
	r.products[p.ID] = stored
	return nil
}

func (r *FakeProductRepo) DeleteProduct(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return product.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *FakeProductRepo) ListCategories(context.Context) ([]product.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]product.Category(nil), r.categories...), nil
}

func (r *FakeProductRepo) CreateCategory(_ context.Context, c *product.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.categories {
		if existing.Name == c.Name {
			return fmt.Errorf("%w: category", product.ErrDuplicate)
		}
	}
	c.ID = r.id()
	r.categories = append(r.categories, *c)
	return nil
}

func (r *FakeProductRepo) ListColors(context.Context) ([]product.Color, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]product.Color(nil), r.colors...), nil
}

func (r *FakeProductRepo) CreateColor(_ context.Context, c *product.Color) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = r.id()
	r.colors = append(r.colors, *c)
	return nil
}

func (r *FakeProductRepo) ListSizes(context.Context) ([]product.Size, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]product.Size(nil), r.sizes...), nil
}

func (r *FakeProductRepo) CreateSize(_ context.Context, s *product.Size) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = r.id()
	r.sizes = append(r.sizes, *s)
	return nil
}

func (r *FakeProductRepo) ResolveVariants(_ context.Context, colorIDs, sizeIDs []uint) ([]product.Color, []product.Size, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var colors []product.Color
	for _, id := range colorIDs {
		found := false
		for _, c := range r.colors {
			if c.ID == id {
				colors = append(colors, c)
				found = true
				break
			}
		}
		if !found {
			return nil, nil, fmt.Errorf("%w: unknown color id", product.ErrNotFound)
		}
	}

	var sizes []product.Size
	for _, id := range sizeIDs {
		found := false
		for _, s := range r.sizes {
			if s.ID == id {
				sizes = append(sizes, s)
				found = true
				break
			}
		}
		if !found {
			return nil, nil, fmt.Errorf("%w: unknown size id", product.ErrNotFound)
		}
	}
	return colors, sizes, nil
}

func (r *FakeProductRepo) withCategory(p product.Product) product.Product {
	for _, c := range r.categories {
		if c.ID == p.CategoryID {
			cat := c
			p.Category = &cat
			break
		}
	}
	return p
}
