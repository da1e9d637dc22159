// internal/client/catalog/catalog.go
package catalog

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/nishantmakwanaa/clothing-store/internal/client/api"
	"github.com/nishantmakwanaa/clothing-store/internal/pkg/apperrors"
	"github.com/sirupsen/logrus"
)

// Source fetches reference data from the backend. *api.Client implements it.
type Source interface {
	Categories(ctx context.Context) ([]api.Category, error)
	Colors(ctx context.Context) ([]api.Color, error)
	Sizes(ctx context.Context) ([]api.Size, error)
	Products(ctx context.Context, q api.ProductQuery) ([]api.Product, error)
	Product(ctx context.Context, id api.ID) (*api.Product, error)
}

var _ Source = (*api.Client)(nil)

type entry[T any] struct {
	items   []T
	fetched time.Time
}

// Catalog is a read-through cache over the reference data endpoints
type Catalog struct {
	src Source
	ttl time.Duration
	now func() time.Time
	log logrus.FieldLogger

	mu         sync.Mutex
	categories *entry[api.Category]
	colors     *entry[api.Color]
	sizes      *entry[api.Size]
	products   *entry[api.Product]
}

// New creates a catalog caching lists for ttl. A zero ttl disables caching.
func New(src Source, ttl time.Duration, log logrus.FieldLogger) *Catalog {
	return &Catalog{
		src: src,
		ttl: ttl,
		now: time.Now,
		log: log.WithField("component", "catalog"),
	}
}

// Categories returns all categories
func (c *Catalog) Categories(ctx context.Context) ([]api.Category, error) {
	return cached(c, &c.categories, func() ([]api.Category, error) { return c.src.Categories(ctx) })
}

// Colors returns all colors
func (c *Catalog) Colors(ctx context.Context) ([]api.Color, error) {
	return cached(c, &c.colors, func() ([]api.Color, error) { return c.src.Colors(ctx) })
}

// Sizes returns all sizes
func (c *Catalog) Sizes(ctx context.Context) ([]api.Size, error) {
	return cached(c, &c.sizes, func() ([]api.Size, error) { return c.src.Sizes(ctx) })
}

// Products returns the full product list
func (c *Catalog) Products(ctx context.Context) ([]api.Product, error) {
	products, err := cached(c, &c.products, func() ([]api.Product, error) { return c.src.Products(ctx, api.ProductQuery{}) })
	if err != nil {
		return nil, err
	}
	for i := range products {
		products[i] = copyProduct(products[i])
	}
	return products, nil
}

// Product returns one product, served from the cached list when possible
func (c *Catalog) Product(ctx context.Context, id api.ID) (*api.Product, error) {
	c.mu.Lock()
	if e := c.products; e != nil && c.ttl > 0 && e.age(c.now()) < c.ttl {
		for _, p := range e.items {
			if p.ID == id {
				c.mu.Unlock()
				cp := copyProduct(p)
				return &cp, nil
			}
		}
	}
	c.mu.Unlock()

	p, err := c.src.Product(ctx, id)
	if code, ok := api.StatusCode(err); ok && code == http.StatusNotFound {
		return nil, apperrors.ErrNotFound
	}
	return p, err
}

// ProductsByCategory returns the products in one category
func (c *Catalog) ProductsByCategory(ctx context.Context, categoryID api.ID) ([]api.Product, error) {
	all, err := c.Products(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]api.Product, 0, len(all))
	for _, p := range all {
		if p.CategoryID == categoryID || (p.Category != nil && p.Category.ID == categoryID) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Search matches products whose name or brand contains the query, ignoring case
func (c *Catalog) Search(ctx context.Context, query string) ([]api.Product, error) {
	all, err := c.Products(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return all, nil
	}
	out := make([]api.Product, 0)
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Brand), q) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Invalidate drops every cached list
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.categories, c.colors, c.sizes, c.products = nil, nil, nil, nil
}

func (e *entry[T]) age(now time.Time) time.Duration {
	return now.Sub(e.fetched)
}

// cached serves slot while fresh and refills it from fetch otherwise. The
// fetch runs without the lock so a slow backend does not block readers of
// other lists.
func cached[T any](c *Catalog, slot **entry[T], fetch func() ([]T, error)) ([]T, error) {
	c.mu.Lock()
	if e := *slot; e != nil && c.ttl > 0 && e.age(c.now()) < c.ttl {
		items := clone(e.items)
		c.mu.Unlock()
		return items, nil
	}
	c.mu.Unlock()

	items, err := fetch()
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}

	c.mu.Lock()
	*slot = &entry[T]{items: items, fetched: c.now()}
	c.mu.Unlock()

	c.log.WithField("count", len(items)).Debug("catalog refreshed")
	return clone(items), nil
}

// copyProduct detaches the product's slices and category from the cache
func copyProduct(p api.Product) api.Product {
	p.Colors = clone(p.Colors)
	p.Sizes = clone(p.Sizes)
	if p.Category != nil {
		cat := *p.Category
		p.Category = &cat
	}
	return p
}

func clone[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
