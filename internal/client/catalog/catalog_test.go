package catalog

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/nishantmakwanaa/clothing-store/internal/client/api"
	"github.com/nishantmakwanaa/clothing-store/internal/pkg/apperrors"
	"github.com/nishantmakwanaa/clothing-store/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	mu       sync.Mutex
	calls    map[string]int
	products []api.Product
}

func newCountingSource() *countingSource {
	return &countingSource{
		calls: make(map[string]int),
		products: []api.Product{
			{ID: "1", Name: "Linen Shirt", Brand: "Acme", CategoryID: "10", Price: 4999,
				Colors: []api.Color{{ID: "1", Name: "Red"}}, Sizes: []api.Size{{ID: "1", Name: "M"}}},
			{ID: "2", Name: "Chinos", Brand: "Northwind", CategoryID: "20", Price: 5999},
			{ID: "3", Name: "Oxford", Brand: "ACME Basics", Category: &api.Category{ID: "10", Name: "Shirts"}, Price: 3999},
		},
	}
}

func (s *countingSource) hit(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[name]++
}

func (s *countingSource) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *countingSource) Categories(context.Context) ([]api.Category, error) {
	s.hit("categories")
	return []api.Category{{ID: "10", Name: "Shirts"}, {ID: "20", Name: "Pants"}}, nil
}

func (s *countingSource) Colors(context.Context) ([]api.Color, error) {
	s.hit("colors")
	return nil, nil
}

func (s *countingSource) Sizes(context.Context) ([]api.Size, error) {
	s.hit("sizes")
	return []api.Size{{ID: "1", Name: "M"}}, nil
}

func (s *countingSource) Products(context.Context, api.ProductQuery) ([]api.Product, error) {
	s.hit("products")
	return append([]api.Product(nil), s.products...), nil
}

func (s *countingSource) Product(_ context.Context, id api.ID) (*api.Product, error) {
	s.hit("product")
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, &api.APIError{StatusCode: http.StatusNotFound, Message: "product not found"}
}

func TestListsAreCachedForTTL(t *testing.T) {
	src := newCountingSource()
	c := New(src, time.Minute, logger.Discard())
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		cats, err := c.Categories(ctx)
		require.NoError(t, err)
		assert.Len(t, cats, 2)
	}
	assert.Equal(t, 1, src.count("categories"))

	now = now.Add(2 * time.Minute)
	_, err := c.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, src.count("categories"))

	c.Invalidate()
	_, err = c.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, src.count("categories"))
}

func TestZeroTTLAlwaysFetches(t *testing.T) {
	src := newCountingSource()
	c := New(src, 0, logger.Discard())

	_, _ = c.Sizes(context.Background())
	_, _ = c.Sizes(context.Background())
	assert.Equal(t, 2, src.count("sizes"))
}

func TestEmptyListIsNotNil(t *testing.T) {
	c := New(newCountingSource(), time.Minute, logger.Discard())
	colors, err := c.Colors(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, colors)
}

func TestProductsByCategory(t *testing.T) {
	c := New(newCountingSource(), time.Minute, logger.Discard())

	shirts, err := c.ProductsByCategory(context.Background(), "10")
	require.NoError(t, err)
	require.Len(t, shirts, 2)
	assert.Equal(t, api.ID("1"), shirts[0].ID)
	assert.Equal(t, api.ID("3"), shirts[1].ID)
}

func TestSearchMatchesNameAndBrand(t *testing.T) {
	c := New(newCountingSource(), time.Minute, logger.Discard())
	ctx := context.Background()

	byBrand, err := c.Search(ctx, "acme")
	require.NoError(t, err)
	assert.Len(t, byBrand, 2)

	byName, err := c.Search(ctx, "  CHINOS ")
	require.NoError(t, err)
	require.Len(t, byName, 1)

	all, err := c.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestProductUsesCacheThenSource(t *testing.T) {
	src := newCountingSource()
	c := New(src, time.Minute, logger.Discard())
	ctx := context.Background()

	p, err := c.Product(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "Chinos", p.Name)
	assert.Equal(t, 1, src.count("product"))

	_, err = c.Products(ctx)
	require.NoError(t, err)
	_, err = c.Product(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, 1, src.count("product"), "served from cached list")

	_, err = c.Product(ctx, "99")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCallersCannotMutateCachedProducts(t *testing.T) {
	src := newCountingSource()
	c := New(src, time.Minute, logger.Discard())
	ctx := context.Background()

	list, err := c.Products(ctx)
	require.NoError(t, err)
	list[0].Colors[0].Name = "Mauve"
	list[2].Category.Name = "Renamed"

	p, err := c.Product(ctx, "1")
	require.NoError(t, err)
	p.Sizes[0].Name = "XXL"

	again, err := c.Product(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Red", again.Colors[0].Name)
	assert.Equal(t, "M", again.Sizes[0].Name)

	list, err = c.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Shirts", list[2].Category.Name)
	assert.Equal(t, 1, src.count("products"))
}
