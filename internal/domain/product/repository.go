// internal/domain/product/repository.go
package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a product or reference entity does not exist
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a reference entity name is already taken
	ErrDuplicate = errors.New("already exists")
)

// ListFilter narrows a product listing
type ListFilter struct {
	CategoryID uint
	Query      string
}

// Repository persists products and their reference data
type Repository interface {
	ListProducts(ctx context.Context, filter ListFilter) ([]Product, error)
	GetProduct(ctx context.Context, id uint) (*Product, error)
	SaveProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id uint) error

	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, c *Category) error
	ListColors(ctx context.Context) ([]Color, error)
	CreateColor(ctx context.Context, c *Color) error
	ListSizes(ctx context.Context) ([]Size, error)
	CreateSize(ctx context.Context, s *Size) error

	// ResolveVariants loads the colors and sizes with the given ids
	ResolveVariants(ctx context.Context, colorIDs, sizeIDs []uint) ([]Color, []Size, error)
}

// GormRepository stores products in PostgreSQL through gorm
type GormRepository struct {
	db *gorm.DB
}

var _ Repository = (*GormRepository)(nil)

// NewGormRepository creates a gorm-backed product repository
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// ListProducts returns active products matching the filter
func (r *GormRepository) ListProducts(ctx context.Context, filter ListFilter) ([]Product, error) {
	query := r.db.WithContext(ctx).
		Preload("Category").Preload("Colors").Preload("Sizes").
		Where("is_active = ?", true)

	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(brand) LIKE ?", like, like)
	}

	var products []Product
	if err := query.Order("id ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetProduct loads one active product with its relations
func (r *GormRepository) GetProduct(ctx context.Context, id uint) (*Product, error) {
	var p Product
	err := r.db.WithContext(ctx).
		Preload("Category").Preload("Colors").Preload("Sizes").
		Where("id = ? AND is_active = ?", id, true).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return &p, nil
}

// SaveProduct creates or updates a product and replaces its variant associations
func (r *GormRepository) SaveProduct(ctx context.Context, p *Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		colors, sizes := p.Colors, p.Sizes
		if err := tx.Omit("Colors", "Sizes", "Category").Save(p).Error; err != nil {
			return fmt.Errorf("failed to save product: %w", err)
		}
		if err := tx.Model(p).Association("Colors").Replace(colors); err != nil {
			return fmt.Errorf("failed to save product colors: %w", err)
		}
		if err := tx.Model(p).Association("Sizes").Replace(sizes); err != nil {
			return fmt.Errorf("failed to save product sizes: %w", err)
		}
		return nil
	})
}

// DeleteProduct soft-deletes a product
func (r *GormRepository) DeleteProduct(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&Product{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListCategories returns categories in display order
func (r *GormRepository) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := r.db.WithContext(ctx).Order("sort_order ASC, id ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// CreateCategory inserts a category
func (r *GormRepository) CreateCategory(ctx context.Context, c *Category) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return createError("category", err)
	}
	return nil
}

// ListColors returns all colors
func (r *GormRepository) ListColors(ctx context.Context) ([]Color, error) {
	var colors []Color
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&colors).Error; err != nil {
		return nil, fmt.Errorf("failed to list colors: %w", err)
	}
	return colors, nil
}

// CreateColor inserts a color
func (r *GormRepository) CreateColor(ctx context.Context, c *Color) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return createError("color", err)
	}
	return nil
}

// ListSizes returns sizes in display order
func (r *GormRepository) ListSizes(ctx context.Context) ([]Size, error) {
	var sizes []Size
	if err := r.db.WithContext(ctx).Order("sort_order ASC, id ASC").Find(&sizes).Error; err != nil {
		return nil, fmt.Errorf("failed to list sizes: %w", err)
	}
	return sizes, nil
}

// CreateSize inserts a size
func (r *GormRepository) CreateSize(ctx context.Context, s *Size) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return createError("size", err)
	}
	return nil
}

// ResolveVariants loads colors and sizes by id and fails if any id is unknown
func (r *GormRepository) ResolveVariants(ctx context.Context, colorIDs, sizeIDs []uint) ([]Color, []Size, error) {
	var colors []Color
	var sizes []Size

	if len(colorIDs) > 0 {
		if err := r.db.WithContext(ctx).Where("id IN ?", colorIDs).Find(&colors).Error; err != nil {
			return nil, nil, fmt.Errorf("failed to load colors: %w", err)
		}
		if len(colors) != len(uniqueIDs(colorIDs)) {
			return nil, nil, fmt.Errorf("%w: unknown color id", ErrNotFound)
		}
	}
	if len(sizeIDs) > 0 {
		if err := r.db.WithContext(ctx).Where("id IN ?", sizeIDs).Find(&sizes).Error; err != nil {
			return nil, nil, fmt.Errorf("failed to load sizes: %w", err)
		}
		if len(sizes) != len(uniqueIDs(sizeIDs)) {
			return nil, nil, fmt.Errorf("%w: unknown size id", ErrNotFound)
		}
	}
	return colors, sizes, nil
}

func createError(kind string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s", ErrDuplicate, kind)
	}
	return fmt.Errorf("failed to create %s: %w", kind, err)
}

func uniqueIDs(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
