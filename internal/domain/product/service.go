// internal/domain/product/service.go
package product

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrInvalidInput wraps product and reference data validation failures
var ErrInvalidInput = errors.New("invalid input")

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Service handles product business logic
type Service struct {
	repo Repository
	log  logrus.FieldLogger
}

// NewService creates a new product service
func NewService(repo Repository, log logrus.FieldLogger) *Service {
	return &Service{
		repo: repo,
		log:  log.WithField("component", "product_service"),
	}
}

// ProductRequest carries the fields used to create or replace a product
type ProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       int64   `json:"price"`
	CategoryID  uint    `json:"categoryId" binding:"required"`
	Brand       string  `json:"brand"`
	Image       string  `json:"image"`
	Rating      float64 `json:"rating"`
	Reviews     int     `json:"reviews"`
	ColorIDs    []uint  `json:"colorIds"`
	SizeIDs     []uint  `json:"sizeIds"`
}

// CategoryRequest carries a new category
type CategoryRequest struct {
	Name      string `json:"name" binding:"required"`
	Image     string `json:"image"`
	SortOrder int    `json:"sortOrder"`
}

// ColorRequest carries a new color
type ColorRequest struct {
	Name string `json:"name" binding:"required"`
	Hex  string `json:"hex"`
}

// SizeRequest carries a new size
type SizeRequest struct {
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sortOrder"`
}

// ListProducts returns products, optionally narrowed by category and search text
func (s *Service) ListProducts(ctx context.Context, filter ListFilter) ([]Product, error) {
	products, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

// GetProduct gets a product by ID
func (s *Service) GetProduct(ctx context.Context, id uint) (*Product, error) {
	return s.repo.GetProduct(ctx, id)
}

// CreateProduct validates and stores a new product
func (s *Service) CreateProduct(ctx context.Context, req *ProductRequest) (*Product, error) {
	p := &Product{IsActive: true}
	if err := s.apply(ctx, p, req); err != nil {
		return nil, err
	}
	if err := s.repo.SaveProduct(ctx, p); err != nil {
		return nil, err
	}
	s.log.WithField("product_id", p.ID).Info("product created")
	return s.repo.GetProduct(ctx, p.ID)
}

// UpdateProduct replaces the editable fields of an existing product
func (s *Service) UpdateProduct(ctx context.Context, id uint, req *ProductRequest) (*Product, error) {
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, p, req); err != nil {
		return nil, err
	}
	if err := s.repo.SaveProduct(ctx, p); err != nil {
		return nil, err
	}
	s.log.WithField("product_id", p.ID).Info("product updated")
	return s.repo.GetProduct(ctx, p.ID)
}

// DeleteProduct removes a product from the catalog
func (s *Service) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.log.WithField("product_id", id).Info("product deleted")
	return nil
}

func (s *Service) apply(ctx context.Context, p *Product, req *ProductRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if req.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidInput)
	}
	if req.Rating < 0 || req.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 0 and 5", ErrInvalidInput)
	}
	if req.Reviews < 0 {
		return fmt.Errorf("%w: reviews cannot be negative", ErrInvalidInput)
	}
	if err := s.requireCategory(ctx, req.CategoryID); err != nil {
		return err
	}

	colors, sizes, err := s.repo.ResolveVariants(ctx, req.ColorIDs, req.SizeIDs)
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err != nil {
		return err
	}

	p.Name = name
	p.Description = strings.TrimSpace(req.Description)
	p.Price = req.Price
	p.CategoryID = req.CategoryID
	p.Category = nil
	p.Brand = strings.TrimSpace(req.Brand)
	p.Image = strings.TrimSpace(req.Image)
	p.Rating = req.Rating
	p.Reviews = req.Reviews
	p.Colors = colors
	p.Sizes = sizes
	return nil
}

func (s *Service) requireCategory(ctx context.Context, id uint) error {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return err
	}
	for _, c := range categories {
		if c.ID == id {
			return nil
		}
	}
	return fmt.Errorf("%w: unknown category %d", ErrInvalidInput, id)
}

// ListCategories returns all categories
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return nonNil(s.repo.ListCategories(ctx))
}

// CreateCategory stores a new category
func (s *Service) CreateCategory(ctx context.Context, req *CategoryRequest) (*Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	c := &Category{Name: name, Image: strings.TrimSpace(req.Image), SortOrder: req.SortOrder}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListColors returns all colors
func (s *Service) ListColors(ctx context.Context) ([]Color, error) {
	return nonNil(s.repo.ListColors(ctx))
}

// CreateColor stores a new color
func (s *Service) CreateColor(ctx context.Context, req *ColorRequest) (*Color, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if req.Hex != "" && !hexColorPattern.MatchString(req.Hex) {
		return nil, fmt.Errorf("%w: hex must look like #RRGGBB", ErrInvalidInput)
	}
	c := &Color{Name: name, Hex: strings.ToUpper(req.Hex)}
	if err := s.repo.CreateColor(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ListSizes returns all sizes
func (s *Service) ListSizes(ctx context.Context) ([]Size, error) {
	return nonNil(s.repo.ListSizes(ctx))
}

// CreateSize stores a new size
func (s *Service) CreateSize(ctx context.Context, req *SizeRequest) (*Size, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	sz := &Size{Name: name, SortOrder: req.SortOrder}
	if err := s.repo.CreateSize(ctx, sz); err != nil {
		return nil, err
	}
	return sz, nil
}

func nonNil[T any](items []T, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
