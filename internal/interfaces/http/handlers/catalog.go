// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nishantmakwanaa/clothing-store/internal/domain/product"
)

// CatalogHandler handles product and reference data endpoints
type CatalogHandler struct {
	productService *product.Service
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(productService *product.Service) *CatalogHandler {
	return &CatalogHandler{productService: productService}
}

// ListCategories handles GET /categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.productService.ListCategories(c.Request.Context())
	if err != nil {
		internalError(c, "Failed to list categories", err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// CreateCategory handles POST /categories
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req product.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	category, err := h.productService.CreateCategory(c.Request.Context(), &req)
	if writeCatalogError(c, err, "Failed to create category") {
		return
	}
	c.JSON(http.StatusCreated, category)
}

// ListColors handles GET /colors
func (h *CatalogHandler) ListColors(c *gin.Context) {
	colors, err := h.productService.ListColors(c.Request.Context())
	if err != nil {
		internalError(c, "Failed to list colors", err)
		return
	}
	c.JSON(http.StatusOK, colors)
}

// CreateColor handles POST /colors
func (h *CatalogHandler) CreateColor(c *gin.Context) {
	var req product.ColorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	color, err := h.productService.CreateColor(c.Request.Context(), &req)
	if writeCatalogError(c, err, "Failed to create color") {
		return
	}
	c.JSON(http.StatusCreated, color)
}

// ListSizes handles GET /sizes
func (h *CatalogHandler) ListSizes(c *gin.Context) {
	sizes, err := h.productService.ListSizes(c.Request.Context())
	if err != nil {
		internalError(c, "Failed to list sizes", err)
		return
	}
	c.JSON(http.StatusOK, sizes)
}

// CreateSize handles POST /sizes
func (h *CatalogHandler) CreateSize(c *gin.Context) {
	var req product.SizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	size, err := h.productService.CreateSize(c.Request.Context(), &req)
	if writeCatalogError(c, err, "Failed to create size") {
		return
	}
	c.JSON(http.StatusCreated, size)
}

// ListProducts handles GET /products with optional categoryId and q filters
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var filter product.ListFilter
	if raw := c.Query("categoryId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid categoryId"})
			return
		}
		filter.CategoryID = uint(id)
	}
	filter.Query = c.Query("q")

	products, err := h.productService.ListProducts(c.Request.Context(), filter)
	if err != nil {
		internalError(c, "Failed to list products", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct handles GET /products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.productService.GetProduct(c.Request.Context(), id)
	if writeCatalogError(c, err, "Failed to load product") {
		return
	}
	c.JSON(http.StatusOK, p)
}

// CreateProduct handles POST /products
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req product.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.productService.CreateProduct(c.Request.Context(), &req)
	if writeCatalogError(c, err, "Failed to create product") {
		return
	}
	c.JSON(http.StatusCreated, p)
}

// UpdateProduct handles PUT /products/:id
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req product.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.productService.UpdateProduct(c.Request.Context(), id, &req)
	if writeCatalogError(c, err, "Failed to update product") {
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeleteProduct handles DELETE /products/:id
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if writeCatalogError(c, h.productService.DeleteProduct(c.Request.Context(), id), "Failed to delete product") {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// writeCatalogError answers for err and reports whether it did
func writeCatalogError(c *gin.Context, err error, message string) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, product.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, product.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, product.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		internalError(c, message, err)
	}
	return true
}
