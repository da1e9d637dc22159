// internal/domain/product/entity.go
package product

import (
	"time"

	"gorm.io/gorm"
)

// Product represents a storefront product
type Product struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null;size:255" json:"name"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	Price       int64          `gorm:"not null" json:"price"` // Price in minor currency units
	CategoryID  uint           `gorm:"not null;index" json:"categoryId"`
	Brand       string         `gorm:"size:100" json:"brand,omitempty"`
	Image       string         `gorm:"size:500" json:"image,omitempty"`
	Rating      float64        `gorm:"default:0" json:"rating"`
	Reviews     int            `gorm:"default:0" json:"reviews"`
	IsActive    bool           `gorm:"default:true" json:"-"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category,omitempty"`
	Colors   []Color   `gorm:"many2many:product_colors;" json:"colors"`
	Sizes    []Size    `gorm:"many2many:product_sizes;" json:"sizes"`
}

// Category represents product categories
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null;size:100" json:"name"`
	Image     string    `gorm:"size:500" json:"image,omitempty"`
	SortOrder int       `gorm:"default:0" json:"sortOrder"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Color is a selectable product color
type Color struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null;size:50" json:"name"`
	Hex       string    `gorm:"size:7" json:"hex,omitempty"`
	CreatedAt time.Time `json:"-"`
}

// Size is a selectable product size
type Size struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null;size:20" json:"name"`
	SortOrder int       `gorm:"default:0" json:"sortOrder"`
	CreatedAt time.Time `json:"-"`
}

// TableName overrides
func (Product) TableName() string  { return "products" }
func (Category) TableName() string { return "categories" }
func (Color) TableName() string    { return "colors" }
func (Size) TableName() string     { return "sizes" }

// HasColor reports whether the product is offered in the named color
func (p *Product) HasColor(name string) bool {
	for _, c := range p.Colors {
		if c.Name == name {
			return true
		}
	}
	return false
}

// HasSize reports whether the product is offered in the named size
func (p *Product) HasSize(name string) bool {
	for _, s := range p.Sizes {
		if s.Name == name {
			return true
		}
	}
	return false
}
