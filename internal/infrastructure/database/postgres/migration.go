// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"errors"
	"fmt"

	"github.com/nishantmakwanaa/clothing-store/internal/domain/product"
	"github.com/nishantmakwanaa/clothing-store/internal/domain/user"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db         *gorm.DB
	bcryptCost int
	log        logrus.FieldLogger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, bcryptCost int, log logrus.FieldLogger) *Migration {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Migration{
		db:         db,
		bcryptCost: bcryptCost,
		log:        log.WithField("component", "migration"),
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.log.Info("running database auto-migrations")

	// Dependency order: join tables are created with Product
	models := []interface{}{
		&user.User{},
		&product.Category{},
		&product.Color{},
		&product.Size{},
		&product.Product{},
	}

	for _, model := range models {
		m.log.Debugf("migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.log.Info("database auto-migrations completed")
	return nil
}

// CreateIndexes creates additional indexes for catalog queries
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_category_active ON products(category_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_lower_name ON products(lower(name))",
		"CREATE INDEX IF NOT EXISTS idx_products_lower_brand ON products(lower(brand))",
		"CREATE INDEX IF NOT EXISTS idx_categories_sort_order ON categories(sort_order)",
		"CREATE INDEX IF NOT EXISTS idx_sizes_sort_order ON sizes(sort_order)",
	}

	for _, stmt := range indexes {
		if err := m.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	m.log.WithField("count", len(indexes)).Info("database indexes ensured")
	return nil
}

// SeedInitialData inserts development data. Existing rows are left alone.
func (m *Migration) SeedInitialData() error {
	m.log.Info("seeding initial data")

	if err := m.seedUsers(); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	if err := m.seedReferenceData(); err != nil {
		return fmt.Errorf("failed to seed reference data: %w", err)
	}
	if err := m.seedProducts(); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	m.log.Info("initial data seeded")
	return nil
}

type seedUser struct {
	email, password, first, last string
	admin                        bool
}

func (m *Migration) seedUsers() error {
	users := []seedUser{
		{email: "admin@example.com", password: "admin123", first: "Admin", last: "User", admin: true},
		{email: "test1@example.com", password: "test123", first: "Test", last: "User"},
	}

	for _, su := range users {
		var existing user.User
		err := m.db.Where("email = ?", su.email).First(&existing).Error
		if err == nil {
			m.log.WithField("email", su.email).Debug("user already exists")
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(su.password), m.bcryptCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		u := user.User{
			Email:     su.email,
			Password:  string(hashed),
			FirstName: su.first,
			LastName:  su.last,
			IsActive:  true,
			IsAdmin:   su.admin,
		}
		if err := m.db.Create(&u).Error; err != nil {
			return fmt.Errorf("failed to create user %s: %w", su.email, err)
		}
		m.log.WithFields(logrus.Fields{"email": su.email, "admin": su.admin}).Info("created seed user")
	}
	return nil
}

func (m *Migration) seedReferenceData() error {
	categories := []product.Category{
		{Name: "Shirts", SortOrder: 1},
		{Name: "T-Shirts", SortOrder: 2},
		{Name: "Jeans", SortOrder: 3},
		{Name: "Jackets", SortOrder: 4},
		{Name: "Dresses", SortOrder: 5},
	}
	for i := range categories {
		if err := m.db.Where("name = ?", categories[i].Name).FirstOrCreate(&categories[i]).Error; err != nil {
			return err
		}
	}

	colors := []product.Color{
		{Name: "Black", Hex: "#000000"},
		{Name: "White", Hex: "#FFFFFF"},
		{Name: "Navy", Hex: "#1F2A44"},
		{Name: "Red", Hex: "#C0392B"},
		{Name: "Olive", Hex: "#6B7A3A"},
	}
	for i := range colors {
		if err := m.db.Where("name = ?", colors[i].Name).FirstOrCreate(&colors[i]).Error; err != nil {
			return err
		}
	}

	sizes := []product.Size{
		{Name: "XS", SortOrder: 1},
		{Name: "S", SortOrder: 2},
		{Name: "M", SortOrder: 3},
		{Name: "L", SortOrder: 4},
		{Name: "XL", SortOrder: 5},
	}
	for i := range sizes {
		if err := m.db.Where("name = ?", sizes[i].Name).FirstOrCreate(&sizes[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

type seedProduct struct {
	name, description, brand, category string
	price                              int64
	rating                             float64
	reviews                            int
	colors, sizes                      []string
}

func (m *Migration) seedProducts() error {
	var count int64
	if err := m.db.Model(&product.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		m.log.WithField("count", count).Debug("products already seeded")
		return nil
	}

	products := []seedProduct{
		{
			name: "Oxford Button-Down Shirt", brand: "Harbor & Co", category: "Shirts",
			description: "Breathable cotton oxford with a relaxed fit.",
			price:       3999, rating: 4.5, reviews: 128,
			colors: []string{"White", "Navy"}, sizes: []string{"S", "M", "L", "XL"},
		},
		{
			name: "Essential Crew Tee", brand: "Basics Lab", category: "T-Shirts",
			description: "Heavyweight jersey tee that keeps its shape.",
			price:       1499, rating: 4.2, reviews: 342,
			colors: []string{"Black", "White", "Olive"}, sizes: []string{"XS", "S", "M", "L", "XL"},
		},
		{
			name: "Slim Selvedge Jeans", brand: "Rivet", category: "Jeans",
			description: "Raw selvedge denim in a slim tapered cut.",
			price:       8900, rating: 4.7, reviews: 89,
			colors: []string{"Navy"}, sizes: []string{"S", "M", "L"},
		},
		{
			name: "Field Jacket", brand: "Northline", category: "Jackets",
			description: "Waxed cotton jacket with four utility pockets.",
			price:       14900, rating: 4.6, reviews: 54,
			colors: []string{"Olive", "Black"}, sizes: []string{"M", "L", "XL"},
		},
		{
			name: "Wrap Midi Dress", brand: "Maison Lune", category: "Dresses",
			description: "Fluid viscose wrap dress with a tie waist.",
			price:       6500, rating: 4.4, reviews: 76,
			colors: []string{"Red", "Black"}, sizes: []string{"XS", "S", "M", "L"},
		},
	}

	return m.db.Transaction(func(tx *gorm.DB) error {
		for _, sp := range products {
			var category product.Category
			if err := tx.Where("name = ?", sp.category).First(&category).Error; err != nil {
				return fmt.Errorf("category %q: %w", sp.category, err)
			}

			var colors []product.Color
			if err := tx.Where("name IN ?", sp.colors).Find(&colors).Error; err != nil {
				return err
			}
			var sizes []product.Size
			if err := tx.Where("name IN ?", sp.sizes).Find(&sizes).Error; err != nil {
				return err
			}

			p := product.Product{
				Name:        sp.name,
				Description: sp.description,
				Price:       sp.price,
				CategoryID:  category.ID,
				Brand:       sp.brand,
				Rating:      sp.rating,
				Reviews:     sp.reviews,
				IsActive:    true,
				Colors:      colors,
				Sizes:       sizes,
			}
			if err := tx.Create(&p).Error; err != nil {
				return fmt.Errorf("failed to create product %q: %w", sp.name, err)
			}
			m.log.WithField("product", sp.name).Info("created seed product")
		}
		return nil
	})
}

// DropAllTables drops every application table. Development only.
func (m *Migration) DropAllTables() error {
	m.log.Warn("dropping all database tables")

	// Reverse dependency order
	tables := []string{
		"product_sizes",
		"product_colors",
		"products",
		"sizes",
		"colors",
		"categories",
		"users",
	}

	for _, table := range tables {
		if err := m.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
		m.log.WithField("table", table).Info("dropped table")
	}
	return nil
}
