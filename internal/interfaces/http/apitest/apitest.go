// internal/interfaces/http/apitest/apitest.go
package apitest

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nishantmakwanaa/clothing-store/internal/config"
	"github.com/nishantmakwanaa/clothing-store/internal/domain/product"
	fakeproductrepo "github.com/nishantmakwanaa/clothing-store/internal/domain/product/repofake"
	"github.com/nishantmakwanaa/clothing-store/internal/domain/upload"
	"github.com/nishantmakwanaa/clothing-store/internal/domain/user"
	fakeuserrepo "github.com/nishantmakwanaa/clothing-store/internal/domain/user/repofake"
	httpserver "github.com/nishantmakwanaa/clothing-store/internal/interfaces/http"
	"github.com/nishantmakwanaa/clothing-store/internal/interfaces/http/routes"
	"github.com/nishantmakwanaa/clothing-store/internal/pkg/auth"
	"github.com/nishantmakwanaa/clothing-store/internal/pkg/logger"
	"github.com/stretchr/testify/require"
)

// Mailer records the reset tokens the backend sends, keyed by recipient
type Mailer struct {
	mu     sync.Mutex
	tokens map[string]string
}

// SendPasswordResetEmail implements user.Mailer
func (m *Mailer) SendPasswordResetEmail(_ context.Context, to, _, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[to] = token
	return nil
}

// Token returns the last reset token mailed to email
func (m *Mailer) Token(email string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.tokens[email]
	return token, ok
}

// Backend is an in-process storefront API backed by in-memory repositories
type Backend struct {
	Config   *config.Config
	Server   *httptest.Server
	Users    *user.Service
	Products *product.Service
	JWT      *auth.JWTManager
	Mailer   *Mailer
}

// Config returns a configuration suitable for tests. Uploads land in a temp dir.
func Config(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		App:    config.AppConfig{Name: "Clothify", Version: "test", Environment: "test"},
		Server: config.ServerConfig{Port: "0", RequestTimeout: 5 * time.Second, MaxBodyBytes: 1 << 20},
		JWT:    config.JWTConfig{Secret: "0123456789abcdef0123456789abcdef", AccessTokenExpiry: time.Hour},
		Security: config.SecurityConfig{
			BcryptCost:          4,
			PasswordResetExpiry: time.Hour,
			CORSAllowedOrigins:  []string{"*"},
			CORSAllowedMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			CORSAllowedHeaders:  []string{"Authorization", "Content-Type"},
		},
		Upload: config.UploadConfig{
			Path:              t.TempDir(),
			PublicPrefix:      "/uploads",
			MaxSize:           64 << 10,
			AllowedExtensions: []string{"png", "jpg", "jpeg"},
		},
		Client: config.ClientConfig{RequestTimeout: 5 * time.Second, OrderPolicy: "first_item"},
	}
}

// NewBackend starts a backend and stops it when the test ends
func NewBackend(t *testing.T) *Backend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := Config(t)
	log := logger.Discard()
	mailer := &Mailer{tokens: map[string]string{}}

	b := &Backend{
		Config:   cfg,
		Users:    user.NewService(fakeuserrepo.NewFakeUserRepo(), user.NewMemoryResetTokenStore(), mailer, cfg, log),
		Products: product.NewService(fakeproductrepo.NewFakeProductRepo(), log),
		JWT:      auth.NewJWTManager(cfg),
		Mailer:   mailer,
	}

	srv := httpserver.NewServer(cfg, routes.Dependencies{
		JWT:      b.JWT,
		Users:    b.Users,
		Products: b.Products,
		Uploads:  upload.NewService(cfg.Upload, log),
		Log:      log,
	}, httpserver.Options{})

	b.Server = httptest.NewServer(srv.Handler())
	t.Cleanup(b.Server.Close)

	b.Config.Client.APIBaseURL = b.Server.URL + "/api/v1"
	return b
}

// URL returns the absolute URL of an API path such as "/products"
func (b *Backend) URL(path string) string {
	return b.Config.Client.APIBaseURL + path
}

// Register creates an account through the service layer
func (b *Backend) Register(t *testing.T, email, password string) *user.User {
	t.Helper()
	u, err := b.Users.Register(context.Background(), &user.RegisterRequest{
		FirstName: "Ada", LastName: "Lovelace", Email: email, Password: password,
	})
	require.NoError(t, err)
	return u
}

// Token issues an access token for u
func (b *Backend) Token(t *testing.T, u *user.User, isAdmin bool) string {
	t.Helper()
	token, err := b.JWT.GenerateAccessToken(u.ID, u.Email, isAdmin)
	require.NoError(t, err)
	return token
}

// Catalog is a small seeded catalog
type Catalog struct {
	Shirts *product.Category
	Red    *product.Color
	Blue   *product.Color
	Medium *product.Size
	Large  *product.Size
	Shirt  *product.Product
	Jeans  *product.Product
}

// SeedCatalog creates two products with variants
func (b *Backend) SeedCatalog(t *testing.T) *Catalog {
	t.Helper()
	ctx := context.Background()
	var (
		c   Catalog
		err error
	)

	c.Shirts, err = b.Products.CreateCategory(ctx, &product.CategoryRequest{Name: "Shirts"})
	require.NoError(t, err)
	c.Red, err = b.Products.CreateColor(ctx, &product.ColorRequest{Name: "Red", Hex: "#FF0000"})
	require.NoError(t, err)
	c.Blue, err = b.Products.CreateColor(ctx, &product.ColorRequest{Name: "Blue", Hex: "#0000FF"})
	require.NoError(t, err)
	c.Medium, err = b.Products.CreateSize(ctx, &product.SizeRequest{Name: "M", SortOrder: 2})
	require.NoError(t, err)
	c.Large, err = b.Products.CreateSize(ctx, &product.SizeRequest{Name: "L", SortOrder: 3})
	require.NoError(t, err)

	c.Shirt, err = b.Products.CreateProduct(ctx, &product.ProductRequest{
		Name: "Linen Shirt", Price: 1200, CategoryID: c.Shirts.ID, Brand: "Acme",
		ColorIDs: []uint{c.Red.ID, c.Blue.ID}, SizeIDs: []uint{c.Medium.ID, c.Large.ID},
	})
	require.NoError(t, err)
	c.Jeans, err = b.Products.CreateProduct(ctx, &product.ProductRequest{
		Name: "Denim Jeans", Price: 3000, CategoryID: c.Shirts.ID, Brand: "Rivet",
		ColorIDs: []uint{c.Blue.ID}, SizeIDs: []uint{c.Large.ID},
	})
	require.NoError(t, err)

	return &c
}
