package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CLIENT_STORAGE_PATH", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Clothify", cfg.App.Name)
	assert.Equal(t, "http://localhost:8080/api/v1", cfg.Client.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.Client.RequestTimeout)
	assert.Equal(t, "first_item", cfg.Client.OrderPolicy)
	assert.True(t, cfg.Client.RevalidateSession)
	assert.False(t, cfg.RedisEnabled())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CLIENT_STORAGE_PATH", t.TempDir())
	t.Setenv("API_REQUEST_TIMEOUT", "3s")
	t.Setenv("CART_ORDER_POLICY", "whole_cart")
	t.Setenv("UPLOAD_ALLOWED_EXTENSIONS", "png, jpg")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.Client.RequestTimeout)
	assert.Equal(t, "whole_cart", cfg.Client.OrderPolicy)
	assert.Equal(t, []string{"png", "jpg"}, cfg.Upload.AllowedExtensions)
}

func TestLoadRejectsUnknownOrderPolicy(t *testing.T) {
	t.Setenv("CLIENT_STORAGE_PATH", t.TempDir())
	t.Setenv("CART_ORDER_POLICY", "per_item")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CART_ORDER_POLICY")
}

func TestRedisStorageNeedsHost(t *testing.T) {
	t.Setenv("CLIENT_STORAGE", "redis")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_HOST")
}

func TestValidateServer(t *testing.T) {
	cfg := &Config{
		JWT:      JWTConfig{Secret: "short"},
		Database: DatabaseConfig{Host: "localhost", Name: "clothify", User: "clothify"},
		Server:   ServerConfig{Port: "8080"},
	}
	require.Error(t, cfg.ValidateServer())

	cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
	require.NoError(t, cfg.ValidateServer())
}
