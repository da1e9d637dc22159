package auth

import (
	"testing"
	"time"

	"github.com/nishantmakwanaa/clothing-store/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Name: "Clothify"},
		JWT:      config.JWTConfig{Secret: "0123456789abcdef0123456789abcdef", AccessTokenExpiry: time.Hour},
		Security: config.SecurityConfig{BcryptCost: 4},
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager(testConfig())

	token, err := m.GenerateAccessToken(42, "ada@example.com", true)
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
}

func TestAccessTokenRejectsOtherSecretAndExpiry(t *testing.T) {
	m := NewJWTManager(testConfig())
	token, err := m.GenerateAccessToken(1, "a@b.co", false)
	require.NoError(t, err)

	other := testConfig()
	other.JWT.Secret = "ffffffffffffffffffffffffffffffff"
	_, err = NewJWTManager(other).ValidateAccessToken(token)
	require.Error(t, err)

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = m.ValidateAccessToken(token)
	require.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", ExtractTokenFromHeader("Bearer abc"))
	assert.Equal(t, "abc", ExtractTokenFromHeader("bearer abc"))
	assert.Equal(t, "", ExtractTokenFromHeader("Basic abc"))
	assert.Equal(t, "", ExtractTokenFromHeader("Bearer "))
}

func TestPasswordHashing(t *testing.T) {
	p := NewPasswordManager(testConfig())

	hash, err := p.HashPassword("secret1")
	require.NoError(t, err)
	assert.NoError(t, p.VerifyPassword("secret1", hash))
	assert.Error(t, p.VerifyPassword("secret2", hash))
}

func TestValidatePassword(t *testing.T) {
	p := NewPasswordManager(testConfig())

	assert.Error(t, p.ValidatePassword("abc"))
	assert.Error(t, p.ValidatePassword("123456"))
	assert.Error(t, p.ValidatePassword("Password"))
	assert.NoError(t, p.ValidatePassword("tailor9"))
}
