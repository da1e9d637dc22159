package user_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nishantmakwanaa/clothing-store/internal/config"
	"github.com/nishantmakwanaa/clothing-store/internal/domain/user"
	fakeuserrepo "github.com/nishantmakwanaa/clothing-store/internal/domain/user/repofake"
	"github.com/nishantmakwanaa/clothing-store/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureMailer struct {
	mu     sync.Mutex
	tokens map[string]string
}

func (m *captureMailer) SendPasswordResetEmail(ctx context.Context, to, name, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[to] = token
	return nil
}

type fixture struct {
	repo    *fakeuserrepo.FakeUserRepo
	mailer  *captureMailer
	service *user.Service
}

func setup(t *testing.T) *fixture {
	t.Helper()

	cfg := &config.Config{
		App:      config.AppConfig{Name: "Clothify"},
		JWT:      config.JWTConfig{Secret: "0123456789abcdef0123456789abcdef", AccessTokenExpiry: time.Hour},
		Security: config.SecurityConfig{BcryptCost: 4, PasswordResetExpiry: time.Hour},
	}
	repo := fakeuserrepo.NewFakeUserRepo()
	mailer := &captureMailer{tokens: map[string]string{}}
	svc := user.NewService(repo, user.NewMemoryResetTokenStore(), mailer, cfg, logger.Discard())
	return &fixture{repo: repo, mailer: mailer, service: svc}
}

func (f *fixture) register(t *testing.T, email, password string) *user.User {
	t.Helper()
	u, err := f.service.Register(context.Background(), &user.RegisterRequest{
		FirstName: "Ada", LastName: "Lovelace", Email: email, Password: password,
	})
	require.NoError(t, err)
	return u
}

func TestRegisterAndLogin(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	u := f.register(t, "Ada@Example.com", "engine1")
	assert.Equal(t, "ada@example.com", u.Email)
	assert.NotEqual(t, "engine1", u.Password)

	resp, err := f.service.Login(ctx, &user.LoginRequest{Email: "ada@example.com", Password: "engine1"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, resp.UserID)
	assert.NotEmpty(t, resp.Token)

	_, err = f.service.Login(ctx, &user.LoginRequest{Email: "ada@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)

	_, err = f.service.Login(ctx, &user.LoginRequest{Email: "nobody@example.com", Password: "engine1"})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestRegisterRejectsDuplicatesAndBadInput(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.register(t, "ada@example.com", "engine1")

	_, err := f.service.Register(ctx, &user.RegisterRequest{FirstName: "A", LastName: "B", Email: "ADA@example.com", Password: "engine1"})
	assert.ErrorIs(t, err, user.ErrEmailTaken)

	_, err = f.service.Register(ctx, &user.RegisterRequest{FirstName: "A", LastName: "B", Email: "not-an-email", Password: "engine1"})
	assert.ErrorIs(t, err, user.ErrInvalidInput)

	_, err = f.service.Register(ctx, &user.RegisterRequest{FirstName: "A", LastName: "B", Email: "b@example.com", Password: "abc"})
	assert.ErrorIs(t, err, user.ErrInvalidInput)

	_, err = f.service.Register(ctx, &user.RegisterRequest{FirstName: " ", LastName: "B", Email: "c@example.com", Password: "engine1"})
	assert.ErrorIs(t, err, user.ErrInvalidInput)
}

func TestUpdateProfile(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	u := f.register(t, "ada@example.com", "engine1")

	first := "Augusta"
	updated, err := f.service.UpdateProfile(ctx, u.ID, &user.UpdateProfileRequest{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Augusta Lovelace", updated.GetFullName())

	empty := ""
	_, err = f.service.UpdateProfile(ctx, u.ID, &user.UpdateProfileRequest{LastName: &empty})
	assert.ErrorIs(t, err, user.ErrInvalidInput)

	_, err = f.service.UpdateProfile(ctx, 999, &user.UpdateProfileRequest{FirstName: &first})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestPasswordResetFlow(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.register(t, "ada@example.com", "engine1")

	f.service.ForgotPassword(ctx, "nobody@example.com")
	assert.Empty(t, f.mailer.tokens)

	f.service.ForgotPassword(ctx, "ada@example.com")
	token := f.mailer.tokens["ada@example.com"]
	require.NotEmpty(t, token)

	require.NoError(t, f.service.ResetPassword(ctx, token, "analytic2"))
	assert.ErrorIs(t, f.service.ResetPassword(ctx, token, "analytic3"), user.ErrInvalidResetToken, "tokens are single use")

	_, err := f.service.Login(ctx, &user.LoginRequest{Email: "ada@example.com", Password: "analytic2"})
	require.NoError(t, err)
}

func TestMemoryResetTokenExpiry(t *testing.T) {
	store := user.NewMemoryResetTokenStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "t1", 7, -time.Second))
	_, err := store.Consume(ctx, "t1")
	assert.ErrorIs(t, err, user.ErrInvalidResetToken)

	require.NoError(t, store.Save(ctx, "t2", 7, time.Minute))
	id, err := store.Consume(ctx, "t2")
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)
}
