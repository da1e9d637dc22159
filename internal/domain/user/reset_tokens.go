// internal/domain/user/reset_tokens.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrInvalidResetToken is returned for unknown, used or expired reset tokens
var ErrInvalidResetToken = errors.New("invalid or expired reset token")

// ResetTokenStore keeps single-use password reset tokens
type ResetTokenStore interface {
	Save(ctx context.Context, token string, userID uint, ttl time.Duration) error
	// Consume returns the user for token and invalidates it
	Consume(ctx context.Context, token string) (uint, error)
}

// RedisResetTokenStore keeps reset tokens in Redis with a TTL
type RedisResetTokenStore struct {
	client *redis.Client
}

// NewRedisResetTokenStore creates a Redis-backed token store
func NewRedisResetTokenStore(client *redis.Client) *RedisResetTokenStore {
	return &RedisResetTokenStore{client: client}
}

func resetKey(token string) string {
	return fmt.Sprintf("password_reset:%s", token)
}

// Save stores the token with expiration
func (s *RedisResetTokenStore) Save(ctx context.Context, token string, userID uint, ttl time.Duration) error {
	return s.client.Set(ctx, resetKey(token), userID, ttl).Err()
}

// Consume atomically reads and deletes the token
func (s *RedisResetTokenStore) Consume(ctx context.Context, token string) (uint, error) {
	val, err := s.client.GetDel(ctx, resetKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrInvalidResetToken
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read reset token: %w", err)
	}

	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, ErrInvalidResetToken
	}
	return uint(id), nil
}

// MemoryResetTokenStore keeps reset tokens in process memory
type MemoryResetTokenStore struct {
	mu     sync.Mutex
	tokens map[string]memoryResetToken
	now    func() time.Time
}

type memoryResetToken struct {
	userID    uint
	expiresAt time.Time
}

// NewMemoryResetTokenStore creates an in-memory token store
func NewMemoryResetTokenStore() *MemoryResetTokenStore {
	return &MemoryResetTokenStore{
		tokens: make(map[string]memoryResetToken),
		now:    time.Now,
	}
}

// Save stores the token with expiration
func (s *MemoryResetTokenStore) Save(ctx context.Context, token string, userID uint, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = memoryResetToken{userID: userID, expiresAt: s.now().Add(ttl)}
	return nil
}

// Consume returns and removes the token if it has not expired
func (s *MemoryResetTokenStore) Consume(ctx context.Context, token string) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.tokens[token]
	if !ok {
		return 0, ErrInvalidResetToken
	}
	delete(s.tokens, token)

	if s.now().After(entry.expiresAt) {
		return 0, ErrInvalidResetToken
	}
	return entry.userID, nil
}
