package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nishantmakwanaa/clothing-store/internal/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis answers INCR, TTL and EXPIRE from memory through a client hook,
// so no server is dialed
type fakeRedis struct {
	mu         sync.Mutex
	counts     map[string]int64
	ttls       map[string]time.Duration
	failExpire bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{counts: make(map[string]int64), ttls: make(map[string]time.Duration)}
}

func (f *fakeRedis) client(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	rdb.AddHook(f)
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func (f *fakeRedis) setFailExpire(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failExpire = v
}

func (f *fakeRedis) ttl(key string) (time.Duration, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.ttls[key]
	return d, ok
}

// elapse drops every key that has a TTL, as if the window ran out
func (f *fakeRedis) elapse() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key := range f.ttls {
		delete(f.counts, key)
		delete(f.ttls, key)
	}
}

func (f *fakeRedis) DialHook(next redis.DialHook) redis.DialHook { return next }

func (f *fakeRedis) ProcessHook(redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, cmd redis.Cmder) error {
		return f.apply(cmd)
	}
}

func (f *fakeRedis) ProcessPipelineHook(redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(_ context.Context, cmds []redis.Cmder) error {
		for _, cmd := range cmds {
			if err := f.apply(cmd); err != nil {
				return err
			}
		}
		return nil
	}
}

func (f *fakeRedis) apply(cmd redis.Cmder) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	name := cmd.Name()
	if name == "multi" || name == "exec" {
		return nil
	}
	key, _ := cmd.Args()[1].(string)

	switch name {
	case "incr":
		f.counts[key]++
		cmd.(*redis.IntCmd).SetVal(f.counts[key])
	case "ttl":
		d, hasTTL := f.ttls[key]
		_, exists := f.counts[key]
		switch {
		case !exists:
			d = -2
		case !hasTTL:
			d = -1
		}
		cmd.(*redis.DurationCmd).SetVal(d)
	case "expire":
		if f.failExpire {
			err := errors.New("READONLY You can't write against a read only replica")
			cmd.SetErr(err)
			return err
		}
		f.ttls[key] = time.Duration(cmd.Args()[2].(int64)) * time.Second
		cmd.(*redis.BoolCmd).SetVal(true)
	default:
		return fmt.Errorf("unexpected command %q", name)
	}
	return nil
}

func TestRateLimitWindow(t *testing.T) {
	fake := newFakeRedis()
	r := gin.New()
	r.Use(RateLimit(2, fake.client(t), logger.Discard()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	key := "rate_limit:192.0.2.1"

	w := perform(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
	ttl, ok := fake.ttl(key)
	require.True(t, ok)
	assert.Equal(t, time.Minute, ttl)

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/", "").Code)
	w = perform(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	fake.elapse()
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/", "").Code)
}

func TestRateLimitRepairsMissingExpiry(t *testing.T) {
	fake := newFakeRedis()
	r := gin.New()
	r.Use(RateLimit(1, fake.client(t), logger.Discard()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	key := "rate_limit:192.0.2.1"

	fake.setFailExpire(true)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/", "").Code)
	_, ok := fake.ttl(key)
	require.False(t, ok, "first expire was lost")

	fake.setFailExpire(false)
	assert.Equal(t, http.StatusTooManyRequests, perform(r, http.MethodGet, "/", "").Code)
	ttl, ok := fake.ttl(key)
	require.True(t, ok, "a later request sets the missing window")
	assert.Equal(t, time.Minute, ttl)

	fake.elapse()
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/", "").Code)
}
