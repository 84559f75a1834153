package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/bakehouse-dev/baker-scheduling/web/internal/domain"
)

// IdentityCache stores resolved identities keyed by token hash so that not
// every request costs an upstream /auth/me call. A cache failure is always
// treated as a miss, never as an authentication failure.
type IdentityCache interface {
	Get(ctx context.Context, key string) (*domain.User, bool)
	Set(ctx context.Context, key string, user *domain.User)
	Delete(ctx context.Context, key string)
}

// cacheKey derives the cache key from a token. Raw tokens never leave the
// session manager, not even into redis keys.
func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "identity_" + hex.EncodeToString(sum[:])
}

type memoryEntry struct {
	user      *domain.User
	expiresAt time.Time
}

// MemoryCache is a process-local IdentityCache used in tests and as a
// fallback when redis is not configured.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*domain.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}

	clone := *entry.user
	return &clone, true
}

func (c *MemoryCache) Set(_ context.Context, key string, user *domain.User) {
	c.mu.Lock()
	defer c.mu.Unlock()

	clone := *user
	c.entries[key] = memoryEntry{user: &clone, expiresAt: time.Now().Add(c.ttl)}
}

func (c *MemoryCache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}
