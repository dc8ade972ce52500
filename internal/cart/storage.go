package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	redislib "github.com/aarogyam-agencies/storefront-backend/pkg/redis"
)

// Storage persists the lines of one cart.
type Storage interface {
	Load(ctx context.Context) ([]Line, error)
	Save(ctx context.Context, lines []Line) error
}

// StorageFactory binds a storage implementation to a cart token.
type StorageFactory interface {
	ForToken(token string) Storage
}

type cartStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	CartKey(token string) string
}

// RedisStorageFactory builds token-scoped Redis storage with a shared TTL.
type RedisStorageFactory struct {
	store cartStore
	ttl   time.Duration
}

func NewRedisStorageFactory(store cartStore, ttl time.Duration) (*RedisStorageFactory, error) {
	if store == nil {
		return nil, fmt.Errorf("redis store required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cart ttl must be positive")
	}
	return &RedisStorageFactory{store: store, ttl: ttl}, nil
}

func (f *RedisStorageFactory) ForToken(token string) Storage {
	return &redisStorage{store: f.store, key: f.store.CartKey(token), ttl: f.ttl}
}

// redisStorage keeps the whole cart as one JSON blob under a namespaced key.
// Each save refreshes the TTL, so active carts never expire mid-session.
type redisStorage struct {
	store cartStore
	key   string
	ttl   time.Duration
}

func (r *redisStorage) Load(ctx context.Context) ([]Line, error) {
	raw, err := r.store.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("load cart blob: %w", err)
	}

	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, fmt.Errorf("decode cart blob: %w", err)
	}
	return lines, nil
}

func (r *redisStorage) Save(ctx context.Context, lines []Line) error {
	payload, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart blob: %w", err)
	}
	if err := r.store.Set(ctx, r.key, string(payload), r.ttl); err != nil {
		return fmt.Errorf("store cart blob: %w", err)
	}
	return nil
}

// MemoryStorageFactory keeps carts in process memory. Used in tests and as a
// dev fallback when Redis is not configured.
type MemoryStorageFactory struct {
	mu    sync.Mutex
	carts map[string][]Line
}

func NewMemoryStorageFactory() *MemoryStorageFactory {
	return &MemoryStorageFactory{carts: map[string][]Line{}}
}

func (f *MemoryStorageFactory) ForToken(token string) Storage {
	return &memoryStorage{factory: f, token: token}
}

type memoryStorage struct {
	factory *MemoryStorageFactory
	token   string
}

func (m *memoryStorage) Load(_ context.Context) ([]Line, error) {
	m.factory.mu.Lock()
	defer m.factory.mu.Unlock()

	stored := m.factory.carts[m.token]
	lines := make([]Line, len(stored))
	copy(lines, stored)
	return lines, nil
}

func (m *memoryStorage) Save(_ context.Context, lines []Line) error {
	m.factory.mu.Lock()
	defer m.factory.mu.Unlock()

	stored := make([]Line, len(lines))
	copy(stored, lines)
	m.factory.carts[m.token] = stored
	return nil
}
