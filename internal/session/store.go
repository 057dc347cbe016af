package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"studentportal/internal/portal"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Store keeps the signed-in profile per session id.
type Store interface {
	Save(ctx context.Context, id string, p portal.Profile, ttl time.Duration) error
	Load(ctx context.Context, id string) (portal.Profile, error)
	Delete(ctx context.Context, id string) error
}

// Memory is a process-local store for dev and tests.
type Memory struct {
	mu        sync.Mutex
	items     map[string]memoryItem
	lastSweep time.Time
	now       func() time.Time
}

// sweepEvery bounds how often Save prunes expired sessions.
const sweepEvery = time.Minute

type memoryItem struct {
	profile portal.Profile
	expires time.Time
}

func (it memoryItem) expired(now time.Time) bool {
	return !it.expires.IsZero() && !now.Before(it.expires)
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]memoryItem), now: time.Now}
}

func (m *Memory) Save(_ context.Context, id string, p portal.Profile, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if now.Sub(m.lastSweep) >= sweepEvery {
		for key, it := range m.items {
			if it.expired(now) {
				delete(m.items, key)
			}
		}
		m.lastSweep = now
	}
	item := memoryItem{profile: p}
	if ttl > 0 {
		item.expires = now.Add(ttl)
	}
	m.items[id] = item
	return nil
}

func (m *Memory) Load(_ context.Context, id string) (portal.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return portal.Profile{}, ErrNotFound
	}
	if item.expired(m.now()) {
		delete(m.items, id)
		return portal.Profile{}, ErrNotFound
	}
	return item.profile, nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.items, id)
	m.mu.Unlock()
	return nil
}

// Redis stores profiles as JSON strings with a TTL.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis creates a store under keys "<prefix><id>".
func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "portal:session:"
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Save(ctx context.Context, id string, p portal.Profile, ttl time.Duration) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.prefix+id, b, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *Redis) Load(ctx context.Context, id string) (portal.Profile, error) {
	b, err := r.client.Get(ctx, r.prefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return portal.Profile{}, ErrNotFound
		}
		return portal.Profile{}, fmt.Errorf("load session: %w", err)
	}
	var p portal.Profile
	if err := json.Unmarshal(b, &p); err != nil {
		return portal.Profile{}, fmt.Errorf("decode session: %w", err)
	}
	return p, nil
}

func (r *Redis) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, r.prefix+id).Err()
}
