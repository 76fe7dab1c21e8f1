// Package draftcache holds drafts handed off between the editor UI and the
// review pipeline, keyed by opaque token. Entries carry an explicit TTL and
// are evicted lazily on access; a capacity bound drops the oldest entry on
// overflow. The cache is constructor-injected, never process-global.
package draftcache

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/NeilARaman/Echo/internal/domain"
)

// Cache is the draft handoff contract.
type Cache interface {
	Put(ctx context.Context, draft string) (string, error)
	Get(ctx context.Context, token string) (string, error)
}

type entry struct {
	token     string
	draft     string
	expiresAt time.Time
}

// Memory is an in-process bounded TTL cache.
type Memory struct {
	mu         sync.Mutex
	ttl        time.Duration
	capacity   int
	entries    map[string]*list.Element
	order      *list.List // front = oldest
	now        func() time.Time
	cacheTotal *prometheus.CounterVec
}

// NewMemory creates an in-memory cache. cacheTotal is a counter vec with
// label "result" ("hit"/"miss"/"expired"); nil disables it.
func NewMemory(ttl time.Duration, capacity int, cacheTotal *prometheus.CounterVec) *Memory {
	if capacity <= 0 {
		capacity = 1
	}
	return &Memory{
		ttl:        ttl,
		capacity:   capacity,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		now:        time.Now,
		cacheTotal: cacheTotal,
	}
}

// Put stores a draft and returns its opaque token.
func (m *Memory) Put(_ context.Context, draft string) (string, error) {
	token := uuid.NewString()

	m.mu.Lock()
	defer m.mu.Unlock()

	for m.order.Len() >= m.capacity {
		oldest := m.order.Front()
		if oldest == nil {
			break
		}
		m.removeLocked(oldest)
	}

	el := m.order.PushBack(&entry{
		token:     token,
		draft:     draft,
		expiresAt: m.now().Add(m.ttl),
	})
	m.entries[token] = el
	return token, nil
}

// Get returns the draft for token, evicting it lazily when expired.
// Missing or expired tokens yield domain.ErrDraftNotFound.
func (m *Memory) Get(_ context.Context, token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.entries[token]
	if !ok {
		m.inc("miss")
		return "", domain.ErrDraftNotFound
	}

	e := el.Value.(*entry)
	if m.now().After(e.expiresAt) {
		m.removeLocked(el)
		m.inc("expired")
		return "", domain.ErrDraftNotFound
	}

	m.inc("hit")
	return e.draft, nil
}

func (m *Memory) removeLocked(el *list.Element) {
	e := el.Value.(*entry)
	m.order.Remove(el)
	delete(m.entries, e.token)
}

func (m *Memory) inc(result string) {
	if m.cacheTotal != nil {
		m.cacheTotal.WithLabelValues(result).Inc()
	}
}

// kvStore is the consumer interface for the KV-backed cache.
type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

const kvKeyPrefix = "echo:draft:"

// KV stores drafts in a shared key-value store so handoffs survive process
// restarts. TTL enforcement is delegated to the store.
type KV struct {
	store      kvStore
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
}

// NewKV creates a KV-backed cache.
func NewKV(store kvStore, ttl time.Duration, cacheTotal *prometheus.CounterVec) *KV {
	return &KV{store: store, ttl: ttl, cacheTotal: cacheTotal}
}

// Put stores a draft and returns its opaque token.
func (k *KV) Put(ctx context.Context, draft string) (string, error) {
	token := uuid.NewString()
	if err := k.store.SetWithTTL(ctx, kvKeyPrefix+token, []byte(draft), k.ttl); err != nil {
		return "", fmt.Errorf("store draft: %w", err)
	}
	return token, nil
}

// Get returns the draft for token.
func (k *KV) Get(ctx context.Context, token string) (string, error) {
	data, err := k.store.Get(ctx, kvKeyPrefix+token)
	if err != nil {
		if k.cacheTotal != nil {
			k.cacheTotal.WithLabelValues("miss").Inc()
		}
		return "", domain.ErrDraftNotFound
	}
	if k.cacheTotal != nil {
		k.cacheTotal.WithLabelValues("hit").Inc()
	}
	return string(data), nil
}
