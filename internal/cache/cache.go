// Package cache stores the arranged front page between article changes.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/newsdesk/newsroom/internal/domain"
	"github.com/newsdesk/newsroom/internal/persistence"
)

// DefaultTTL bounds staleness if an invalidation is missed.
const DefaultTTL = 5 * time.Minute

const (
	frontPageKey  = "newsroom:front-page"
	generationKey = "newsroom:front-page:gen"
)

// FrontPage caches a single arranged front page.
//
// Every Invalidate advances a generation. Callers read Generation before
// loading articles and pass it to Set; a page built from data older than the
// latest Invalidate is then never served, even when Set lands afterwards.
type FrontPage interface {
	Get(ctx context.Context) (*domain.FrontPage, bool)
	Generation(ctx context.Context) (uint64, error)
	Set(ctx context.Context, gen uint64, page *domain.FrontPage) error
	Invalidate(ctx context.Context) error
}

// Memory is an in-process FrontPage cache.
type Memory struct {
	mu      sync.RWMutex
	ttl     time.Duration
	gen     uint64
	page    *domain.FrontPage
	expires time.Time
	now     func() time.Time
}

// NewMemory returns an empty in-process cache.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{ttl: ttl, now: time.Now}
}

func (m *Memory) Get(context.Context) (*domain.FrontPage, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.page == nil || !m.now().Before(m.expires) {
		return nil, false
	}
	return m.page, true
}

func (m *Memory) Generation(context.Context) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gen, nil
}

// Set drops pages built before the current generation.
func (m *Memory) Set(_ context.Context, gen uint64, page *domain.FrontPage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return nil
	}
	m.page = page
	m.expires = m.now().Add(m.ttl)
	return nil
}

func (m *Memory) Invalidate(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.page = nil
	return nil
}

// Redis shares the cached page between replicas. The stored page carries the
// generation it was built at and is ignored once the counter moves on.
type Redis struct {
	client *persistence.Redis
	ttl    time.Duration
}

// NewRedis wraps a connected client.
func NewRedis(client *persistence.Redis, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, ttl: ttl}
}

// Get treats Redis failures as misses.
func (r *Redis) Get(ctx context.Context) (*domain.FrontPage, bool) {
	var stored storedPage
	ok, err := r.client.GetJSON(ctx, frontPageKey, &stored)
	if err != nil || !ok {
		return nil, false
	}
	gen, err := r.client.Counter(ctx, generationKey)
	if err != nil || gen != stored.Generation {
		return nil, false
	}
	return stored.frontPage(), true
}

func (r *Redis) Generation(ctx context.Context) (uint64, error) {
	return r.client.Counter(ctx, generationKey)
}

func (r *Redis) Set(ctx context.Context, gen uint64, page *domain.FrontPage) error {
	stored := newStoredPage(page)
	stored.Generation = gen
	return r.client.SetJSON(ctx, frontPageKey, stored, r.ttl)
}

func (r *Redis) Invalidate(ctx context.Context) error {
	if _, err := r.client.Incr(ctx, generationKey); err != nil {
		return err
	}
	return r.client.Delete(ctx, frontPageKey)
}

// New picks Redis when a client is configured.
func New(client *persistence.Redis, ttl time.Duration) FrontPage {
	if client == nil {
		return NewMemory(ttl)
	}
	return NewRedis(client, ttl)
}
