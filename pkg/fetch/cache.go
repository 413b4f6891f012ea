package fetch

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache holds candidate sets and commits of a run keyed by repository.
// Concurrent requests for the same key are coalesced into one fetch,
// so every caller observes the same result.
// A Cache must not be shared across runs.
type Cache struct {
	candidates *onceMap[*Result]
	commits    *onceMap[*Commit]
}

func NewCache() *Cache {
	return &Cache{
		candidates: newOnceMap[*Result](),
		commits:    newOnceMap[*Commit](),
	}
}

// Get returns the cached result of key or calls fn once to get it.
func (c *Cache) Get(ctx context.Context, key string, fn func(ctx context.Context) (*Result, error)) (*Result, error) {
	return c.candidates.get(ctx, key, fn)
}

func (c *Cache) getCommit(ctx context.Context, key string, fn func(ctx context.Context) (*Commit, error)) (*Commit, error) {
	return c.commits.get(ctx, key, fn)
}

// Len returns the number of cached repositories.
func (c *Cache) Len() int {
	return c.candidates.len()
}

type onceMap[T any] struct {
	group   singleflight.Group
	mutex   sync.Mutex
	results map[string]*cacheEntry[T]
}

type cacheEntry[T any] struct {
	result T
	err    error
}

func newOnceMap[T any]() *onceMap[T] {
	return &onceMap[T]{
		results: map[string]*cacheEntry[T]{},
	}
}

func (m *onceMap[T]) load(key string) (*cacheEntry[T], bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	e, ok := m.results[key]
	return e, ok
}

func (m *onceMap[T]) store(key string, e *cacheEntry[T]) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.results[key] = e
}

func (m *onceMap[T]) get(ctx context.Context, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	if e, ok := m.load(key); ok {
		return e.result, e.err
	}
	v, err, _ := m.group.Do(key, func() (any, error) {
		if e, ok := m.load(key); ok {
			return e.result, e.err
		}
		result, err := fn(ctx)
		m.store(key, &cacheEntry[T]{
			result: result,
			err:    err,
		})
		return result, err
	})
	result, _ := v.(T)
	return result, err //nolint:wrapcheck
}

func (m *onceMap[T]) len() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.results)
}
