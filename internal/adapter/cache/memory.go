// Package cache provides an in-process LRU cache whose entries expire after a TTL.
package cache

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// DefaultCapacity is used when NewMemory is given a non-positive capacity
const DefaultCapacity = 128

type entry struct {
	value   any
	expires time.Time
}

// Memory is a concurrency-safe LRU cache with per-entry expiry
type Memory struct {
	mu  sync.Mutex
	lru *simplelru.LRU[string, entry]
	now func() time.Time
}

// NewMemory returns a cache holding at most capacity entries
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	// NewLRU only fails for a non-positive size
	l, _ := simplelru.NewLRU[string, entry](capacity, nil)
	return &Memory{lru: l, now: time.Now}
}

// Get returns the value for key if present and not expired
func (m *Memory) Get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.lru.Get(key)
	if !ok {
		return nil, false
	}
	if !m.now().Before(e.expires) {
		m.lru.Remove(key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for ttl, evicting the least recently used entry when full
func (m *Memory) Set(key string, value any, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lru.Add(key, entry{value: value, expires: m.now().Add(ttl)})
}

// Delete removes key, reporting whether it was present
func (m *Memory) Delete(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lru.Remove(key)
}

// Len returns the number of stored entries, expired ones included until they are touched
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lru.Len()
}
