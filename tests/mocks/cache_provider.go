package mocks

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Anycrabs/telegram-masters-bot/internal/domain/providers"
)

// MockCacheProvider is an in-memory CacheProvider
type MockCacheProvider struct {
	mu      sync.RWMutex
	data    map[string][]byte
	deleted []string
	sets    int

	// FailWith makes every call return this error when set
	FailWith error
}

// NewMockCacheProvider creates an empty in-memory cache
func NewMockCacheProvider() *MockCacheProvider {
	return &MockCacheProvider{data: make(map[string][]byte)}
}

var _ providers.CacheProvider = (*MockCacheProvider)(nil)

func (m *MockCacheProvider) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	if val, ok := m.data[key]; ok {
		return val, nil
	}
	return nil, fmt.Errorf("%w: %s", providers.ErrCacheMiss, key)
}

func (m *MockCacheProvider) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	m.data[key] = value
	m.sets++
	return nil
}

func (m *MockCacheProvider) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	delete(m.data, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *MockCacheProvider) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FailWith != nil {
		return false, m.FailWith
	}
	_, ok := m.data[key]
	return ok, nil
}

// Has reports whether key is currently cached
func (m *MockCacheProvider) Has(key string) bool {
	ok, err := m.Exists(context.Background(), key)
	return err == nil && ok
}

// Deleted returns the keys passed to Delete, in call order
func (m *MockCacheProvider) Deleted() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.deleted...)
}

// Sets returns how many values were stored
func (m *MockCacheProvider) Sets() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sets
}

// ErrCacheDown is a convenience failure for FailWith
var ErrCacheDown = errors.New("cache unavailable")
