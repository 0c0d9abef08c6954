package service

import (
	"context"
	"sync"
	"time"

	"docquiz/internal/domain"
)

// mockCompletionService returns a canned reply and counts invocations so
// tests can assert the cache actually short-circuited a round trip.
type mockCompletionService struct {
	mu       sync.Mutex
	reply    string
	err      error
	calls    int
	lastSent string
}

func (m *mockCompletionService) Complete(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastSent = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockCompletionService) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockCompletionService) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSent
}

// mockCache is an in-memory domain.Cache.
type mockCache struct {
	mu      sync.Mutex
	entries map[string]string
	getErr  error
	setErr  error
	sets    int
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string]string)}
}

func (m *mockCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	val, ok := m.entries[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return val, nil
}

func (m *mockCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.entries[key] = value
	return nil
}

func (m *mockCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *mockCache) Ping(_ context.Context) error {
	return nil
}
