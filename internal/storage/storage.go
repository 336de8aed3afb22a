// Package storage holds the durable key-value entries the store mirrors its
// collections into. Each collection lives under its own key as one JSON
// document.
package storage

import (
	"context"
	"sync"
)

type Storage interface {
	// Get returns the payload stored under key; ok is false when the key
	// was never written.
	Get(ctx context.Context, key string) (payload string, ok bool, err error)
	Set(ctx context.Context, key, payload string) error
}

// Memory is an in-process Storage used by tests and throwaway runs.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payload, ok := m.entries[key]
	return payload, ok, nil
}

func (m *Memory) Set(_ context.Context, key, payload string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = payload
	return nil
}
