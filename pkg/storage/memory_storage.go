package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStorage keeps artifacts in memory
type MemoryStorage struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewMemoryStorage creates a new memory storage instance
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		data: make(map[string][]byte),
	}
}

// Save stores a copy of data
func (ms *MemoryStorage) Save(ctx context.Context, name string, data []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()

	buf := make([]byte, len(data))
	copy(buf, data)
	ms.data[name] = buf
	return nil
}

// Load retrieves a copy of the stored bytes
func (ms *MemoryStorage) Load(ctx context.Context, name string) ([]byte, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	data, exists := ms.data[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}

func (ms *MemoryStorage) SaveText(ctx context.Context, name, text string) error {
	return ms.Save(ctx, name, []byte(text))
}

func (ms *MemoryStorage) LoadText(ctx context.Context, name string) (string, error) {
	data, err := ms.Load(ctx, name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Delete removes data from memory
func (ms *MemoryStorage) Delete(ctx context.Context, name string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.data, name)
	return nil
}

// Exists checks if a name exists in memory
func (ms *MemoryStorage) Exists(ctx context.Context, name string) (bool, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	_, exists := ms.data[name]
	return exists, nil
}

func (ms *MemoryStorage) List(ctx context.Context) ([]string, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	names := make([]string, 0, len(ms.data))
	for name := range ms.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
