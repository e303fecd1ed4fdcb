package services

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process KeyValueStore used by tests and by local
// development without a Redis instance. Semantics mirror RedisService:
// lists keep insertion order, RemoveFromList drops every occurrence,
// expired keys read as absent.
type MemoryStore struct {
	mu     sync.Mutex
	lists  map[string][]string
	values map[string]memoryValue
	hashes map[string]map[string]string
}

type memoryValue struct {
	data      string
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		lists:  make(map[string][]string),
		values: make(map[string]memoryValue),
		hashes: make(map[string]map[string]string),
	}
}

func (ms *MemoryStore) PushToList(_ context.Context, key, value string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.lists[key] = append(ms.lists[key], value)
	return nil
}

func (ms *MemoryStore) ListRange(_ context.Context, key string) ([]string, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	values := make([]string, len(ms.lists[key]))
	copy(values, ms.lists[key])
	return values, nil
}

func (ms *MemoryStore) RemoveFromList(_ context.Context, key, value string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	kept := ms.lists[key][:0]
	for _, v := range ms.lists[key] {
		if v != value {
			kept = append(kept, v)
		}
	}
	ms.lists[key] = kept
	return nil
}

func (ms *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	entry := memoryValue{data: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	ms.values[key] = entry
	return nil
}

func (ms *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	entry, ok := ms.values[key]
	if !ok {
		return "", false, nil
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(ms.values, key)
		return "", false, nil
	}
	return entry.data, true, nil
}

func (ms *MemoryStore) Delete(_ context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.values, key)
	delete(ms.hashes, key)
	delete(ms.lists, key)
	return nil
}

func (ms *MemoryStore) HashSet(_ context.Context, key, field, value string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.hashes[key] == nil {
		ms.hashes[key] = make(map[string]string)
	}
	ms.hashes[key][field] = value
	return nil
}

func (ms *MemoryStore) HashDelete(_ context.Context, key, field string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.hashes[key], field)
	return nil
}

func (ms *MemoryStore) HashGetAll(_ context.Context, key string) (map[string]string, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	fields := make(map[string]string, len(ms.hashes[key]))
	for field, value := range ms.hashes[key] {
		fields[field] = value
	}
	return fields, nil
}
