// Package prefs persists small per-visitor UI preferences.
package prefs

import (
	"context"
	"sync"
	"time"
)

// Store is a string key-value store.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

const (
	platformKeyPrefix   = "platform:"
	reportSentKeyPrefix = "report_sent:"
)

// PlatformKey is where a visitor's selected platform lives.
func PlatformKey(visitorID string) string {
	return platformKeyPrefix + visitorID
}

// ReportSentKey records that a visitor already requested the report for a
// scan.
func ReportSentKey(visitorID, scanID string) string {
	return reportSentKeyPrefix + visitorID + ":" + scanID
}

type memoryEntry struct {
	value   string
	expires time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && now.After(e.expires)
}

// MemoryStore keeps entries in process. Entries older than the TTL read as
// missing; a zero TTL keeps them forever.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return "", false, nil
	}
	now := m.now()
	if !entry.expired(now) {
		return entry.value, true, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// A Set may have replaced the entry since it was read.
	current, ok := m.entries[key]
	if !ok {
		return "", false, nil
	}
	if !current.expired(now) {
		return current.value, true, nil
	}
	delete(m.entries, key)
	return "", false, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	entry := memoryEntry{value: value}
	if m.ttl > 0 {
		entry.expires = m.now().Add(m.ttl)
	}

	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Sweep drops expired entries and reports how many were removed.
func (m *MemoryStore) Sweep() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for key, entry := range m.entries {
		if entry.expired(now) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

// Len is the number of stored entries, expired or not.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
