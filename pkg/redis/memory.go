package redis

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// memoryStore serves the cmdable subset from a map so the portal runs without
// a Redis server. Expiry is checked lazily on read.
type memoryStore struct {
	mu   sync.Mutex
	data map[string]memoryEntry
	now  func() time.Time
}

// NewInMemory returns a Client backed by process memory. State is lost on restart.
func NewInMemory() *Client {
	return &Client{store: newMemoryStore(time.Now)}
}

func newMemoryStore(now func() time.Time) *memoryStore {
	return &memoryStore{data: map[string]memoryEntry{}, now: now}
}

func (m *memoryStore) lookup(key string) (memoryEntry, bool) {
	entry, ok := m.data[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		delete(m.data, key)
		return memoryEntry{}, false
	}
	return entry, true
}

func (m *memoryStore) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *memoryStore) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := memoryEntry{value: formatValue(value)}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.data[key] = entry
	return redis.NewStatusResult("OK", nil)
}

func (m *memoryStore) Get(_ context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.lookup(key)
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(entry.value, nil)
}

func (m *memoryStore) Incr(_ context.Context, key string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, _ := m.lookup(key)
	current := int64(0)
	if entry.value != "" {
		n, err := strconv.ParseInt(entry.value, 10, 64)
		if err != nil {
			return redis.NewIntResult(0, fmt.Errorf("ERR value is not an integer or out of range"))
		}
		current = n
	}
	current++
	entry.value = strconv.FormatInt(current, 10)
	m.data[key] = entry
	return redis.NewIntResult(current, nil)
}

func (m *memoryStore) Expire(_ context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.lookup(key)
	if !ok {
		return redis.NewBoolResult(false, nil)
	}
	entry.expiresAt = m.now().Add(ttl)
	m.data[key] = entry
	return redis.NewBoolResult(true, nil)
}

func (m *memoryStore) Del(_ context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for _, key := range keys {
		if _, ok := m.lookup(key); ok {
			delete(m.data, key)
			removed++
		}
	}
	return redis.NewIntResult(removed, nil)
}

// formatValue mirrors how go-redis writes arguments on the wire.
func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		if v {
			return "1"
		}
		return "0"
	case time.Duration:
		return strconv.FormatInt(v.Nanoseconds(), 10)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(v)
	}
}
