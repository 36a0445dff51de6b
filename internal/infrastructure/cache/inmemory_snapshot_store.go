package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Constants for in-memory cache configuration
const (
	defaultCleanupInterval = 30 * time.Second
)

// InMemorySnapshotStore implements SnapshotStore using in-memory storage.
// It is the fallback when Redis is disabled in configuration.
type InMemorySnapshotStore struct {
	entries sync.Map // map[string]*snapshotEntry
	ttl     time.Duration
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	// Stats for monitoring
	hits   int64
	misses int64
}

// snapshotEntry wraps a cached value with expiration time
type snapshotEntry struct {
	data      []byte
	expiresAt time.Time
}

func (e *snapshotEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemorySnapshotStoreOption is a functional option for configuring the store
type InMemorySnapshotStoreOption func(*InMemorySnapshotStore)

// WithInMemoryTTL sets the expiry applied to cached collections
func WithInMemoryTTL(ttl time.Duration) InMemorySnapshotStoreOption {
	return func(s *InMemorySnapshotStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithInMemoryLogger sets the logger for the store
func WithInMemoryLogger(logger *zap.Logger) InMemorySnapshotStoreOption {
	return func(s *InMemorySnapshotStore) {
		s.logger = logger
	}
}

// NewInMemorySnapshotStore creates a new in-memory snapshot store
func NewInMemorySnapshotStore(opts ...InMemorySnapshotStoreOption) *InMemorySnapshotStore {
	store := &InMemorySnapshotStore{
		ttl:    defaultSnapshotTTL,
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(store)
	}

	go store.cleanupExpired()

	return store
}

// Get retrieves a cached collection. Returns nil, nil on a miss.
func (s *InMemorySnapshotStore) Get(ctx context.Context, key string) ([]byte, error) {
	if value, ok := s.entries.Load(key); ok {
		entry := value.(*snapshotEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&s.hits, 1)
			s.logger.Debug("Cache hit for reference data", zap.String("key", key))
			return entry.data, nil
		}
		s.entries.Delete(key)
	}

	atomic.AddInt64(&s.misses, 1)
	s.logger.Debug("Cache miss for reference data", zap.String("key", key))
	return nil, nil
}

// Set stores a serialized collection under the configured TTL
func (s *InMemorySnapshotStore) Set(ctx context.Context, key string, data []byte) error {
	s.entries.Store(key, &snapshotEntry{
		data:      data,
		expiresAt: time.Now().Add(s.ttl),
	})
	s.logger.Debug("Cached reference data",
		zap.String("key", key),
		zap.Duration("ttl", s.ttl))
	return nil
}

// InvalidateAll removes every cached collection
func (s *InMemorySnapshotStore) InvalidateAll(ctx context.Context) error {
	count := 0
	s.entries.Range(func(key, _ any) bool {
		s.entries.Delete(key)
		count++
		return true
	})
	s.logger.Info("Invalidated reference data cache", zap.Int("deleted_count", count))
	return nil
}

// Close stops the background cleanup goroutine
func (s *InMemorySnapshotStore) Close() error {
	if atomic.CompareAndSwapInt32(&s.stopped, 0, 1) {
		close(s.stopCh)
	}
	return nil
}

// Stats returns hit and miss counters for monitoring
func (s *InMemorySnapshotStore) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&s.hits), atomic.LoadInt64(&s.misses)
}

// cleanupExpired periodically evicts expired entries
func (s *InMemorySnapshotStore) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.entries.Range(func(key, value any) bool {
				if value.(*snapshotEntry).isExpired() {
					s.entries.Delete(key)
				}
				return true
			})
		}
	}
}

var _ SnapshotStore = (*InMemorySnapshotStore)(nil)
