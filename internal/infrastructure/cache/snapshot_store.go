package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Constants for Redis cache configuration
const (
	defaultScanBatchSize = 100
	defaultSnapshotTTL   = 5 * time.Minute

	keyPrefix = "refdata:"
)

// SnapshotStore stores serialized reference-data collections keyed by
// collection name. A nil byte slice with a nil error means a cache miss.
type SnapshotStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
	InvalidateAll(ctx context.Context) error
	Close() error
}

// RedisSnapshotStore implements SnapshotStore using Redis
type RedisSnapshotStore struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	ttl        time.Duration
	logger     *zap.Logger
}

// RedisSnapshotStoreOption is a functional option for configuring the store
type RedisSnapshotStoreOption func(*RedisSnapshotStore)

// WithSnapshotTTL sets the expiry applied to cached collections
func WithSnapshotTTL(ttl time.Duration) RedisSnapshotStoreOption {
	return func(s *RedisSnapshotStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithStoreLogger sets the logger for the store
func WithStoreLogger(logger *zap.Logger) RedisSnapshotStoreOption {
	return func(s *RedisSnapshotStore) {
		s.logger = logger
	}
}

// NewRedisSnapshotStore creates a Redis-backed snapshot store and verifies
// connectivity before returning.
func NewRedisSnapshotStore(addr, password string, db int, opts ...RedisSnapshotStoreOption) (*RedisSnapshotStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	store := &RedisSnapshotStore{
		client:     client,
		ownsClient: true,
		ttl:        defaultSnapshotTTL,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(store)
	}

	return store, nil
}

// NewRedisSnapshotStoreWithClient creates a store with an existing Redis client.
// Note: The caller retains ownership of the client and is responsible for closing it
func NewRedisSnapshotStoreWithClient(client *redis.Client, opts ...RedisSnapshotStoreOption) *RedisSnapshotStore {
	store := &RedisSnapshotStore{
		client:     client,
		ownsClient: false,
		ttl:        defaultSnapshotTTL,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *RedisSnapshotStore) cacheKey(key string) string {
	return keyPrefix + key
}

// Get retrieves a cached collection. Returns nil, nil on a miss.
func (s *RedisSnapshotStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.cacheKey(key)).Bytes()
	if err == redis.Nil {
		s.logger.Debug("Cache miss for reference data", zap.String("key", key))
		return nil, nil
	}
	if err != nil {
		s.logger.Error("Failed to get reference data from cache",
			zap.String("key", key),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get %s from cache: %w", key, err)
	}

	s.logger.Debug("Cache hit for reference data", zap.String("key", key))
	return data, nil
}

// Set stores a serialized collection under the configured TTL
func (s *RedisSnapshotStore) Set(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, s.cacheKey(key), data, s.ttl).Err(); err != nil {
		s.logger.Error("Failed to cache reference data",
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("failed to cache %s: %w", key, err)
	}

	s.logger.Debug("Cached reference data",
		zap.String("key", key),
		zap.Duration("ttl", s.ttl))
	return nil
}

// InvalidateAll removes every cached reference-data collection
func (s *RedisSnapshotStore) InvalidateAll(ctx context.Context) error {
	// Use SCAN rather than KEYS to avoid blocking Redis
	var cursor uint64
	var deletedCount int64

	for {
		var keys []string
		var err error
		keys, cursor, err = s.client.Scan(ctx, cursor, keyPrefix+"*", defaultScanBatchSize).Result()
		if err != nil {
			s.logger.Error("Failed to scan reference data keys", zap.Error(err))
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}

		if len(keys) > 0 {
			deleted, err := s.client.Del(ctx, keys...).Result()
			if err != nil {
				s.logger.Error("Failed to delete reference data keys", zap.Error(err))
				return fmt.Errorf("failed to delete cache keys: %w", err)
			}
			deletedCount += deleted
		}

		if cursor == 0 {
			break
		}
	}

	s.logger.Info("Invalidated reference data cache",
		zap.Int64("deleted_count", deletedCount))
	return nil
}

// Close releases the Redis client when this store owns it
func (s *RedisSnapshotStore) Close() error {
	if s.ownsClient {
		return s.client.Close()
	}
	return nil
}

var _ SnapshotStore = (*RedisSnapshotStore)(nil)
