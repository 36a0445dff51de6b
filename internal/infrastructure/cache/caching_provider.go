package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/propertyops/billback/internal/domain/refdata"
)

// Collection keys used by the caching provider
const (
	keyEmployees       = "employees"
	keyProperties      = "properties"
	keyPropertyGroups  = "property_groups"
	keyBillingAccounts = "billing_accounts"
)

// CachingProvider decorates a refdata.Provider with a SnapshotStore.
// Fetches hit the store first and fall through to the inner provider,
// writing the result back on a miss. Store failures degrade to a direct
// fetch rather than failing the request.
type CachingProvider struct {
	inner  refdata.Provider
	store  SnapshotStore
	logger *zap.Logger
}

// NewCachingProvider wraps the given provider with the given store
func NewCachingProvider(inner refdata.Provider, store SnapshotStore, logger *zap.Logger) *CachingProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachingProvider{
		inner:  inner,
		store:  store,
		logger: logger,
	}
}

// FetchEmployees implements refdata.Provider
func (p *CachingProvider) FetchEmployees(ctx context.Context) ([]refdata.Employee, error) {
	return fetchThrough(ctx, p, keyEmployees, p.inner.FetchEmployees)
}

// FetchProperties implements refdata.Provider
func (p *CachingProvider) FetchProperties(ctx context.Context) ([]refdata.Property, error) {
	return fetchThrough(ctx, p, keyProperties, p.inner.FetchProperties)
}

// FetchPropertyGroups implements refdata.Provider
func (p *CachingProvider) FetchPropertyGroups(ctx context.Context) ([]refdata.PropertyGroup, error) {
	return fetchThrough(ctx, p, keyPropertyGroups, p.inner.FetchPropertyGroups)
}

// FetchBillingAccounts implements refdata.Provider
func (p *CachingProvider) FetchBillingAccounts(ctx context.Context) ([]refdata.BillingAccount, error) {
	return fetchThrough(ctx, p, keyBillingAccounts, p.inner.FetchBillingAccounts)
}

// Invalidate drops every cached collection, forcing the next fetch to hit
// the inner provider. Used when reference data is reloaded on demand.
func (p *CachingProvider) Invalidate(ctx context.Context) error {
	return p.store.InvalidateAll(ctx)
}

// fetchThrough is the read-through path shared by all four collections
func fetchThrough[T any](ctx context.Context, p *CachingProvider, key string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	data, err := p.store.Get(ctx, key)
	if err != nil {
		p.logger.Warn("Cache read failed, fetching directly",
			zap.String("key", key),
			zap.Error(err))
	} else if data != nil {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			p.logger.Warn("Corrupt cache entry, fetching directly",
				zap.String("key", key),
				zap.Error(err))
		} else {
			return items, nil
		}
	}

	items, err := fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", key, err)
	}

	if data, err := json.Marshal(items); err == nil {
		if err := p.store.Set(ctx, key, data); err != nil {
			p.logger.Warn("Cache write failed",
				zap.String("key", key),
				zap.Error(err))
		}
	}

	return items, nil
}

var _ refdata.Provider = (*CachingProvider)(nil)
