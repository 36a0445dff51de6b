package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propertyops/billback/internal/domain/refdata"
	"github.com/propertyops/billback/internal/domain/shared"
)

type countingProvider struct {
	employees      []refdata.Employee
	fetchedCounter int
	fail           bool
}

func (p *countingProvider) FetchEmployees(ctx context.Context) ([]refdata.Employee, error) {
	if p.fail {
		return nil, errors.New("upstream unavailable")
	}
	p.fetchedCounter++
	return p.employees, nil
}

func (p *countingProvider) FetchProperties(ctx context.Context) ([]refdata.Property, error) {
	return []refdata.Property{}, nil
}

func (p *countingProvider) FetchPropertyGroups(ctx context.Context) ([]refdata.PropertyGroup, error) {
	return []refdata.PropertyGroup{}, nil
}

func (p *countingProvider) FetchBillingAccounts(ctx context.Context) ([]refdata.BillingAccount, error) {
	return []refdata.BillingAccount{}, nil
}

func newCachedProvider(t *testing.T) (*CachingProvider, *countingProvider, *InMemorySnapshotStore) {
	t.Helper()

	inner := &countingProvider{
		employees: []refdata.Employee{
			{BaseEntity: shared.NewBaseEntity(), Name: "Jane Smith", Rate: decimal.NewFromInt(20)},
		},
	}
	store := NewInMemorySnapshotStore()
	t.Cleanup(func() { _ = store.Close() })

	return NewCachingProvider(inner, store, nil), inner, store
}

func TestCachingProvider_SecondFetchServedFromCache(t *testing.T) {
	provider, inner, _ := newCachedProvider(t)
	ctx := context.Background()

	first, err := provider.FetchEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := provider.FetchEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, second, 1)

	assert.Equal(t, 1, inner.fetchedCounter)
	assert.Equal(t, "Jane Smith", second[0].Name)
	assert.True(t, second[0].Rate.Equal(decimal.NewFromInt(20)))
}

func TestCachingProvider_InvalidateForcesRefetch(t *testing.T) {
	provider, inner, _ := newCachedProvider(t)
	ctx := context.Background()

	_, err := provider.FetchEmployees(ctx)
	require.NoError(t, err)

	require.NoError(t, provider.Invalidate(ctx))

	_, err = provider.FetchEmployees(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.fetchedCounter)
}

func TestCachingProvider_UpstreamErrorPropagates(t *testing.T) {
	provider, inner, _ := newCachedProvider(t)
	inner.fail = true

	_, err := provider.FetchEmployees(context.Background())
	assert.Error(t, err)
}

func TestCachingProvider_CorruptEntryFallsThrough(t *testing.T) {
	provider, inner, store := newCachedProvider(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, keyEmployees, []byte("not json")))

	employees, err := provider.FetchEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, employees, 1)
	assert.Equal(t, 1, inner.fetchedCounter)
}
