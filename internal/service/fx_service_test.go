package service

import (
	"context"
	"errors"
	"testing"

	"github.com/influencerinsights/backend-go/internal/domain"
	"github.com/influencerinsights/backend-go/internal/fx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRatesProvider struct {
	calls       int
	lastBase    string
	lastSymbols string
	rates       *fx.LatestRates
	err         error
}

func (f *fakeRatesProvider) Latest(_ context.Context, base, symbols string) (*fx.LatestRates, error) {
	f.calls++
	f.lastBase = base
	f.lastSymbols = symbols
	if f.err != nil {
		return nil, f.err
	}
	return f.rates, nil
}

type memoryFXCache struct {
	entries map[string]*domain.FXRates
	getErr  error
	setErr  error
}

func newMemoryFXCache() *memoryFXCache {
	return &memoryFXCache{entries: make(map[string]*domain.FXRates)}
}

func (c *memoryFXCache) key(base string, symbols []string) string {
	k := base
	for _, s := range symbols {
		k += ":" + s
	}
	return k
}

func (c *memoryFXCache) GetRates(_ context.Context, base string, symbols []string) (*domain.FXRates, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	rates, ok := c.entries[c.key(base, symbols)]
	if !ok {
		return nil, false, nil
	}
	copied := *rates
	return &copied, true, nil
}

func (c *memoryFXCache) SetRates(_ context.Context, base string, symbols []string, rates *domain.FXRates) error {
	if c.setErr != nil {
		return c.setErr
	}
	copied := *rates
	c.entries[c.key(base, symbols)] = &copied
	return nil
}

func TestGetRatesFetchesAndCaches(t *testing.T) {
	provider := &fakeRatesProvider{rates: &fx.LatestRates{
		Base:  "USD",
		Date:  "2024-05-01",
		Rates: map[string]float64{"ZAR": 18.5, "EUR": 0.92},
	}}
	svc := NewFXService(provider, newMemoryFXCache())

	rates, err := svc.GetRates(context.Background(), "usd", []string{"zar", "eur"})
	require.NoError(t, err)
	assert.Equal(t, "USD", rates.Base)
	assert.Equal(t, 18.5, rates.Rates["ZAR"])
	assert.False(t, rates.Cached)
	assert.Equal(t, fx.Provider, rates.Provider)
	assert.Equal(t, "USD", provider.lastBase)
	assert.Equal(t, "EUR,ZAR", provider.lastSymbols)

	// Second call serves from cache without another fetch.
	again, err := svc.GetRates(context.Background(), "USD", []string{"EUR", "ZAR"})
	require.NoError(t, err)
	assert.True(t, again.Cached)
	assert.Equal(t, 1, provider.calls)
}

func TestGetRatesDefaults(t *testing.T) {
	provider := &fakeRatesProvider{rates: &fx.LatestRates{
		Rates: map[string]float64{"ZAR": 18.5},
	}}
	svc := NewFXService(provider, nil)

	rates, err := svc.GetRates(context.Background(), "", nil)
	require.NoError(t, err)

	assert.Equal(t, "USD", provider.lastBase)
	assert.Equal(t, "EUR,GBP,ZAR", provider.lastSymbols)
	// Provider omitted the base; the requested one stands in.
	assert.Equal(t, "USD", rates.Base)
}

func TestGetRatesNormalizesSymbols(t *testing.T) {
	provider := &fakeRatesProvider{rates: &fx.LatestRates{Base: "USD"}}
	svc := NewFXService(provider, nil)

	rates, err := svc.GetRates(context.Background(), "USD", []string{" zar", "ZAR", "", "eur"})
	require.NoError(t, err)
	assert.Equal(t, "EUR,ZAR", provider.lastSymbols)
	assert.NotNil(t, rates.Rates)
}

func TestGetRatesCacheFailuresAreNonFatal(t *testing.T) {
	provider := &fakeRatesProvider{rates: &fx.LatestRates{
		Base:  "USD",
		Rates: map[string]float64{"ZAR": 18.5},
	}}
	cacheImpl := newMemoryFXCache()
	cacheImpl.getErr = errors.New("redis down")
	cacheImpl.setErr = errors.New("redis down")
	svc := NewFXService(provider, cacheImpl)

	rates, err := svc.GetRates(context.Background(), "USD", []string{"ZAR"})
	require.NoError(t, err)
	assert.Equal(t, 18.5, rates.Rates["ZAR"])
}

func TestGetRatesProviderError(t *testing.T) {
	provider := &fakeRatesProvider{err: errors.New("provider unreachable")}
	svc := NewFXService(provider, nil)

	_, err := svc.GetRates(context.Background(), "USD", []string{"ZAR"})
	assert.Error(t, err)
}
