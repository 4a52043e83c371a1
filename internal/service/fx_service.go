package service

import (
	"context"
	"sort"
	"strings"

	"github.com/influencerinsights/backend-go/internal/cache"
	"github.com/influencerinsights/backend-go/internal/domain"
	"github.com/influencerinsights/backend-go/internal/fx"
	"github.com/rs/zerolog/log"
)

var defaultFXSymbols = []string{"ZAR", "EUR", "GBP"}

// RatesProvider is the slice of the fx client the service needs.
type RatesProvider interface {
	Latest(ctx context.Context, base, symbols string) (*fx.LatestRates, error)
}

type FXService struct {
	client RatesProvider
	cache  cache.FXRatesCache
}

func NewFXService(client RatesProvider, cacheImpl cache.FXRatesCache) *FXService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopFXCache()
	}
	return &FXService{client: client, cache: cacheImpl}
}

// GetRates returns cached-or-fresh FX rates for base against symbols.
func (s *FXService) GetRates(ctx context.Context, base string, symbols []string) (*domain.FXRates, error) {
	base = strings.ToUpper(strings.TrimSpace(base))
	if base == "" {
		base = "USD"
	}
	symbols = normalizeSymbols(symbols)

	if rates, ok, err := s.cache.GetRates(ctx, base, symbols); err == nil && ok {
		rates.Cached = true
		return rates, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("fx: cache get failed")
	}

	latest, err := s.client.Latest(ctx, base, strings.Join(symbols, ","))
	if err != nil {
		return nil, err
	}

	rates := &domain.FXRates{
		Base:     latest.Base,
		Date:     latest.Date,
		Rates:    latest.Rates,
		Provider: fx.Provider,
		Cached:   false,
	}
	if rates.Base == "" {
		rates.Base = base
	}
	if rates.Rates == nil {
		rates.Rates = make(map[string]float64)
	}

	if err := s.cache.SetRates(ctx, base, symbols, rates); err != nil {
		log.Warn().Err(err).Msg("fx: cache set failed")
	}

	return rates, nil
}

// normalizeSymbols uppercases, dedupes and sorts so equivalent requests share
// one cache key.
func normalizeSymbols(symbols []string) []string {
	if len(symbols) == 0 {
		return append([]string(nil), defaultFXSymbols...)
	}

	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if len(out) == 0 {
		return append([]string(nil), defaultFXSymbols...)
	}
	sort.Strings(out)
	return out
}
