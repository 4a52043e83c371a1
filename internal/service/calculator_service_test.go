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

func TestCalculateSameCurrencySkipsFX(t *testing.T) {
	provider := &fakeRatesProvider{rates: &fx.LatestRates{Base: "ZAR"}}
	svc := NewCalculatorService(NewFXService(provider, nil))

	out := svc.Calculate(context.Background(), domain.CalculatorInput{
		ClientCurrency:      "zar",
		CreatorCurrency:     "ZAR",
		QuotedFee:           10000,
		AgencyMarginPercent: 30,
		MedianViews:         f64(5000),
	})

	assert.Equal(t, 7000.0, out.NetCreatorFee)
	require.NotNil(t, out.EffectiveCPM)
	assert.Equal(t, 2000.0, *out.EffectiveCPM)
	assert.Nil(t, out.FXRate)
	assert.Nil(t, out.NetCreatorFeeCreator)
	assert.Equal(t, 0, provider.calls)
}

func TestCalculateConvertsAcrossCurrencies(t *testing.T) {
	provider := &fakeRatesProvider{rates: &fx.LatestRates{
		Base:  "USD",
		Rates: map[string]float64{"ZAR": 18.0},
	}}
	svc := NewCalculatorService(NewFXService(provider, nil))

	out := svc.Calculate(context.Background(), domain.CalculatorInput{
		ClientCurrency:      "USD",
		CreatorCurrency:     "ZAR",
		QuotedFee:           1000,
		AgencyMarginPercent: 30,
		MedianViews:         f64(5000),
	})

	assert.Equal(t, 700.0, out.NetCreatorFee)
	require.NotNil(t, out.FXRate)
	assert.Equal(t, 18.0, *out.FXRate)
	require.NotNil(t, out.NetCreatorFeeCreator)
	assert.InDelta(t, 12600.0, *out.NetCreatorFeeCreator, 1e-9)

	assert.Equal(t, "USD", provider.lastBase)
	assert.Equal(t, "ZAR", provider.lastSymbols)
}

func TestCalculateDegradesWhenFXFails(t *testing.T) {
	provider := &fakeRatesProvider{err: errors.New("provider unreachable")}
	svc := NewCalculatorService(NewFXService(provider, nil))

	out := svc.Calculate(context.Background(), domain.CalculatorInput{
		ClientCurrency:      "USD",
		CreatorCurrency:     "ZAR",
		QuotedFee:           1000,
		AgencyMarginPercent: 30,
	})

	assert.Equal(t, 700.0, out.NetCreatorFee)
	assert.Nil(t, out.FXRate)
	assert.Nil(t, out.NetCreatorFeeCreator)
}

func TestCalculateDegradesWhenRateMissing(t *testing.T) {
	provider := &fakeRatesProvider{rates: &fx.LatestRates{
		Base:  "USD",
		Rates: map[string]float64{"EUR": 0.92},
	}}
	svc := NewCalculatorService(NewFXService(provider, nil))

	out := svc.Calculate(context.Background(), domain.CalculatorInput{
		ClientCurrency:  "USD",
		CreatorCurrency: "ZAR",
		QuotedFee:       1000,
	})

	assert.Nil(t, out.FXRate)
	assert.Nil(t, out.NetCreatorFeeCreator)
}

func TestCalculateDefaultsEmptyCurrencies(t *testing.T) {
	provider := &fakeRatesProvider{}
	svc := NewCalculatorService(NewFXService(provider, nil))

	// Both empty collapse to the same default currency, so no FX call.
	out := svc.Calculate(context.Background(), domain.CalculatorInput{
		QuotedFee:           1000,
		AgencyMarginPercent: 30,
	})

	assert.Equal(t, 700.0, out.NetCreatorFee)
	assert.Equal(t, 0, provider.calls)
}
