package service

import (
	"context"
	"strings"

	"github.com/influencerinsights/backend-go/internal/domain"
	"github.com/influencerinsights/backend-go/internal/metrics"
	"github.com/rs/zerolog/log"
)

const defaultCurrency = "ZAR"

// CalculatorService runs the standalone pricing calculator and layers FX
// conversion on top of the pure arithmetic when the two currencies differ.
type CalculatorService struct {
	fx *FXService
}

func NewCalculatorService(fxService *FXService) *CalculatorService {
	return &CalculatorService{fx: fxService}
}

func (s *CalculatorService) Calculate(ctx context.Context, in domain.CalculatorInput) domain.CalculatorResult {
	in.ClientCurrency = normalizeCurrency(in.ClientCurrency)
	in.CreatorCurrency = normalizeCurrency(in.CreatorCurrency)

	out := metrics.Calculate(in)

	if in.ClientCurrency == in.CreatorCurrency || s.fx == nil {
		return out
	}

	// FX failure degrades to an unconverted figure rather than failing the
	// whole calculation.
	rates, err := s.fx.GetRates(ctx, in.ClientCurrency, []string{in.CreatorCurrency})
	if err != nil {
		log.Warn().Err(err).
			Str("client_ccy", in.ClientCurrency).
			Str("creator_ccy", in.CreatorCurrency).
			Msg("calculator: fx lookup failed, returning unconverted fee")
		return out
	}

	rate, ok := rates.Rates[in.CreatorCurrency]
	if !ok || rate <= 0 {
		log.Warn().
			Str("creator_ccy", in.CreatorCurrency).
			Msg("calculator: fx rate missing for creator currency")
		return out
	}

	converted := out.NetCreatorFee * rate
	out.NetCreatorFeeCreator = &converted
	out.FXRate = &rate
	return out
}

func normalizeCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return defaultCurrency
	}
	return code
}
