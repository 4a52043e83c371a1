package metrics

import "github.com/influencerinsights/backend-go/internal/domain"

// Calculate runs the standalone pricing calculator. Currency conversion is
// layered on by the service when client and creator currencies differ; this
// stage is pure arithmetic over the supplied figures.
func Calculate(in domain.CalculatorInput) domain.CalculatorResult {
	out := domain.CalculatorResult{
		NetCreatorFee: TalentCost(in.QuotedFee, in.AgencyMarginPercent),
	}

	// Expected views follow the caller-selected basis, median by default.
	switch in.ExpectedViewsBasis {
	case domain.BasisAverage:
		out.ExpectedViews = SafeNumber(in.AverageViews)
	default:
		out.ExpectedViews = SafeNumber(in.MedianViews)
	}

	fee := in.QuotedFee
	out.EffectiveCPM = EffectiveCPM(&fee, out.ExpectedViews)

	if out.EffectiveCPM != nil {
		if rate := SafeNumber(in.EngagementRate); rate != nil {
			adjusted := EngagementAdjustedCPM(*out.EffectiveCPM, *rate*100.0)
			out.EngagementAdjCPM = &adjusted
		}
	}

	return out
}
