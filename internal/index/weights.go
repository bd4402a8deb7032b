package index

import (
	"fmt"
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/h200-index/internal/model"
)

// WeightParams are the fixed tier weights. They must sum to 1.
type WeightParams struct {
	HyperscalerWeight float64
	NeocloudWeight    float64
}

// WeightResult is the output of the weight calculator: one final
// normalized weight per valid-observation provider, plus the audit
// trail of redistribution events and informational warnings.
type WeightResult struct {
	Weights  []model.ProviderWeight
	Events   []model.RedistributionEvent
	Warnings []string
}

// ComputeWeights derives final normalized weights for the providers in
// valid. Intra-tier shares are revenue-proportional over ALL registered
// providers in the tier; tier weight mass is preserved by renormalizing
// over the observed subset, and an entirely unobserved tier hands its
// mass to the other tier. Postcondition: weights sum to 1 within 1e-9.
func ComputeWeights(providers []model.Provider, valid map[string]bool, excludedReasons map[string]string, params WeightParams) (*WeightResult, error) {
	if math.Abs(params.HyperscalerWeight+params.NeocloudWeight-1) > weightTolerance {
		return nil, eris.Wrapf(ErrPrecondition, "tier weights %v + %v do not sum to 1",
			params.HyperscalerWeight, params.NeocloudWeight)
	}

	res := &WeightResult{}

	tiers := []model.Tier{model.TierHyperscaler, model.TierNeocloud}
	tierWeight := map[model.Tier]float64{
		model.TierHyperscaler: params.HyperscalerWeight,
		model.TierNeocloud:    params.NeocloudWeight,
	}

	byTier := make(map[model.Tier][]model.Provider)
	for _, p := range providers {
		byTier[p.Tier] = append(byTier[p.Tier], p)
	}

	// Raw revenue shares within each tier, over all registered
	// providers (not only those observed this cycle).
	rawShare := make(map[string]float64, len(providers))
	validInTier := make(map[model.Tier]int)
	for _, tier := range tiers {
		members := byTier[tier]

		var total float64
		for _, p := range members {
			if p.QuarterlyRevenueUSD == nil {
				res.Warnings = append(res.Warnings,
					fmt.Sprintf("%s: %s", model.WarnRevenueUnknown, p.Name))
				zap.L().Info("weights: revenue unknown, share 0",
					zap.String("provider", p.Name))
				continue
			}
			total += *p.QuarterlyRevenueUSD
		}

		for _, p := range members {
			switch {
			case total > 0 && p.QuarterlyRevenueUSD != nil:
				rawShare[p.Name] = *p.QuarterlyRevenueUSD / total
			case total == 0:
				// Equal-share fallback when the tier's registered
				// revenue sums to zero.
				rawShare[p.Name] = 1 / float64(len(members))
			default:
				rawShare[p.Name] = 0
			}
			if valid[p.Name] {
				validInTier[tier]++
			}
		}
	}

	// Cross-tier redistribution: an entirely unobserved tier hands its
	// weight mass to the other tier rather than silently dropping it.
	effWeight := map[model.Tier]float64{}
	for _, tier := range tiers {
		effWeight[tier] = tierWeight[tier]
	}
	if validInTier[model.TierHyperscaler] == 0 && validInTier[model.TierNeocloud] == 0 {
		return nil, eris.Wrap(ErrNoValidObservations, "weights")
	}
	for i, tier := range tiers {
		other := tiers[1-i]
		if validInTier[tier] == 0 && effWeight[tier] > 0 {
			amount := effWeight[tier]
			effWeight[other] += amount
			effWeight[tier] = 0
			res.Events = append(res.Events, model.RedistributionEvent{
				From:   string(tier),
				To:     string(other),
				Reason: model.RedistributeCrossTier,
				Amount: amount,
			})
			zap.L().Warn("weights: cross-tier redistribution",
				zap.String("from_tier", string(tier)),
				zap.String("to_tier", string(other)),
				zap.Float64("amount", amount),
			)
		}
	}

	// Final weights: tier weight renormalized over the valid subset.
	for _, tier := range tiers {
		members := byTier[tier]
		if validInTier[tier] == 0 {
			continue
		}

		var validShareSum float64
		for _, p := range members {
			if valid[p.Name] {
				validShareSum += rawShare[p.Name]
			}
		}

		for _, p := range members {
			if !valid[p.Name] {
				// Tier mass is preserved: the absent provider's nominal
				// weight is spread over the observed subset.
				if share := rawShare[p.Name]; share > 0 {
					reason := model.RedistributeMissingProvider
					if r, ok := excludedReasons[p.Name]; ok {
						reason = r
					}
					res.Events = append(res.Events, model.RedistributionEvent{
						From:   p.Name,
						To:     string(tier),
						Reason: reason,
						Amount: effWeight[tier] * share,
					})
				}
				continue
			}

			var final float64
			if validShareSum > 0 {
				final = effWeight[tier] * rawShare[p.Name] / validShareSum
			} else {
				// Every observed provider in the tier has share 0
				// (zero or unknown revenue): split the tier equally.
				final = effWeight[tier] / float64(validInTier[tier])
			}

			res.Weights = append(res.Weights, model.ProviderWeight{
				Provider:    p.Name,
				Tier:        tier,
				TierWeight:  effWeight[tier],
				RawShare:    rawShare[p.Name],
				FinalWeight: final,
			})
		}
	}

	var sum float64
	for _, w := range res.Weights {
		sum += w.FinalWeight
	}
	if math.Abs(sum-1) > weightTolerance {
		return nil, eris.Wrapf(ErrWeightNormalization, "final weights sum to %.12f", sum)
	}

	return res, nil
}
