package index

import (
	"fmt"
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/h200-index/internal/config"
	"github.com/sells-group/h200-index/internal/model"
)

// Verdict is the validator's judgment on a computed cycle.
type Verdict struct {
	Outcome  model.Outcome
	Warnings []string

	// OutOfRange lists providers whose effective price fell outside the
	// sanity band. The orchestrator excludes them and recomputes once.
	OutOfRange []string
}

// Validator runs the pre-publication sanity checks: absolute price
// band, deviation from recent history, and a defense-in-depth re-check
// of the weight-sum invariant.
type Validator struct {
	cfg config.IndexConfig
}

// NewValidator creates a Validator with the given thresholds.
func NewValidator(cfg config.IndexConfig) *Validator {
	return &Validator{cfg: cfg}
}

// Validate inspects a computed result against history. A breach of the
// weight-sum invariant is fatal and returned as an error; every other
// finding downgrades the cycle to Flagged rather than blocking it.
func (v *Validator) Validate(agg *AggregateResult, weights []model.ProviderWeight, history []model.HistoryPoint) (*Verdict, error) {
	var sum float64
	for _, w := range weights {
		sum += w.FinalWeight
	}
	if math.Abs(sum-1) > weightTolerance {
		return nil, eris.Wrapf(ErrWeightNormalization, "validator: weights sum to %.12f", sum)
	}

	verdict := &Verdict{Outcome: model.OutcomePublished}

	for _, c := range agg.Contributions {
		if c.EffectivePrice <= 0 || c.EffectivePrice >= v.cfg.PriceCeilingUSD {
			verdict.Outcome = model.OutcomeFlagged
			verdict.OutOfRange = append(verdict.OutOfRange, c.Provider)
			verdict.Warnings = append(verdict.Warnings,
				fmt.Sprintf("%s: %s at $%.4f/hr (band %.2f-%.2f)",
					model.WarnPriceOutOfRange, c.Provider, c.EffectivePrice,
					v.cfg.PriceFloorUSD, v.cfg.PriceCeilingUSD))
			zap.L().Warn("validate: effective price out of range",
				zap.String("provider", c.Provider),
				zap.Float64("price", c.EffectivePrice),
			)
		}
	}

	if warn := v.checkDeviation(agg.IndexValue, history); warn != "" {
		verdict.Outcome = model.OutcomeFlagged
		verdict.Warnings = append(verdict.Warnings, warn)
	}

	return verdict, nil
}

// checkDeviation compares the new index value against the mean of up to
// the last two published values. No history means a first-ever cycle;
// the check is skipped.
func (v *Validator) checkDeviation(current float64, history []model.HistoryPoint) string {
	depth := v.cfg.HistoryDepth
	if depth <= 0 {
		depth = 2
	}
	if len(history) == 0 {
		return ""
	}
	if len(history) > depth {
		history = history[:depth]
	}

	var prev float64
	for _, h := range history {
		prev += h.IndexValue
	}
	prev /= float64(len(history))
	if prev == 0 {
		return ""
	}

	deviation := math.Abs(current-prev) / prev
	if deviation <= v.cfg.DeviationThreshold {
		return ""
	}

	zap.L().Warn("validate: historical deviation exceeded",
		zap.Float64("current", current),
		zap.Float64("reference", prev),
		zap.Float64("deviation", deviation),
		zap.Float64("threshold", v.cfg.DeviationThreshold),
	)
	return fmt.Sprintf("%s: %.4f deviates %.1f%% from %.4f (threshold %.0f%%)",
		model.WarnHistoricalDeviation, current, deviation*100, prev,
		v.cfg.DeviationThreshold*100)
}
