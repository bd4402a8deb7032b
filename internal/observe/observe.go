// Package observe collects one per-GPU-hour price observation per
// provider per cycle. Each provider has an ordered chain of strategies
// (live pricing-page scrape, then the registry's static fallback) tried
// until one yields a plausible price.
package observe

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/h200-index/internal/config"
	"github.com/sells-group/h200-index/internal/fetcher"
	"github.com/sells-group/h200-index/internal/model"
)

// errNoPrice signals that a strategy ran cleanly but found no H200
// price. Distinct from transport errors only for logging.
var errNoPrice = eris.New("observe: no price found")

// Strategy is one way of obtaining a provider's price.
type Strategy struct {
	Name string
	Fn   func(ctx context.Context, p model.Provider) (float64, error)
}

// Source yields one PriceObservation per provider. Implementations must
// be safe for concurrent use across providers.
type Source interface {
	Observe(ctx context.Context, p model.Provider) model.PriceObservation
}

// ChainSource tries each strategy in order until one succeeds. A price
// outside the plausibility band yields an Invalid observation; an
// exhausted chain yields Missing.
type ChainSource struct {
	strategies []Strategy
	floor      float64
	ceiling    float64
}

// NewSource builds the production strategy chain from config: live
// scrape (unless disabled) followed by the static fallback.
func NewSource(cfg config.ObserveConfig, idx config.IndexConfig, f fetcher.Fetcher) *ChainSource {
	var strategies []Strategy
	if !cfg.DisableLive {
		strategies = append(strategies, ScrapeStrategy(f))
	}
	strategies = append(strategies, FallbackStrategy())

	return &ChainSource{
		strategies: strategies,
		floor:      idx.PriceFloorUSD,
		ceiling:    idx.PriceCeilingUSD,
	}
}

// NewChainSource builds a source from an explicit strategy list.
func NewChainSource(floor, ceiling float64, strategies ...Strategy) *ChainSource {
	return &ChainSource{strategies: strategies, floor: floor, ceiling: ceiling}
}

// Observe runs the provider's strategy chain and returns the resulting
// observation. It never returns an error: failures degrade to Missing.
func (s *ChainSource) Observe(ctx context.Context, p model.Provider) model.PriceObservation {
	log := zap.L().With(zap.String("provider", p.Name))

	for _, strat := range s.strategies {
		if ctx.Err() != nil {
			break
		}

		price, err := strat.Fn(ctx, p)
		if err != nil {
			if !eris.Is(err, errNoPrice) {
				log.Warn("observe: strategy failed",
					zap.String("strategy", strat.Name),
					zap.Error(err),
				)
			}
			continue
		}

		if price < s.floor || price > s.ceiling {
			log.Warn("observe: price outside plausibility band",
				zap.String("strategy", strat.Name),
				zap.Float64("price", price),
				zap.Float64("floor", s.floor),
				zap.Float64("ceiling", s.ceiling),
			)
			return model.PriceObservation{
				Provider:        p.Name,
				Status:          model.ObservationInvalid,
				PriceUSDPerHour: price,
				Source:          strat.Name,
				ObservedAt:      time.Now().UTC(),
			}
		}

		log.Debug("observe: price found",
			zap.String("strategy", strat.Name),
			zap.Float64("price", price),
		)
		return model.PriceObservation{
			Provider:        p.Name,
			Status:          model.ObservationValid,
			PriceUSDPerHour: price,
			Source:          strat.Name,
			ObservedAt:      time.Now().UTC(),
		}
	}

	return model.PriceObservation{
		Provider:   p.Name,
		Status:     model.ObservationMissing,
		ObservedAt: time.Now().UTC(),
	}
}
