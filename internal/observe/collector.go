package observe

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/h200-index/internal/model"
)

// Collector fans observation requests out across providers, each
// bounded by its own timeout. Providers share no state, so a slow or
// failing provider never delays the others.
type Collector struct {
	source  Source
	timeout time.Duration
}

// NewCollector creates a Collector. A zero timeout defaults to 30s per
// provider.
func NewCollector(source Source, timeout time.Duration) *Collector {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Collector{source: source, timeout: timeout}
}

// Collect gathers one observation per provider in parallel. A provider
// whose fetch times out is reported as Missing. Collect returns an
// error only when ctx is cancelled before collection completes; partial
// results are discarded in that case.
func (c *Collector) Collect(ctx context.Context, providers []model.Provider) ([]model.PriceObservation, error) {
	observations := make([]model.PriceObservation, len(providers))

	g, gCtx := errgroup.WithContext(ctx)
	for i, p := range providers {
		g.Go(func() error {
			pCtx, cancel := context.WithTimeout(gCtx, c.timeout)
			defer cancel()

			obs := c.source.Observe(pCtx, p)

			// A timeout is indistinguishable from an unreachable
			// provider downstream; both are Missing.
			if pCtx.Err() != nil && obs.Status != model.ObservationValid {
				obs.Status = model.ObservationMissing
			}
			observations[i] = obs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	valid := 0
	for _, o := range observations {
		if o.Status == model.ObservationValid {
			valid++
		}
	}
	zap.L().Info("observe: collection complete",
		zap.Int("providers", len(providers)),
		zap.Int("valid", valid),
	)

	return observations, nil
}
