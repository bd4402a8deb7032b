package index

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/h200-index/internal/config"
	"github.com/sells-group/h200-index/internal/model"
	"github.com/sells-group/h200-index/internal/registry"
)

// Stage names of the cycle state machine, in execution order.
type Stage string

const (
	StageCollecting  Stage = "collecting"
	StageBlending    Stage = "blending"
	StageWeighting   Stage = "weighting"
	StageAggregating Stage = "aggregating"
	StageValidating  Stage = "validating"
)

// Collector gathers one observation per registered provider.
type Collector interface {
	Collect(ctx context.Context, providers []model.Provider) ([]model.PriceObservation, error)
}

// HistorySource serves the most recent published index values, most
// recent first. Read-only.
type HistorySource interface {
	History(ctx context.Context, n int) ([]model.HistoryPoint, error)
}

// Orchestrator drives one end-to-end computation cycle. It owns every
// derived value (effective prices, weights, the result) for the
// duration of the cycle; the registry snapshot is read-only throughout.
type Orchestrator struct {
	registry  *registry.Snapshot
	collector Collector
	history   HistorySource
	validator *Validator
	cfg       config.IndexConfig
}

// NewOrchestrator wires a cycle orchestrator.
func NewOrchestrator(snap *registry.Snapshot, collector Collector, history HistorySource, cfg config.IndexConfig) *Orchestrator {
	return &Orchestrator{
		registry:  snap,
		collector: collector,
		history:   history,
		validator: NewValidator(cfg),
		cfg:       cfg,
	}
}

// RunCycle executes Collecting → Blending → Weighting → Aggregating →
// Validating and returns a complete IndexResult (Published or Flagged),
// or an error when the cycle fails (no valid observations, cancelled
// collection, or an invariant breach). A failed cycle yields no result.
func (o *Orchestrator) RunCycle(ctx context.Context) (*model.IndexResult, error) {
	log := zap.L().With(zap.String("registry_version", o.registry.Version))
	providers := o.registry.Providers()

	// Collecting. Cancellation here discards any partial observations.
	log.Info("cycle: stage", zap.String("stage", string(StageCollecting)))
	observations, err := o.collector.Collect(ctx, providers)
	if err != nil {
		return nil, eris.Wrap(err, "cycle: collect")
	}

	var warnings []string
	valid := make(map[string]bool, len(providers))
	listPrice := make(map[string]float64, len(providers))
	excludedReasons := make(map[string]string)
	for _, obs := range observations {
		switch obs.Status {
		case model.ObservationValid:
			valid[obs.Provider] = true
			listPrice[obs.Provider] = obs.PriceUSDPerHour
		case model.ObservationInvalid:
			excludedReasons[obs.Provider] = model.RedistributeExcludedProvider
			warnings = append(warnings,
				fmt.Sprintf("%s: %s reported $%.4f/hr", model.WarnInvalidObservation, obs.Provider, obs.PriceUSDPerHour))
		}
	}

	// Blending. A malformed discount config excludes the provider, not
	// the cycle.
	log.Info("cycle: stage", zap.String("stage", string(StageBlending)))
	prices := make(map[string]model.EffectivePrice, len(valid))
	for _, p := range providers {
		if !valid[p.Name] {
			continue
		}
		if p.IsHyperscaler() {
			ep, blendErr := Blend(p, listPrice[p.Name])
			if blendErr != nil {
				if eris.Is(blendErr, ErrInvalidDiscountParameters) {
					delete(valid, p.Name)
					excludedReasons[p.Name] = model.RedistributeExcludedProvider
					warnings = append(warnings,
						fmt.Sprintf("%s: %s", model.WarnInvalidDiscount, p.Name))
					log.Warn("cycle: provider excluded",
						zap.String("provider", p.Name),
						zap.Error(blendErr),
					)
					continue
				}
				return nil, blendErr
			}
			prices[p.Name] = ep
			continue
		}
		prices[p.Name] = PassThrough(p, listPrice[p.Name])
	}

	if len(valid) == 0 {
		return nil, eris.Wrap(ErrNoValidObservations, "cycle")
	}

	// Weighting + Aggregating, reusable for the bounded recomputation.
	compute := func() (*WeightResult, *AggregateResult, error) {
		log.Info("cycle: stage", zap.String("stage", string(StageWeighting)))
		wr, wErr := ComputeWeights(providers, valid, excludedReasons, WeightParams{
			HyperscalerWeight: o.cfg.HyperscalerWeight,
			NeocloudWeight:    o.cfg.NeocloudWeight,
		})
		if wErr != nil {
			return nil, nil, wErr
		}

		log.Info("cycle: stage", zap.String("stage", string(StageAggregating)))
		agg, aErr := Aggregate(prices, wr.Weights)
		if aErr != nil {
			return nil, nil, aErr
		}
		return wr, agg, nil
	}

	wr, agg, err := compute()
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, wr.Warnings...)

	// Validating, with at most one recomputation excluding any
	// out-of-range provider.
	log.Info("cycle: stage", zap.String("stage", string(StageValidating)))
	history, err := o.recentHistory(ctx)
	if err != nil {
		return nil, err
	}

	verdict, err := o.validator.Validate(agg, wr.Weights, history)
	if err != nil {
		return nil, err
	}
	outcome := verdict.Outcome
	warnings = append(warnings, verdict.Warnings...)

	if len(verdict.OutOfRange) > 0 {
		for _, name := range verdict.OutOfRange {
			delete(valid, name)
			delete(prices, name)
			excludedReasons[name] = model.RedistributeExcludedProvider
		}
		if len(valid) == 0 {
			return nil, eris.Wrap(ErrNoValidObservations, "cycle: all providers out of range")
		}

		log.Warn("cycle: recomputing without out-of-range providers",
			zap.Strings("excluded", verdict.OutOfRange))
		wr, agg, err = compute()
		if err != nil {
			return nil, err
		}

		// Re-verify the recomputed weights; further out-of-range
		// findings only add warnings, the recomputation is bounded.
		reVerdict, reErr := o.validator.Validate(agg, wr.Weights, history)
		if reErr != nil {
			return nil, reErr
		}
		warnings = append(warnings, reVerdict.Warnings...)
	}

	result := &model.IndexResult{
		ID:                   uuid.New().String(),
		Timestamp:            time.Now().UTC(),
		IndexValue:           agg.IndexValue,
		Outcome:              outcome,
		Contributions:        agg.Contributions,
		RedistributionEvents: wr.Events,
		Warnings:             warnings,
		HyperscalerComponent: agg.HyperscalerComponent,
		NeocloudComponent:    agg.NeocloudComponent,
		HyperscalerCount:     agg.HyperscalerCount,
		NeocloudCount:        agg.NeocloudCount,
	}

	log.Info("cycle: complete",
		zap.Float64("index_value", result.IndexValue),
		zap.String("outcome", string(result.Outcome)),
		zap.Int("contributions", len(result.Contributions)),
		zap.Int("warnings", len(result.Warnings)),
	)

	return result, nil
}

func (o *Orchestrator) recentHistory(ctx context.Context) ([]model.HistoryPoint, error) {
	if o.history == nil {
		return nil, nil
	}
	depth := o.cfg.HistoryDepth
	if depth <= 0 {
		depth = 2
	}
	points, err := o.history.History(ctx, depth)
	if err != nil {
		return nil, eris.Wrap(err, "cycle: load history")
	}
	return points, nil
}
