package index

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/h200-index/internal/model"
	"github.com/sells-group/h200-index/internal/registry"
)

// stubCollector returns a fixed observation per provider name.
type stubCollector struct {
	observations map[string]model.PriceObservation
	err          error
}

func (c *stubCollector) Collect(ctx context.Context, providers []model.Provider) ([]model.PriceObservation, error) {
	if c.err != nil {
		return nil, c.err
	}
	out := make([]model.PriceObservation, 0, len(providers))
	for _, p := range providers {
		obs, ok := c.observations[p.Name]
		if !ok {
			obs = model.PriceObservation{Provider: p.Name, Status: model.ObservationMissing, ObservedAt: time.Now().UTC()}
		}
		out = append(out, obs)
	}
	return out, nil
}

type stubHistory struct {
	points []model.HistoryPoint
	err    error
}

func (h *stubHistory) History(ctx context.Context, n int) ([]model.HistoryPoint, error) {
	if h.err != nil {
		return nil, h.err
	}
	if len(h.points) > n {
		return h.points[:n], nil
	}
	return h.points, nil
}

func validObs(name string, price float64) model.PriceObservation {
	return model.PriceObservation{
		Provider:        name,
		Status:          model.ObservationValid,
		PriceUSDPerHour: price,
		Source:          "static_fallback",
		ObservedAt:      time.Now().UTC(),
	}
}

func testRegistry(t *testing.T) *registry.Snapshot {
	t.Helper()

	a := hyperscaler("A", 0.2, 0.6)
	a.QuarterlyRevenueUSD = revenue(100)
	b := hyperscaler("B", 0.1, 0.5)
	b.QuarterlyRevenueUSD = revenue(300)
	c := neocloud("C")
	c.QuarterlyRevenueUSD = revenue(50)

	snap, err := registry.New("test", []model.Provider{a, b, c})
	require.NoError(t, err)
	return snap
}

func TestRunCycleFullQuorum(t *testing.T) {
	collector := &stubCollector{observations: map[string]model.PriceObservation{
		"A": validObs("A", 10.0),
		"B": validObs("B", 8.0),
		"C": validObs("C", 3.0),
	}}

	orch := NewOrchestrator(testRegistry(t), collector, &stubHistory{}, testIndexConfig())
	result, err := orch.RunCycle(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 6.92, result.IndexValue, 1e-9)
	assert.Equal(t, model.OutcomePublished, result.Outcome)
	assert.Len(t, result.Contributions, 3)
	assert.Empty(t, result.RedistributionEvents)
	assert.Equal(t, 2, result.HyperscalerCount)
	assert.Equal(t, 1, result.NeocloudCount)
	assert.InDelta(t, 6.32, result.HyperscalerComponent, 1e-9)
	assert.InDelta(t, 0.60, result.NeocloudComponent, 1e-9)
	assert.NotEmpty(t, result.ID)
	assert.WithinDuration(t, time.Now().UTC(), result.Timestamp, time.Minute)
}

func TestRunCycleMissingProvider(t *testing.T) {
	collector := &stubCollector{observations: map[string]model.PriceObservation{
		"A": validObs("A", 10.0),
		"C": validObs("C", 3.0),
	}}

	orch := NewOrchestrator(testRegistry(t), collector, &stubHistory{}, testIndexConfig())
	result, err := orch.RunCycle(context.Background())
	require.NoError(t, err)

	// A carries the full hyperscaler weight.
	assert.InDelta(t, 7.64, result.IndexValue, 1e-9)
	assert.Equal(t, model.OutcomePublished, result.Outcome)
	assert.Len(t, result.Contributions, 2)

	require.Len(t, result.RedistributionEvents, 1)
	assert.Equal(t, "B", result.RedistributionEvents[0].From)
	assert.Equal(t, model.RedistributeMissingProvider, result.RedistributionEvents[0].Reason)
}

func TestRunCycleAllMissing(t *testing.T) {
	orch := NewOrchestrator(testRegistry(t), &stubCollector{}, &stubHistory{}, testIndexConfig())
	result, err := orch.RunCycle(context.Background())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, eris.Is(err, ErrNoValidObservations))
}

func TestRunCycleCollectError(t *testing.T) {
	collector := &stubCollector{err: eris.New("collection cancelled")}
	orch := NewOrchestrator(testRegistry(t), collector, &stubHistory{}, testIndexConfig())
	_, err := orch.RunCycle(context.Background())
	require.Error(t, err)
}

func TestRunCycleOutOfRangeRecomputes(t *testing.T) {
	// B's effective price ($95) breaches the $50 ceiling: the cycle
	// flags, excludes B, and recomputes from the remaining providers.
	collector := &stubCollector{observations: map[string]model.PriceObservation{
		"A": validObs("A", 10.0),
		"B": validObs("B", 100.0),
		"C": validObs("C", 3.0),
	}}

	orch := NewOrchestrator(testRegistry(t), collector, &stubHistory{}, testIndexConfig())
	result, err := orch.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.OutcomeFlagged, result.Outcome)
	assert.InDelta(t, 7.64, result.IndexValue, 1e-9)
	assert.Len(t, result.Contributions, 2)
	for _, c := range result.Contributions {
		assert.NotEqual(t, "B", c.Provider)
	}

	// The recomputed weights still sum to 1.
	var sum float64
	for _, c := range result.Contributions {
		sum += c.Weight
	}
	assert.InDelta(t, 1.0, sum, 1e-9)

	// B's exclusion shows up in the audit trail.
	var excluded bool
	for _, ev := range result.RedistributionEvents {
		if ev.From == "B" && ev.Reason == model.RedistributeExcludedProvider {
			excluded = true
		}
	}
	assert.True(t, excluded, "expected a redistribution event for B")

	var warned bool
	for _, w := range result.Warnings {
		if strings.HasPrefix(w, model.WarnPriceOutOfRange) {
			warned = true
		}
	}
	assert.True(t, warned, "expected a PriceOutOfRange warning")
}

func TestRunCycleInvalidObservationExcluded(t *testing.T) {
	obs := map[string]model.PriceObservation{
		"A": validObs("A", 10.0),
		"C": validObs("C", 3.0),
	}
	obs["B"] = model.PriceObservation{
		Provider:        "B",
		Status:          model.ObservationInvalid,
		PriceUSDPerHour: 900,
		Source:          "live_scrape",
		ObservedAt:      time.Now().UTC(),
	}

	orch := NewOrchestrator(testRegistry(t), &stubCollector{observations: obs}, &stubHistory{}, testIndexConfig())
	result, err := orch.RunCycle(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 7.64, result.IndexValue, 1e-9)
	require.Len(t, result.RedistributionEvents, 1)
	assert.Equal(t, model.RedistributeExcludedProvider, result.RedistributionEvents[0].Reason)

	var warned bool
	for _, w := range result.Warnings {
		if strings.HasPrefix(w, model.WarnInvalidObservation) {
			warned = true
		}
	}
	assert.True(t, warned, "expected an InvalidObservation warning")
}

func TestRunCycleInvalidDiscountExcludes(t *testing.T) {
	// B's observation carries a non-positive list price, which the
	// blender rejects. The provider is excluded, not the cycle.
	collector := &stubCollector{observations: map[string]model.PriceObservation{
		"A": validObs("A", 10.0),
		"B": validObs("B", -1.0),
		"C": validObs("C", 3.0),
	}}

	orch := NewOrchestrator(testRegistry(t), collector, &stubHistory{}, testIndexConfig())
	result, err := orch.RunCycle(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 7.64, result.IndexValue, 1e-9)
	var warned bool
	for _, w := range result.Warnings {
		if strings.HasPrefix(w, model.WarnInvalidDiscount) {
			warned = true
		}
	}
	assert.True(t, warned, "expected an InvalidDiscountParameters warning")
}

func TestRunCycleDeviationFlagged(t *testing.T) {
	collector := &stubCollector{observations: map[string]model.PriceObservation{
		"A": validObs("A", 10.0),
		"B": validObs("B", 8.0),
		"C": validObs("C", 3.0),
	}}
	history := &stubHistory{points: []model.HistoryPoint{
		{Timestamp: time.Now().UTC().Add(-time.Hour), IndexValue: 3.0},
		{Timestamp: time.Now().UTC().Add(-2 * time.Hour), IndexValue: 3.2},
	}}

	orch := NewOrchestrator(testRegistry(t), collector, history, testIndexConfig())
	result, err := orch.RunCycle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.OutcomeFlagged, result.Outcome)
	assert.InDelta(t, 6.92, result.IndexValue, 1e-9)
}
