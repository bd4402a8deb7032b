package index

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/h200-index/internal/model"
)

// AggregateResult is the weighted index value with its full
// per-provider breakdown.
type AggregateResult struct {
	IndexValue    float64
	Contributions []model.Contribution

	HyperscalerComponent float64
	NeocloudComponent    float64
	HyperscalerCount     int
	NeocloudCount        int
}

// Aggregate combines effective prices and final weights into the index
// value: Σ(effective price × weight). Pure and deterministic; the
// breakdown is sorted by descending contribution, ties broken by
// provider name.
func Aggregate(prices map[string]model.EffectivePrice, weights []model.ProviderWeight) (*AggregateResult, error) {
	if len(weights) == 0 {
		return nil, eris.Wrap(ErrEmptyInput, "aggregate")
	}

	res := &AggregateResult{
		Contributions: make([]model.Contribution, 0, len(weights)),
	}

	for _, w := range weights {
		price, ok := prices[w.Provider]
		if !ok {
			return nil, eris.Wrapf(ErrPrecondition, "aggregate: no effective price for %q", w.Provider)
		}

		contribution := price.EffectivePrice * w.FinalWeight
		res.IndexValue += contribution

		switch w.Tier {
		case model.TierHyperscaler:
			res.HyperscalerComponent += contribution
			res.HyperscalerCount++
		case model.TierNeocloud:
			res.NeocloudComponent += contribution
			res.NeocloudCount++
		}

		res.Contributions = append(res.Contributions, model.Contribution{
			Provider:       w.Provider,
			Tier:           w.Tier,
			EffectivePrice: price.EffectivePrice,
			Weight:         w.FinalWeight,
			Contribution:   contribution,
		})
	}

	sort.Slice(res.Contributions, func(i, j int) bool {
		a, b := res.Contributions[i], res.Contributions[j]
		if a.Contribution != b.Contribution {
			return a.Contribution > b.Contribution
		}
		return a.Provider < b.Provider
	})

	return res, nil
}
