package index

import "github.com/rotisserie/eris"

// Sentinel errors of the index pipeline. Check with eris.Is.
var (
	// ErrInvalidDiscountParameters marks a malformed discount config.
	// Per-provider: the provider is excluded, the cycle continues.
	ErrInvalidDiscountParameters = eris.New("invalid discount parameters")

	// ErrPrecondition marks an internal misuse of the pipeline, such as
	// blending a neocloud. Never surfaced in cycle output.
	ErrPrecondition = eris.New("precondition violation")

	// ErrNoValidObservations means no index can be computed this cycle.
	ErrNoValidObservations = eris.New("no valid observations")

	// ErrWeightNormalization marks a breach of the weight-sum invariant.
	// Always fatal: it means the published numbers would be wrong.
	ErrWeightNormalization = eris.New("weight normalization error")

	// ErrEmptyInput is returned by the aggregator for zero providers.
	ErrEmptyInput = eris.New("empty input")
)

// weightTolerance is the permitted floating-point slack on the
// weight-sum invariant.
const weightTolerance = 1e-9
