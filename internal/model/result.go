package model

import "time"

// Outcome is the terminal state of a cycle.
type Outcome string

const (
	OutcomePublished Outcome = "published"
	OutcomeFlagged   Outcome = "flagged"
	OutcomeFailed    Outcome = "failed"
)

// Warning reasons attached to a flagged cycle.
const (
	WarnPriceOutOfRange      = "PriceOutOfRange"
	WarnHistoricalDeviation  = "HistoricalDeviationExceeded"
	WarnRevenueUnknown       = "RevenueUnknown"
	WarnInvalidDiscount      = "InvalidDiscountParameters"
	WarnInvalidObservation   = "InvalidObservation"
)

// Redistribution event reasons.
const (
	RedistributeMissingProvider  = "ProviderMissing"
	RedistributeExcludedProvider = "ProviderExcluded"
	RedistributeCrossTier        = "CrossTierRedistribution"
)

// Contribution is one provider's share of the index value.
type Contribution struct {
	Provider       string  `json:"provider"`
	Tier           Tier    `json:"tier"`
	EffectivePrice float64 `json:"effective_price"`
	Weight         float64 `json:"weight"`
	Contribution   float64 `json:"contribution"`
}

// RedistributionEvent records weight mass moving from a missing or
// excluded participant to the remaining valid ones.
type RedistributionEvent struct {
	From   string  `json:"from"` // provider name or tier name
	To     string  `json:"to"`
	Reason string  `json:"reason"`
	Amount float64 `json:"amount"`
}

// IndexResult is the record produced by one cycle. Immutable once
// written; superseded, never edited, by the next cycle.
type IndexResult struct {
	ID                   string                `json:"id"`
	Timestamp            time.Time             `json:"timestamp"`
	IndexValue           float64               `json:"index_value"`
	Outcome              Outcome               `json:"outcome"`
	Contributions        []Contribution        `json:"contributions"`
	RedistributionEvents []RedistributionEvent `json:"redistribution_events,omitempty"`
	Warnings             []string              `json:"warnings,omitempty"`

	HyperscalerComponent float64 `json:"hyperscaler_component"`
	NeocloudComponent    float64 `json:"neocloud_component"`
	HyperscalerCount     int     `json:"hyperscaler_count"`
	NeocloudCount        int     `json:"neocloud_count"`
}

// HistoryPoint is one published index value, as served back to the
// validator and the HTTP API. Most recent first in all listings.
type HistoryPoint struct {
	Timestamp  time.Time `json:"timestamp"`
	IndexValue float64   `json:"index_value"`
}
