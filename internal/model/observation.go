package model

import "time"

// ObservationStatus describes the outcome of collecting one provider's
// price for a cycle.
type ObservationStatus string

const (
	ObservationValid   ObservationStatus = "valid"
	ObservationMissing ObservationStatus = "missing"
	ObservationInvalid ObservationStatus = "invalid"
)

// PriceObservation is one provider's per-GPU-hour list price for one
// cycle. Created once by the observation source, never mutated.
type PriceObservation struct {
	Provider        string            `json:"provider"`
	Status          ObservationStatus `json:"status"`
	PriceUSDPerHour float64           `json:"price_usd_per_hour,omitempty"`
	Source          string            `json:"source,omitempty"` // strategy that produced the price
	ObservedAt      time.Time         `json:"observed_at"`
}

// EffectivePrice is a provider's price after the tier-appropriate
// adjustment: discount blend for hyperscalers, pass-through for
// neoclouds.
type EffectivePrice struct {
	Provider       string  `json:"provider"`
	Tier           Tier    `json:"tier"`
	ListPrice      float64 `json:"list_price"`
	EffectivePrice float64 `json:"effective_price"`
	DiscountRate   float64 `json:"discount_rate,omitempty"`
}

// ProviderWeight is a provider's final normalized weight with the
// intermediate shares retained for the audit trail.
type ProviderWeight struct {
	Provider    string  `json:"provider"`
	Tier        Tier    `json:"tier"`
	TierWeight  float64 `json:"tier_weight"`
	RawShare    float64 `json:"raw_share"`
	FinalWeight float64 `json:"final_weight"`
}
