package model

// Tier classifies a provider for weighting purposes.
type Tier string

const (
	TierHyperscaler Tier = "hyperscaler"
	TierNeocloud    Tier = "neocloud"
)

// DiscountConfig models the enterprise discount blend applied to a
// hyperscaler's list price: DiscountedFraction of volume at
// Rate off list, the remainder at full list price.
type DiscountConfig struct {
	Rate               float64 `json:"rate" yaml:"rate"`
	DiscountedFraction float64 `json:"discounted_fraction" yaml:"discounted_fraction"`
}

// Provider is one entry in the registry catalog. Immutable for the
// duration of a cycle.
type Provider struct {
	Name string `json:"name" yaml:"name"`
	Tier Tier   `json:"tier" yaml:"tier"`

	// QuarterlyRevenueUSD is the estimated quarterly GPU revenue used
	// for intra-tier weighting. nil means unknown (share 0, logged);
	// an explicit 0 also yields share 0 but is not flagged.
	QuarterlyRevenueUSD *float64 `json:"quarterly_revenue_usd" yaml:"quarterly_revenue_usd"`

	// Discount is required for hyperscalers and must be absent for
	// neoclouds.
	Discount *DiscountConfig `json:"discount,omitempty" yaml:"discount,omitempty"`

	// PricingURL is the public pricing page scraped for live prices.
	PricingURL string `json:"pricing_url,omitempty" yaml:"pricing_url,omitempty"`

	// FallbackPriceUSD is the last-known H200 list price, used when
	// every live strategy fails. 0 disables the fallback.
	FallbackPriceUSD float64 `json:"fallback_price_usd,omitempty" yaml:"fallback_price_usd,omitempty"`
}

// IsHyperscaler reports whether the provider is in the hyperscaler tier.
func (p Provider) IsHyperscaler() bool { return p.Tier == TierHyperscaler }
