package registry

import "github.com/sells-group/h200-index/internal/model"

func rev(usd float64) *float64 { return &usd }

// defaultCatalog is the built-in H200 provider catalog, used when no
// registry file is configured. Revenue figures are quarterly GPU-compute
// estimates in USD; fallback prices are the last manually verified
// on-demand list prices.
func defaultCatalog() []model.Provider {
	return []model.Provider{
		{
			Name:                "AWS",
			Tier:                model.TierHyperscaler,
			QuarterlyRevenueUSD: rev(5_800_000_000),
			Discount:            &model.DiscountConfig{Rate: 0.25, DiscountedFraction: 0.60},
			PricingURL:          "https://aws.amazon.com/ec2/capacityblocks/pricing/",
			FallbackPriceUSD:    2.65,
		},
		{
			Name:                "Azure",
			Tier:                model.TierHyperscaler,
			QuarterlyRevenueUSD: rev(6_200_000_000),
			Discount:            &model.DiscountConfig{Rate: 0.28, DiscountedFraction: 0.65},
			PricingURL:          "https://azure.microsoft.com/en-us/pricing/details/virtual-machines/linux/",
			FallbackPriceUSD:    5.05,
		},
		{
			Name:                "CoreWeave",
			Tier:                model.TierHyperscaler,
			QuarterlyRevenueUSD: rev(1_200_000_000),
			Discount:            &model.DiscountConfig{Rate: 0.15, DiscountedFraction: 0.45},
			PricingURL:          "https://www.coreweave.com/pricing",
			FallbackPriceUSD:    2.57,
		},
		{
			Name:                "Google Cloud",
			Tier:                model.TierHyperscaler,
			QuarterlyRevenueUSD: rev(4_100_000_000),
			Discount:            &model.DiscountConfig{Rate: 0.22, DiscountedFraction: 0.55},
			PricingURL:          "https://cloud.google.com/compute/gpus-pricing",
			FallbackPriceUSD:    4.55,
		},
		{
			Name:                "Oracle",
			Tier:                model.TierHyperscaler,
			QuarterlyRevenueUSD: rev(1_900_000_000),
			Discount:            &model.DiscountConfig{Rate: 0.18, DiscountedFraction: 0.50},
			PricingURL:          "https://www.oracle.com/cloud/compute/pricing/",
			FallbackPriceUSD:    2.92,
		},
		{
			Name:                "Crusoe",
			Tier:                model.TierNeocloud,
			QuarterlyRevenueUSD: rev(150_000_000),
			PricingURL:          "https://www.crusoe.ai/cloud/pricing",
			FallbackPriceUSD:    3.90,
		},
		{
			Name:                "Genesis Cloud",
			Tier:                model.TierNeocloud,
			QuarterlyRevenueUSD: rev(40_000_000),
			PricingURL:          "https://www.genesiscloud.com/pricing",
			FallbackPriceUSD:    3.10,
		},
		{
			Name:                "Hyperbolic",
			Tier:                model.TierNeocloud,
			QuarterlyRevenueUSD: rev(30_000_000),
			PricingURL:          "https://hyperbolic.xyz/pricing",
			FallbackPriceUSD:    2.20,
		},
		{
			Name:                "LeaderGPU",
			Tier:                model.TierNeocloud,
			QuarterlyRevenueUSD: rev(25_000_000),
			PricingURL:          "https://www.leadergpu.com/",
			FallbackPriceUSD:    2.60,
		},
		{
			Name:                "Shadeform",
			Tier:                model.TierNeocloud,
			QuarterlyRevenueUSD: rev(15_000_000),
			PricingURL:          "https://www.shadeform.ai/pricing",
			FallbackPriceUSD:    2.45,
		},
		{
			Name:                "Valdi",
			Tier:                model.TierNeocloud,
			QuarterlyRevenueUSD: rev(12_000_000),
			PricingURL:          "https://www.valdi.ai/pricing",
			FallbackPriceUSD:    2.80,
		},
		{
			Name:                "Verda",
			Tier:                model.TierNeocloud,
			QuarterlyRevenueUSD: rev(20_000_000),
			PricingURL:          "https://verda.com/pricing",
			FallbackPriceUSD:    3.20,
		},
	}
}
