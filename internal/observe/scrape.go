package observe

import (
	"context"
	"regexp"

	"github.com/rotisserie/eris"

	"github.com/sells-group/h200-index/internal/fetcher"
	"github.com/sells-group/h200-index/internal/model"
)

// priceRe matches a dollar amount following an H200 mention, e.g.
// "H200 SXM ... $3.79/hr". Pricing pages put the amount within a few
// hundred characters of the SKU name.
var priceRe = regexp.MustCompile(`(?is)H200.{0,400}?\$\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)

// tagRe strips HTML tags so the price regex sees rendered text, the
// same way the scrapers match against page text rather than markup.
var (
	tagRe    = regexp.MustCompile(`(?s)<(script|style)[^>]*>.*?</(script|style)>`)
	markupRe = regexp.MustCompile(`<[^>]+>`)
)

// ScrapeStrategy returns the live pricing-page strategy: fetch the
// provider's pricing URL and extract the first H200 dollar figure.
func ScrapeStrategy(f fetcher.Fetcher) Strategy {
	return Strategy{
		Name: "live_scrape",
		Fn: func(ctx context.Context, p model.Provider) (float64, error) {
			if p.PricingURL == "" {
				return 0, errNoPrice
			}

			body, err := f.FetchText(ctx, p.PricingURL)
			if err != nil {
				return 0, eris.Wrapf(err, "observe: fetch %s", p.PricingURL)
			}

			text := markupRe.ReplaceAllString(tagRe.ReplaceAllString(body, " "), " ")
			m := priceRe.FindStringSubmatch(text)
			if m == nil {
				return 0, errNoPrice
			}

			return ParsePrice(m[1])
		},
	}
}

// FallbackStrategy returns the static last-known-price strategy, the
// lowest-priority entry in every chain.
func FallbackStrategy() Strategy {
	return Strategy{
		Name: "static_fallback",
		Fn: func(ctx context.Context, p model.Provider) (float64, error) {
			if p.FallbackPriceUSD <= 0 {
				return 0, errNoPrice
			}
			return p.FallbackPriceUSD, nil
		},
	}
}
