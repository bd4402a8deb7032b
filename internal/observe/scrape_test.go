package observe

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/h200-index/internal/model"
)

// stubFetcher serves a canned body for any URL.
type stubFetcher struct {
	body string
	err  error
}

func (f *stubFetcher) FetchText(ctx context.Context, url string) (string, error) {
	return f.body, f.err
}

func TestScrapeStrategy(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    float64
		wantErr bool
	}{
		{
			name: "plain text",
			body: "NVIDIA H200 SXM on-demand $3.79/hr per GPU",
			want: 3.79,
		},
		{
			name: "markup between sku and price",
			body: `<tr><td>H200 141GB</td><td class="price"><b>$2.65</b>/hour</td></tr>`,
			want: 2.65,
		},
		{
			name: "thousands separator",
			body: "8x H200 node from $1,850.00 per month... per GPU hour $3.20",
			want: 1850.0,
		},
		{
			name: "space after dollar sign",
			body: "H200: $ 4.55 per GPU-hour",
			want: 4.55,
		},
		{
			name:    "no h200 mention",
			body:    "A100 80GB $1.89/hr",
			wantErr: true,
		},
		{
			name:    "h200 without a price",
			body:    "H200 availability coming soon",
			wantErr: true,
		},
		{
			name:    "script contents ignored",
			body:    `<script>var h200 = {price: "$9.99"};</script><p>H200 pricing on request</p>`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strat := ScrapeStrategy(&stubFetcher{body: tt.body})
			p := model.Provider{Name: "Test", PricingURL: "https://example.com/pricing"}

			got, err := strat.Fn(context.Background(), p)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScrapeStrategyNoURL(t *testing.T) {
	strat := ScrapeStrategy(&stubFetcher{body: "H200 $3.79"})
	_, err := strat.Fn(context.Background(), model.Provider{Name: "Test"})
	assert.True(t, eris.Is(err, errNoPrice))
}

func TestScrapeStrategyFetchError(t *testing.T) {
	strat := ScrapeStrategy(&stubFetcher{err: eris.New("503 after retries")})
	p := model.Provider{Name: "Test", PricingURL: "https://example.com/pricing"}
	_, err := strat.Fn(context.Background(), p)
	require.Error(t, err)
	assert.False(t, eris.Is(err, errNoPrice))
}
