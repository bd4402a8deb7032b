package fetcher

import "context"

// Fetcher defines the interface for downloading remote pricing pages.
type Fetcher interface {
	// FetchText fetches the URL and returns the response body as text.
	FetchText(ctx context.Context, url string) (string, error)
}
