package fetch

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ScrapeAll fetches every URL concurrently over a shared session created
// for the call and released before returning. The result has one entry per
// distinct URL in text form (body, or the formatted failure string); if a
// URL appears twice, the later occurrence wins. An empty input yields an
// empty, non-nil map. Failures never abort sibling fetches.
func ScrapeAll(ctx context.Context, urls []string, opts ...Option) map[string]string {
	f := New(opts...)
	defer f.Close()
	return f.ScrapeAll(ctx, urls)
}

// ScrapeAll is the method form for callers that reuse a Fetcher across calls.
func (f *Fetcher) ScrapeAll(ctx context.Context, urls []string) map[string]string {
	results := f.scrape(ctx, urls)

	bodies := make(map[string]string, len(urls))
	for i, url := range urls {
		bodies[url] = results[i].Text()
	}
	return bodies
}

// ScrapeResults is ScrapeAll with the tagged Result form, for callers that
// want to tell failures apart without string inspection.
func (f *Fetcher) ScrapeResults(ctx context.Context, urls []string) map[string]Result {
	results := f.scrape(ctx, urls)

	out := make(map[string]Result, len(urls))
	for i, url := range urls {
		out[url] = results[i]
	}
	return out
}

// scrape launches one fetch goroutine per URL and waits for all of them.
// One slot per input position keeps the goroutines free of shared state.
func (f *Fetcher) scrape(ctx context.Context, urls []string) []Result {
	results := make([]Result, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			results[i] = f.Fetch(ctx, url)
			return nil
		})
	}

	// Fetch encodes failure in its Result, so no goroutine returns an error
	// and every fetch runs to completion.
	_ = g.Wait()
	return results
}
