// Package fetch provides a retrying HTTP fetcher and a concurrent scraper.
//
// A Fetcher issues GET requests with a per-attempt timeout, retrying failed
// attempts with exponential backoff (1s, 2s, 4s, ... by default) up to a
// fixed attempt budget. Fetch never returns a Go error: the outcome is a
// tagged Result whose Text method renders the legacy string form, where a
// terminal failure reads "Failed to fetch {url}: {err}".
//
//	f := fetch.New(fetch.WithMaxAttempts(3), fetch.WithAttemptTimeout(5*time.Second))
//	defer f.Close()
//	res := f.Fetch(ctx, "https://example.com")
//	if res.Failed() {
//	    // res.Err holds the last attempt's error
//	}
//
// ScrapeAll fans out one fetch per URL over a shared connection-pooled
// client and collects results keyed by URL:
//
//	bodies := fetch.ScrapeAll(ctx, urls)
package fetch
