package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestScrapeAll_EmptyInput(t *testing.T) {
	got := ScrapeAll(context.Background(), nil)
	if got == nil {
		t.Fatal("want non-nil map for empty input")
	}
	if len(got) != 0 {
		t.Errorf("want empty map, got %v", got)
	}
}

func TestScrapeAll_MultipleURLs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "body of %s", r.URL.Path)
	}))
	defer srv.Close()

	urls := []string{srv.URL + "/a", srv.URL + "/b", srv.URL + "/c"}
	got := ScrapeAll(context.Background(), urls)

	if len(got) != 3 {
		t.Fatalf("want 3 entries, got %d", len(got))
	}
	for _, path := range []string{"/a", "/b", "/c"} {
		url := srv.URL + path
		want := "body of " + path
		if got[url] != want {
			t.Errorf("url %s: want %q, got %q", url, want, got[url])
		}
	}
}

func TestScrapeAll_RunsConcurrently(t *testing.T) {
	const delay = 100 * time.Millisecond
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(delay)
		_, _ = w.Write([]byte("slow"))
	}))
	defer srv.Close()

	urls := make([]string, 8)
	for i := range urls {
		urls[i] = fmt.Sprintf("%s/%d", srv.URL, i)
	}

	start := time.Now()
	got := ScrapeAll(context.Background(), urls)
	elapsed := time.Since(start)

	if len(got) != 8 {
		t.Fatalf("want 8 entries, got %d", len(got))
	}
	// Serial execution would take 8 * delay.
	if elapsed > 4*delay {
		t.Errorf("scrape does not appear concurrent: %v for 8 urls of %v each", elapsed, delay)
	}
}

func TestScrapeAll_FailureDoesNotShortCircuit(t *testing.T) {
	var okRequests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/bad") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		okRequests.Add(1)
		_, _ = w.Write([]byte("fine"))
	}))
	defer srv.Close()

	urls := []string{srv.URL + "/bad", srv.URL + "/good1", srv.URL + "/good2"}
	got := ScrapeAll(context.Background(), urls,
		WithMaxAttempts(2), WithInitialBackoff(time.Millisecond))

	if len(got) != 3 {
		t.Fatalf("want 3 entries, got %d", len(got))
	}
	if !strings.HasPrefix(got[srv.URL+"/bad"], "Failed to fetch ") {
		t.Errorf("want failure text for bad url, got %q", got[srv.URL+"/bad"])
	}
	if got[srv.URL+"/good1"] != "fine" || got[srv.URL+"/good2"] != "fine" {
		t.Error("sibling fetches should complete despite one failure")
	}
	if okRequests.Load() != 2 {
		t.Errorf("want both good urls fetched, got %d", okRequests.Load())
	}
}

func TestScrapeAll_DuplicateURLsCollapse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("same"))
	}))
	defer srv.Close()

	urls := []string{srv.URL, srv.URL, srv.URL}
	got := ScrapeAll(context.Background(), urls)

	if len(got) != 1 {
		t.Errorf("want 1 entry for duplicated url, got %d", len(got))
	}
	if got[srv.URL] != "same" {
		t.Errorf("want body %q, got %q", "same", got[srv.URL])
	}
}

func TestScrapeResults_TaggedFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := New(WithMaxAttempts(2), WithInitialBackoff(time.Millisecond))
	defer f.Close()

	got := f.ScrapeResults(context.Background(), []string{srv.URL + "/ok", srv.URL + "/bad"})

	if res := got[srv.URL+"/ok"]; res.Failed() || res.Body != "ok" {
		t.Errorf("want success with body ok, got %+v", res)
	}
	if res := got[srv.URL+"/bad"]; !res.Failed() {
		t.Error("want tagged failure for bad url")
	}
}
