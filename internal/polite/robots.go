// Package polite implements the two components that keep the verifier
// worker from hammering a BRC's site: per-host robots.txt policy lookup
// (Robots) and per-host cool-down/circuit-breaker pacing (CoolDown).
package polite

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

const (
	botName          = "saim"
	robotsFetchTTL   = 24 * time.Hour
	robotsNegTTL     = 10 * time.Minute
	robotsFetchTimeo = 10 * time.Second
)

// Robots is a per-host robots.txt cache with TTL-based refetch, grounded
// on the teacher crawler's robotsCacheEntry/robotsFileCacheEntry logic in
// tools/crawler/requests_crawler.go, adapted from a single file-backed
// cache to one instance per host managed by the request dispatcher.
type Robots struct {
	httpClient *http.Client

	mu       sync.Mutex
	fetchedAt time.Time
	negative  bool
	data      *robotstxt.RobotsData
}

// NewRobots returns an empty, unfetched Robots handle for one host.
func NewRobots(httpClient *http.Client) *Robots {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: robotsFetchTimeo}
	}
	return &Robots{httpClient: httpClient}
}

func (r *Robots) stale() bool {
	if r.data == nil && !r.negative {
		return true
	}
	ttl := robotsFetchTTL
	if r.negative {
		ttl = robotsNegTTL
	}
	return time.Since(r.fetchedAt) > ttl
}

func (r *Robots) refresh(ctx context.Context, scheme, host string) {
	url := fmt.Sprintf("%s://%s/robots.txt", scheme, host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		r.negative = true
		r.fetchedAt = time.Now()
		return
	}
	req.Header.Set("User-Agent", fmt.Sprintf("%s-bot/1 (go library)", botName))

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.negative = true
		r.fetchedAt = time.Now()
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		r.data = nil
		r.negative = true
		r.fetchedAt = time.Now()
		return
	}
	if resp.StatusCode != http.StatusOK {
		r.negative = true
		r.fetchedAt = time.Now()
		return
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		r.negative = true
		r.fetchedAt = time.Now()
		return
	}
	parsed, err := robotstxt.FromBytes(body)
	if err != nil {
		r.negative = true
		r.fetchedAt = time.Now()
		return
	}
	r.data = parsed
	r.negative = false
	r.fetchedAt = time.Now()
}

// Allowed reports whether path on host may be fetched, fetching and
// caching robots.txt as needed. An unreachable or missing robots.txt is
// treated as "allow everything", matching the original's fail-open
// behaviour.
func (r *Robots) Allowed(ctx context.Context, scheme, host, path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stale() {
		r.refresh(ctx, scheme, host)
	}
	if r.data == nil {
		return true
	}
	group := r.data.FindGroup(botName)
	if group == nil {
		group = r.data.FindGroup("*")
	}
	if group == nil {
		return true
	}
	return group.Test(path)
}

// CrawlDelay returns the Crawl-delay directive for this host, if any was
// declared, else zero.
func (r *Robots) CrawlDelay() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.data == nil {
		return 0
	}
	group := r.data.FindGroup(botName)
	if group == nil {
		group = r.data.FindGroup("*")
	}
	if group == nil {
		return 0
	}
	return group.CrawlDelay
}
