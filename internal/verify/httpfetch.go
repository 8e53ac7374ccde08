package verify

import (
	"context"
	"io"
	"net/http"

	"saimgo/internal/cache"
	"saimgo/internal/model"
)

// HTTPFetcher is the plain-request Fetcher, grounded on the teacher
// crawler's fetchAndParse: a GET with a descriptive user agent, a body
// size cap, and best-effort charset decoding before the in-page search
// ever sees the text.
type HTTPFetcher struct {
	Client    *http.Client
	UserAgent string
}

// NewHTTPFetcher returns a Fetcher using client, or a fresh default client
// if nil.
func NewHTTPFetcher(client *http.Client, userAgent string) *HTTPFetcher {
	if client == nil {
		client = &http.Client{}
	}
	if userAgent == "" {
		userAgent = "saim-bot/1 (go library)"
	}
	return &HTTPFetcher{Client: client, UserAgent: userAgent}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (model.CachedPageResp, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return model.CachedPageResp{}, err
	}
	req.Header.Set("User-Agent", f.UserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return model.CachedPageResp{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return model.CachedPageResp{StatusCode: resp.StatusCode}, err
	}
	return model.CachedPageResp{StatusCode: resp.StatusCode, Body: cache.DecodeBody(body)}, nil
}
