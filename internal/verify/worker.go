package verify

import (
	"context"
	"net/url"
	"time"

	"saimgo/internal/cache"
	"saimgo/internal/model"
	"saimgo/internal/polite"
	"saimgo/internal/warn"
)

// Fetcher abstracts a single-page fetch, implemented by both the plain
// HTTP client path and the headless-browser fallback path so the worker
// loop below can treat them identically.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (model.CachedPageResp, error)
}

// HostGate bundles the per-host politeness primitives a SearchTask's URLs
// need: robots.txt policy and request pacing. One HostGate is shared by
// every worker hitting that host, constructed lazily by the dispatcher.
type HostGate struct {
	CoolDown *polite.CoolDown
	Robots   *polite.Robots
}

// GateResolver resolves the HostGate for a single URL. A task's URLs can
// span different hosts (catalogue link, fallback link, homepage), so the
// gate is resolved per URL rather than once per task.
type GateResolver func(rawURL string) *HostGate

// Settings carries the run-wide knobs the original system grouped into
// SessionSettings: one set of suffix strip characters applied to every
// task's in-page search, and the fetch timeout.
type Settings struct {
	StripSufChars string
	FetchTimeout  time.Duration
}

// wrapStatus classifies a raw fetch outcome into the fixed VerStatus
// vocabulary, mirroring the original's _wrap_status.
func wrapStatus(statusCode int, err error, timedOut bool) model.VerStatus {
	switch {
	case timedOut:
		return model.StatusTimeout
	case err != nil:
		return model.StatusErr
	case statusCode == 404:
		return model.Status404
	case statusCode == 403:
		return model.Status403
	case statusCode >= 200 && statusCode < 300:
		return model.StatusOK
	default:
		return model.StatusBadCode
	}
}

// VerifyTask runs the per-task loop from the original verify_ccno_in_url:
// try each URL in priority order, skip ones robots.txt disallows, serve
// from cache when possible, otherwise fetch live (HTTP first, browser
// fallback), and stop at the first URL whose content proves the task.
func VerifyTask(
	ctx context.Context,
	task model.SearchTask,
	gateFor GateResolver,
	stores map[model.CacheClass]*cache.Store,
	httpFetch Fetcher,
	browserFetch Fetcher,
	settings Settings,
) model.VerifiedURL {
	result := model.VerifiedURL{TaskID: task.TaskID, BrcID: task.BrcID}

	if len(task.URLs) == 0 {
		result.Status = append(result.Status, model.LinkStatus{Status: model.StatusNoURL})
		return result
	}

	for _, tu := range task.URLs {
		var gate *HostGate
		if gateFor != nil {
			gate = gateFor(tu.URL)
		}
		status := verifyOneURL(ctx, task, tu, gate, stores, httpFetch, browserFetch, settings)
		result.Status = append(result.Status, model.LinkStatus{Link: tu.URL, LinkType: tu.Level, Status: status})
		if status == model.StatusOK {
			result.Link = tu.URL
			return result
		}
	}
	return result
}

func verifyOneURL(
	ctx context.Context,
	task model.SearchTask,
	tu model.TaskURL,
	gate *HostGate,
	stores map[model.CacheClass]*cache.Store,
	httpFetch Fetcher,
	browserFetch Fetcher,
	settings Settings,
) (status model.VerStatus) {
	defer func() {
		if r := recover(); r != nil {
			warn.Printf("recovered panic verifying task %d url %s: %v", task.TaskID, tu.URL, r)
			status = model.StatusErr
		}
	}()

	parsed, err := url.Parse(tu.URL)
	if err != nil || parsed.Host == "" {
		return model.StatusErr
	}

	if gate != nil && gate.Robots != nil {
		if !gate.Robots.Allowed(ctx, parsed.Scheme, parsed.Host, parsed.Path) {
			return model.StatusProhibited
		}
	}

	key := cache.TaskKey(tu.URL, tu.Class, task.Id, task.Extra)
	store := stores[tu.Class]
	if store != nil {
		if resp, ok := store.Get(key); ok {
			if MatchesCondensed(resp.Body, task.Id, task.Extra) {
				return model.StatusOK
			}
			return model.StatusMissing
		}
	}

	if gate != nil && gate.CoolDown != nil && gate.CoolDown.SkipRequest() {
		return model.StatusProhibited
	}

	if gate != nil && gate.CoolDown != nil {
		var delay time.Duration
		if gate.Robots != nil {
			delay = gate.Robots.CrawlDelay()
		}
		if err := gate.CoolDown.AwaitCoolDown(ctx, delay); err != nil {
			return model.StatusTimeout
		}
	}

	fetchCtx := ctx
	var cancel context.CancelFunc
	if settings.FetchTimeout > 0 {
		fetchCtx, cancel = context.WithTimeout(ctx, settings.FetchTimeout)
		defer cancel()
	}

	resp, ferr := httpFetch.Fetch(fetchCtx, tu.URL)
	timedOut := ferr != nil && fetchCtx.Err() == context.DeadlineExceeded
	if gate != nil && gate.CoolDown != nil {
		gate.CoolDown.FinishedRequest(timedOut, len(task.URLs))
	}

	if (ferr != nil || resp.Body == "") && browserFetch != nil {
		resp, ferr = browserFetch.Fetch(fetchCtx, tu.URL)
		timedOut = ferr != nil && fetchCtx.Err() == context.DeadlineExceeded
	}

	st := wrapStatus(resp.StatusCode, ferr, timedOut)
	if st != model.StatusOK {
		return st
	}

	found := FindElementsInContent(VisibleText(resp.Body), task.Id, settings.StripSufChars, task.Extra)
	if store != nil {
		condensed := ""
		if found {
			condensed = CondenseMatch(task.Id, task.Extra)
		}
		_ = store.Put(key, model.CachedPageResp{StatusCode: resp.StatusCode, Body: condensed, Condensed: true}, tu.TTL)
	}

	if found {
		return model.StatusOK
	}
	return model.StatusMissing
}
