// Package dispatch implements the worker pool that drives SearchTasks
// through the verifier (VW) against shared, lazily-created per-host
// politeness gates. It replaces the original system's multiprocessing
// pool (a workaround for the source language's GIL) with goroutines,
// since Go workers already share memory safely; the bounded
// request-channel / unbounded result-channel pairing mirrors the
// back-pressure contract the original's async-generator protocol
// implemented by hand.
package dispatch

import (
	"context"
	"net/url"
	"sync"

	"saimgo/internal/cache"
	"saimgo/internal/model"
	"saimgo/internal/polite"
	"saimgo/internal/verify"
)

// Dispatcher owns the worker pool and the per-host gate table shared by
// every worker.
type Dispatcher struct {
	workers      int
	stores       map[model.CacheClass]*cache.Store
	httpFetch    verify.Fetcher
	browserFetch verify.Fetcher
	settings     verify.Settings

	mu    sync.Mutex
	gates map[string]*verify.HostGate
}

// New builds a Dispatcher with workers goroutines, sharing stores,
// fetchers and settings across all of them.
func New(workers int, stores map[model.CacheClass]*cache.Store, httpFetch, browserFetch verify.Fetcher, settings verify.Settings) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		workers:      workers,
		stores:       stores,
		httpFetch:    httpFetch,
		browserFetch: browserFetch,
		settings:     settings,
		gates:        make(map[string]*verify.HostGate),
	}
}

func (d *Dispatcher) gateFor(rawURL string) *verify.HostGate {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	gate, ok := d.gates[parsed.Host]
	if !ok {
		gate = &verify.HostGate{
			CoolDown: polite.NewCoolDown(),
			Robots:   polite.NewRobots(nil),
		}
		d.gates[parsed.Host] = gate
	}
	return gate
}

// Run feeds tasks through a bounded request channel to d.workers
// goroutines and returns every VerifiedURL once all tasks have been
// processed or ctx is cancelled. The request channel's capacity
// (4*workers) matches the original manager's queue bound, giving the
// producer back-pressure without requiring an unbounded buffer.
func (d *Dispatcher) Run(ctx context.Context, tasks []model.SearchTask) []model.VerifiedURL {
	reqs := make(chan model.SearchTask, 4*d.workers)
	results := make(chan model.VerifiedURL, len(tasks))

	var wg sync.WaitGroup
	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range reqs {
				results <- verify.VerifyTask(ctx, task, d.gateFor, d.stores, d.httpFetch, d.browserFetch, d.settings)
			}
		}()
	}

	go func() {
		defer close(reqs)
		for _, t := range tasks {
			select {
			case reqs <- t:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]model.VerifiedURL, 0, len(tasks))
	for r := range results {
		out = append(out, r)
	}
	return out
}
