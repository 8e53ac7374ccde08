// Package links implements the link-generator façade (LG): turning a
// caller's SearchRequests into fully-resolved SearchTasks (catalogue,
// fallback and homepage URLs in priority order, each tagged with its
// cache class and TTL) and spreading the resulting work across hosts so
// the dispatcher's workers don't all converge on one domain at once.
package links

import (
	"fmt"
	"net/url"
	"strings"

	derr "saimgo/internal/errors"
	"saimgo/internal/designation"
	"saimgo/internal/model"
)

const (
	catalogueExpDays   = 30
	catalogueDetExpDays = 1
	homepageExpDays    = 60
)

// Generator builds TaskPackages from SearchRequests against a loaded BRC
// catalogue and a designation manager.
type Generator struct {
	catalogue *model.BrcCatalogue
	manager   *designation.Manager
}

// NewGenerator returns a Generator over catalogue, resolving designations
// with manager.
func NewGenerator(catalogue *model.BrcCatalogue, manager *designation.Manager) *Generator {
	return &Generator{catalogue: catalogue, manager: manager}
}

// CreateTaskPackage decomposes req.FindCCNo and builds the ordered URL
// list for its target BRC. It returns a RequestURIError if the BRC has
// no catalogue or homepage link and the request carries no fallback
// link, matching the original's no_url short-circuit.
func (g *Generator) CreateTaskPackage(req model.SearchRequest) (model.TaskPackage, error) {
	entry, ok := g.catalogue.Entries[req.BrcID]
	if !ok {
		return model.TaskPackage{}, derr.NewDesignationError(fmt.Sprint(req.BrcID), "unknown brc id")
	}

	id, err := g.manager.IdentifyCCNo(req.FindCCNo)
	if err != nil {
		return model.TaskPackage{}, err
	}

	urls, err := g.buildURLs(entry, id, req)
	if err != nil {
		return model.TaskPackage{}, err
	}

	task := model.SearchTask{
		TaskID: req.TaskID,
		BrcID:  req.BrcID,
		Id:     id,
		Extra:  req.FindExtra,
		URLs:   urls,
	}
	return model.TaskPackage{Request: req, Tasks: []model.SearchTask{task}}, nil
}

func (g *Generator) buildURLs(entry model.BrcEntry, id model.CCNoId, req model.SearchRequest) ([]model.TaskURL, error) {
	var urls []model.TaskURL

	if entry.CatalogueLink != "" {
		class := model.CacheCatalogue
		ttl := catalogueExpDays
		if len(req.FindExtra) > 0 {
			class = model.CacheCatalogueD
			ttl = catalogueDetExpDays
		}
		urls = append(urls, model.TaskURL{
			Level: model.LevelCatalogue,
			URL:   fmt.Sprintf(entry.CatalogueLink, id.Core),
			Class: class,
			TTL:   ttl,
		})
	}

	if req.FallbackLink != "" {
		urls = append(urls, model.TaskURL{
			Level: model.LevelFallback,
			URL:   req.FallbackLink,
			Class: model.CacheCatalogueD,
			TTL:   catalogueDetExpDays,
		})
	}

	if entry.HomepageLink != "" {
		urls = append(urls, model.TaskURL{
			Level: model.LevelHomepage,
			URL:   entry.HomepageLink,
			Class: model.CacheHomepage,
			TTL:   homepageExpDays,
		})
	}

	if len(urls) == 0 {
		return nil, derr.NewRequestURIError("", fmt.Errorf("brc %d has no url associated", entry.BrcID))
	}
	return urls, nil
}

// CreateTaskPackages builds one TaskPackage per request, skipping (and
// logging via the returned failures slice) any that fail to decompose or
// resolve to a URL, so one bad CSV row never aborts the whole batch.
func (g *Generator) CreateTaskPackages(reqs []model.SearchRequest) (packages []model.TaskPackage, failures map[int]error) {
	failures = make(map[int]error)
	for _, r := range reqs {
		pkg, err := g.CreateTaskPackage(r)
		if err != nil {
			failures[r.TaskID] = err
			continue
		}
		packages = append(packages, pkg)
	}
	return packages, failures
}

// FlattenRoundRobin interleaves each package's tasks so that adjacent
// entries in the returned slice rarely share a host, spreading load
// across the dispatcher's per-host gates before the bounded request
// channel even sees them. Grounded on the original link generator's
// round-robin domain bucketing in create_links.py.
func FlattenRoundRobin(packages []model.TaskPackage) []model.SearchTask {
	buckets := make(map[string][]model.SearchTask)
	var order []string

	for _, pkg := range packages {
		for _, task := range pkg.Tasks {
			host := taskHost(task)
			if _, ok := buckets[host]; !ok {
				order = append(order, host)
			}
			buckets[host] = append(buckets[host], task)
		}
	}

	var out []model.SearchTask
	for {
		progressed := false
		for _, host := range order {
			if len(buckets[host]) == 0 {
				continue
			}
			out = append(out, buckets[host][0])
			buckets[host] = buckets[host][1:]
			progressed = true
		}
		if !progressed {
			break
		}
	}
	return out
}

func taskHost(task model.SearchTask) string {
	if len(task.URLs) == 0 {
		return ""
	}
	parsed, err := url.Parse(task.URLs[0].URL)
	if err != nil {
		return strings.ToLower(task.URLs[0].URL)
	}
	return parsed.Host
}
