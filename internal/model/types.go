// Package model holds the shared data types passed between the designation,
// polite-crawl, verify, link and strain-matching packages.
package model

import "fmt"

// DesignationType classifies a cleaned designation string, matching the
// families tracked by the BRC catalogue: culture-collection numbers, WDCM
// references, MIRRI references and strain/culture identifiers.
type DesignationType string

const (
	DesCCNo   DesignationType = "ccno"
	DesWDCM   DesignationType = "wdcm_ref"
	DesMIRRI  DesignationType = "mir"
	DesSIId   DesignationType = "strid"
	DesSICult DesignationType = "culid"
	DesUnknow DesignationType = "des"
)

// CCNoId is the decomposed form of a catalogue number: acronym, numeric
// core and any leading/trailing decoration.
type CCNoId struct {
	Acr    string
	Prefix string
	Core   string
	Suffix string
}

func (c CCNoId) String() string {
	return fmt.Sprintf("%s %s%s%s", c.Acr, c.Prefix, c.Core, c.Suffix)
}

// CCNoDes bundles a decomposed id with the raw designation text it was
// extracted from and, when extracted from free text, its byte offsets.
type CCNoDes struct {
	Id        CCNoId
	Raw       string
	StartOff  int
	EndOff    int
}

// AcrDbEntry is a single row of the known-acronym/BRC-code table used to
// build the radix index. FullRegex, CoreRegex, PrefixRegex and SuffixRegex
// are the BRC's id schema (regex_id:{full,core,pre,suf}); Prefix/Suffix
// default to the generic "short alphabetic decoration" heuristic when a
// BRC declares none of its own.
type AcrDbEntry struct {
	Acr           string
	BrcID         int
	Synonyms      []string
	FullRegex     string
	CoreRegex     string
	PrefixRegex   string
	SuffixRegex   string
	StripSufChars string
}

// BrcEntry describes one BRC catalogue's link template and cache policy.
type BrcEntry struct {
	BrcID         int
	Acr           string
	CatalogueLink string // contains a "%s" placeholder for the ccno core
	HomepageLink  string
	DetailedLink  string // optional, contains "%s"
	ExtraStrings  []string
	StripSufChars string
	Deprecated    bool
}

// BrcCatalogue is the full set of known BRCs, plus the compiled lookup
// structures built over it.
type BrcCatalogue struct {
	Entries map[int]BrcEntry
}

// SearchRequest is a single unit of work requested by a caller: find a
// catalogue number (possibly with auxiliary strings) belonging to one BRC.
type SearchRequest struct {
	TaskID       int
	BrcID        int
	FindCCNo     string
	FindExtra    []string
	FallbackLink string
}

// LinkLevel orders the URLs a SearchTask will try, catalogue first.
type LinkLevel string

const (
	LevelCatalogue LinkLevel = "catalogue"
	LevelFallback  LinkLevel = "fallback"
	LevelHomepage  LinkLevel = "homepage"
)

// CacheClass names the three independent cache stores the verifier reads
// and writes, matching the three distinct expiry policies.
type CacheClass string

const (
	CacheHomepage   CacheClass = "homepage"
	CacheCatalogue  CacheClass = "catalogue"
	CacheCatalogueD CacheClass = "catalogue_detailed"
)

// SearchTask is a fully resolved unit of verification work: one BRC, one
// decomposed id, the ordered URLs to try and their cache classes.
type SearchTask struct {
	TaskID    int
	BrcID     int
	Id        CCNoId
	Extra     []string
	URLs      []TaskURL
}

// Key returns the stable identity of this task's designation: the BRC id
// and the decomposed id. The page caches key on the URL (cache.TaskKey),
// not on this value.
func (s SearchTask) Key() string {
	return fmt.Sprintf("%d:%s", s.BrcID, s.Id.String())
}

// TaskURL is one candidate URL a SearchTask will try, in priority order.
type TaskURL struct {
	Level LinkLevel
	URL   string
	Class CacheClass
	TTL   int // days
}

// TaskPackage groups the SearchTasks generated from one SearchRequest;
// CreateTaskPackage builds exactly one task, from the single decomposition
// IdentifyCCNo returns.
type TaskPackage struct {
	Request SearchRequest
	Tasks   []SearchTask
}

// VerStatus mirrors the original system's VerificationStatus enum values
// verbatim; implementers must not alter the string values, CLI output
// depends on them.
type VerStatus string

const (
	StatusOK         VerStatus = "OK"
	StatusMissing    VerStatus = "CCNo and/or the defined Strings could not be found"
	StatusNoURL      VerStatus = "No URL is associated with the BRC"
	StatusTimeout    VerStatus = "Request timed out"
	StatusProhibited VerStatus = "Request was blocked by robots.txt"
	Status404        VerStatus = "URL - 404"
	Status403        VerStatus = "URL - 403"
	StatusBadCode    VerStatus = "URL - Unpredicted status code"
	StatusErr        VerStatus = "An exception was raised"
)

// LinkStatus records the outcome of trying exactly one URL.
type LinkStatus struct {
	Link     string
	LinkType LinkLevel
	Status   VerStatus
}

// VerifiedURL is the final result of one SearchTask: the winning link, if
// any, plus the full trail of attempts.
type VerifiedURL struct {
	TaskID int
	BrcID  int
	Link   string
	Status []LinkStatus
}

// CachedPageResp is a fetched page as stored in the HTTP cache: status
// code, decoded body and whether the body has already been condensed for
// the in-page search.
type CachedPageResp struct {
	StatusCode int
	Body       string
	Condensed  bool
}
