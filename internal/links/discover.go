package links

import (
	"bytes"
	"fmt"

	"github.com/antchfx/xmlquery"
	"github.com/gocolly/colly/v2"
)

// DiscoverSitemapLinks walks a BRC's sitemap.xml and returns every
// <url><loc> entry as a candidate catalogue URL. Nothing in the link
// generator or the command-line tool calls it. Grounded on the teacher
// crawler's own sitemap seeding in tools/crawler/colly_crawler.go,
// generalized from crawling (MaxDepth>1, following links) to a single
// bounded fetch — this component never follows a discovered link itself,
// it only returns the candidates to its caller.
func DiscoverSitemapLinks(baseURL string) ([]string, error) {
	var links []string
	var fetchErr error

	c := colly.NewCollector(colly.MaxDepth(1), colly.Async(false))
	c.OnResponse(func(r *colly.Response) {
		doc, err := xmlquery.Parse(bytes.NewReader(r.Body))
		if err != nil {
			fetchErr = err
			return
		}
		for _, n := range xmlquery.Find(doc, "//url/loc") {
			links = append(links, n.InnerText())
		}
	})
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = err
	})

	if err := c.Visit(baseURL); err != nil {
		return nil, fmt.Errorf("visiting sitemap %s: %w", baseURL, err)
	}
	if fetchErr != nil {
		return nil, fetchErr
	}
	return links, nil
}
