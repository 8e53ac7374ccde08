package links

import (
	"context"

	"github.com/mmcdole/gofeed"

	"saimgo/internal/model"
)

// FeedDeposits turns a BRC's RSS/Atom "new deposits" feed into extra
// SearchRequests, an optional input adapter not present in the
// distilled pipeline but grounded on the original system's broader
// ingestion tooling (and on the teacher crawler's own gofeed use in
// tools/crawler/api_data_collector.go). Off by default; callers opt in
// per BRC by supplying a feed URL.
func FeedDeposits(ctx context.Context, feedURL string, brcID int, startTaskID int) ([]model.SearchRequest, error) {
	parser := gofeed.NewParser()
	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}

	var reqs []model.SearchRequest
	for i, item := range feed.Items {
		reqs = append(reqs, model.SearchRequest{
			TaskID:       startTaskID + i,
			BrcID:        brcID,
			FindCCNo:     item.Title,
			FallbackLink: item.Link,
		})
	}
	return reqs, nil
}
