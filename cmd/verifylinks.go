package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"saimgo/internal/cache"
	"saimgo/internal/catalog"
	"saimgo/internal/cliio"
	"saimgo/internal/designation"
	"saimgo/internal/dispatch"
	"saimgo/internal/links"
	"saimgo/internal/model"
	"saimgo/internal/verify"
	"saimgo/internal/warn"
)

var (
	vlWorker     int
	vlDBSizeGB   int
	vlInput      string
	vlOutput     string
	vlCatalogue  string
	vlUseBrowser bool
)

var verifyLinksCmd = &cobra.Command{
	Use:   "verify-links",
	Short: "Verify that CSV rows of catalogue numbers resolve to real BRC pages",
	RunE:  runVerifyLinks,
}

func init() {
	rootCmd.AddCommand(verifyLinksCmd)

	verifyLinksCmd.Flags().IntVarP(&vlWorker, "worker", "w", 1, "number of concurrent workers")
	verifyLinksCmd.Flags().IntVarP(&vlDBSizeGB, "db-size", "s", 10, "maximum size (GB) each cache bucket may grow to")
	verifyLinksCmd.Flags().StringVarP(&vlInput, "input", "i", "", "CSV file containing the rows to verify (required)")
	verifyLinksCmd.Flags().StringVarP(&vlOutput, "output", "o", "", "output folder for cache buckets and result files")
	verifyLinksCmd.Flags().StringVarP(&vlCatalogue, "catalogue", "c", "", "path to the BRC catalogue JSON file (required)")
	verifyLinksCmd.Flags().BoolVar(&vlUseBrowser, "browser", false, "enable the headless-browser fallback for JS-rendered pages")
	verifyLinksCmd.MarkFlagRequired("input")
	verifyLinksCmd.MarkFlagRequired("catalogue")
}

func runVerifyLinks(cmd *cobra.Command, args []string) error {
	requests, err := cliio.ReadTasks(vlInput)
	if err != nil {
		return err
	}

	brcCatalogue, acrEntries, err := catalog.Load(vlCatalogue)
	if err != nil {
		return err
	}
	manager := designation.NewManager("1", acrEntries)
	generator := links.NewGenerator(brcCatalogue, manager)

	packages, failures := generator.CreateTaskPackages(requests)
	for id, err := range failures {
		warn.Printf("task %d could not be resolved to a url: %v", id, err)
	}
	tasks := links.FlattenRoundRobin(packages)

	workDir := vlOutput
	if workDir == "" {
		tmp, err := os.MkdirTemp("", "saimgo-cache-")
		if err != nil {
			return err
		}
		defer os.RemoveAll(tmp)
		workDir = tmp
	}

	stores := make(map[model.CacheClass]*cache.Store)
	for _, class := range []model.CacheClass{model.CacheHomepage, model.CacheCatalogue, model.CacheCatalogueD} {
		store, err := cache.Open(workDir, class, vlDBSizeGB)
		if err != nil {
			return err
		}
		stores[class] = store
	}

	httpFetch := verify.NewHTTPFetcher(nil, "")
	var browserFetch verify.Fetcher
	if vlUseBrowser {
		adapter := cache.NewBrowserAdapter()
		defer adapter.Close()
		browserFetch = adapter
	}

	settings := verify.Settings{FetchTimeout: 30 * time.Second}
	d := dispatch.New(vlWorker, stores, httpFetch, browserFetch, settings)

	fmt.Println("VERIFY FILE")
	results := d.Run(context.Background(), tasks)
	// account for requests that never produced a task at all
	for id := range failures {
		results = append(results, model.VerifiedURL{TaskID: id, Status: []model.LinkStatus{{Status: model.StatusNoURL}}})
	}

	successPath, failurePath := cliio.OutputPaths(vlOutput, vlInput)
	if err := cliio.WriteResults(results, successPath, failurePath); err != nil {
		return err
	}
	fmt.Println("--- DONE ---")

	for _, r := range results {
		if r.Link == "" {
			os.Exit(1)
		}
	}
	return nil
}

