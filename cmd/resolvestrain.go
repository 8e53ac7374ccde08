package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"saimgo/internal/catalog"
	"saimgo/internal/designation"
	"saimgo/internal/strain"
	"saimgo/internal/warn"
)

var (
	rsCatalogue string
	rsInput     string
	rsUpdates   string
)

var resolveStrainCmd = &cobra.Command{
	Use:   "resolve-strain",
	Short: "Resolve culture records to a strain identity by majority vote across relations",
	Long: `Reads culture records (one JSON object per line, from --input or
stdin) and, for each, resolves which strain it belongs to: first by a
direct culture_ccno hit, falling back to a vote across direct relation
votes, relation-overlap histograms, and transitive SI-ID hints. Prints
one JSON resolution per input line. An optional --updates file of
UpdateResults JSON lines seeds the match cache before resolution runs.`,
	RunE: runResolveStrain,
}

func init() {
	rootCmd.AddCommand(resolveStrainCmd)
	resolveStrainCmd.Flags().StringVarP(&rsCatalogue, "catalogue", "c", "", "path to the BRC catalogue JSON file (required)")
	resolveStrainCmd.Flags().StringVarP(&rsInput, "input", "i", "", "file of culture-record JSON lines (defaults to stdin)")
	resolveStrainCmd.Flags().StringVar(&rsUpdates, "updates", "", "optional file of UpdateResults JSON lines to seed the match cache with")
	resolveStrainCmd.MarkFlagRequired("catalogue")
}

type resolution struct {
	Ccno      string `json:"ccno"`
	StrainID  int    `json:"strain_id"`
	CultureID int    `json:"culture_id"`
	Fallbacks []int  `json:"fallbacks,omitempty"`
	Error     string `json:"error,omitempty"`
}

func runResolveStrain(cmd *cobra.Command, args []string) error {
	brcCatalogue, acrEntries, err := catalog.Load(rsCatalogue)
	if err != nil {
		return err
	}
	index := designation.BuildIndex(acrEntries)
	cache := strain.NewMatchCache()

	if rsUpdates != "" {
		updates, err := decodeLines[strain.UpdateResults](rsUpdates)
		if err != nil {
			return err
		}
		for _, u := range updates {
			strain.UpdateCache(cache, index, u)
		}
	}

	var in io.Reader = os.Stdin
	if rsInput != "" {
		f, err := os.Open(rsInput)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	resolver := strain.NewResolver(cache, index, brcCatalogue.Entries)
	enc := json.NewEncoder(os.Stdout)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec strain.CultureRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			warn.Printf("skipping malformed culture record: %v", err)
			continue
		}
		res, err := resolver.Resolve(rec)
		out := resolution{Ccno: rec.Ccno, StrainID: res.StrainID, CultureID: res.CultureID, Fallbacks: res.Fallbacks}
		if err != nil {
			out.Error = err.Error()
		}
		if err := enc.Encode(out); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if err := cache.CheckConsistency(); err != nil {
		warn.Printf("match cache consistency check failed: %v", err)
	}

	fmt.Fprintln(os.Stderr, "done")
	return nil
}

func decodeLines[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []T
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var v T
		if err := json.Unmarshal(line, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, scanner.Err()
}
