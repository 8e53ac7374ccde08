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
	"saimgo/internal/taxon"
)

var (
	extractTextFile string
	extractTaxaFile string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Scan free text for embedded catalogue numbers",
	Long: `Reads free text (from --text or stdin) and prints every
catalogue-number designation it can find as a JSON line, without
attempting to verify any of them against a BRC website.`,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVar(&extractTextFile, "text", "", "file to scan (defaults to stdin)")
	extractCmd.Flags().StringVarP(&vlCatalogue, "catalogue", "c", "", "path to the BRC catalogue JSON file (required)")
	extractCmd.Flags().StringVar(&extractTaxaFile, "taxa", "", "optional file of known binomials (one per line) to also scan for")
	extractCmd.MarkFlagRequired("catalogue")
}

func runExtract(cmd *cobra.Command, args []string) error {
	_, acrEntries, err := catalog.Load(vlCatalogue)
	if err != nil {
		return err
	}
	index := designation.BuildIndex(acrEntries)

	var in io.Reader = os.Stdin
	if extractTextFile != "" {
		f, err := os.Open(extractTextFile)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	enc := json.NewEncoder(os.Stdout)
	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		lines = append(lines, line)
		for _, found := range designation.ExtractFromText(index, line) {
			if err := enc.Encode(found); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if extractTaxaFile != "" {
		binomials, err := readLines(extractTaxaFile)
		if err != nil {
			return err
		}
		taxIdx := taxon.BuildIndex(binomials)
		for _, name := range taxon.ExtractUniqueBinomials(taxIdx, lines) {
			if err := enc.Encode(map[string]string{"taxon": name}); err != nil {
				return err
			}
		}
	}

	fmt.Fprintln(os.Stderr, "done")
	return nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			out = append(out, line)
		}
	}
	return out, scanner.Err()
}
