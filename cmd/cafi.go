package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"saimgo/internal/catalog"
)

var cafiCatalogue string

var cafiCmd = &cobra.Command{
	Use:   "cafi",
	Short: "Check that the BRC catalogue file loads and every core regex compiles",
	RunE:  runCafi,
}

func init() {
	rootCmd.AddCommand(cafiCmd)
	cafiCmd.Flags().StringVarP(&cafiCatalogue, "catalogue", "c", "", "path to the BRC catalogue JSON file (required)")
	cafiCmd.MarkFlagRequired("catalogue")
}

func runCafi(cmd *cobra.Command, args []string) error {
	brcCatalogue, acrEntries, err := catalog.Load(cafiCatalogue)
	if err != nil {
		return err
	}
	fmt.Printf("loaded %d brc entries, %d acronym rows\n", len(brcCatalogue.Entries), len(acrEntries))
	fmt.Println("OK")
	return nil
}
