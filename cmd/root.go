// Package cmd implements the saimgo command-line tool, grounded on the
// teacher's cobra layout: a root command carrying persistent flags, with
// each operation its own subcommand file.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd represents the base command when called without any
// subcommands.
var rootCmd = &cobra.Command{
	Use:   "saimgo",
	Short: "Verifies catalogue-number links against BRC websites",
	Long: `saimgo checks whether culture-collection catalogue numbers
resolve to a real, matching page on their biological resource center's
website, and resolves conflicting strain identities by majority vote.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(); it only needs to happen
// once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}
