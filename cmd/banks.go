// =============================================================================
// Statement Text Extractor - Banks Command
// =============================================================================
//
// This file defines the 'banks' command, which lists the supported banks and
// their document-type rules. Operators use it to find the names accepted by
// the enabled_banks configuration and the --bank flag, and to see which
// document layouts a bank covers.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/statement-text-extraction/internal/banks"
	"github.com/ginjaninja78/statement-text-extraction/internal/securities"
)

// banksVerbose additionally lists each document type's blocks.
var banksVerbose bool

// banksCmd represents the 'banks' command.
var banksCmd = &cobra.Command{
	Use:   "banks",
	Short: "List supported banks and their document types",
	Long: `The banks command lists every bank rule set built into the extractor,
together with the document types each one recognizes. The bank names shown
here are the values accepted by the enabled_banks configuration option and
the --bank flag of the extract command.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runBanks()
	},
}

func init() {
	rootCmd.AddCommand(banksCmd)

	banksCmd.Flags().BoolVar(
		&banksVerbose,
		"blocks",
		false,
		"Also list the blocks of each document type",
	)
}

func runBanks() error {
	// A throwaway resolver; rule construction needs one but no documents
	// are parsed here.
	resolver := securities.NewResolver()

	for _, bank := range banks.All() {
		fmt.Printf("%s\n", bank.Name)

		for _, dt := range bank.Rules(resolver) {
			fmt.Printf("  %-30s marker: %s\n", dt.Name, dt.Marker.String())

			if banksVerbose {
				for _, block := range dt.Blocks {
					fmt.Printf("    block %-20s start: %s\n", block.Label, block.Start.String())
				}
			}
		}
	}

	return nil
}
