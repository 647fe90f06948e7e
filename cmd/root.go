package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pawswap",
	Short: "A CLI for tax-aware swaps on the PawSwap exchange",
	Long: `pawswap is a command-line tool for swapping tokens through the PawSwap
router. It reads each token's on-chain tax structure, itemizes the transfer
taxes, folds in an optional charity tax, and adjusts quotes and slippage
bounds so minimum-received figures reflect the real post-tax transfer.

Examples:
  pawswap swap 0.5 BNB to PAWTH
  pawswap swap 100 PAWTH to BNB --charity-tax 2
  pawswap taxes PAWTH
  pawswap charities ocean
  pawswap status <tx-hash>`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}
