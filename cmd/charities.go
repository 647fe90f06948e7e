package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pawswap/config"
	"pawswap/pkg/charity"
)

var charitiesCmd = &cobra.Command{
	Use:     "charities [search-term]",
	Aliases: []string{"search-charities"},
	Short:   "Search charity wallets for the custom tax",
	Long: `Search the nonprofit directory for charities that can receive the
custom tax. Only charities with an on-chain wallet are listed; pass the
wallet address to swap --charity.

Examples:
  pawswap charities
  pawswap charities "animal rescue"`,
	Args: cobra.MaximumNArgs(1),
	Run:  runCharities,
}

func init() {
	rootCmd.AddCommand(charitiesCmd)
}

func runCharities(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	term := ""
	if len(args) > 0 {
		term = args[0]
	}

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if cfg.CharityAPIKey == "" {
		printError(fmt.Errorf("charity API key not configured. Set PAWSWAP_CHARITY_API_KEY to search charities"))
		os.Exit(1)
	}

	client := charity.NewClient(cfg.CharityAPIURL, cfg.CharityAPIKey)

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Searching charities..."
		s.Start()
	}
	wallets, err := client.Search(context.Background(), term)
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(wallets, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	if len(wallets) == 0 {
		fmt.Println("\nNo charities with an on-chain wallet matched.")
		return
	}

	fmt.Printf("\nFound %d charit(ies):\n\n", len(wallets))
	for _, w := range wallets {
		fmt.Printf("  %s (%s)\n", color.YellowString(w.Name), w.Category)
		fmt.Printf("    Wallet: %s\n", color.CyanString(w.Address))
		if w.Mission != "" {
			fmt.Printf("    %s\n", truncate(w.Mission, 100))
		}
		fmt.Println()
	}
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
