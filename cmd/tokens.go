package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pawswap/pkg/tokens"
)

var filterSymbol string

var tokensCmd = &cobra.Command{
	Use:     "list-tokens",
	Aliases: []string{"tokens", "ls"},
	Short:   "List the built-in tokens",
	Long: `List the tokens that can be referenced by symbol on the command line.

Any other BEP-20 token can be swapped by passing its contract address
instead of a symbol.

Examples:
  pawswap list-tokens
  pawswap list-tokens --symbol PAWTH`,
	Run: runListTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().StringVarP(&filterSymbol, "symbol", "s", "", "Filter by token symbol")
}

func runListTokens(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	list := tokens.DefaultList()
	if filterSymbol != "" {
		filtered := make([]tokens.Token, 0, len(list))
		needle := strings.ToUpper(filterSymbol)
		for _, t := range list {
			if strings.Contains(t.Symbol, needle) {
				filtered = append(filtered, t)
			}
		}
		list = filtered
	}

	if jsonOutput {
		out := make([]map[string]interface{}, 0, len(list))
		for _, t := range list {
			entry := map[string]interface{}{
				"symbol":   t.Symbol,
				"name":     t.Name,
				"decimals": t.Decimals,
				"native":   t.Native,
			}
			if !t.Native {
				entry["address"] = t.Address.Hex()
			}
			out = append(out, entry)
		}
		jsonData, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Printf("\nFound %d token(s):\n\n", len(list))
	fmt.Printf("  %-8s %-20s %-10s %s\n", "SYMBOL", "NAME", "DECIMALS", "ADDRESS")
	fmt.Println("  " + strings.Repeat("-", 88))
	for _, t := range list {
		address := "(native)"
		if !t.Native {
			address = t.Address.Hex()
		}
		fmt.Printf("  %-8s %-20s %-10d %s\n",
			color.YellowString(t.Symbol), t.Name, t.Decimals, color.CyanString(address))
	}
	fmt.Println()
}
