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
	"pawswap/pkg/swap"
	"pawswap/pkg/tax"
	"pawswap/pkg/tokens"
)

var taxesSide string

var taxesCmd = &cobra.Command{
	Use:   "taxes <token>",
	Short: "Show a token's on-chain tax structure",
	Long: `Fetch and itemize the buy and sell taxes configured for a token.

Examples:
  pawswap taxes PAWTH
  pawswap taxes 0x5aBD80b8108f90c8525a183547D6ecc004112C22
  pawswap taxes PAWTH --side sell`,
	Args: cobra.ExactArgs(1),
	Run:  runTaxes,
}

func init() {
	rootCmd.AddCommand(taxesCmd)

	taxesCmd.Flags().StringVar(&taxesSide, "side", "", "Show only one side: buy or sell")
}

func runTaxes(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	token, err := tokens.Resolve(args[0])
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if token.Native {
		printError(fmt.Errorf("%s is the native coin and carries no tax structure", token.Symbol))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	ctx := context.Background()
	svc, err := swap.NewService(ctx, cfg, nil)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer svc.Close()

	token, err = svc.ResolveToken(ctx, token)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = fmt.Sprintf(" Fetching tax structure for %s...", token.Symbol)
		s.Start()
	}
	set, err := svc.FetchTaxes(ctx, token.Address)
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(fmt.Errorf("failed to load taxes for %s: %w", token.Symbol, err))
		os.Exit(1)
	}

	if jsonOutput {
		printTaxesJSON(token, set)
		return
	}
	displayTaxes(token, set)
}

func printTaxesJSON(token tokens.Token, set *tax.Set) {
	sideOut := func(side tax.Side) []map[string]string {
		rows, _ := tax.MergeCustomTax(set, 0, side)
		out := make([]map[string]string, 0, len(rows))
		for _, row := range rows {
			out = append(out, map[string]string{
				"name":   row.Name,
				"amount": row.Amount.String(),
				"kind":   row.Kind.String(),
			})
		}
		return out
	}
	out := map[string]interface{}{
		"token":   token.Symbol,
		"address": token.Address.Hex(),
	}
	if taxesSide != "sell" {
		out["buy"] = sideOut(tax.SideBuy)
	}
	if taxesSide != "buy" {
		out["sell"] = sideOut(tax.SideSell)
	}
	jsonData, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(jsonData))
}

func displayTaxes(token tokens.Token, set *tax.Set) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("          TAX STRUCTURE: %s", token.Symbol)
	fmt.Println(strings.Repeat("=", 60))

	printSide := func(label string, side tax.Side) {
		rows, total := tax.MergeCustomTax(set, 0, side)
		fmt.Printf("\n  %s\n", color.YellowString(label))
		if len(rows) == 0 {
			fmt.Println("    No taxes.")
			return
		}
		for _, row := range rows {
			if row.IsTotal {
				continue
			}
			fmt.Printf("    %-38s %s\n", row.Name, row.Amount)
		}
		fmt.Printf("    %-38s %s\n", tax.TotalRowName, color.WhiteString(total.String()))
	}

	if taxesSide != "sell" {
		printSide("Buy", tax.SideBuy)
	}
	if taxesSide != "buy" {
		printSide("Sell", tax.SideSell)
	}
	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}
