package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"pawswap/config"
	"pawswap/pkg/chain"
	"pawswap/pkg/parser"
	"pawswap/pkg/quote"
	"pawswap/pkg/session"
	"pawswap/pkg/swap"
	"pawswap/pkg/tax"
	"pawswap/pkg/tokens"
)

var (
	charityWallet string
	charityTax    string
	slippageBips  int64
	noConfirm     bool
	quoteOnly     bool
)

var swapCmd = &cobra.Command{
	Use:   "swap <amount> <source-token> to <dest-token>",
	Short: "Swap tokens through the PawSwap router",
	Long: `Swap between the native coin and a token through the PawSwap router.

The token's on-chain tax structure is fetched and itemized, an optional
charity tax (0-50%) is folded into the total, and the displayed
minimum-received figure is computed from the tax-adjusted quote so the
on-chain slippage check will not fail once taxes are deducted.

Examples:
  # Buy PAWTH with BNB
  pawswap swap 0.5 BNB to PAWTH

  # Sell, donating an extra 2% to the configured charity wallet
  pawswap swap 100 PAWTH to BNB --charity-tax 2

  # Donate to a specific wallet, skip confirmation
  pawswap swap 100 PAWTH to BNB --charity-tax 5 --charity 0x9e84... --yes

  # Quote only, do not submit
  pawswap swap 0.5 BNB to PAWTH --quote-only`,
	Args: cobra.MinimumNArgs(1),
	Run:  runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)

	swapCmd.Flags().StringVar(&charityWallet, "charity", "", "Charity wallet receiving the custom tax (default from config)")
	swapCmd.Flags().StringVar(&charityTax, "charity-tax", "0", "Custom charity tax percentage, 0-50")
	swapCmd.Flags().Int64Var(&slippageBips, "slippage", 0, "Slippage tolerance in basis points (default from config)")
	swapCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompt")
	swapCmd.Flags().BoolVar(&quoteOnly, "quote-only", false, "Show taxes and quote without submitting")
}

func runSwap(cmd *cobra.Command, args []string) {
	commandStr := strings.Join(args, " ")
	swapReq, err := parser.ParseSwapCommand(commandStr)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if err := parser.ValidateSwapRequest(swapReq); err != nil {
		printError(err)
		os.Exit(1)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if slippageBips <= 0 {
		slippageBips = cfg.SlippageBips
	}
	if charityWallet == "" {
		charityWallet = cfg.DefaultCharity
	}
	charityAddr, err := parseWallet(charityWallet)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	input, err := tokens.Resolve(swapReq.SourceToken)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	output, err := tokens.Resolve(swapReq.DestToken)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if input.Native == output.Native {
		printError(fmt.Errorf("one side of the swap must be %s", tokens.NativeSymbol))
		os.Exit(1)
	}

	amount, err := decimal.NewFromString(swapReq.Amount)
	if err != nil || amount.IsZero() {
		printError(fmt.Errorf("invalid amount %q", swapReq.Amount))
		os.Exit(1)
	}

	customRate, clamped, err := tax.ParseCustomPercent(charityTax)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if clamped && !jsonOutput {
		color.Yellow("\nCharity tax reduced to the maximum of %s", tax.MaxCustomRate)
	}

	ctx := context.Background()
	svc, err := swap.NewService(ctx, cfg, nil)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer svc.Close()

	// Fill metadata for tokens given by raw address
	input, err = svc.ResolveToken(ctx, input)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	output, err = svc.ResolveToken(ctx, output)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	ses := session.New(svc.WrappedNative())
	ses.SelectToken(session.FieldInput, tokenAddress(input))
	gen := ses.SelectToken(session.FieldOutput, tokenAddress(output))

	taxed := input
	if input.Native {
		taxed = output
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching tax structure..."
		s.Start()
	}
	taxSet, taxErr := svc.FetchTaxes(ctx, taxed.Address)
	if !jsonOutput {
		s.Stop()
	}
	if taxErr != nil {
		// Non-blocking for display: show the nominal quote with zero tax.
		// Submission stays gated, tax-bearing swaps need the real structure.
		if !jsonOutput {
			color.Yellow("\nUnable to load tax information for %s: %v", taxed.Symbol, taxErr)
			color.Yellow("Showing the nominal quote; submission is disabled until taxes load.\n")
		}
		quoteOnly = true
	} else {
		ses.ApplyTaxSet(gen, taxSet)
	}

	ses.SetCustomTax(customRate, charityAddr)
	if err := ses.TypeAmount(swapReq.Amount, true); err != nil {
		printError(err)
		os.Exit(1)
	}

	rows, totalTax := ses.DisplayTaxes()

	if err := ses.BeginQuoting(); err != nil {
		printError(err)
		os.Exit(1)
	}
	if !jsonOutput {
		s.Suffix = " Fetching quote..."
		s.Start()
	}
	result, err := svc.Calculator().Derive(ctx, quote.TradeRequest{
		Path:         svc.Path(input, output),
		ExactIn:      true,
		TypedAmount:  amount,
		Decimals:     input.Decimals,
		TotalTax:     totalTax,
		SlippageBips: slippageBips,
	})
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		if errors.Is(err, quote.ErrInsufficientLiquidity) {
			printError(fmt.Errorf("insufficient liquidity for %s %s -> %s", swapReq.Amount, input.Symbol, output.Symbol))
		} else {
			printError(err)
		}
		os.Exit(1)
	}
	if err := ses.ApplyQuotes(result); err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		printSwapJSON(input, output, result, rows, totalTax, slippageBips)
	} else {
		displaySwapQuote(input, output, result, rows, totalTax, slippageBips)
	}

	if quoteOnly {
		return
	}

	if !noConfirm && !jsonOutput {
		if !confirmSwap() {
			fmt.Println("\nSwap cancelled.")
			os.Exit(0)
		}
	}

	if err := ses.BeginConfirming(); err != nil {
		printError(err)
		os.Exit(1)
	}

	if !jsonOutput {
		s.Suffix = " Submitting swap..."
		s.Start()
	}
	amountRaw, _ := quote.ToRawUnits(amount, input.Decimals)
	txHash, err := svc.Execute(ctx, ses.Side(), chain.SwapParams{
		Token:         taxed.Address,
		Amount:        amountRaw,
		CustomTaxBips: big.NewInt(int64(customRate)),
		CharityWallet: charityAddr,
		MinReceived:   result.MinReceived,
	})
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		_ = ses.Fail(err.Error())
		printError(err)
		os.Exit(1)
	}
	_ = ses.Submit(txHash)

	recordSwap(input, output, result, totalTax, customRate, txHash)

	if verbose {
		fmt.Printf("\nSubmitted with total tax %s (custom %s), min received %s\n",
			totalTax, customRate, result.MinReceived)
	}

	if jsonOutput {
		out := map[string]interface{}{"tx_hash": txHash, "status": "submitted"}
		jsonData, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	color.Green("\n✓ Swap submitted!")
	fmt.Printf("  Transaction: %s\n", color.CyanString(txHash))
	fmt.Println("\nYou can monitor the swap status using:")
	color.Cyan("  pawswap status %s\n", txHash)
}

func displaySwapQuote(input, output tokens.Token, result *quote.Result, rows []tax.DisplayRow, totalTax tax.Rate, slippage int64) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                     SWAP QUOTE")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  From:              %s %s\n",
		quote.FromRawUnits(result.Nominal.AmountIn, input.Decimals), color.YellowString(input.Symbol))
	fmt.Printf("  To (pre-tax):      ~%s %s\n",
		quote.FromRawUnits(result.Nominal.AmountOut, output.Decimals), color.YellowString(output.Symbol))
	fmt.Printf("  To (post-tax):     ~%s %s\n",
		quote.FromRawUnits(result.Adjusted.AmountOut, output.Decimals), color.YellowString(output.Symbol))
	fmt.Printf("  Minimum received:  %s %s\n",
		quote.FromRawUnits(result.MinReceived, output.Decimals), color.YellowString(output.Symbol))
	fmt.Printf("  Slippage:          %s + %s tax\n", tax.Rate(slippage), totalTax)

	if len(rows) > 0 {
		fmt.Println("\n" + strings.Repeat("-", 60))
		for _, row := range rows {
			if row.IsTotal {
				color.White("  %-40s %s", row.Name, row.Amount)
				continue
			}
			fmt.Printf("  %-40s %s\n", row.Name, row.Amount)
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}

func printSwapJSON(input, output tokens.Token, result *quote.Result, rows []tax.DisplayRow, totalTax tax.Rate, slippage int64) {
	taxesOut := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		taxesOut = append(taxesOut, map[string]string{
			"name":   row.Name,
			"amount": row.Amount.String(),
			"kind":   row.Kind.String(),
		})
	}
	out := map[string]interface{}{
		"input_token":     input.Symbol,
		"output_token":    output.Symbol,
		"amount_in":       quote.FromRawUnits(result.Nominal.AmountIn, input.Decimals).String(),
		"amount_out":      quote.FromRawUnits(result.Nominal.AmountOut, output.Decimals).String(),
		"amount_out_post": quote.FromRawUnits(result.Adjusted.AmountOut, output.Decimals).String(),
		"min_received":    quote.FromRawUnits(result.MinReceived, output.Decimals).String(),
		"total_tax":       totalTax.String(),
		"slippage_bips":   slippage,
		"taxes":           taxesOut,
	}
	jsonData, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(jsonData))
}

func recordSwap(input, output tokens.Token, result *quote.Result, totalTax, customRate tax.Rate, txHash string) {
	history, err := session.NewHistory("")
	if err != nil {
		return
	}
	_ = history.Append(session.Record{
		InputToken:    input.Symbol,
		OutputToken:   output.Symbol,
		AmountIn:      quote.FromRawUnits(result.Nominal.AmountIn, input.Decimals).String(),
		AmountOut:     quote.FromRawUnits(result.Adjusted.AmountOut, output.Decimals).String(),
		TotalTax:      totalTax.String(),
		CustomTax:     customRate.String(),
		CharityWallet: charityWallet,
		TxHash:        txHash,
		Status:        "submitted",
	})
}

func tokenAddress(t tokens.Token) common.Address {
	if t.Native {
		return common.Address{}
	}
	return t.Address
}

func parseWallet(s string) (common.Address, error) {
	if s == "" {
		return common.Address{}, nil
	}
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid wallet address %q", s)
	}
	return common.HexToAddress(s), nil
}

func confirmSwap() bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("\nProceed with swap? (y/N): ")

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
