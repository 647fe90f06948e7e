package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pawswap/config"
	"pawswap/pkg/session"
	"pawswap/pkg/swap"
	"pawswap/pkg/types"
)

var (
	watchStatus   bool
	watchInterval int
)

var statusCmd = &cobra.Command{
	Use:   "status [tx-hash]",
	Short: "Check the status of a submitted swap",
	Long: `Check the on-chain status of a swap by its transaction hash, or list
the recorded swap history when no hash is given.

Examples:
  pawswap status
  pawswap status 0x1234...abcd
  pawswap status 0x1234...abcd --watch
  pawswap status 0x1234...abcd --watch --interval 10`,
	Args: cobra.MaximumNArgs(1),
	Run:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVarP(&watchStatus, "watch", "w", false, "Watch status updates until the swap is mined")
	statusCmd.Flags().IntVar(&watchInterval, "interval", 5, "Polling interval in seconds (when watching)")
}

func runStatus(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if len(args) == 0 {
		listHistory(jsonOutput)
		return
	}
	txHash := args[0]

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

	if watchStatus {
		watchSwapStatus(ctx, svc, txHash, jsonOutput)
		return
	}

	status, err := svc.Status(ctx, txHash)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	recordFinalStatus(status)
	if jsonOutput {
		jsonData, _ := json.MarshalIndent(status, "", "  ")
		fmt.Println(string(jsonData))
		return
	}
	displayStatus(status)
}

func watchSwapStatus(ctx context.Context, svc *swap.Service, txHash string, jsonOutput bool) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Waiting for the transaction to be mined..."
		s.Start()
	}

	for {
		status, err := svc.Status(ctx, txHash)
		if err != nil {
			if !jsonOutput {
				s.Stop()
			}
			printError(err)
			os.Exit(1)
		}

		if !status.Pending {
			if !jsonOutput {
				s.Stop()
			}
			recordFinalStatus(status)
			if jsonOutput {
				jsonData, _ := json.MarshalIndent(status, "", "  ")
				fmt.Println(string(jsonData))
			} else {
				displayStatus(status)
			}
			if status.Status == "failed" {
				os.Exit(1)
			}
			return
		}

		time.Sleep(time.Duration(watchInterval) * time.Second)
	}
}

func displayStatus(status *types.SwapStatus) {
	fmt.Println()
	switch status.Status {
	case "success":
		color.Green("✓ Swap succeeded")
	case "failed":
		color.Red("✗ Swap failed (transaction reverted)")
	default:
		color.Yellow("… Swap pending")
	}
	fmt.Printf("  Transaction: %s\n", color.CyanString(status.TxHash))
	if status.BlockNumber > 0 {
		fmt.Printf("  Block:       %d\n", status.BlockNumber)
		fmt.Printf("  Gas used:    %d\n", status.GasUsed)
	}
	fmt.Println()
}

// recordFinalStatus updates the history file once a swap is mined. A hash
// submitted from another machine will not be in the file, which is fine.
func recordFinalStatus(status *types.SwapStatus) {
	if status.Pending {
		return
	}
	history, err := session.NewHistory("")
	if err != nil {
		return
	}
	_ = history.UpdateStatus(status.TxHash, status.Status)
}

func listHistory(jsonOutput bool) {
	history, err := session.NewHistory("")
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	records := history.List()

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(records, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	if len(records) == 0 {
		fmt.Println("\nNo recorded swaps yet.")
		return
	}

	fmt.Printf("\nFound %d recorded swap(s):\n\n", len(records))
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		statusColor := color.YellowString
		switch r.Status {
		case "success":
			statusColor = color.GreenString
		case "failed":
			statusColor = color.RedString
		}
		fmt.Printf("  %s  %s %s -> %s %s  tax %s  [%s]\n",
			r.Timestamp.Format("2006-01-02 15:04"),
			r.AmountIn, color.YellowString(r.InputToken),
			r.AmountOut, color.YellowString(r.OutputToken),
			r.TotalTax, statusColor(r.Status))
		fmt.Printf("      %s\n", color.CyanString(r.TxHash))
	}
	fmt.Println()
}
