package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"symbiosis-swap/pkg/api"
	"symbiosis-swap/pkg/client"
	"symbiosis-swap/pkg/parser"
	"symbiosis-swap/pkg/tracker"
)

var (
	watchStatus   bool
	watchInterval int
)

var statusCmd = &cobra.Command{
	Use:   "status <chain>:<tx-hash> [<chain>:<tx-hash>...]",
	Short: "Check the cross-chain status of transactions",
	Long: `Check the cross-chain status of one or more transactions sent to Symbiosis.
Several transactions are checked with a single batch request.

Examples:
  symbiosis-swap status bsc:0x5f3c...e21a
  symbiosis-swap status bsc:0x5f3c...e21a mantle:0x9ab0...77c1
  symbiosis-swap status bsc:0x5f3c...e21a --watch --interval 10`,
	Args: cobra.MinimumNArgs(1),
	Run:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVarP(&watchStatus, "watch", "w", false, "Watch status until every transaction is final or stuck")
	statusCmd.Flags().IntVar(&watchInterval, "interval", 10, "Polling interval in seconds (when watching)")
}

func runStatus(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	txs := make([]api.TxHashWithChainID, len(args))
	for i, ref := range args {
		chain, hash, err := parser.ParseTxRef(ref)
		if err != nil {
			printError(err)
			os.Exit(1)
		}
		txs[i] = api.TxHashWithChainID{TransactionHash: hash, ChainID: chain}
	}

	_, apiClient, _ := setup(cmd)

	ctx, cancel := signalContext()
	defer cancel()

	if watchStatus {
		watchTxStatus(ctx, apiClient, txs, jsonOutput)
		return
	}

	var statuses []api.TxResponse
	err := withSpinner(jsonOutput, "Checking transaction status...", func() error {
		var err error
		statuses, err = fetchStatuses(ctx, apiClient, txs)
		return err
	})
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(statuses)
		return
	}
	for i, status := range statuses {
		displayStatus(txs[i], status)
	}
}

// fetchStatuses uses the single-transaction endpoint for one transaction and the
// batch endpoint otherwise.
func fetchStatuses(ctx context.Context, apiClient *client.Symbiosis, txs []api.TxHashWithChainID) ([]api.TxResponse, error) {
	if len(txs) == 1 {
		status, err := apiClient.TxStatus(ctx, txs[0].ChainID, txs[0].TransactionHash)
		if err != nil {
			return nil, err
		}
		return []api.TxResponse{*status}, nil
	}
	return apiClient.BatchTxStatus(ctx, txs)
}

func watchTxStatus(ctx context.Context, apiClient *client.Symbiosis, txs []api.TxHashWithChainID, jsonOutput bool) {
	if jsonOutput {
		fmt.Println(`{"error": "watch mode not supported with JSON output"}`)
		os.Exit(1)
	}

	interval := pollInterval(watchInterval)
	fmt.Printf("\nWatching %d transaction(s)\n", len(txs))
	fmt.Printf("Checking every %s. Press Ctrl+C to stop.\n\n", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		statuses, err := fetchStatuses(ctx, apiClient, txs)
		if err != nil {
			if ctx.Err() != nil {
				fmt.Println("\nStopped watching.")
				return
			}
			color.Red("Error: %v", err)
		} else {
			settled := true
			for i, status := range statuses {
				displayStatus(txs[i], status)
				settled = settled && status.Status.Settled()
			}
			if settled {
				printRevertHints(txs, statuses)
				color.Green("All transactions are final or stuck.")
				return
			}
		}

		select {
		case <-ctx.Done():
			fmt.Println("\nStopped watching.")
			return
		case <-ticker.C:
		}
	}
}

// pollInterval converts --interval seconds to a ticker period of at least
// tracker.MinCheckInterval.
func pollInterval(seconds int) time.Duration {
	interval := time.Duration(seconds) * time.Second
	if interval < tracker.MinCheckInterval {
		interval = tracker.MinCheckInterval
	}
	return interval
}

func printRevertHints(txs []api.TxHashWithChainID, statuses []api.TxResponse) {
	for i, status := range statuses {
		if !status.Status.Stuck() {
			continue
		}
		color.Magenta("%s:%s is stuck. Get the transaction that returns the funds with:", txs[i].ChainID, txs[i].TransactionHash.Hex())
		color.Cyan("  symbiosis-swap revert %s:%s\n", txs[i].ChainID, txs[i].TransactionHash.Hex())
	}
}

func displayStatus(tx api.TxHashWithChainID, status api.TxResponse) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                      TRANSACTION STATUS")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  Transaction:     %s\n", color.CyanString("%s:%s", tx.ChainID, tx.TransactionHash.Hex()))
	fmt.Printf("  Status:          %s (%d)\n", statusColor(status.Status.String()), status.Status.Code)
	fmt.Printf("  Checked At:      %s\n", time.Now().Format("2006-01-02 15:04:05"))

	if status.TxIn.Hash != (common.Hash{}) {
		fmt.Printf("  Incoming Tx:     %s\n", color.HiBlackString("%s:%s", status.TxIn.ChainID, status.TxIn.Hash.Hex()))
	}
	if status.Tx.Hash != (common.Hash{}) {
		fmt.Printf("  Latest Tx:       %s\n", color.HiBlackString("%s:%s", status.Tx.ChainID, status.Tx.Hash.Hex()))
	}
	if status.TransitTokenSent != nil {
		fmt.Printf("  Transit Token:   %s\n", formatTokenAmount(*status.TransitTokenSent))
	}

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}
