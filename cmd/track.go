package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"symbiosis-swap/config"
	"symbiosis-swap/pkg/parser"
	"symbiosis-swap/pkg/tracker"
)

var (
	trackLabel       string
	trackPendingOnly bool
	trackInterval    int
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Manage the list of tracked cross-chain transactions",
	Long: `Keep a local list of cross-chain transactions and refresh their status in batches.

Tracked transactions are stored in tracker_file (~/.symbiosis-swap-tracked.json by
default). Transactions sent with --track are added automatically.`,
}

var trackAddCmd = &cobra.Command{
	Use:   "add <chain>:<tx-hash>",
	Short: "Start tracking a transaction",
	Long: `Add a transaction to the tracked list.

Examples:
  symbiosis-swap track add bsc:0x5f3c...e21a --label "usdt to mantle"`,
	Args: cobra.ExactArgs(1),
	Run:  runTrackAdd,
}

var trackListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked transactions",
	Long: `Display every tracked transaction with its last known status.

Examples:
  symbiosis-swap track list
  symbiosis-swap track list --pending
  symbiosis-swap track list --json`,
	Args: cobra.NoArgs,
	Run:  runTrackList,
}

var trackRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Stop tracking a transaction",
	Long: `Remove a transaction from the tracked list. The id may be shortened to any
unique prefix.

Examples:
  symbiosis-swap track remove 3f2a9c1b`,
	Args: cobra.ExactArgs(1),
	Run:  runTrackRemove,
}

var trackCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Refresh the status of pending transactions once",
	Args:  cobra.NoArgs,
	Run:   runTrackCheck,
}

var trackWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Refresh pending transactions until all are final",
	Long: `Poll Symbiosis for every pending tracked transaction until each reaches a final
status or gets stuck. Stuck transactions need a revert. Press Ctrl+C to stop.

Examples:
  symbiosis-swap track watch
  symbiosis-swap track watch --interval 60`,
	Args: cobra.NoArgs,
	Run:  runTrackWatch,
}

func init() {
	rootCmd.AddCommand(trackCmd)
	trackCmd.AddCommand(trackAddCmd)
	trackCmd.AddCommand(trackListCmd)
	trackCmd.AddCommand(trackRemoveCmd)
	trackCmd.AddCommand(trackCheckCmd)
	trackCmd.AddCommand(trackWatchCmd)

	trackAddCmd.Flags().StringVar(&trackLabel, "label", "", "Free-form label")
	trackListCmd.Flags().BoolVar(&trackPendingOnly, "pending", false, "Only show transactions that are not final")
	trackWatchCmd.Flags().IntVar(&trackInterval, "interval", int(tracker.DefaultCheckInterval/time.Second), "Polling interval in seconds")
}

func openTracker() *tracker.Manager {
	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	manager, err := tracker.NewManager(cfg.TrackerFile)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	return manager
}

func runTrackAdd(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	chain, hash, err := parser.ParseTxRef(args[0])
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	manager := openTracker()
	entry, err := manager.Add(chain, hash, trackLabel)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(entry)
		return
	}
	color.Green("\n✓ Tracking %s as %s\n", entry.Ref(), entry.ShortID())
	fmt.Println("\nRefresh its status with:")
	color.Cyan("  symbiosis-swap track check\n")
}

func runTrackList(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	manager := openTracker()
	entries := manager.List()
	if trackPendingOnly {
		entries = manager.Pending()
	}

	if jsonOutput {
		printJSON(entries)
		return
	}

	if len(entries) == 0 {
		color.Yellow("No tracked transactions found.\n")
		fmt.Println("Track one with:")
		color.Cyan("  symbiosis-swap track add <chain>:<tx-hash>\n")
		return
	}

	displayEntries(entries)
	fmt.Printf("\nTotal: %d (stored in %s)\n\n", len(entries), manager.StoragePath())
}

func runTrackRemove(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	manager := openTracker()
	entry, err := manager.Remove(args[0])
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(entry)
		return
	}
	color.Green("\n✓ Stopped tracking %s (%s)\n", entry.Ref(), entry.ShortID())
}

func runTrackCheck(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, apiClient, log := setup(cmd)
	manager, err := tracker.NewManager(cfg.TrackerFile)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	ctx, cancel := signalContext()
	defer cancel()

	watcher := tracker.NewWatcher(manager, apiClient, log)

	var updated []tracker.Entry
	err = withSpinner(jsonOutput, "Checking tracked transactions...", func() error {
		updated, err = watcher.CheckOnce(ctx)
		return err
	})
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(updated)
		return
	}
	if len(updated) == 0 {
		color.Green("\nNo pending transactions to check.\n")
		return
	}
	displayEntries(updated)
	fmt.Println()
}

func runTrackWatch(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		fmt.Println(`{"error": "watch mode not supported with JSON output"}`)
		os.Exit(1)
	}

	cfg, apiClient, log := setup(cmd)
	manager, err := tracker.NewManager(cfg.TrackerFile)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	pending := manager.Pending()
	if len(pending) == 0 {
		color.Green("\nNo pending transactions to watch.\n")
		return
	}

	watcher := tracker.NewWatcher(manager, apiClient, log)
	watcher.SetInterval(time.Duration(trackInterval) * time.Second)
	watcher.OnUpdate = func(e tracker.Entry) {
		fmt.Printf("[%s] %s  %s  %s\n",
			time.Now().Format("15:04:05"),
			color.CyanString(e.ShortID()),
			e.Ref(),
			statusColor(e.StatusText()))
	}

	fmt.Printf("\nWatching %d pending transaction(s)\n", len(pending))
	fmt.Printf("Checking every %s. Press Ctrl+C to stop.\n\n", watcher.Interval())

	ctx, cancel := signalContext()
	defer cancel()

	if err := watcher.Run(ctx); err != nil {
		fmt.Println("\nStopped watching.")
		return
	}

	stuck := manager.Stuck()
	for _, e := range stuck {
		color.Magenta("\n%s (%s) is stuck. Get the transaction that returns the funds with:", e.Ref(), e.ShortID())
		color.Cyan("  symbiosis-swap revert %s", e.Ref())
	}
	if len(stuck) > 0 {
		color.Green("\n✓ No tracked transaction is waiting anymore. %d stuck.\n", len(stuck))
		return
	}
	color.Green("\n✓ All tracked transactions are final.\n")
}

func displayEntries(entries []tracker.Entry) {
	fmt.Println("\n" + strings.Repeat("=", 120))
	color.Green("                                               TRACKED TRANSACTIONS")
	fmt.Println(strings.Repeat("=", 120))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nID\tTRANSACTION\tSTATUS\tCHECKS\tLAST CHECKED\tLABEL")
	fmt.Fprintln(w, "--\t-----------\t------\t------\t------------\t-----")
	for _, e := range entries {
		lastChecked := "-"
		if e.LastChecked != nil {
			lastChecked = e.LastChecked.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			e.ShortID(),
			e.Ref(),
			statusColor(e.StatusText()),
			e.Checks,
			lastChecked,
			e.Label)
	}
	w.Flush()

	for _, e := range entries {
		if e.Destination != nil {
			fmt.Printf("  %s  destination %s:%s\n", color.CyanString(e.ShortID()), e.Destination.ChainID, e.Destination.Hash.Hex())
		}
	}
}
