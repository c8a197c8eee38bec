package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"symbiosis-swap/pkg/api"
	"symbiosis-swap/pkg/parser"
	"symbiosis-swap/pkg/types"
)

var (
	revertExecute bool
	revertTrack   bool
)

var revertCmd = &cobra.Command{
	Use:   "revert <chain>:<tx-hash>",
	Short: "Get the transaction that returns the funds of a stuck swap",
	Long: `Ask Symbiosis for the transaction that reverts a stuck cross-chain swap.
The reference is the chain and hash of the original transaction.

Examples:
  symbiosis-swap revert bsc:0x5f3c...e21a
  symbiosis-swap revert bsc:0x5f3c...e21a --execute --track`,
	Args: cobra.ExactArgs(1),
	Run:  runRevert,
}

var stuckedCmd = &cobra.Command{
	Use:   "stucked [address]",
	Short: "List stuck cross-chain transactions of an address",
	Long: `List the cross-chain transactions sent from an address that are stuck and can
be reverted. Defaults to the configured wallet address.

Examples:
  symbiosis-swap stucked 0x123...
  symbiosis-swap stucked --json`,
	Args: cobra.MaximumNArgs(1),
	Run:  runStucked,
}

func init() {
	rootCmd.AddCommand(revertCmd)
	rootCmd.AddCommand(stuckedCmd)

	revertCmd.Flags().BoolVar(&revertExecute, "execute", false, "Sign and send the returned transaction")
	revertCmd.Flags().BoolVar(&revertTrack, "track", false, "Track the sent transaction")
	revertCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompt")
}

func runRevert(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	chain, hash, err := parser.ParseTxRef(args[0])
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	cfg, apiClient, log := setup(cmd)

	ctx, cancel := signalContext()
	defer cancel()

	var resp *api.RevertResponse
	err = withSpinner(jsonOutput, "Fetching revert transaction...", func() error {
		resp, err = apiClient.Revert(ctx, api.Revert{TransactionHash: hash, ChainID: chain})
		return err
	})
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		if !revertExecute {
			printJSON(resp)
			return
		}
	} else {
		fmt.Println("\n" + strings.Repeat("=", 60))
		color.Green("                    REVERT TRANSACTION")
		fmt.Println(strings.Repeat("=", 60))
		fmt.Printf("\n  Original TX:       %s\n", color.CyanString(args[0]))
		fmt.Printf("  Fee:               %s\n", formatTokenAmount(resp.Fee))
		fmt.Printf("\n  Transaction Chain: %s\n", resp.Tx.ChainID)
		fmt.Printf("  Transaction To:    %s\n", color.CyanString(resp.Tx.To.Hex()))
		fmt.Printf("  Value:             %s\n", parser.FormatAmount(resp.Tx.Value, types.DefaultDecimals))
		fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
	}

	if !revertExecute {
		fmt.Println("Run again with --execute to sign and send this transaction.")
		return
	}

	if !noConfirm && !jsonOutput {
		if !confirm("Send revert transaction?") {
			fmt.Println("\nRevert cancelled.")
			os.Exit(0)
		}
	}

	from, err := walletAddress(cfg.Wallet.PrivateKey)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	sent, err := executeTx(ctx, cfg, log, jsonOutput, from, resp.Tx, nil, common.Address{})
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	reportSent(cfg, jsonOutput, resp.Tx.ChainID, sent, revertTrack, "revert "+args[0])
}

func runStucked(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, apiClient, _ := setup(cmd)

	var (
		address common.Address
		err     error
	)
	if len(args) == 1 {
		address, err = parser.ParseAddress(args[0])
	} else {
		address, err = walletAddress(cfg.Wallet.PrivateKey)
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	ctx, cancel := signalContext()
	defer cancel()

	var stucked []api.StuckedResponse
	err = withSpinner(jsonOutput, "Fetching stuck transactions...", func() error {
		stucked, err = apiClient.Stucked(ctx, address)
		return err
	})
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(stucked)
		return
	}

	if len(stucked) == 0 {
		color.Green("\nNo stuck transactions found for %s.\n", address.Hex())
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 100))
	color.Yellow("                                   STUCK TRANSACTIONS")
	fmt.Println(strings.Repeat("=", 100))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nCHAIN\tHASH\tCREATED\tAMOUNT")
	fmt.Fprintln(w, "-----\t----\t-------\t------")
	for _, s := range stucked {
		created := s.CreateAt
		if t, err := s.CreatedAt(); err == nil {
			created = t.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s %s\n",
			s.ChainID, s.Hash.Hex(), created,
			parser.FormatAmount(s.TokenAmount.Amount, s.TokenAmount.Decimals), s.TokenAmount.Label())
	}
	w.Flush()

	fmt.Println("\nTo get the transaction that returns the funds:")
	color.Cyan("  symbiosis-swap revert <chain>:<hash>\n")
}
