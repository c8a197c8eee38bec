package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"symbiosis-swap/pkg/api"
	"symbiosis-swap/pkg/parser"
	"symbiosis-swap/pkg/types"
)

var (
	bridgeFrom     string
	bridgeTo       string
	bridgeDecimals uint8
	bridgeExecute  bool
	bridgeTrack    bool
)

var bridgeCmd = &cobra.Command{
	Use:   "bridge <amount> <token-in> to <chain-out>",
	Short: "Quote and optionally execute bridging a token to another chain",
	Long: `Get a Symbiosis quote for bridging an exact amount of a token to another chain.
The destination is a chain name or id; the bridged token is chosen by the protocol.

Examples:
  symbiosis-swap bridge 100 arbitrum:0xaf88d065e77c8cC2239327C5EDb3A432268e5831 to base --decimals 6 --from 0x123...
  symbiosis-swap bridge 0.1 mainnet to zksync --execute --track`,
	Args: cobra.MinimumNArgs(1),
	Run:  runBridge,
}

func init() {
	rootCmd.AddCommand(bridgeCmd)

	bridgeCmd.Flags().StringVar(&bridgeFrom, "from", "", "Sender address (defaults to the configured wallet)")
	bridgeCmd.Flags().StringVar(&bridgeTo, "to", "", "Recipient address (defaults to the sender)")
	bridgeCmd.Flags().Uint8Var(&bridgeDecimals, "decimals", types.DefaultDecimals, "Decimals of the input token")
	bridgeCmd.Flags().BoolVar(&bridgeExecute, "execute", false, "Sign and send the returned transaction")
	bridgeCmd.Flags().BoolVar(&bridgeTrack, "track", false, "Track the sent transaction")
	bridgeCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompt")
}

func runBridge(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	bridgeReq, err := parser.ParseSwapCommand(strings.Join(args, " "))
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if !bridgeReq.TokenOut.Native() {
		printError(fmt.Errorf("bridge destination must be a chain, got token %s", bridgeReq.TokenOut.Address))
		os.Exit(1)
	}
	if !bridgeReq.TokenIn.Native() {
		bridgeReq.TokenIn.Decimals = bridgeDecimals
	}

	amount, err := parser.ParseAmount(bridgeReq.Amount, bridgeReq.TokenIn.Decimals)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	cfg, apiClient, log := setup(cmd)

	from, to, err := resolveAccounts(cfg, bridgeFrom, bridgeTo)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	ctx, cancel := signalContext()
	defer cancel()

	tokenIn := types.NewTokenAmount(bridgeReq.TokenIn, amount)
	req := api.BridgingExactIn{
		TokenAmountIn: tokenIn,
		ChainIDOut:    bridgeReq.TokenOut.ChainID,
		From:          from,
		To:            to,
	}

	var quote *api.BridgeResponse
	err = withSpinner(jsonOutput, "Fetching bridge quote...", func() error {
		quote, err = apiClient.Bridge(ctx, req)
		return err
	})
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	display := types.QuoteDisplay{
		Kind:      "BRIDGE QUOTE",
		AmountIn:  parser.FormatAmount(tokenIn.Amount, tokenIn.Decimals),
		TokenIn:   tokenLabel(tokenIn.Token),
		AmountOut: parser.FormatAmount(quote.TokenAmountOut.Amount, quote.TokenAmountOut.Decimals),
		TokenOut:  tokenLabel(quote.TokenAmountOut.Token),
		Fee:       formatTokenAmount(quote.Fee),
		TxChain:   quote.Tx.ChainID.String(),
		TxTo:      quote.Tx.To.Hex(),
		TxValue:   parser.FormatAmount(quote.Tx.Value, types.DefaultDecimals),
		Type:      quote.Type,
	}
	if quote.ApproveTo != (common.Address{}) {
		display.ApproveTo = quote.ApproveTo.Hex()
	}

	if jsonOutput {
		if !bridgeExecute {
			printJSON(quote)
			return
		}
	} else {
		displayQuote(display)
	}

	if !bridgeExecute {
		fmt.Println("Run again with --execute to sign and send this transaction.")
		return
	}

	if !noConfirm && !jsonOutput {
		if !confirm("Proceed with bridging?") {
			fmt.Println("\nBridging cancelled.")
			os.Exit(0)
		}
	}

	hash, err := executeTx(ctx, cfg, log, jsonOutput, from, quote.Tx, &tokenIn, quote.ApproveTo)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	reportSent(cfg, jsonOutput, quote.Tx.ChainID, hash, bridgeTrack, "bridge "+bridgeReq.Amount+" "+display.TokenIn+" to "+bridgeReq.TokenOut.ChainID.String())
}
