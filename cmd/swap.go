package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"symbiosis-swap/pkg/api"
	"symbiosis-swap/pkg/parser"
	"symbiosis-swap/pkg/types"
)

var (
	swapFrom        string
	swapTo          string
	swapSlippage    uint64
	swapDeadline    uint64
	swapDecimalsIn  uint8
	swapDecimalsOut uint8
	swapExecute     bool
	swapTrack       bool
	noConfirm       bool
)

var swapCmd = &cobra.Command{
	Use:   "swap <amount> <token-in> to <token-out>",
	Short: "Quote and optionally execute a cross-chain swap",
	Long: `Get a Symbiosis quote for swapping an exact amount of one token into another,
on the same chain or across chains.

Tokens are written as <chain> for the native token or <chain>:<address> for ERC-20
tokens. ERC-20 amounts are parsed with --decimals-in (18 by default).

Without --execute only the quote is shown. With --execute the returned transaction
is signed with wallet.private_key and sent through wallet.networks.<chain>.rpc_url;
ERC-20 allowances are approved first when needed.

Examples:
  # Quote 1 ETH on Ethereum to MNT on Mantle
  symbiosis-swap swap 1 mainnet to mantle --from 0x123...

  # Swap USDC on Arbitrum to native ETH on Base and track the result
  symbiosis-swap swap 100 arbitrum:0xaf88d065e77c8cC2239327C5EDb3A432268e5831 to base \
    --decimals-in 6 --execute --track

  # Skip the confirmation prompt
  symbiosis-swap swap 0.5 bsc to polygon --execute --yes`,
	Args: cobra.MinimumNArgs(1),
	Run:  runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)

	swapCmd.Flags().StringVar(&swapFrom, "from", "", "Sender address (defaults to the configured wallet)")
	swapCmd.Flags().StringVar(&swapTo, "to", "", "Recipient address (defaults to the sender)")
	swapCmd.Flags().Uint64Var(&swapSlippage, "slippage", api.DefaultSlippage, "Slippage tolerance in basis points")
	swapCmd.Flags().Uint64Var(&swapDeadline, "deadline", api.DefaultDeadline, "Deadline as a unix timestamp")
	swapCmd.Flags().Uint8Var(&swapDecimalsIn, "decimals-in", types.DefaultDecimals, "Decimals of the input token")
	swapCmd.Flags().Uint8Var(&swapDecimalsOut, "decimals-out", types.DefaultDecimals, "Decimals of the output token")
	swapCmd.Flags().BoolVar(&swapExecute, "execute", false, "Sign and send the returned transaction")
	swapCmd.Flags().BoolVar(&swapTrack, "track", false, "Track the sent transaction")
	swapCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompt")
}

func runSwap(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	// Parse the command
	swapReq, err := parser.ParseSwapCommand(strings.Join(args, " "))
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if !swapReq.TokenIn.Native() {
		swapReq.TokenIn.Decimals = swapDecimalsIn
	}
	if !swapReq.TokenOut.Native() {
		swapReq.TokenOut.Decimals = swapDecimalsOut
	}
	if err := parser.ValidateSwapRequest(swapReq); err != nil {
		printError(err)
		os.Exit(1)
	}

	amount, err := parser.ParseAmount(swapReq.Amount, swapReq.TokenIn.Decimals)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	cfg, apiClient, log := setup(cmd)

	from, to, err := resolveAccounts(cfg, swapFrom, swapTo)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	ctx, cancel := signalContext()
	defer cancel()

	tokenIn := types.NewTokenAmount(swapReq.TokenIn, amount)
	req := api.SwappingExactIn{
		TokenAmountIn: tokenIn,
		TokenOut:      swapReq.TokenOut,
		From:          from,
		To:            to,
		Slippage:      swapSlippage,
		Deadline:      swapDeadline,
	}

	var quote *api.SwapResponse
	err = withSpinner(jsonOutput, "Fetching swap quote...", func() error {
		quote, err = apiClient.Swap(ctx, req)
		return err
	})
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	display := swapDisplay(tokenIn, quote)
	if jsonOutput {
		if !swapExecute {
			printJSON(quote)
			return
		}
	} else {
		displayQuote(display)
	}

	if !swapExecute {
		fmt.Println("Run again with --execute to sign and send this transaction.")
		return
	}

	if !noConfirm && !jsonOutput {
		if !confirm("Proceed with swap?") {
			fmt.Println("\nSwap cancelled.")
			os.Exit(0)
		}
	}

	hash, err := executeTx(ctx, cfg, log, jsonOutput, from, quote.Tx, &tokenIn, quote.ApproveTo)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	reportSent(cfg, jsonOutput, quote.Tx.ChainID, hash, swapTrack, "swap "+swapReq.Amount+" "+display.TokenIn+" to "+display.TokenOut)
}

func swapDisplay(in types.TokenAmount, quote *api.SwapResponse) types.QuoteDisplay {
	route := make([]string, 0, len(quote.Route))
	for _, t := range quote.Route {
		route = append(route, t.Label())
	}

	d := types.QuoteDisplay{
		Kind:        "SWAP QUOTE",
		AmountIn:    parser.FormatAmount(in.Amount, in.Decimals),
		TokenIn:     tokenLabel(in.Token),
		AmountOut:   parser.FormatAmount(quote.TokenAmountOut.Amount, quote.TokenAmountOut.Decimals),
		TokenOut:    tokenLabel(quote.TokenAmountOut.Token),
		Fee:         formatTokenAmount(quote.Fee),
		Route:       strings.Join(route, " -> "),
		AmountInUSD: parser.FormatAmount(quote.AmountInUSD.Amount, quote.AmountInUSD.Decimals),
		TxChain:     quote.Tx.ChainID.String(),
		TxTo:        quote.Tx.To.Hex(),
		TxValue:     parser.FormatAmount(quote.Tx.Value, types.DefaultDecimals),
		Type:        quote.Type,
	}
	if impact, err := quote.PriceImpactPercent(); err == nil {
		d.PriceImpact = impact.String() + "%"
	}
	if quote.ApproveTo != (common.Address{}) {
		d.ApproveTo = quote.ApproveTo.Hex()
	}
	return d
}

func displayQuote(d types.QuoteDisplay) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                     %s", d.Kind)
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  From:              %s %s\n", d.AmountIn, color.YellowString(d.TokenIn))
	fmt.Printf("  To:                ~%s %s\n", d.AmountOut, color.YellowString(d.TokenOut))
	if d.Fee != "" {
		fmt.Printf("  Fee:               %s\n", d.Fee)
	}
	if d.PriceImpact != "" {
		fmt.Printf("  Price Impact:      %s\n", d.PriceImpact)
	}
	if d.AmountInUSD != "" && d.AmountInUSD != "0" {
		fmt.Printf("  Value (USD):       $%s\n", d.AmountInUSD)
	}
	if d.Route != "" {
		fmt.Printf("  Route:             %s\n", d.Route)
	}
	if d.ApproveTo != "" {
		fmt.Printf("  Approve To:        %s\n", color.CyanString(d.ApproveTo))
	}

	fmt.Printf("\n  Transaction Chain: %s\n", d.TxChain)
	fmt.Printf("  Transaction To:    %s\n", color.CyanString(d.TxTo))
	fmt.Printf("  Value:             %s\n", d.TxValue)
	if d.Type != "" {
		fmt.Printf("  Type:              %s\n", d.Type)
	}

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}
