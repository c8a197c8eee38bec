package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"symbiosis-swap/pkg/api"
	"symbiosis-swap/pkg/types"
)

var (
	filterName      string
	routesFromChain string
	routesToChain   string
)

var chainsCmd = &cobra.Command{
	Use:     "chains",
	Aliases: []string{"ls"},
	Short:   "List the chains supported by Symbiosis",
	Long: `List every chain the Symbiosis API operates on, together with the name this
tool accepts for it.

Examples:
  symbiosis-swap chains
  symbiosis-swap chains --name arb`,
	Args: cobra.NoArgs,
	Run:  runChains,
}

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the available cross-chain routes",
	Long: `List the token pairs that can be swapped across chains.

Examples:
  symbiosis-swap routes
  symbiosis-swap routes --from-chain bsc --to-chain mantle`,
	Args: cobra.NoArgs,
	Run:  runRoutes,
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the Symbiosis API is reachable",
	Args:  cobra.NoArgs,
	Run:   runHealth,
}

func init() {
	rootCmd.AddCommand(chainsCmd)
	rootCmd.AddCommand(routesCmd)
	rootCmd.AddCommand(healthCmd)

	chainsCmd.Flags().StringVar(&filterName, "name", "", "Filter by chain name")
	routesCmd.Flags().StringVar(&routesFromChain, "from-chain", "", "Only routes leaving this chain")
	routesCmd.Flags().StringVar(&routesToChain, "to-chain", "", "Only routes arriving on this chain")
}

func runChains(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	_, apiClient, _ := setup(cmd)

	ctx, cancel := signalContext()
	defer cancel()

	var chains []api.SymbiosisChain
	err := withSpinner(jsonOutput, "Fetching supported chains...", func() error {
		var err error
		chains, err = apiClient.Chains(ctx)
		return err
	})
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if filterName != "" {
		var filtered []api.SymbiosisChain
		for _, c := range chains {
			if strings.Contains(strings.ToLower(c.Name), strings.ToLower(filterName)) {
				filtered = append(filtered, c)
			}
		}
		chains = filtered
	}

	if jsonOutput {
		printJSON(chains)
		return
	}

	if len(chains) == 0 {
		fmt.Println("\nNo chains found matching the criteria.")
		return
	}

	sort.Slice(chains, func(i, j int) bool { return chains[i].ID < chains[j].ID })

	fmt.Println("\n" + strings.Repeat("=", 90))
	color.Green("                            SUPPORTED CHAINS")
	fmt.Println(strings.Repeat("=", 90) + "\n")

	for _, c := range chains {
		alias := color.HiBlackString("(unknown to this version)")
		if chain, ok := c.Chain(); ok {
			alias = color.YellowString(chain.String())
		}
		fmt.Printf("  %-12d %-22s %s  %s\n", c.ID, c.Name, alias, color.HiBlackString(c.Explorer))
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	fmt.Printf("\nTotal: %d chains\n\n", len(chains))
}

func runRoutes(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	from, err := optionalChain(routesFromChain)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	to, err := optionalChain(routesToChain)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	_, apiClient, _ := setup(cmd)

	ctx, cancel := signalContext()
	defer cancel()

	var routes []api.AvailableRoute
	err = withSpinner(jsonOutput, "Fetching available routes...", func() error {
		routes, err = apiClient.RoutesBetween(ctx, from, to)
		return err
	})
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(routes)
		return
	}

	if len(routes) == 0 {
		fmt.Println("\nNo routes found matching the criteria.")
		return
	}

	// Group routes by origin chain
	byOrigin := make(map[uint64][]api.AvailableRoute)
	for _, r := range routes {
		byOrigin[r.OriginChainID] = append(byOrigin[r.OriginChainID], r)
	}
	origins := make([]uint64, 0, len(byOrigin))
	for id := range byOrigin {
		origins = append(origins, id)
	}
	sort.Slice(origins, func(i, j int) bool { return origins[i] < origins[j] })

	fmt.Println("\n" + strings.Repeat("=", 90))
	color.Green("                            AVAILABLE ROUTES")
	fmt.Println(strings.Repeat("=", 90))

	for _, id := range origins {
		color.Cyan("\n%s", strings.ToUpper(chainName(id)))
		fmt.Println(strings.Repeat("-", 90))
		for _, r := range byOrigin[id] {
			fmt.Printf("  %s  ->  %s %s\n",
				color.HiBlackString(r.OriginToken),
				color.YellowString(chainName(r.DestinationChainID)),
				color.HiBlackString(r.DestinationToken))
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	fmt.Printf("\nTotal: %d routes from %d chains\n\n", len(routes), len(origins))
}

func runHealth(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	_, apiClient, _ := setup(cmd)

	ctx, cancel := signalContext()
	defer cancel()

	err := withSpinner(jsonOutput, "Checking API health...", func() error {
		return apiClient.HealthCheck(ctx)
	})
	if jsonOutput {
		out := map[string]any{"healthy": err == nil, "base_url": apiClient.BaseURL()}
		if err != nil {
			out["error"] = err.Error()
		}
		printJSON(out)
		if err != nil {
			os.Exit(1)
		}
		return
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	printSuccess(color.GreenString("✓ Symbiosis API at %s is healthy", apiClient.BaseURL()))
}

func optionalChain(name string) (types.Chain, error) {
	if name == "" {
		return 0, nil
	}
	return types.ParseChain(name)
}

func chainName(id uint64) string {
	if chain, err := types.ChainFromID(id); err == nil {
		return chain.String()
	}
	return fmt.Sprintf("chain %d", id)
}
