package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"symbiosis-swap/config"
	"symbiosis-swap/pkg/client"
	"symbiosis-swap/pkg/rest"
)

var rootCmd = &cobra.Command{
	Use:   "symbiosis-swap",
	Short: "A CLI for cross-chain swaps using the Symbiosis API",
	Long: `symbiosis-swap is a command-line tool for cross-chain token swaps and bridging
through the Symbiosis protocol. It fetches quotes, can sign and send the returned
transactions, and tracks their cross-chain status.

Tokens are written as <chain> for the native token or <chain>:<address>.

Examples:
  symbiosis-swap swap 1 ethereum to mantle --from 0x123...
  symbiosis-swap bridge 100 arbitrum:0xaf88...5831 to base --from 0x123...
  symbiosis-swap status bsc:0xabc...
  symbiosis-swap chains`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
}

func printError(err error) {
	fmt.Printf("\nError: %v\n", err)

	var ue *rest.UnprocessableEntityError
	if errors.As(err, &ue) {
		for _, fe := range ue.Errors {
			fmt.Printf("  %s: %s\n", color.YellowString(fe.Field), fe.Message)
		}
	}
	fmt.Println()
}

func printSuccess(message string) {
	fmt.Printf("\n%s\n\n", message)
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

// newLogger returns a stderr logger; --verbose enables debug output.
func newLogger(cmd *cobra.Command) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(logrus.WarnLevel)
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// setup loads the configuration and builds the API client, exiting on failure.
func setup(cmd *cobra.Command) (*config.Config, *client.Symbiosis, *logrus.Logger) {
	log := newLogger(cmd)

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if cfg.PartnerID == "" {
		log.Warn("partner id is empty. Set SYMBIOSIS_PARTNER_ID or partner_id in .symbiosis-swap.yaml")
	}

	apiClient, err := client.New(client.Options{
		BaseURL:   cfg.BaseURL,
		PartnerID: cfg.PartnerID,
		Timeout:   cfg.Timeout,
		Logger:    log,
	})
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	return cfg, apiClient, log
}

// signalContext is cancelled on Ctrl+C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// withSpinner runs fn while showing a spinner, unless output is JSON.
func withSpinner(jsonOutput bool, suffix string, fn func() error) error {
	if jsonOutput {
		return fn()
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + suffix
	s.Start()
	err := fn()
	s.Stop()
	return err
}
