package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"symbiosis-swap/config"
	"symbiosis-swap/pkg/parser"
	"symbiosis-swap/pkg/tracker"
	"symbiosis-swap/pkg/types"
	"symbiosis-swap/pkg/wallet"
)

// resolveAccounts returns the sender and recipient of a quote. The sender defaults
// to the configured wallet and the recipient to the sender.
func resolveAccounts(cfg *config.Config, fromFlag, toFlag string) (common.Address, common.Address, error) {
	var from common.Address
	switch {
	case fromFlag != "":
		addr, err := parser.ParseAddress(fromFlag)
		if err != nil {
			return common.Address{}, common.Address{}, fmt.Errorf("--from: %w", err)
		}
		from = addr
	default:
		addr, err := walletAddress(cfg.Wallet.PrivateKey)
		if err != nil {
			return common.Address{}, common.Address{}, fmt.Errorf("--from is required: %w", err)
		}
		from = addr
	}

	if toFlag == "" {
		return from, from, nil
	}
	to, err := parser.ParseAddress(toFlag)
	if err != nil {
		return common.Address{}, common.Address{}, fmt.Errorf("--to: %w", err)
	}
	return from, to, nil
}

// walletAddress returns the account of the configured private key.
func walletAddress(privateKey string) (common.Address, error) {
	if privateKey == "" {
		return common.Address{}, fmt.Errorf("no address given and no wallet private key configured")
	}
	return wallet.AddressFromKey(privateKey)
}

func openSender(cfg *config.Config, chain types.Chain, log logrus.FieldLogger) (*wallet.Sender, error) {
	network, err := cfg.Network(chain)
	if err != nil {
		return nil, err
	}
	return wallet.Dial(chain, wallet.Network{
		RPCURL:   network.RPCURL,
		GasLimit: network.GasLimit,
		GasPrice: network.GasPrice,
	}, cfg.Wallet.PrivateKey, log)
}

// executeTx sends a transaction returned by the API from the configured wallet.
// When tokenIn is an ERC-20 token and approveTo is set, the allowance is raised
// first and the approval is waited for.
func executeTx(ctx context.Context, cfg *config.Config, log logrus.FieldLogger, jsonOutput bool, from common.Address, tx types.Tx, tokenIn *types.TokenAmount, approveTo common.Address) (common.Hash, error) {
	sender, err := openSender(cfg, tx.ChainID, log)
	if err != nil {
		return common.Hash{}, err
	}
	defer sender.Close()

	if sender.Address() != from {
		return common.Hash{}, fmt.Errorf("quote was built for %s but the wallet key controls %s", from.Hex(), sender.Address().Hex())
	}

	if tokenIn != nil && !tokenIn.Native() && approveTo != (common.Address{}) {
		if tokenIn.ChainID != tx.ChainID {
			return common.Hash{}, fmt.Errorf("token is on %s but the transaction is for %s", tokenIn.ChainID, tx.ChainID)
		}

		var approveHash common.Hash
		err = withSpinner(jsonOutput, "Approving token...", func() error {
			approveHash, err = sender.Approve(ctx, common.HexToAddress(tokenIn.Address), approveTo, tokenIn.Amount)
			if err != nil || approveHash == (common.Hash{}) {
				return err
			}
			_, err = sender.WaitMined(ctx, approveHash)
			return err
		})
		if err != nil {
			return common.Hash{}, fmt.Errorf("approval failed: %w", err)
		}
		if approveHash != (common.Hash{}) && !jsonOutput {
			fmt.Printf("  Approval TX:       %s\n", color.CyanString(approveHash.Hex()))
		}
	}

	var hash common.Hash
	err = withSpinner(jsonOutput, "Sending transaction...", func() error {
		hash, err = sender.Send(ctx, tx)
		return err
	})
	return hash, err
}

// reportSent prints the hash of a sent transaction and tracks it if asked.
func reportSent(cfg *config.Config, jsonOutput bool, chain types.Chain, hash common.Hash, track bool, label string) {
	if jsonOutput {
		printJSON(types.TxOrigin{Hash: hash, ChainID: chain})
	} else {
		color.Green("\n✓ Transaction sent successfully!")
		fmt.Printf("  Transaction Hash:  %s\n", color.CyanString(hash.Hex()))
	}

	if track {
		trackTx(cfg, chain, hash, label, jsonOutput)
	}

	if !jsonOutput {
		fmt.Println("\nYou can monitor the cross-chain status using:")
		color.Cyan("  symbiosis-swap status %s:%s\n", chain, hash.Hex())
	}
}

// trackTx adds a sent transaction to the local tracker.
func trackTx(cfg *config.Config, chain types.Chain, hash common.Hash, label string, jsonOutput bool) {
	manager, err := tracker.NewManager(cfg.TrackerFile)
	if err != nil {
		color.Red("Failed to open tracker: %v", err)
		return
	}
	entry, err := manager.Add(chain, hash, label)
	if err != nil {
		color.Red("Failed to track transaction: %v", err)
		return
	}
	if !jsonOutput {
		fmt.Printf("  Tracking ID:       %s\n", color.CyanString(entry.ShortID()))
	}
}

func confirm(prompt string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("\n%s (y/N): ", prompt)

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

func tokenLabel(t types.Token) string {
	return fmt.Sprintf("%s on %s", t.Label(), t.ChainID)
}

func formatTokenAmount(ta types.TokenAmount) string {
	return fmt.Sprintf("%s %s", parser.FormatAmount(ta.Amount, ta.Decimals), color.YellowString(tokenLabel(ta.Token)))
}

func statusColor(status string) string {
	switch types.TxStatusText(status) {
	case types.TxSuccess:
		return color.GreenString(status)
	case types.TxPending:
		return color.YellowString(status)
	case types.TxStucked:
		return color.MagentaString(status)
	case types.TxReverted, types.TxNotFound:
		return color.RedString(status)
	default:
		return color.CyanString(status)
	}
}
