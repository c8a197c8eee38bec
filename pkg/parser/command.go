package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"symbiosis-swap/pkg/types"
)

var (
	swapPattern   = regexp.MustCompile(`(?i)^(\d+\.?\d*)\s+(\S+)\s+TO\s+(\S+)$`)
	amountPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// ParseSwapCommand parses a natural language swap command
// Examples:
//   - "swap 1 ethereum to mantle"
//   - "1.5 bsc:0x55d398326f99059fF775485246999027B3197955 to polygon"
//   - "100 arbitrum:0xaf88d065e77c8cC2239327C5EDb3A432268e5831 to base:0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"
//
// Tokens are written as "<chain>" for the chain's native token or "<chain>:<address>".
func ParseSwapCommand(command string) (*types.SwapRequest, error) {
	command = strings.TrimSpace(command)

	// Remove the word "swap" if present at the beginning
	if len(command) > 5 && strings.EqualFold(command[:5], "swap ") {
		command = strings.TrimSpace(command[5:])
	}

	matches := swapPattern.FindStringSubmatch(command)
	if matches == nil {
		return nil, fmt.Errorf("invalid swap command format. Expected: 'swap <amount> <token> to <token>' (e.g., 'swap 1 ethereum to mantle')")
	}

	tokenIn, err := ParseTokenSpec(matches[2])
	if err != nil {
		return nil, fmt.Errorf("source token: %w", err)
	}
	tokenOut, err := ParseTokenSpec(matches[3])
	if err != nil {
		return nil, fmt.Errorf("destination token: %w", err)
	}

	return &types.SwapRequest{
		Amount:   matches[1],
		TokenIn:  tokenIn,
		TokenOut: tokenOut,
	}, nil
}

// ValidateSwapRequest validates that a swap request has all required fields
func ValidateSwapRequest(req *types.SwapRequest) error {
	if req.Amount == "" {
		return fmt.Errorf("amount is required")
	}
	if !amountPattern.MatchString(req.Amount) {
		return fmt.Errorf("amount %q is not a positive decimal number", req.Amount)
	}
	if err := req.TokenIn.Validate(); err != nil {
		return fmt.Errorf("source token: %w", err)
	}
	if err := req.TokenOut.Validate(); err != nil {
		return fmt.Errorf("destination token: %w", err)
	}
	return nil
}

// ParseTokenSpec parses "<chain>" or "<chain>:<address>".
// The returned token uses the default precision; override Decimals for ERC-20 tokens.
func ParseTokenSpec(spec string) (types.Token, error) {
	spec = strings.TrimSpace(spec)
	chainPart, addrPart, hasAddr := strings.Cut(spec, ":")

	chain, err := types.ParseChain(chainPart)
	if err != nil {
		return types.Token{}, err
	}
	if !hasAddr || addrPart == "" || strings.EqualFold(addrPart, "native") {
		return types.NativeToken(chain), nil
	}
	if !common.IsHexAddress(addrPart) {
		return types.Token{}, fmt.Errorf("invalid token address %q", addrPart)
	}
	return types.ERC20Token(chain, common.HexToAddress(addrPart), types.DefaultDecimals), nil
}

// ParseTxRef parses "<chain>:<tx-hash>".
func ParseTxRef(ref string) (types.Chain, common.Hash, error) {
	chainPart, hashPart, ok := strings.Cut(strings.TrimSpace(ref), ":")
	if !ok {
		return 0, common.Hash{}, fmt.Errorf("invalid transaction %q. Expected '<chain>:<tx-hash>'", ref)
	}
	chain, err := types.ParseChain(chainPart)
	if err != nil {
		return 0, common.Hash{}, err
	}
	hash, err := ParseHash(hashPart)
	if err != nil {
		return 0, common.Hash{}, err
	}
	return chain, hash, nil
}

// ParseHash parses a 0x-prefixed 32-byte hex hash.
func ParseHash(s string) (common.Hash, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return common.Hash{}, fmt.Errorf("invalid tx hash %q: missing 0x prefix", s)
	}
	if len(s) != 2+2*common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid tx hash %q: expected %d hex characters", s, 2*common.HashLength)
	}
	var h common.Hash
	if err := h.UnmarshalText([]byte(s)); err != nil {
		return common.Hash{}, fmt.Errorf("invalid tx hash %q: %w", s, err)
	}
	return h, nil
}

// ParseAddress parses a hex account address.
func ParseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

// ParseAmount converts a human readable amount into the token's smallest unit,
// e.g. "1.5" with 18 decimals becomes 1500000000000000000.
func ParseAmount(amount string, decimals uint8) (types.Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return types.Amount{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if d.Sign() <= 0 {
		return types.Amount{}, fmt.Errorf("amount must be greater than zero")
	}

	scaled := d.Shift(int32(decimals))
	if !scaled.Equal(scaled.Truncate(0)) {
		return types.Amount{}, fmt.Errorf("amount %s has more than %d decimal places", amount, decimals)
	}
	return types.AmountFromBig(scaled.BigInt())
}

// FormatAmount renders an amount in the token's smallest unit as a decimal number.
func FormatAmount(amount types.Amount, decimals uint8) string {
	return decimal.NewFromBigInt(amount.Big(), -int32(decimals)).String()
}
