// Package api contains the Symbiosis cross-chain endpoints and their response types.
//
// Every endpoint is a plain value implementing rest.Endpoint; run it with rest.Query
// against a client.Symbiosis, or use the helpers on the client.
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"symbiosis-swap/pkg/rest"
	"symbiosis-swap/pkg/types"
)

// Request defaults applied when the corresponding field is zero.
const (
	DefaultSlippage uint64 = 300
	DefaultDeadline uint64 = 2000000000
	DefaultChain           = types.Mainnet
)

// MaxSlippage is 100% in basis points.
const MaxSlippage uint64 = 10000

// SwappingExactIn quotes a swap of an exact input amount, possibly across chains.
type SwappingExactIn struct {
	TokenAmountIn types.TokenAmount `json:"tokenAmountIn"`
	TokenOut      types.Token       `json:"tokenOut"`
	From          common.Address    `json:"from"`
	To            common.Address    `json:"to"`
	// Slippage in basis points, 300 when zero.
	Slippage uint64 `json:"slippage"`
	// Deadline as a unix timestamp, 2000000000 when zero.
	Deadline uint64 `json:"deadline"`
}

func (SwappingExactIn) Method() string { return http.MethodPost }
func (SwappingExactIn) Path() string   { return "v1/swapping/exact_in" }

func (s SwappingExactIn) withDefaults() SwappingExactIn {
	if s.Slippage == 0 {
		s.Slippage = DefaultSlippage
	}
	if s.Deadline == 0 {
		s.Deadline = DefaultDeadline
	}
	if s.TokenAmountIn.ChainID == 0 {
		s.TokenAmountIn.ChainID = DefaultChain
	}
	if s.TokenOut.ChainID == 0 {
		s.TokenOut.ChainID = DefaultChain
	}
	return s
}

// Validate checks the mandatory fields.
func (s SwappingExactIn) Validate() error {
	s = s.withDefaults()
	if err := s.TokenAmountIn.Validate(); err != nil {
		return fmt.Errorf("tokenAmountIn: %w", err)
	}
	if s.TokenAmountIn.Amount.IsZero() {
		return errors.New("tokenAmountIn: amount must be greater than zero")
	}
	if err := s.TokenOut.Validate(); err != nil {
		return fmt.Errorf("tokenOut: %w", err)
	}
	if s.From == (common.Address{}) {
		return errors.New("from address is required")
	}
	if s.To == (common.Address{}) {
		return errors.New("to address is required")
	}
	if s.Slippage > MaxSlippage {
		return fmt.Errorf("slippage %d exceeds %d basis points", s.Slippage, MaxSlippage)
	}
	return nil
}

// Body encodes the request with defaults applied.
func (s SwappingExactIn) Body() (*rest.Body, error) {
	return rest.JSONBody(s.withDefaults())
}

// SwapResponse is a swap quote together with the transaction that executes it.
type SwapResponse struct {
	Tx             types.Tx          `json:"tx"`
	Fee            types.TokenAmount `json:"fee"`
	PriceImpact    string            `json:"priceImpact"`
	TokenAmountOut types.TokenAmount `json:"tokenAmountOut"`
	AmountInUSD    types.TokenAmount `json:"amountInUsd"`
	ApproveTo      common.Address    `json:"approveTo"`
	Route          types.TokenList   `json:"route"`
	InTradeType    *types.TradeType  `json:"inTradeType,omitempty"`
	OutTradeType   *types.TradeType  `json:"outTradeType,omitempty"`
	Type           types.TokenType   `json:"type"`
}

// PriceImpactPercent parses the price impact reported by the server.
func (r SwapResponse) PriceImpactPercent() (decimal.Decimal, error) {
	if r.PriceImpact == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(r.PriceImpact)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price impact %q: %w", r.PriceImpact, err)
	}
	return d, nil
}
