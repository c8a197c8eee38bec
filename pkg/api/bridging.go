package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common"

	"symbiosis-swap/pkg/rest"
	"symbiosis-swap/pkg/types"
)

// BridgingExactIn quotes bridging an exact amount of a token to another chain.
type BridgingExactIn struct {
	TokenAmountIn types.TokenAmount `json:"tokenAmountIn"`
	// ChainIDOut is the destination chain, mainnet when zero.
	ChainIDOut types.Chain    `json:"chainIdOut"`
	From       common.Address `json:"from"`
	To         common.Address `json:"to"`
}

func (BridgingExactIn) Method() string { return http.MethodPost }
func (BridgingExactIn) Path() string   { return "v1/bridging/exact_in" }

func (b BridgingExactIn) withDefaults() BridgingExactIn {
	if b.ChainIDOut == 0 {
		b.ChainIDOut = DefaultChain
	}
	if b.TokenAmountIn.ChainID == 0 {
		b.TokenAmountIn.ChainID = DefaultChain
	}
	return b
}

// Validate checks the mandatory fields.
func (b BridgingExactIn) Validate() error {
	b = b.withDefaults()
	if err := b.TokenAmountIn.Validate(); err != nil {
		return fmt.Errorf("tokenAmountIn: %w", err)
	}
	if b.TokenAmountIn.Amount.IsZero() {
		return errors.New("tokenAmountIn: amount must be greater than zero")
	}
	if !b.ChainIDOut.IsValid() {
		return fmt.Errorf("unsupported chainIdOut %d", uint64(b.ChainIDOut))
	}
	if b.From == (common.Address{}) {
		return errors.New("from address is required")
	}
	if b.To == (common.Address{}) {
		return errors.New("to address is required")
	}
	return nil
}

// Body encodes the request with defaults applied.
func (b BridgingExactIn) Body() (*rest.Body, error) {
	return rest.JSONBody(b.withDefaults())
}

// BridgeResponse is a bridge quote together with the transaction that executes it.
type BridgeResponse struct {
	Tx             types.Tx          `json:"tx"`
	Fee            types.TokenAmount `json:"fee"`
	TokenAmountOut types.TokenAmount `json:"tokenAmountOut"`
	ApproveTo      common.Address    `json:"approveTo"`
	Type           types.TokenType   `json:"type"`
}
