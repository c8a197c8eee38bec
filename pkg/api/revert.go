package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"symbiosis-swap/pkg/rest"
	"symbiosis-swap/pkg/types"
)

// Revert builds the transaction that returns the funds of a stuck cross-chain swap.
type Revert struct {
	TransactionHash common.Hash `json:"transactionHash"`
	// ChainID of the original transaction, mainnet when zero.
	ChainID types.Chain `json:"chainId"`
}

func (Revert) Method() string { return http.MethodPost }
func (Revert) Path() string   { return "v1/revert" }

func (r Revert) withDefaults() Revert {
	if r.ChainID == 0 {
		r.ChainID = DefaultChain
	}
	return r
}

// Validate requires a transaction hash on a known chain.
func (r Revert) Validate() error {
	r = r.withDefaults()
	if r.TransactionHash == (common.Hash{}) {
		return errors.New("transactionHash is required")
	}
	if !r.ChainID.IsValid() {
		return fmt.Errorf("unsupported chainId %d", uint64(r.ChainID))
	}
	return nil
}

// Body encodes the request with defaults applied.
func (r Revert) Body() (*rest.Body, error) {
	return rest.JSONBody(r.withDefaults())
}

// RevertResponse is the transaction that reverts a stuck swap.
type RevertResponse struct {
	Tx   types.Tx          `json:"tx"`
	Fee  types.TokenAmount `json:"fee"`
	Type types.TokenType   `json:"type"`
}

// Stucked lists the stuck cross-chain transactions sent from an address.
type Stucked struct {
	Address common.Address
}

func (Stucked) Method() string { return http.MethodGet }

func (s Stucked) Path() string {
	return "v1/stucked/" + strings.ToLower(s.Address.Hex())
}

// Validate rejects the zero address.
func (s Stucked) Validate() error {
	if s.Address == (common.Address{}) {
		return errors.New("address is required")
	}
	return nil
}

// StuckedResponse is a single stuck transaction.
type StuckedResponse struct {
	Hash        common.Hash       `json:"hash"`
	ChainID     types.Chain       `json:"chainId"`
	CreateAt    string            `json:"createAt"`
	TokenAmount types.TokenAmount `json:"tokenAmount"`
}

// CreatedAt parses CreateAt as an RFC 3339 timestamp.
func (s StuckedResponse) CreatedAt() (time.Time, error) {
	return time.Parse(time.RFC3339, s.CreateAt)
}
