package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common"

	"symbiosis-swap/pkg/rest"
	"symbiosis-swap/pkg/types"
)

// TxHashWithChainID identifies a transaction by hash and chain.
type TxHashWithChainID struct {
	TransactionHash common.Hash `json:"transactionHash"`
	// ChainID is mainnet when zero.
	ChainID types.Chain `json:"chainId"`
}

func (t TxHashWithChainID) withDefaults() TxHashWithChainID {
	if t.ChainID == 0 {
		t.ChainID = DefaultChain
	}
	return t
}

// Validate requires a hash and a known chain.
func (t TxHashWithChainID) Validate() error {
	t = t.withDefaults()
	if t.TransactionHash == (common.Hash{}) {
		return errors.New("transactionHash is required")
	}
	if !t.ChainID.IsValid() {
		return fmt.Errorf("unsupported chainId %d", uint64(t.ChainID))
	}
	return nil
}

// GetSingleTx fetches the cross-chain status of one transaction.
type GetSingleTx struct {
	Tx TxHashWithChainID
}

func (GetSingleTx) Method() string { return http.MethodGet }

func (g GetSingleTx) Path() string {
	tx := g.Tx.withDefaults()
	return fmt.Sprintf("v1/tx/%d/%s", tx.ChainID.ID(), tx.TransactionHash.Hex())
}

// Validate checks the transaction reference.
func (g GetSingleTx) Validate() error {
	return g.Tx.Validate()
}

// GetBatchTx fetches the status of several transactions in one call.
// Results are in request order.
type GetBatchTx struct {
	Txs []TxHashWithChainID
}

func (GetBatchTx) Method() string { return http.MethodPost }
func (GetBatchTx) Path() string   { return "v1/batch-tx" }

// Validate requires at least one transaction and checks each of them.
func (g GetBatchTx) Validate() error {
	if len(g.Txs) == 0 {
		return errors.New("at least one transaction is required")
	}
	for i, tx := range g.Txs {
		if err := tx.Validate(); err != nil {
			return fmt.Errorf("txs[%d]: %w", i, err)
		}
	}
	return nil
}

// Body encodes the transactions as a bare JSON array.
func (g GetBatchTx) Body() (*rest.Body, error) {
	txs := make([]TxHashWithChainID, len(g.Txs))
	for i, tx := range g.Txs {
		txs[i] = tx.withDefaults()
	}
	return rest.JSONBody(txs)
}

// TxResponse is the cross-chain status of a transaction.
type TxResponse struct {
	Status           types.TxStatus     `json:"status"`
	Tx               types.TxOrigin     `json:"tx"`
	TxIn             types.TxOrigin     `json:"txIn"`
	TransitTokenSent *types.TokenAmount `json:"transitTokenSent,omitempty"`
}
