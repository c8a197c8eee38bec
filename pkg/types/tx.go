package types

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Tx is a transaction prepared by Symbiosis for the caller to sign and send.
type Tx struct {
	ChainID Chain          `json:"chainId"`
	To      common.Address `json:"to"`
	Data    hexutil.Bytes  `json:"data"`
	Value   Amount         `json:"value"`
}

// TxOrigin points at a transaction on a specific chain.
type TxOrigin struct {
	Hash    common.Hash `json:"hash"`
	ChainID Chain       `json:"chainId"`
}

// TxStatusText names a cross-chain transaction state.
type TxStatusText string

const (
	TxNotFound TxStatusText = "NotFound"
	TxSuccess  TxStatusText = "Success"
	TxPending  TxStatusText = "Pending"
	TxStucked  TxStatusText = "Stucked"
	TxReverted TxStatusText = "Reverted"
)

var txStatusCodes = map[TxStatusText]int8{
	TxNotFound: -1,
	TxSuccess:  0,
	TxPending:  1,
	TxStucked:  2,
	TxReverted: 3,
}

// TxStatus is the state of a cross-chain transaction as {"text": ..., "code": ...}.
// The zero value is not meaningful; use NewTxStatus or decode one.
type TxStatus struct {
	Text TxStatusText `json:"text"`
	Code int8         `json:"code"`
}

// NewTxStatus returns the status for text with its canonical code.
func NewTxStatus(text TxStatusText) (TxStatus, error) {
	code, ok := txStatusCodes[text]
	if !ok {
		return TxStatus{}, fmt.Errorf("unknown transaction status %q", text)
	}
	return TxStatus{Text: text, Code: code}, nil
}

// UnmarshalJSON decodes the tagged status and rejects unknown texts.
func (s *TxStatus) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var raw struct {
		Text TxStatusText `json:"text"`
		Code int8         `json:"code"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid transaction status: %w", err)
	}
	if _, ok := txStatusCodes[raw.Text]; !ok {
		return fmt.Errorf("unknown transaction status %q", raw.Text)
	}
	s.Text = raw.Text
	s.Code = raw.Code
	return nil
}

// Is reports whether the status carries text.
func (s TxStatus) Is(text TxStatusText) bool {
	return s.Text == text
}

// Final reports whether the transaction will not change state anymore.
func (s TxStatus) Final() bool {
	return s.Text == TxSuccess || s.Text == TxReverted
}

// Stuck reports whether the transaction can only recover through a revert.
func (s TxStatus) Stuck() bool {
	return s.Text == TxStucked
}

// Settled reports whether polling the status again is pointless until someone acts.
func (s TxStatus) Settled() bool {
	return s.Final() || s.Stuck()
}

func (s TxStatus) String() string {
	if s.Text == "" {
		return "Unknown"
	}
	return string(s.Text)
}
