package tracker

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"symbiosis-swap/pkg/types"
)

// Entry is a cross-chain transaction being tracked
type Entry struct {
	ID      string      `json:"id"`
	Label   string      `json:"label,omitempty"`
	ChainID types.Chain `json:"chainId"`
	Hash    common.Hash `json:"hash"`
	Added   time.Time   `json:"added"`

	// Status is nil until the first successful check.
	Status      *types.TxStatus `json:"status,omitempty"`
	Destination *types.TxOrigin `json:"destination,omitempty"`
	LastChecked *time.Time      `json:"lastChecked,omitempty"`
	Checks      int             `json:"checks"`
}

// Pending reports whether the entry still needs to be watched.
func (e *Entry) Pending() bool {
	return e.Status == nil || !e.Status.Final()
}

// Stuck reports whether the last check found the transaction stuck. A stuck
// entry stays pending so a later check can pick up its revert.
func (e *Entry) Stuck() bool {
	return e.Status != nil && e.Status.Stuck()
}

// StatusText returns a printable status.
func (e *Entry) StatusText() string {
	if e.Status == nil {
		return "Unchecked"
	}
	return e.Status.String()
}

// Ref returns the entry as "<chain>:<hash>".
func (e *Entry) Ref() string {
	return fmt.Sprintf("%s:%s", e.ChainID, e.Hash.Hex())
}

// ShortID returns the first 8 characters of the ID
func (e *Entry) ShortID() string {
	if len(e.ID) <= 8 {
		return e.ID
	}
	return e.ID[:8]
}

// Validate validates the entry fields
func (e *Entry) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("entry id is required")
	}
	if !e.ChainID.IsValid() {
		return fmt.Errorf("unsupported chain id %d", uint64(e.ChainID))
	}
	if e.Hash == (common.Hash{}) {
		return fmt.Errorf("transaction hash is required")
	}
	return nil
}
