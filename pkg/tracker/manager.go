// Package tracker keeps a persistent watch-list of cross-chain transactions and
// refreshes their status from Symbiosis.
package tracker

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"symbiosis-swap/pkg/api"
	"symbiosis-swap/pkg/types"
)

// Manager provides high-level operations on tracked transactions
type Manager struct {
	storage *Storage
	now     func() time.Time
}

// NewManager creates a new manager backed by the file at storagePath
func NewManager(storagePath string) (*Manager, error) {
	storage, err := NewStorage(storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage: %w", err)
	}
	return &Manager{storage: storage, now: time.Now}, nil
}

// Add starts tracking a transaction. A transaction can be tracked only once.
func (m *Manager) Add(chain types.Chain, hash common.Hash, label string) (*Entry, error) {
	for _, e := range m.storage.List() {
		if e.ChainID == chain && e.Hash == hash {
			return nil, fmt.Errorf("transaction %s is already tracked as %s", e.Ref(), e.ShortID())
		}
	}

	e := Entry{
		ID:      uuid.New().String(),
		Label:   label,
		ChainID: chain,
		Hash:    hash,
		Added:   m.now().UTC(),
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if err := m.storage.Create(e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Find resolves an entry by full id or unique id prefix.
func (m *Manager) Find(idOrPrefix string) (*Entry, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return nil, fmt.Errorf("entry id is required")
	}

	var match *Entry
	for _, e := range m.storage.List() {
		if e.ID == idOrPrefix {
			e := e
			return &e, nil
		}
		if strings.HasPrefix(e.ID, idOrPrefix) {
			if match != nil {
				return nil, fmt.Errorf("id prefix '%s' is ambiguous", idOrPrefix)
			}
			e := e
			match = &e
		}
	}
	if match == nil {
		return nil, fmt.Errorf("entry '%s' not found", idOrPrefix)
	}
	return match, nil
}

// Remove stops tracking the entry with the given id or id prefix.
func (m *Manager) Remove(idOrPrefix string) (*Entry, error) {
	e, err := m.Find(idOrPrefix)
	if err != nil {
		return nil, err
	}
	if err := m.storage.Delete(e.ID); err != nil {
		return nil, err
	}
	return e, nil
}

// List returns all tracked transactions, oldest first
func (m *Manager) List() []Entry {
	return m.storage.List()
}

// Pending returns the entries that have not reached a final status
func (m *Manager) Pending() []Entry {
	var out []Entry
	for _, e := range m.storage.List() {
		if e.Pending() {
			out = append(out, e)
		}
	}
	return out
}

// Waiting returns the pending entries that are not stuck.
func (m *Manager) Waiting() []Entry {
	var out []Entry
	for _, e := range m.storage.List() {
		if e.Pending() && !e.Stuck() {
			out = append(out, e)
		}
	}
	return out
}

// Stuck returns the entries whose last status was Stucked.
func (m *Manager) Stuck() []Entry {
	var out []Entry
	for _, e := range m.storage.List() {
		if e.Stuck() {
			out = append(out, e)
		}
	}
	return out
}

// ApplyStatuses records the statuses returned for entries. responses[i] belongs to
// entries[i].
func (m *Manager) ApplyStatuses(entries []Entry, responses []api.TxResponse) ([]Entry, error) {
	if len(entries) != len(responses) {
		return nil, fmt.Errorf("got %d statuses for %d entries", len(responses), len(entries))
	}

	now := m.now().UTC()
	updated := make([]Entry, len(entries))
	for i, e := range entries {
		status := responses[i].Status
		e.Status = &status
		e.LastChecked = &now
		e.Checks++
		if in := responses[i].TxIn; in.Hash != (common.Hash{}) {
			dest := in
			e.Destination = &dest
		}
		updated[i] = e
	}

	if err := m.storage.UpdateAll(updated); err != nil {
		return nil, fmt.Errorf("failed to save statuses: %w", err)
	}
	return updated, nil
}

// StoragePath returns the storage file path
func (m *Manager) StoragePath() string {
	return m.storage.FilePath()
}
