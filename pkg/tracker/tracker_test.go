package tracker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symbiosis-swap/pkg/api"
	"symbiosis-swap/pkg/types"
)

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tracked.json")
	m, err := NewManager(path)
	require.NoError(t, err)
	return m, path
}

func status(t *testing.T, text types.TxStatusText) types.TxStatus {
	t.Helper()
	s, err := types.NewTxStatus(text)
	require.NoError(t, err)
	return s
}

func TestManager_AddPersists(t *testing.T) {
	m, path := newTestManager(t)

	e, err := m.Add(types.Mainnet, common.HexToHash("0x01"), "first swap")
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.True(t, e.Pending())
	assert.Equal(t, "Unchecked", e.StatusText())

	reopened, err := NewManager(path)
	require.NoError(t, err)
	list := reopened.List()
	require.Len(t, list, 1)
	assert.Equal(t, e.ID, list[0].ID)
	assert.Equal(t, "first swap", list[0].Label)
	assert.Equal(t, common.HexToHash("0x01"), list[0].Hash)
}

func TestManager_AddRejectsDuplicatesAndInvalid(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.Add(types.Mainnet, common.HexToHash("0x01"), "")
	require.NoError(t, err)

	_, err = m.Add(types.Mainnet, common.HexToHash("0x01"), "again")
	assert.Error(t, err)

	_, err = m.Add(types.BinanceSmartChain, common.HexToHash("0x01"), "")
	assert.NoError(t, err, "same hash on another chain is a different transaction")

	_, err = m.Add(types.Mainnet, common.Hash{}, "")
	assert.Error(t, err)
}

func TestManager_RemoveByPrefix(t *testing.T) {
	m, _ := newTestManager(t)
	e, err := m.Add(types.Mainnet, common.HexToHash("0x01"), "")
	require.NoError(t, err)

	removed, err := m.Remove(e.ShortID())
	require.NoError(t, err)
	assert.Equal(t, e.ID, removed.ID)
	assert.Empty(t, m.List())

	_, err = m.Remove(e.ID)
	assert.Error(t, err)
}

func TestManager_ApplyStatuses(t *testing.T) {
	m, _ := newTestManager(t)
	a, err := m.Add(types.Mainnet, common.HexToHash("0x0a"), "")
	require.NoError(t, err)
	b, err := m.Add(types.Polygon, common.HexToHash("0x0b"), "")
	require.NoError(t, err)

	pending := m.Pending()
	require.Len(t, pending, 2)

	dest := types.TxOrigin{Hash: common.HexToHash("0xdd"), ChainID: types.Mantle}
	updated, err := m.ApplyStatuses(pending, []api.TxResponse{
		{Status: status(t, types.TxSuccess), TxIn: dest},
		{Status: status(t, types.TxPending)},
	})
	require.NoError(t, err)
	require.Len(t, updated, 2)

	remaining := m.Pending()
	require.Len(t, remaining, 1)
	assert.Equal(t, b.ID, remaining[0].ID)

	for _, e := range m.List() {
		assert.Equal(t, 1, e.Checks)
		assert.NotNil(t, e.LastChecked)
		if e.ID == a.ID {
			require.NotNil(t, e.Destination)
			assert.Equal(t, dest, *e.Destination)
			assert.Equal(t, "Success", e.StatusText())
		}
	}

	_, err = m.ApplyStatuses(remaining, nil)
	assert.Error(t, err)
}

type fakeStatusClient struct {
	responses [][]api.TxResponse
	err       error
	calls     [][]api.TxHashWithChainID
}

func (f *fakeStatusClient) BatchTxStatus(_ context.Context, txs []api.TxHashWithChainID) ([]api.TxResponse, error) {
	f.calls = append(f.calls, txs)
	if f.err != nil {
		return nil, f.err
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func TestWatcher_CheckOnce(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.Add(types.Arbitrum, common.HexToHash("0x0a"), "")
	require.NoError(t, err)

	client := &fakeStatusClient{responses: [][]api.TxResponse{{{Status: status(t, types.TxStucked)}}}}
	w := NewWatcher(m, client, nil)

	var seen []Entry
	w.OnUpdate = func(e Entry) { seen = append(seen, e) }

	updated, err := w.CheckOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, updated, 1)
	require.Len(t, seen, 1)
	assert.Equal(t, "Stucked", seen[0].StatusText())

	require.Len(t, client.calls, 1)
	assert.Equal(t, []api.TxHashWithChainID{{TransactionHash: common.HexToHash("0x0a"), ChainID: types.Arbitrum}}, client.calls[0])
}

func TestWatcher_CheckOnceWithNothingPending(t *testing.T) {
	m, _ := newTestManager(t)
	client := &fakeStatusClient{}

	updated, err := NewWatcher(m, client, nil).CheckOnce(context.Background())
	require.NoError(t, err)
	assert.Empty(t, updated)
	assert.Empty(t, client.calls)
}

func TestWatcher_RunStopsWhenAllFinal(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.Add(types.Mainnet, common.HexToHash("0x0a"), "")
	require.NoError(t, err)

	client := &fakeStatusClient{responses: [][]api.TxResponse{{{Status: status(t, types.TxReverted)}}}}
	w := NewWatcher(m, client, nil)

	require.NoError(t, w.Run(context.Background()))
	assert.Empty(t, m.Pending())
}

func TestWatcher_RunStopsWhenStuck(t *testing.T) {
	m, _ := newTestManager(t)
	stuck, err := m.Add(types.BinanceSmartChain, common.HexToHash("0x0a"), "")
	require.NoError(t, err)
	_, err = m.Add(types.Mainnet, common.HexToHash("0x0b"), "")
	require.NoError(t, err)

	client := &fakeStatusClient{responses: [][]api.TxResponse{
		{{Status: status(t, types.TxStucked)}, {Status: status(t, types.TxSuccess)}},
	}}
	w := NewWatcher(m, client, nil)

	require.NoError(t, w.Run(context.Background()))
	assert.Len(t, client.calls, 1)
	assert.Empty(t, m.Waiting())

	stuckEntries := m.Stuck()
	require.Len(t, stuckEntries, 1)
	assert.Equal(t, stuck.ID, stuckEntries[0].ID)

	pending := m.Pending()
	require.Len(t, pending, 1, "stuck entries are still refreshed by later checks")
	assert.Equal(t, stuck.ID, pending[0].ID)
}

func TestWatcher_RunStopsOnCancel(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.Add(types.Mainnet, common.HexToHash("0x0a"), "")
	require.NoError(t, err)

	client := &fakeStatusClient{err: errors.New("service unavailable")}
	w := NewWatcher(m, client, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = w.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, m.Pending(), 1)
}

func TestWatcher_SetIntervalClamps(t *testing.T) {
	m, _ := newTestManager(t)
	w := NewWatcher(m, &fakeStatusClient{}, nil)

	w.SetInterval(0)
	assert.Equal(t, MinCheckInterval, w.Interval())
}
