package wallet

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symbiosis-swap/pkg/types"
)

type fakeBackend struct {
	chainID   *big.Int
	nonce     uint64
	gasPrice  *big.Int
	gas       uint64
	gasErr    error
	allowance *big.Int

	receipts map[common.Hash]*ethtypes.Receipt

	sent  []*ethtypes.Transaction
	calls []ethereum.CallMsg
}

func (f *fakeBackend) TransactionReceipt(_ context.Context, hash common.Hash) (*ethtypes.Receipt, error) {
	if r, ok := f.receipts[hash]; ok {
		return r, nil
	}
	return nil, ethereum.NotFound
}

func (f *fakeBackend) ChainID(context.Context) (*big.Int, error) { return f.chainID, nil }

func (f *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return f.nonce, nil
}

func (f *fakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) { return f.gasPrice, nil }

func (f *fakeBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return f.gas, f.gasErr
}

func (f *fakeBackend) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.calls = append(f.calls, msg)
	return common.LeftPadBytes(f.allowance.Bytes(), 32), nil
}

func (f *fakeBackend) SendTransaction(_ context.Context, tx *ethtypes.Transaction) error {
	f.sent = append(f.sent, tx)
	return nil
}

func newTestSender(t *testing.T, chain types.Chain, backend *fakeBackend, network Network) *Sender {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	s, err := NewSender(chain, network, backend, key, nil)
	require.NoError(t, err)
	return s
}

func TestSend_SignsForChain(t *testing.T) {
	backend := &fakeBackend{chainID: big.NewInt(5000), nonce: 7, gasPrice: big.NewInt(20), gas: 100000, allowance: big.NewInt(0)}
	s := newTestSender(t, types.Mantle, backend, Network{})

	router := common.HexToAddress("0xb8f275fBf7A959F4BCE59999A2EF122A099e81A8")
	hash, err := s.Send(context.Background(), types.Tx{
		ChainID: types.Mantle,
		To:      router,
		Data:    []byte{0xde, 0xad, 0xbe, 0xef},
		Value:   types.NewAmount(1000),
	})
	require.NoError(t, err)
	require.Len(t, backend.sent, 1)

	tx := backend.sent[0]
	assert.Equal(t, hash, tx.Hash())
	assert.Equal(t, uint64(7), tx.Nonce())
	assert.Equal(t, uint64(120000), tx.Gas())
	assert.Equal(t, big.NewInt(20), tx.GasPrice())
	assert.Equal(t, big.NewInt(1000), tx.Value())
	assert.Equal(t, router, *tx.To())
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, tx.Data())

	from, err := ethtypes.Sender(ethtypes.NewEIP155Signer(big.NewInt(5000)), tx)
	require.NoError(t, err)
	assert.Equal(t, s.Address(), from)
}

func TestBuild_ConfiguredGas(t *testing.T) {
	limit := uint64(300000)
	price := int64(5)
	backend := &fakeBackend{chainID: big.NewInt(1), gasErr: errors.New("should not be called")}
	s := newTestSender(t, types.Mainnet, backend, Network{GasLimit: &limit, GasPrice: &price})

	tx, err := s.Build(context.Background(), types.Tx{ChainID: types.Mainnet, To: common.HexToAddress("0x01")})
	require.NoError(t, err)
	assert.Equal(t, limit, tx.Gas())
	assert.Equal(t, big.NewInt(5), tx.GasPrice())
	assert.Empty(t, backend.sent)
}

func TestBuild_FallbackGasWhenEstimateFails(t *testing.T) {
	backend := &fakeBackend{chainID: big.NewInt(1), gasPrice: big.NewInt(1), gasErr: errors.New("execution reverted")}
	s := newTestSender(t, types.Mainnet, backend, Network{})

	tx, err := s.Build(context.Background(), types.Tx{ChainID: types.Mainnet, To: common.HexToAddress("0x01")})
	require.NoError(t, err)
	assert.Equal(t, defaultGasLimit, tx.Gas())
}

func TestBuild_RejectsMismatchedChains(t *testing.T) {
	backend := &fakeBackend{chainID: big.NewInt(56), gasPrice: big.NewInt(1)}
	s := newTestSender(t, types.Mainnet, backend, Network{})

	_, err := s.Build(context.Background(), types.Tx{ChainID: types.Polygon, To: common.HexToAddress("0x01")})
	assert.Error(t, err, "tx for another chain")

	_, err = s.Build(context.Background(), types.Tx{ChainID: types.Mainnet, To: common.HexToAddress("0x01")})
	assert.Error(t, err, "rpc serves another chain")
}

func TestNewSender_RefusesTron(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	_, err = NewSender(types.Tron, Network{}, &fakeBackend{}, key, nil)
	assert.ErrorIs(t, err, ErrUnsupportedChain)
}

func TestApproveData(t *testing.T) {
	spender := common.HexToAddress("0x2222222222222222222222222222222222222222")
	data, err := ApproveData(spender, types.NewAmount(1000))
	require.NoError(t, err)

	require.Len(t, data, 4+32+32)
	assert.Equal(t, []byte{0x09, 0x5e, 0xa7, 0xb3}, data[:4])
	assert.Equal(t, common.LeftPadBytes(spender.Bytes(), 32), data[4:36])
	assert.Equal(t, common.LeftPadBytes(big.NewInt(1000).Bytes(), 32), data[36:])
}

func TestApprove_SkipsWhenAllowanceSufficient(t *testing.T) {
	backend := &fakeBackend{chainID: big.NewInt(1), gasPrice: big.NewInt(1), gas: 50000, allowance: big.NewInt(5000)}
	s := newTestSender(t, types.Mainnet, backend, Network{})
	token := common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	spender := common.HexToAddress("0x2222222222222222222222222222222222222222")

	hash, err := s.Approve(context.Background(), token, spender, types.NewAmount(1000))
	require.NoError(t, err)
	assert.Equal(t, common.Hash{}, hash)
	assert.Empty(t, backend.sent)
	require.Len(t, backend.calls, 1)
	assert.Equal(t, token, *backend.calls[0].To)

	backend.allowance = big.NewInt(10)
	hash, err = s.Approve(context.Background(), token, spender, types.NewAmount(1000))
	require.NoError(t, err)
	require.Len(t, backend.sent, 1)
	assert.Equal(t, backend.sent[0].Hash(), hash)
	assert.Equal(t, token, *backend.sent[0].To())
	assert.Equal(t, []byte{0x09, 0x5e, 0xa7, 0xb3}, backend.sent[0].Data()[:4])
}

func TestWaitMined(t *testing.T) {
	ok := common.HexToHash("0x01")
	reverted := common.HexToHash("0x02")
	backend := &fakeBackend{receipts: map[common.Hash]*ethtypes.Receipt{
		ok:       {Status: ethtypes.ReceiptStatusSuccessful, BlockNumber: big.NewInt(10)},
		reverted: {Status: ethtypes.ReceiptStatusFailed},
	}}
	s := newTestSender(t, types.Mainnet, backend, Network{})

	receipt, err := s.WaitMined(context.Background(), ok)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10), receipt.BlockNumber)

	_, err = s.WaitMined(context.Background(), reverted)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.WaitMined(ctx, common.HexToHash("0x03"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAddressFromKey(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	hexKey := common.Bytes2Hex(crypto.FromECDSA(key))

	addr, err := AddressFromKey("0x" + hexKey)
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), addr)

	_, err = AddressFromKey("zz")
	assert.Error(t, err)
}
