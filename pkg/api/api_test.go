package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symbiosis-swap/pkg/rest"
	"symbiosis-swap/pkg/types"
)

var (
	sender    = common.HexToAddress("0x1111111111111111111111111111111111111111")
	recipient = common.HexToAddress("0x2222222222222222222222222222222222222222")
	txHash    = common.HexToHash("0xf5a8d1f5fbd3b0e7c0c7cfa1a9b4e3c1e0f7d9a2b6c8e4f1a3b5c7d9e1f2a4b6")
)

func decodeBody(t *testing.T, e rest.BodyEndpoint) map[string]any {
	t.Helper()
	body, err := e.Body()
	require.NoError(t, err)
	require.NotNil(t, body)
	assert.Equal(t, rest.ContentTypeJSON, body.ContentType)

	var out map[string]any
	require.NoError(t, json.Unmarshal(body.Data, &out))
	return out
}

func TestSwappingExactIn_BodyDefaults(t *testing.T) {
	s := SwappingExactIn{
		TokenAmountIn: types.NewTokenAmount(types.NativeToken(types.Mainnet), types.NewAmount(1000000000000000)),
		TokenOut:      types.NativeToken(types.Mantle),
		From:          sender,
		To:            recipient,
	}
	require.NoError(t, s.Validate())

	assert.Equal(t, http.MethodPost, s.Method())
	assert.Equal(t, "v1/swapping/exact_in", s.Path())

	body := decodeBody(t, s)
	assert.Equal(t, float64(300), body["slippage"])
	assert.Equal(t, float64(2000000000), body["deadline"])
	assert.Equal(t, sender.Hex(), body["from"])

	in := body["tokenAmountIn"].(map[string]any)
	assert.Equal(t, "1000000000000000", in["amount"])
	assert.Equal(t, float64(1), in["chainId"])
}

func TestSwappingExactIn_TokenAddressAlwaysPresent(t *testing.T) {
	s := SwappingExactIn{
		TokenAmountIn: types.NewTokenAmount(types.NativeToken(types.Mainnet), types.NewAmount(1)),
		TokenOut:      types.Token{Decimals: 18, ChainID: types.Mantle},
		From:          sender,
		To:            recipient,
		Slippage:      100,
	}

	body := decodeBody(t, s)
	out := body["tokenOut"].(map[string]any)
	assert.Contains(t, out, "address")
	assert.Equal(t, "", out["address"])
	assert.NotContains(t, out, "name")
	assert.Equal(t, float64(100), body["slippage"])
}

func TestSwappingExactIn_Validate(t *testing.T) {
	valid := SwappingExactIn{
		TokenAmountIn: types.NewTokenAmount(types.NativeToken(types.Mainnet), types.NewAmount(1)),
		TokenOut:      types.NativeToken(types.Base),
		From:          sender,
		To:            recipient,
	}
	require.NoError(t, valid.Validate())

	noAmount := valid
	noAmount.TokenAmountIn.Amount = types.Amount{}
	assert.Error(t, noAmount.Validate())

	noFrom := valid
	noFrom.From = common.Address{}
	assert.Error(t, noFrom.Validate())

	badSlippage := valid
	badSlippage.Slippage = 10001
	assert.Error(t, badSlippage.Validate())

	badChain := valid
	badChain.TokenOut.ChainID = 3
	assert.Error(t, badChain.Validate())
}

func TestBridgingExactIn_DefaultsChainOut(t *testing.T) {
	b := BridgingExactIn{
		TokenAmountIn: types.NewTokenAmount(types.NativeToken(types.Arbitrum), types.NewAmount(5)),
		From:          sender,
		To:            recipient,
	}
	require.NoError(t, b.Validate())
	assert.Equal(t, "v1/bridging/exact_in", b.Path())

	body := decodeBody(t, b)
	assert.Equal(t, float64(1), body["chainIdOut"])
	assert.Equal(t, recipient.Hex(), body["to"])
}

func TestRevert(t *testing.T) {
	r := Revert{TransactionHash: txHash}
	require.NoError(t, r.Validate())
	assert.Equal(t, "v1/revert", r.Path())

	body := decodeBody(t, r)
	assert.Equal(t, txHash.Hex(), body["transactionHash"])
	assert.Equal(t, float64(1), body["chainId"])

	assert.Error(t, Revert{}.Validate())
}

func TestStucked_Path(t *testing.T) {
	addr := common.HexToAddress("0xAbCdEf0123456789aBcDeF0123456789AbCdEf01")
	s := Stucked{Address: addr}

	assert.Equal(t, http.MethodGet, s.Method())
	assert.Equal(t, "v1/stucked/0xabcdef0123456789abcdef0123456789abcdef01", s.Path())
	assert.NoError(t, s.Validate())
	assert.Error(t, Stucked{}.Validate())
}

func TestGetSingleTx_Path(t *testing.T) {
	g := GetSingleTx{Tx: TxHashWithChainID{TransactionHash: txHash, ChainID: types.BinanceSmartChain}}
	assert.Equal(t, "v1/tx/56/"+txHash.Hex(), g.Path())

	g = GetSingleTx{Tx: TxHashWithChainID{TransactionHash: txHash}}
	assert.Equal(t, "v1/tx/1/"+txHash.Hex(), g.Path())
	assert.NoError(t, g.Validate())
}

func TestGetBatchTx_Body(t *testing.T) {
	g := GetBatchTx{Txs: []TxHashWithChainID{
		{TransactionHash: txHash, ChainID: types.Polygon},
		{TransactionHash: txHash},
	}}
	require.NoError(t, g.Validate())

	body, err := g.Body()
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"transactionHash":"`+txHash.Hex()+`","chainId":137},
		{"transactionHash":"`+txHash.Hex()+`","chainId":1}
	]`, string(body.Data))

	assert.Error(t, GetBatchTx{}.Validate())
	assert.Error(t, GetBatchTx{Txs: []TxHashWithChainID{{}}}.Validate())
}

func TestStaticPaths(t *testing.T) {
	cases := map[string]rest.Endpoint{
		"v1/chains":           GetSupportedChains{},
		"v1/available-routes": GetAvailableRoutes{},
		"health-check":        HealthCheck{},
	}
	for path, e := range cases {
		assert.Equal(t, path, e.Path())
		assert.Equal(t, http.MethodGet, e.Method())
		_, hasParams := e.(rest.ParameterizedEndpoint)
		_, hasBody := e.(rest.BodyEndpoint)
		assert.False(t, hasParams, path)
		assert.False(t, hasBody, path)
	}
}

func TestSwapResponse_Decode(t *testing.T) {
	const payload = `{
		"tx": {"chainId": 1, "to": "0xb8f275fBf7A959F4BCE59999A2EF122A099e81A8", "data": "0x1234", "value": "1000000000000000"},
		"fee": {"decimals": 6, "symbol": "USDC", "chainId": 1, "address": "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", "amount": "150000"},
		"priceImpact": "-0.42",
		"tokenAmountOut": {"decimals": 18, "chainId": 5000, "address": "", "amount": "998000000000000"},
		"amountInUsd": {"decimals": 6, "chainId": 1, "address": "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", "amount": "3120000"},
		"approveTo": "0x0000000000000000000000000000000000000000",
		"route": [
			{"decimals": 18, "symbol": "WETH", "chainId": 1, "address": "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"},
			{"decimals": 18, "symbol": "BOGUS", "chainId": 424242, "address": ""}
		],
		"inTradeType": "1inch",
		"type": "evm"
	}`

	var r SwapResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &r))

	assert.Equal(t, types.Mainnet, r.Tx.ChainID)
	assert.Equal(t, "1000000000000000", r.Tx.Value.String())
	assert.Equal(t, "150000", r.Fee.Amount.String())
	assert.Equal(t, types.Mantle, r.TokenAmountOut.ChainID)
	require.Len(t, r.Route, 1)
	assert.Equal(t, "WETH", r.Route[0].Symbol)
	require.NotNil(t, r.InTradeType)
	assert.Equal(t, types.TradeTypeOneInch, *r.InTradeType)
	assert.Nil(t, r.OutTradeType)
	assert.Equal(t, types.TokenTypeEVM, r.Type)

	impact, err := r.PriceImpactPercent()
	require.NoError(t, err)
	assert.Equal(t, "-0.42", impact.String())
}

func TestTxResponse_Decode(t *testing.T) {
	const payload = `{
		"status": {"text": "Pending", "code": 1},
		"tx": {"hash": "` + "0xf5a8d1f5fbd3b0e7c0c7cfa1a9b4e3c1e0f7d9a2b6c8e4f1a3b5c7d9e1f2a4b6" + `", "chainId": 1},
		"txIn": null
	}`

	var r TxResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &r))

	assert.True(t, r.Status.Is(types.TxPending))
	assert.Equal(t, int8(1), r.Status.Code)
	assert.Equal(t, txHash, r.Tx.Hash)
	assert.Equal(t, types.Chain(0), r.TxIn.ChainID)
	assert.Nil(t, r.TransitTokenSent)
}

func TestTxResponse_PendingReencodes(t *testing.T) {
	const payload = `{
		"status": {"text": "Pending", "code": 1},
		"tx": {"hash": "` + "0xf5a8d1f5fbd3b0e7c0c7cfa1a9b4e3c1e0f7d9a2b6c8e4f1a3b5c7d9e1f2a4b6" + `", "chainId": 56},
		"txIn": null
	}`

	var r TxResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &r))

	data, err := json.MarshalIndent(r, "", "  ")
	require.NoError(t, err)

	var back TxResponse
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, r, back)
	assert.Equal(t, types.BinanceSmartChain, back.Tx.ChainID)
	assert.Equal(t, types.Chain(0), back.TxIn.ChainID)
}

func TestStuckedResponse_CreatedAt(t *testing.T) {
	s := StuckedResponse{CreateAt: "2024-03-01T12:30:00Z"}
	ts, err := s.CreatedAt()
	require.NoError(t, err)
	assert.Equal(t, 2024, ts.Year())
}

func TestSymbiosisChain_Chain(t *testing.T) {
	c, ok := SymbiosisChain{ID: 5000}.Chain()
	assert.True(t, ok)
	assert.Equal(t, types.Mantle, c)

	_, ok = SymbiosisChain{ID: 3}.Chain()
	assert.False(t, ok)
}
