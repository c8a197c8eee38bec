package cmd

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symbiosis-swap/config"
	"symbiosis-swap/pkg/api"
	"symbiosis-swap/pkg/types"
)

func init() {
	color.NoColor = true
}

func TestResolveAccounts(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	walletAddr := crypto.PubkeyToAddress(key.PublicKey)
	cfg := &config.Config{Wallet: config.WalletConfig{PrivateKey: common.Bytes2Hex(crypto.FromECDSA(key))}}

	from, to, err := resolveAccounts(cfg, "", "")
	require.NoError(t, err)
	assert.Equal(t, walletAddr, from)
	assert.Equal(t, walletAddr, to)

	other := "0x2222222222222222222222222222222222222222"
	from, to, err = resolveAccounts(cfg, other, "")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(other), from)
	assert.Equal(t, common.HexToAddress(other), to)

	from, to, err = resolveAccounts(cfg, "", other)
	require.NoError(t, err)
	assert.Equal(t, walletAddr, from)
	assert.Equal(t, common.HexToAddress(other), to)

	_, _, err = resolveAccounts(&config.Config{}, "", "")
	assert.Error(t, err, "no sender at all")

	_, _, err = resolveAccounts(cfg, "nope", "")
	assert.Error(t, err)
}

func TestSwapDisplay(t *testing.T) {
	var quote api.SwapResponse
	require.NoError(t, json.Unmarshal([]byte(`{
		"tx": {"chainId": 56, "to": "0xb8f275fBf7A959F4BCE59999A2EF122A099e81A8", "data": "0x", "value": "0"},
		"fee": {"decimals": 18, "symbol": "USDT", "chainId": 56, "address": "0x55d398326f99059fF775485246999027B3197955", "amount": "250000000000000000"},
		"priceImpact": "-0.12",
		"tokenAmountOut": {"decimals": 18, "symbol": "MNT", "chainId": 5000, "address": "", "amount": "12500000000000000000"},
		"amountInUsd": {"decimals": 18, "chainId": 56, "address": "", "amount": "10000000000000000000"},
		"approveTo": "0x2222222222222222222222222222222222222222",
		"route": [{"decimals": 18, "symbol": "USDT", "chainId": 56, "address": "0x55d398326f99059fF775485246999027B3197955"}, {"decimals": 18, "symbol": "MNT", "chainId": 5000, "address": ""}],
		"type": "evm"
	}`), &quote))

	in := types.NewTokenAmount(
		types.ERC20Token(types.BinanceSmartChain, common.HexToAddress("0x55d398326f99059fF775485246999027B3197955"), 18),
		types.NewAmount(10_000_000_000_000_000_000),
	)
	d := swapDisplay(in, &quote)

	assert.Equal(t, "SWAP QUOTE", d.Kind)
	assert.Equal(t, "10", d.AmountIn)
	assert.Equal(t, "12.5", d.AmountOut)
	assert.Equal(t, "MNT on mantle", d.TokenOut)
	assert.Equal(t, "0.25 USDT on bsc", d.Fee)
	assert.Equal(t, "-0.12%", d.PriceImpact)
	assert.Equal(t, "10", d.AmountInUSD)
	assert.Equal(t, "USDT -> MNT", d.Route)
	assert.Equal(t, "0x2222222222222222222222222222222222222222", d.ApproveTo)
	assert.Equal(t, "bsc", d.TxChain)
	assert.Equal(t, types.TokenType("evm"), d.Type)
}

func TestOptionalChain(t *testing.T) {
	c, err := optionalChain("")
	require.NoError(t, err)
	assert.Equal(t, types.Chain(0), c)

	c, err = optionalChain("mantle")
	require.NoError(t, err)
	assert.Equal(t, types.Mantle, c)

	_, err = optionalChain("atlantis")
	assert.Error(t, err)
}

func TestChainName(t *testing.T) {
	assert.Equal(t, "bsc", chainName(56))
	assert.Equal(t, "chain 999999", chainName(999999))
}
