package types

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Chain identifies a blockchain network by its numeric chain id.
// Only ids present in the chain table are valid.
type Chain uint64

// Networks supported by the Symbiosis protocol.
const (
	Mainnet           Chain = 1
	Optimism          Chain = 10
	Cronos            Chain = 25
	Telos             Chain = 40
	BinanceSmartChain Chain = 56
	BSCTestnet        Chain = 97
	Gnosis            Chain = 100
	Polygon           Chain = 137
	Manta             Chain = 169
	Fantom            Chain = 250
	Boba              Chain = 288
	ZkSync            Chain = 324
	Metis             Chain = 1088
	PolygonZkEvm      Chain = 1101
	Core              Chain = 1116
	Moonbeam          Chain = 1284
	Kava              Chain = 2222
	Mantle            Chain = 5000
	ZetaChain         Chain = 7000
	Base              Chain = 8453
	Mode              Chain = 34443
	Arbitrum          Chain = 42161
	ArbitrumNova      Chain = 42170
	Avalanche         Chain = 43114
	Linea             Chain = 59144
	Blast             Chain = 81457
	Taiko             Chain = 167000
	Scroll            Chain = 534352
	Tron              Chain = 728126428
	Sepolia           Chain = 11155111
)

var chainNames = map[Chain]string{
	Mainnet:           "mainnet",
	Optimism:          "optimism",
	Cronos:            "cronos",
	Telos:             "telos",
	BinanceSmartChain: "bsc",
	BSCTestnet:        "bsc-testnet",
	Gnosis:            "gnosis",
	Polygon:           "polygon",
	Manta:             "manta",
	Fantom:            "fantom",
	Boba:              "boba",
	ZkSync:            "zksync",
	Metis:             "metis",
	PolygonZkEvm:      "polygon-zkevm",
	Core:              "core",
	Moonbeam:          "moonbeam",
	Kava:              "kava",
	Mantle:            "mantle",
	ZetaChain:         "zetachain",
	Base:              "base",
	Mode:              "mode",
	Arbitrum:          "arbitrum",
	ArbitrumNova:      "arbitrum-nova",
	Avalanche:         "avalanche",
	Linea:             "linea",
	Blast:             "blast",
	Taiko:             "taiko",
	Scroll:            "scroll",
	Tron:              "tron",
	Sepolia:           "sepolia",
}

// chainAliases are extra names accepted by ParseChain.
var chainAliases = map[string]Chain{
	"ethereum":            Mainnet,
	"eth":                 Mainnet,
	"binance-smart-chain": BinanceSmartChain,
	"bnb":                 BinanceSmartChain,
	"matic":               Polygon,
	"arb":                 Arbitrum,
	"avax":                Avalanche,
	"op":                  Optimism,
	"zeta":                ZetaChain,
}

// ChainFromID converts a numeric chain id into a Chain. Ids outside the chain table fail.
func ChainFromID(id uint64) (Chain, error) {
	c := Chain(id)
	if _, ok := chainNames[c]; !ok {
		return 0, fmt.Errorf("unsupported chain id %d", id)
	}
	return c, nil
}

// ParseChain resolves a chain by name, alias or decimal id.
func ParseChain(s string) (Chain, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return 0, fmt.Errorf("chain is required")
	}
	if c, ok := chainAliases[name]; ok {
		return c, nil
	}
	for c, n := range chainNames {
		if n == name {
			return c, nil
		}
	}
	if id, err := strconv.ParseUint(name, 10, 64); err == nil {
		return ChainFromID(id)
	}
	return 0, fmt.Errorf("unknown chain %q", s)
}

// ID returns the numeric chain id.
func (c Chain) ID() uint64 {
	return uint64(c)
}

// IsValid reports whether c is in the chain table.
func (c Chain) IsValid() bool {
	_, ok := chainNames[c]
	return ok
}

func (c Chain) String() string {
	if n, ok := chainNames[c]; ok {
		return n
	}
	return fmt.Sprintf("chain(%d)", uint64(c))
}

// MarshalJSON encodes the chain as its numeric id. The zero chain, decoded from
// null, encodes back to null.
func (c Chain) MarshalJSON() ([]byte, error) {
	if c == 0 {
		return []byte("null"), nil
	}
	if !c.IsValid() {
		return nil, fmt.Errorf("unsupported chain id %d", uint64(c))
	}
	return json.Marshal(uint64(c))
}

// UnmarshalJSON decodes a numeric chain id, rejecting ids outside the chain table.
func (c *Chain) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var id uint64
	if err := json.Unmarshal(data, &id); err != nil {
		return fmt.Errorf("invalid chain id: %w", err)
	}
	chain, err := ChainFromID(id)
	if err != nil {
		return err
	}
	*c = chain
	return nil
}

// Chains returns every known chain ordered by id.
func Chains() []Chain {
	out := make([]Chain, 0, len(chainNames))
	for c := range chainNames {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
