package types

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// DefaultDecimals is used for tokens built without an explicit precision.
const DefaultDecimals = 18

// Token describes a token supported by Symbiosis.
//
// Address is always present on the wire and is the empty string for a chain's native
// token. The remaining optional fields are omitted when unset.
type Token struct {
	Decimals    uint8  `json:"decimals"`
	Symbol      string `json:"symbol,omitempty"`
	Name        string `json:"name,omitempty"`
	ChainID     Chain  `json:"chainId"`
	Address     string `json:"address"`
	Icon        string `json:"icon,omitempty"`
	ChainFromID *Chain `json:"chainFromId,omitempty"`
	IsNative    *bool  `json:"isNative,omitempty"`
	UserToken   *bool  `json:"userToken,omitempty"`
}

// NativeToken returns the native token of chain with the default precision.
func NativeToken(chain Chain) Token {
	native := true
	return Token{
		Decimals: DefaultDecimals,
		ChainID:  chain,
		IsNative: &native,
	}
}

// ERC20Token returns an ERC-20 style token living at address on chain.
func ERC20Token(chain Chain, address common.Address, decimals uint8) Token {
	return Token{
		Decimals: decimals,
		ChainID:  chain,
		Address:  address.Hex(),
	}
}

// Native reports whether the token is its chain's native currency.
func (t Token) Native() bool {
	if t.IsNative != nil {
		return *t.IsNative
	}
	return t.Address == ""
}

// Validate checks the fields required to send the token in a request.
func (t Token) Validate() error {
	if !t.ChainID.IsValid() {
		return fmt.Errorf("token has unsupported chain id %d", uint64(t.ChainID))
	}
	if t.Address != "" && !common.IsHexAddress(t.Address) {
		return fmt.Errorf("token address %q is not a hex address", t.Address)
	}
	return nil
}

// Label is a short human readable name for the token.
func (t Token) Label() string {
	switch {
	case t.Symbol != "":
		return t.Symbol
	case t.Native():
		return "native"
	default:
		return t.Address
	}
}

// TokenAmount is a token together with an amount in its smallest unit.
// On the wire the token fields and "amount" share one object.
type TokenAmount struct {
	Token
	Amount Amount `json:"amount"`
}

// NewTokenAmount pairs token with amount.
func NewTokenAmount(token Token, amount Amount) TokenAmount {
	return TokenAmount{Token: token, Amount: amount}
}

// TokenList is a list of tokens whose malformed elements are dropped while decoding.
type TokenList []Token

// UnmarshalJSON decodes every element it can and skips the rest.
func (l *TokenList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("token list: %w", err)
	}
	out := make(TokenList, 0, len(raw))
	for _, item := range raw {
		var t Token
		if err := json.Unmarshal(item, &t); err != nil {
			continue
		}
		out = append(out, t)
	}
	*l = out
	return nil
}

// TokenType is the kind of chain a quoted transaction targets.
type TokenType string

const (
	TokenTypeEVM  TokenType = "evm"
	TokenTypeTron TokenType = "tron"
)

// UnmarshalJSON accepts only the known token types.
func (t *TokenType) UnmarshalJSON(data []byte) error {
	s, err := decodeEnum(data, "token type", string(TokenTypeEVM), string(TokenTypeTron))
	if err != nil {
		return err
	}
	*t = TokenType(s)
	return nil
}

// TradeType is the on-chain venue used for one leg of a swap.
type TradeType string

const (
	TradeTypeDex       TradeType = "dex"
	TradeTypeOneInch   TradeType = "1inch"
	TradeTypeOpenOcean TradeType = "open-ocean"
	TradeTypeWrap      TradeType = "wrap"
	TradeTypeIzumi     TradeType = "izumi"
)

// UnmarshalJSON accepts only the known trade types.
func (t *TradeType) UnmarshalJSON(data []byte) error {
	s, err := decodeEnum(data, "trade type",
		string(TradeTypeDex), string(TradeTypeOneInch), string(TradeTypeOpenOcean),
		string(TradeTypeWrap), string(TradeTypeIzumi))
	if err != nil {
		return err
	}
	*t = TradeType(s)
	return nil
}

func decodeEnum(data []byte, kind string, allowed ...string) (string, error) {
	if string(data) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", fmt.Errorf("invalid %s: %w", kind, err)
	}
	for _, a := range allowed {
		if s == a {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown %s %q (expected one of %s)", kind, s, strings.Join(allowed, ", "))
}
