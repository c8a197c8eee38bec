package types

// SwapRequest represents a user's swap or bridge command
type SwapRequest struct {
	Amount   string // human readable, e.g. "1.5"
	TokenIn  Token
	TokenOut Token
}

// QuoteDisplay holds formatted quote information for display
type QuoteDisplay struct {
	Kind        string
	AmountIn    string
	TokenIn     string
	AmountOut   string
	TokenOut    string
	Fee         string
	PriceImpact string
	AmountInUSD string
	Route       string
	ApproveTo   string
	TxChain     string
	TxTo        string
	TxValue     string
	Type        TokenType
}
