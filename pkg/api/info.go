package api

import (
	"net/http"

	"symbiosis-swap/pkg/types"
)

// GetSupportedChains lists the chains Symbiosis operates on.
type GetSupportedChains struct{}

func (GetSupportedChains) Method() string { return http.MethodGet }
func (GetSupportedChains) Path() string   { return "v1/chains" }

// SymbiosisChain is a chain as reported by the server. The id is kept raw so that
// chains newer than this client still decode.
type SymbiosisChain struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Explorer string `json:"explorer"`
	Icon     string `json:"icon"`
}

// Chain returns the id as a types.Chain, or false if the id is unknown to this client.
func (c SymbiosisChain) Chain() (types.Chain, bool) {
	chain, err := types.ChainFromID(c.ID)
	return chain, err == nil
}

// GetAvailableRoutes lists the token pairs that can be swapped across chains.
type GetAvailableRoutes struct{}

func (GetAvailableRoutes) Method() string { return http.MethodGet }
func (GetAvailableRoutes) Path() string   { return "v1/available-routes" }

// AvailableRoute is a token pair that can be swapped from one chain to another.
// Chain ids are raw so that routes touching unknown chains still decode.
type AvailableRoute struct {
	OriginChainID      uint64 `json:"originChainId"`
	OriginToken        string `json:"originToken"`
	DestinationChainID uint64 `json:"destinationChainId"`
	DestinationToken   string `json:"destinationToken"`
}

// HealthCheck succeeds when the service is up. It has no typed response.
type HealthCheck struct{}

func (HealthCheck) Method() string { return http.MethodGet }
func (HealthCheck) Path() string   { return "health-check" }
