package client

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"symbiosis-swap/pkg/api"
	"symbiosis-swap/pkg/rest"
	"symbiosis-swap/pkg/types"
)

// Swap requests a swap quote and the transaction executing it.
func (c *Symbiosis) Swap(ctx context.Context, req api.SwappingExactIn) (*api.SwapResponse, error) {
	resp, err := rest.Query[api.SwapResponse](ctx, c, req)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Bridge requests a bridge quote and the transaction executing it.
func (c *Symbiosis) Bridge(ctx context.Context, req api.BridgingExactIn) (*api.BridgeResponse, error) {
	resp, err := rest.Query[api.BridgeResponse](ctx, c, req)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Revert requests the transaction that reverts a stuck swap.
func (c *Symbiosis) Revert(ctx context.Context, req api.Revert) (*api.RevertResponse, error) {
	resp, err := rest.Query[api.RevertResponse](ctx, c, req)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stucked lists the stuck transactions sent from address.
func (c *Symbiosis) Stucked(ctx context.Context, address common.Address) ([]api.StuckedResponse, error) {
	return rest.Query[[]api.StuckedResponse](ctx, c, api.Stucked{Address: address})
}

// TxStatus checks the cross-chain status of one transaction.
func (c *Symbiosis) TxStatus(ctx context.Context, chain types.Chain, hash common.Hash) (*api.TxResponse, error) {
	resp, err := rest.Query[api.TxResponse](ctx, c, api.GetSingleTx{
		Tx: api.TxHashWithChainID{TransactionHash: hash, ChainID: chain},
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// BatchTxStatus checks several transactions at once. The result is in request order.
func (c *Symbiosis) BatchTxStatus(ctx context.Context, txs []api.TxHashWithChainID) ([]api.TxResponse, error) {
	resp, err := rest.Query[[]api.TxResponse](ctx, c, api.GetBatchTx{Txs: txs})
	if err != nil {
		return nil, err
	}
	if len(resp) != len(txs) {
		return nil, fmt.Errorf("batch status returned %d results for %d transactions", len(resp), len(txs))
	}
	return resp, nil
}

// Chains lists the chains supported by the service.
func (c *Symbiosis) Chains(ctx context.Context) ([]api.SymbiosisChain, error) {
	return rest.Query[[]api.SymbiosisChain](ctx, c, api.GetSupportedChains{})
}

// Routes lists the available cross-chain routes.
func (c *Symbiosis) Routes(ctx context.Context) ([]api.AvailableRoute, error) {
	return rest.Query[[]api.AvailableRoute](ctx, c, api.GetAvailableRoutes{})
}

// RoutesBetween lists routes leaving from and arriving at the given chains.
// A zero chain matches any chain.
func (c *Symbiosis) RoutesBetween(ctx context.Context, from, to types.Chain) ([]api.AvailableRoute, error) {
	routes, err := c.Routes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get routes: %w", err)
	}

	var out []api.AvailableRoute
	for _, r := range routes {
		if from != 0 && r.OriginChainID != from.ID() {
			continue
		}
		if to != 0 && r.DestinationChainID != to.ID() {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// HealthCheck returns nil when the service is up.
func (c *Symbiosis) HealthCheck(ctx context.Context) error {
	return rest.Ignore(ctx, c, api.HealthCheck{})
}
