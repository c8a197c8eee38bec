// Package wallet signs and broadcasts the transactions returned by Symbiosis quotes.
package wallet

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"

	"symbiosis-swap/pkg/types"
)

// ERC20 approve/allowance ABI
const erc20ABI = `[
{"constant":false,"inputs":[{"name":"_spender","type":"address"},{"name":"_value","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"type":"function"},
{"constant":true,"inputs":[{"name":"_owner","type":"address"},{"name":"_spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"type":"function"}
]`

const (
	defaultGasLimit     uint64 = 500000
	defaultApproveLimit uint64 = 100000
	receiptPollInterval        = 3 * time.Second
)

// ErrUnsupportedChain is returned for chains whose transactions cannot be signed here.
var ErrUnsupportedChain = errors.New("chain is not supported by the EVM wallet")

var parsedERC20 = mustParseABI(erc20ABI)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(fmt.Sprintf("failed to parse ERC20 ABI: %v", err))
	}
	return parsed
}

// Backend is the subset of an Ethereum RPC client used by Sender. *ethclient.Client
// implements it.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	SendTransaction(ctx context.Context, tx *ethtypes.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error)
}

// Network holds per-chain RPC settings
type Network struct {
	RPCURL   string
	GasLimit *uint64
	GasPrice *int64
}

// Sender signs transactions for one chain with one key and sends them
type Sender struct {
	chain   types.Chain
	network Network
	backend Backend
	key     *ecdsa.PrivateKey
	from    common.Address
	log     logrus.FieldLogger
	closer  func()
}

// AddressFromKey returns the account controlled by a hex private key.
func AddressFromKey(privateKeyHex string) (common.Address, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return common.Address{}, fmt.Errorf("invalid private key: %w", err)
	}
	return crypto.PubkeyToAddress(key.PublicKey), nil
}

// Dial connects to the network's RPC endpoint and returns a Sender for chain.
func Dial(chain types.Chain, network Network, privateKeyHex string, log logrus.FieldLogger) (*Sender, error) {
	if network.RPCURL == "" {
		return nil, fmt.Errorf("RPC URL not configured for chain %s", chain)
	}
	if privateKeyHex == "" {
		return nil, fmt.Errorf("private key not configured")
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	client, err := ethclient.Dial(network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}

	s, err := NewSender(chain, network, client, key, log)
	if err != nil {
		client.Close()
		return nil, err
	}
	s.closer = client.Close
	return s, nil
}

// NewSender returns a Sender using an existing backend.
func NewSender(chain types.Chain, network Network, backend Backend, key *ecdsa.PrivateKey, log logrus.FieldLogger) (*Sender, error) {
	if chain == types.Tron {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedChain, chain)
	}
	if !chain.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedChain, uint64(chain))
	}
	if key == nil {
		return nil, fmt.Errorf("private key is required")
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Sender{
		chain:   chain,
		network: network,
		backend: backend,
		key:     key,
		from:    crypto.PubkeyToAddress(key.PublicKey),
		log:     log.WithField("chain", chain.String()),
	}, nil
}

// Address returns the account that signs transactions.
func (s *Sender) Address() common.Address {
	return s.from
}

// Chain returns the chain transactions are signed for.
func (s *Sender) Chain() types.Chain {
	return s.chain
}

// Build signs tx as a legacy EIP-155 transaction without sending it.
func (s *Sender) Build(ctx context.Context, tx types.Tx) (*ethtypes.Transaction, error) {
	if tx.ChainID != s.chain {
		return nil, fmt.Errorf("transaction is for chain %s, wallet is for %s", tx.ChainID, s.chain)
	}
	if tx.To == (common.Address{}) {
		return nil, fmt.Errorf("transaction has no recipient")
	}
	return s.sign(ctx, tx.To, tx.Value.Big(), tx.Data, defaultGasLimit)
}

// Send signs and broadcasts tx and returns its hash.
func (s *Sender) Send(ctx context.Context, tx types.Tx) (common.Hash, error) {
	signed, err := s.Build(ctx, tx)
	if err != nil {
		return common.Hash{}, err
	}
	return s.broadcast(ctx, signed)
}

// Allowance returns how much spender may move of the sender's token.
func (s *Sender) Allowance(ctx context.Context, token, spender common.Address) (*big.Int, error) {
	data, err := parsedERC20.Pack("allowance", s.from, spender)
	if err != nil {
		return nil, fmt.Errorf("failed to pack allowance data: %w", err)
	}

	result, err := s.backend.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call allowance: %w", err)
	}
	return new(big.Int).SetBytes(result), nil
}

// Approve lets spender move amount of token. It sends nothing and returns a zero hash
// when the current allowance already covers amount.
func (s *Sender) Approve(ctx context.Context, token, spender common.Address, amount types.Amount) (common.Hash, error) {
	allowance, err := s.Allowance(ctx, token, spender)
	if err != nil {
		return common.Hash{}, err
	}
	if allowance.Cmp(amount.Big()) >= 0 {
		s.log.WithFields(logrus.Fields{
			"token":   token.Hex(),
			"spender": spender.Hex(),
		}).Debug("allowance already sufficient")
		return common.Hash{}, nil
	}

	data, err := ApproveData(spender, amount)
	if err != nil {
		return common.Hash{}, err
	}
	signed, err := s.sign(ctx, token, big.NewInt(0), data, defaultApproveLimit)
	if err != nil {
		return common.Hash{}, err
	}
	return s.broadcast(ctx, signed)
}

// ApproveData returns the calldata of ERC20 approve(spender, amount).
func ApproveData(spender common.Address, amount types.Amount) ([]byte, error) {
	data, err := parsedERC20.Pack("approve", spender, amount.Big())
	if err != nil {
		return nil, fmt.Errorf("failed to pack approve data: %w", err)
	}
	return data, nil
}

func (s *Sender) sign(ctx context.Context, to common.Address, value *big.Int, data []byte, fallbackGas uint64) (*ethtypes.Transaction, error) {
	rpcChain, err := s.backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain id: %w", err)
	}
	chainID := new(big.Int).SetUint64(s.chain.ID())
	if rpcChain.Cmp(chainID) != 0 {
		return nil, fmt.Errorf("RPC endpoint serves chain %s, expected %s", rpcChain, chainID)
	}

	nonce, err := s.backend.PendingNonceAt(ctx, s.from)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := s.gasPrice(ctx)
	if err != nil {
		return nil, err
	}

	gasLimit := s.gasLimit(ctx, to, value, data, fallbackGas)

	tx := ethtypes.NewTransaction(nonce, to, value, gasLimit, gasPrice, data)
	signed, err := ethtypes.SignTx(tx, ethtypes.NewEIP155Signer(chainID), s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return signed, nil
}

func (s *Sender) broadcast(ctx context.Context, tx *ethtypes.Transaction) (common.Hash, error) {
	if err := s.backend.SendTransaction(ctx, tx); err != nil {
		return common.Hash{}, fmt.Errorf("failed to send transaction: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"hash":  tx.Hash().Hex(),
		"nonce": tx.Nonce(),
		"gas":   tx.Gas(),
	}).Info("transaction sent")
	return tx.Hash(), nil
}

// gasPrice returns the configured gas price or asks the network
func (s *Sender) gasPrice(ctx context.Context) (*big.Int, error) {
	if s.network.GasPrice != nil {
		return big.NewInt(*s.network.GasPrice), nil
	}
	price, err := s.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}
	return price, nil
}

// gasLimit returns the configured limit, or the estimate plus 20%.
func (s *Sender) gasLimit(ctx context.Context, to common.Address, value *big.Int, data []byte, fallback uint64) uint64 {
	if s.network.GasLimit != nil {
		return *s.network.GasLimit
	}
	estimated, err := s.backend.EstimateGas(ctx, ethereum.CallMsg{
		From:  s.from,
		To:    &to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		s.log.WithError(err).WithField("fallback", fallback).Warn("gas estimation failed")
		return fallback
	}
	return estimated * 120 / 100
}

// WaitMined polls for the receipt of hash until it is mined or ctx is done.
// A reverted transaction is returned as an error together with its receipt.
func (s *Sender) WaitMined(ctx context.Context, hash common.Hash) (*ethtypes.Receipt, error) {
	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := s.backend.TransactionReceipt(ctx, hash)
		if err == nil {
			if receipt.Status != ethtypes.ReceiptStatusSuccessful {
				return receipt, fmt.Errorf("transaction %s reverted", hash.Hex())
			}
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("failed to get receipt: %w", err)
		}
		s.log.WithField("hash", hash.Hex()).Debug("waiting for transaction to be mined")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Close closes the RPC connection if the Sender owns one.
func (s *Sender) Close() {
	if s.closer != nil {
		s.closer()
	}
}
