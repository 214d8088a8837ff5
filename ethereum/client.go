// Package ethereum is the thin read/write adapter over the EVM chain's
// JSON-RPC surface (spec §4.1): block height, net id, log queries, balance,
// gas price, transaction send/wait, and calls into the bridge contract.
package ethereum

import (
	"context"
	"math/big"
	"time"

	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/cosmos/gravity-orchestrator/types"
)

// Client is the narrow capability surface the watcher and relayers need from
// the EVM chain. Tests substitute an in-memory fake (spec §9): "dynamic
// dispatch over chain kinds... tests substitute in-memory fakes".
type Client interface {
	LatestBlock(ctx context.Context) (uint64, error)
	NetVersion(ctx context.Context) (uint64, error)
	GetBalance(ctx context.Context, addr common.Address) (*big.Int, error)
	PendingNonceAt(ctx context.Context, addr common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	GetLogs(ctx context.Context, fromBlock, toBlock uint64, contract common.Address, topics []common.Hash) ([]ethtypes.Log, error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *ethtypes.Transaction) error
	WaitForReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error)
	CallContract(ctx context.Context, call ethereum.CallMsg) ([]byte, error)
}

// ethClient is the production Client, backed by ethclient.Client — the
// go-ethereum RPC transport the whole pack depends on.
type ethClient struct {
	rpc    *ethclient.Client
	logger log.Logger
}

// NewClient dials rpcURL and wraps it as a Client.
func NewClient(rpcURL string, logger log.Logger) (Client, error) {
	rpc, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, types.ErrTransport.Wrapf("dial %s: %s", rpcURL, err)
	}
	return &ethClient{rpc: rpc, logger: logger.With("module", "ethereum")}, nil
}

func (c *ethClient) LatestBlock(ctx context.Context) (uint64, error) {
	var height uint64
	err := retryForever(ctx, c.logger, "latest_block", func() error {
		h, err := c.rpc.BlockNumber(ctx)
		if err != nil {
			return err
		}
		height = h
		return nil
	})
	return height, err
}

func (c *ethClient) NetVersion(ctx context.Context) (uint64, error) {
	var id uint64
	err := retryForever(ctx, c.logger, "net_version", func() error {
		cid, err := c.rpc.ChainID(ctx)
		if err != nil {
			return err
		}
		id = cid.Uint64()
		return nil
	})
	return id, err
}

func (c *ethClient) GetBalance(ctx context.Context, addr common.Address) (*big.Int, error) {
	bal, err := c.rpc.BalanceAt(ctx, addr, nil)
	if err != nil {
		return nil, types.ErrTransport.Wrapf("get_balance(%s): %s", addr, err)
	}
	return bal, nil
}

func (c *ethClient) PendingNonceAt(ctx context.Context, addr common.Address) (uint64, error) {
	n, err := c.rpc.PendingNonceAt(ctx, addr)
	if err != nil {
		return 0, types.ErrTransport.Wrapf("get_nonce(%s): %s", addr, err)
	}
	return n, nil
}

func (c *ethClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	price, err := c.rpc.SuggestGasPrice(ctx)
	if err != nil {
		return nil, types.ErrTransport.Wrapf("gas_price: %s", err)
	}
	return price, nil
}

func (c *ethClient) GetLogs(ctx context.Context, fromBlock, toBlock uint64, contract common.Address, topics []common.Hash) ([]ethtypes.Log, error) {
	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []common.Address{contract},
		Topics:    [][]common.Hash{topics},
	}
	logs, err := c.rpc.FilterLogs(ctx, query)
	if err != nil {
		return nil, types.ErrTransport.Wrapf("get_logs[%d,%d]: %s", fromBlock, toBlock, err)
	}
	return logs, nil
}

func (c *ethClient) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	gas, err := c.rpc.EstimateGas(ctx, call)
	if err != nil {
		return 0, types.ErrTransport.Wrapf("estimate_gas: %s", err)
	}
	return gas, nil
}

func (c *ethClient) SendTransaction(ctx context.Context, tx *ethtypes.Transaction) error {
	if err := c.rpc.SendTransaction(ctx, tx); err != nil {
		return types.ErrTransport.Wrapf("send_tx(%s): %s", tx.Hash(), err)
	}
	return nil
}

// WaitForReceipt polls for txHash's receipt until it is mined or ctx's
// deadline (the caller-supplied timeout, spec §4.1/§5) elapses.
func (c *ethClient) WaitForReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		receipt, err := c.rpc.TransactionReceipt(ctx, txHash)
		if err == nil {
			if receipt.Status == ethtypes.ReceiptStatusFailed {
				return receipt, types.ErrContractRevert.Wrapf("tx %s reverted", txHash)
			}
			return receipt, nil
		}
		if err != ethereum.NotFound {
			return nil, types.ErrTransport.Wrapf("wait_for_tx(%s): %s", txHash, err)
		}

		select {
		case <-ctx.Done():
			return nil, types.ErrTransport.Wrapf("wait_for_tx(%s): %s", txHash, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (c *ethClient) CallContract(ctx context.Context, call ethereum.CallMsg) ([]byte, error) {
	out, err := c.rpc.CallContract(ctx, call, nil)
	if err != nil {
		return nil, types.ErrTransport.Wrapf("call: %s", err)
	}
	return out, nil
}
