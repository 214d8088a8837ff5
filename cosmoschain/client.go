// Package cosmoschain is the thin adapter over the native chain's gRPC
// query/tx surface (spec §4.1, §6): valsets, confirmations, batches, the
// per-validator last event nonce, and the combined ethereum-claims tx.
package cosmoschain

import (
	"context"

	"cosmossdk.io/log"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/cosmos/gravity-orchestrator/events"
	"github.com/cosmos/gravity-orchestrator/types"
)

// Client is the narrow capability surface the watcher and relayers need from
// the native chain. Tests substitute an in-memory fake, same as
// ethereum.Client (spec §9).
type Client interface {
	LastEventNonce(ctx context.Context, validator common.Address) (uint64, error)
	LatestValsets(ctx context.Context) ([]types.Valset, error)
	ValsetConfirmations(ctx context.Context, nonce uint64) ([]types.Confirmation, error)
	LatestBatches(ctx context.Context) ([]types.TransactionBatch, error)
	BatchConfirmations(ctx context.Context, nonce uint64, token common.Address) ([]types.Confirmation, error)
	SendEthereumClaims(ctx context.Context, claims []events.Event, fee sdk.Coin) (txHash string, err error)
}

// grpcClient combines a bridge-module QueryClient and MsgClient (spec §6)
// dialed over the same connection, the way a cosmos-sdk module's generated
// NewQueryClient(conn)/NewMsgClient(conn) constructors are wired against a
// single *grpc.ClientConn in client-side tooling.
type grpcClient struct {
	conn   *grpc.ClientConn
	query  QueryClient
	msg    MsgClient
	logger log.Logger
}

// QueryClientFactory and MsgClientFactory build the module's generated
// clients over a dialed connection — the same shape as the cosmos-sdk
// convention `bridgetypes.NewQueryClient(conn)` / `NewMsgClient(conn)`.
type QueryClientFactory func(*grpc.ClientConn) QueryClient
type MsgClientFactory func(*grpc.ClientConn) MsgClient

// NewClient dials grpcEndpoint and builds a Client from the supplied
// Query/MsgClient factories, the seam where the native chain's (out-of-scope,
// spec §1) generated bridge-module client is plugged in.
func NewClient(grpcEndpoint string, newQuery QueryClientFactory, newMsg MsgClientFactory, logger log.Logger) (Client, error) {
	conn, err := grpc.NewClient(grpcEndpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, types.ErrTransport.Wrapf("dial native chain grpc %s: %s", grpcEndpoint, err)
	}
	return &grpcClient{
		conn:   conn,
		query:  newQuery(conn),
		msg:    newMsg(conn),
		logger: logger.With("module", "cosmoschain"),
	}, nil
}

func (c *grpcClient) LastEventNonce(ctx context.Context, validator common.Address) (uint64, error) {
	n, err := c.query.LastEventNonce(ctx, validator)
	if err != nil {
		return 0, types.ErrTransport.Wrapf("get_last_event_nonce(%s): %s", validator, err)
	}
	return n, nil
}

func (c *grpcClient) LatestValsets(ctx context.Context) ([]types.Valset, error) {
	vs, err := c.query.LatestValsets(ctx)
	if err != nil {
		return nil, types.ErrTransport.Wrapf("get_latest_valsets: %s", err)
	}
	return vs, nil
}

func (c *grpcClient) ValsetConfirmations(ctx context.Context, nonce uint64) ([]types.Confirmation, error) {
	cs, err := c.query.ValsetConfirmations(ctx, nonce)
	if err != nil {
		return nil, types.ErrTransport.Wrapf("get_valset_confirmations(%d): %s", nonce, err)
	}
	return cs, nil
}

func (c *grpcClient) LatestBatches(ctx context.Context) ([]types.TransactionBatch, error) {
	bs, err := c.query.LatestBatches(ctx)
	if err != nil {
		return nil, types.ErrTransport.Wrapf("get_latest_batches: %s", err)
	}
	return bs, nil
}

func (c *grpcClient) BatchConfirmations(ctx context.Context, nonce uint64, token common.Address) ([]types.Confirmation, error) {
	cs, err := c.query.BatchConfirmations(ctx, nonce, token)
	if err != nil {
		return nil, types.ErrTransport.Wrapf("get_batch_confirmations(%d,%s): %s", nonce, token, err)
	}
	return cs, nil
}

func (c *grpcClient) SendEthereumClaims(ctx context.Context, claims []events.Event, fee sdk.Coin) (string, error) {
	hash, err := c.msg.SendEthereumClaims(ctx, claims, fee)
	if err != nil {
		return "", types.ErrTransport.Wrapf("send_ethereum_claims: %s", err)
	}
	return hash, nil
}
