package cosmoschain

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/cosmos/gravity-orchestrator/events"
	"github.com/cosmos/gravity-orchestrator/types"
)

// QueryClient is the native chain's bridge-module gRPC query surface (spec
// §6), narrowed to the five calls the orchestrator issues. The bridge
// module and its generated protobuf bindings are an out-of-scope external
// collaborator (spec §1): in production this is backed by the module's own
// generated QueryClient wrapped over the dialed *grpc.ClientConn; here it is
// the seam the orchestrator core depends on, so tests can substitute an
// in-memory fake without a gRPC server.
type QueryClient interface {
	LastEventNonce(ctx context.Context, validator common.Address) (uint64, error)
	LatestValsets(ctx context.Context) ([]types.Valset, error)
	ValsetConfirmations(ctx context.Context, nonce uint64) ([]types.Confirmation, error)
	LatestBatches(ctx context.Context) ([]types.TransactionBatch, error)
	BatchConfirmations(ctx context.Context, nonce uint64, token common.Address) ([]types.Confirmation, error)
}

// MsgClient is the native chain's tx broadcast surface (spec §6): a single
// MsgSendEthereumClaims-equivalent carrying the five event kinds.
type MsgClient interface {
	SendEthereumClaims(ctx context.Context, claims []events.Event, fee sdk.Coin) (txHash string, err error)
}
