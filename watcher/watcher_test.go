package watcher_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/cosmos/gravity-orchestrator/cosmoschain/cosmostest"
	"github.com/cosmos/gravity-orchestrator/ethereum/ethtest"
	"github.com/cosmos/gravity-orchestrator/events"
	"github.com/cosmos/gravity-orchestrator/types"
	"github.com/cosmos/gravity-orchestrator/watcher"
)

var contractAddr = common.HexToAddress("0xcafe")
var validatorAddr = common.HexToAddress("0xbeef")

func uint256Args() abi.Arguments {
	typ, _ := abi.NewType("uint256", "", nil)
	return abi.Arguments{{Type: typ}}
}

func sendToCosmosLog(blockNumber uint64, eventNonce, amount int64) ethtypes.Log {
	packed, packErr := uint256Args().Pack(big.NewInt(amount))
	if packErr != nil {
		panic(packErr)
	}
	noncePacked, packErr := uint256Args().Pack(big.NewInt(eventNonce))
	if packErr != nil {
		panic(packErr)
	}
	return ethtypes.Log{
		BlockNumber: blockNumber,
		Topics: []common.Hash{
			events.Topic0.SendToCosmos,
			common.BytesToHash(contractAddr.Bytes()),
			common.BytesToHash(validatorAddr.Bytes()),
			common.HexToHash("0xdead"),
		},
		Data: append(packed, noncePacked...),
	}
}

// S1: scans [100,204], no logs ⇒ no tx, checkpoint 204.
func TestRunCycleS1EmptyScanAdvancesCheckpoint(t *testing.T) {
	evm := ethtest.NewFakeClient()
	evm.Height = 210
	evm.NetID = 1 // block_delay = 6
	native := cosmostest.NewFakeClient()

	w := watcher.New(evm, native, contractAddr, validatorAddr, sdk.NewInt64Coin("stake", 1))
	result, err := w.RunCycle(context.Background(), 100)
	require.NoError(t, err)
	require.Equal(t, uint64(204), result.Checkpoint.LastScannedBlock)
	require.Zero(t, result.ClaimsSent)
	require.Empty(t, native.SentClaims)
}

// S2: deposits nonce=10,11; last_event_nonce=10 ⇒ submits nonce=11 only, nonce
// advances to 11 ⇒ success.
func TestRunCycleS2SubmitsOnlyFreshEventsAndAdvances(t *testing.T) {
	evm := ethtest.NewFakeClient()
	evm.Height = 210
	evm.NetID = 1
	evm.Logs = []ethtypes.Log{
		sendToCosmosLog(150, 10, 100),
		sendToCosmosLog(151, 11, 200),
	}
	native := cosmostest.NewFakeClient()
	native.LastEventNonces[validatorAddr] = 10

	// FakeClient doesn't auto-advance its nonce on SendEthereumClaims, so wrap
	// it with a decorator that advances the nonce after a successful submit,
	// the way the real chain applying the claim would.
	advancing := &advancingNativeClient{FakeClient: native, advanceTo: 11}
	w := watcher.New(evm, advancing, contractAddr, validatorAddr, sdk.NewInt64Coin("stake", 1))

	result, err := w.RunCycle(context.Background(), 100)
	require.NoError(t, err)
	require.Equal(t, 1, result.ClaimsSent)
	require.Len(t, native.SentClaims, 1)
	sent := native.SentClaims[0].Claims
	require.Len(t, sent, 1)
	require.Equal(t, uint64(11), sent[0].EventNonce())
	require.Equal(t, uint64(11), result.Checkpoint.LastAppliedEventNonce)
}

// S3: post-submit re-read still returns 10 ⇒ InvalidBridgeState carrying the
// tx hash.
func TestRunCycleS3StaleNonceReturnsBridgeStateError(t *testing.T) {
	evm := ethtest.NewFakeClient()
	evm.Height = 210
	evm.NetID = 1
	evm.Logs = []ethtypes.Log{
		sendToCosmosLog(150, 10, 100),
		sendToCosmosLog(151, 11, 200),
	}
	native := cosmostest.NewFakeClient()
	native.LastEventNonces[validatorAddr] = 10

	w := watcher.New(evm, native, contractAddr, validatorAddr, sdk.NewInt64Coin("stake", 1))
	_, err := w.RunCycle(context.Background(), 100)
	require.Error(t, err)
	var bsErr *types.BridgeStateError
	require.ErrorAs(t, err, &bsErr)
	require.Equal(t, native.NextTxHash, bsErr.TxHash)
}

// advancingNativeClient scripts the native chain applying a submitted claim
// by advancing LastEventNonce after the first SendEthereumClaims call, the
// way the real chain would once the claim tx lands.
type advancingNativeClient struct {
	*cosmostest.FakeClient
	advanceTo uint64
	sent      bool
}

func (a *advancingNativeClient) SendEthereumClaims(ctx context.Context, claims []events.Event, fee sdk.Coin) (string, error) {
	hash, err := a.FakeClient.SendEthereumClaims(ctx, claims, fee)
	if err == nil {
		a.sent = true
		a.FakeClient.SetLastEventNonce(validatorAddr, a.advanceTo)
	}
	return hash, err
}
