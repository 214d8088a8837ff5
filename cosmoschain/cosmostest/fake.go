// Package cosmostest provides an in-memory fake of cosmoschain.Client, the
// native-chain mirror of ethereum/ethtest (spec §9).
package cosmostest

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/cosmos/gravity-orchestrator/events"
	"github.com/cosmos/gravity-orchestrator/types"
)

// FakeClient is a deterministic, in-process stand-in for cosmoschain.Client.
type FakeClient struct {
	LastEventNonces map[common.Address]uint64
	Valsets         []types.Valset
	ValsetConfirms  map[uint64][]types.Confirmation
	Batches         []types.TransactionBatch
	BatchConfirms   map[BatchKey][]types.Confirmation

	SentClaims []SentClaim
	NextTxHash string

	LastEventNonceErr    error
	SendEthereumClaimErr error
}

// BatchKey identifies a batch's confirmation set by (nonce, token), matching
// the native chain's get_batch_confirmations(nonce, token) query shape.
type BatchKey struct {
	Nonce uint64
	Token common.Address
}

// SentClaim records one SendEthereumClaims call for assertions.
type SentClaim struct {
	Claims []events.Event
	Fee    sdk.Coin
}

func NewFakeClient() *FakeClient {
	return &FakeClient{
		LastEventNonces: map[common.Address]uint64{},
		ValsetConfirms:  map[uint64][]types.Confirmation{},
		BatchConfirms:   map[BatchKey][]types.Confirmation{},
		NextTxHash:      "0xfaketxhash",
	}
}

func (f *FakeClient) LastEventNonce(ctx context.Context, validator common.Address) (uint64, error) {
	if f.LastEventNonceErr != nil {
		return 0, f.LastEventNonceErr
	}
	return f.LastEventNonces[validator], nil
}

func (f *FakeClient) LatestValsets(ctx context.Context) ([]types.Valset, error) {
	return f.Valsets, nil
}

func (f *FakeClient) ValsetConfirmations(ctx context.Context, nonce uint64) ([]types.Confirmation, error) {
	return f.ValsetConfirms[nonce], nil
}

func (f *FakeClient) LatestBatches(ctx context.Context) ([]types.TransactionBatch, error) {
	return f.Batches, nil
}

func (f *FakeClient) BatchConfirmations(ctx context.Context, nonce uint64, token common.Address) ([]types.Confirmation, error) {
	return f.BatchConfirms[BatchKey{Nonce: nonce, Token: token}], nil
}

func (f *FakeClient) SendEthereumClaims(ctx context.Context, claims []events.Event, fee sdk.Coin) (string, error) {
	if f.SendEthereumClaimErr != nil {
		return "", f.SendEthereumClaimErr
	}
	f.SentClaims = append(f.SentClaims, SentClaim{Claims: claims, Fee: fee})
	return f.NextTxHash, nil
}

// SetLastEventNonce lets a test advance the validator's on-chain nonce after
// scripting a SendEthereumClaims response, mirroring what the real chain
// would do once the claim tx is included.
func (f *FakeClient) SetLastEventNonce(validator common.Address, nonce uint64) {
	f.LastEventNonces[validator] = nonce
}
