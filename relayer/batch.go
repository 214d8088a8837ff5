package relayer

import (
	"bytes"
	"context"
	"sort"

	"cosmossdk.io/log"
	"github.com/ethereum/go-ethereum/common"

	"github.com/cosmos/gravity-orchestrator/cosmoschain"
	"github.com/cosmos/gravity-orchestrator/ethereum"
	"github.com/cosmos/gravity-orchestrator/sig"
	"github.com/cosmos/gravity-orchestrator/types"
)

// BatchRelayer relays signed withdrawal batches from the native chain to the
// EVM bridge contract, oldest-submittable-per-token first. Each token is an
// independent batch-nonce stream, so one cycle may submit up to one batch
// per token.
type BatchRelayer struct {
	native   cosmoschain.Client
	bridge   *ethereum.BridgeContract
	bridgeID string
	logger   log.Logger
}

func NewBatchRelayer(native cosmoschain.Client, bridge *ethereum.BridgeContract, bridgeID string, logger log.Logger) *BatchRelayer {
	return &BatchRelayer{native: native, bridge: bridge, bridgeID: bridgeID, logger: logger.With("loop", "batch_relayer")}
}

// BatchResult reports one submitted batch.
type BatchResult struct {
	TxHash string
	Token  common.Address
	Nonce  uint64
}

// RunCycle executes one batch relayer cycle per spec §4.6.
func (r *BatchRelayer) RunCycle(ctx context.Context) ([]BatchResult, error) {
	onChainValsetNonce, err := r.bridge.ValsetNonce(ctx)
	if err != nil {
		return nil, err
	}
	known, err := r.native.LatestValsets(ctx)
	if err != nil {
		return nil, err
	}
	currentValset, ok := findByNonce(known, onChainValsetNonce)
	if !ok {
		return nil, types.ErrDecode.Wrapf("no known valset for on-chain nonce %d", onChainValsetNonce)
	}

	batches, err := r.native.LatestBatches(ctx)
	if err != nil {
		return nil, err
	}

	oldestByToken := map[common.Address]types.TransactionBatch{}
	sigsByToken := map[common.Address]types.SigArrays{}

	for _, batch := range batches {
		confirmations, err := r.native.BatchConfirmations(ctx, batch.Nonce, batch.TokenContract)
		if err != nil {
			return nil, err
		}
		hash := sig.BatchConfirmHash(r.bridgeID, batch)
		sigs, err := sig.OrderSigs(currentValset, hash, confirmations)
		if err != nil {
			r.logger.Debug("batch lacks sufficient signatures, skipping", "token", batch.TokenContract, "nonce", batch.Nonce, "error", err)
			continue
		}
		existing, have := oldestByToken[batch.TokenContract]
		if !have || batch.Nonce < existing.Nonce {
			oldestByToken[batch.TokenContract] = batch
			sigsByToken[batch.TokenContract] = sigs
		}
	}

	tokens := make([]common.Address, 0, len(oldestByToken))
	for token := range oldestByToken {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool { return bytes.Compare(tokens[i].Bytes(), tokens[j].Bytes()) < 0 })

	var results []BatchResult
	for _, token := range tokens {
		batch := oldestByToken[token]

		onChainBatchNonce, err := r.bridge.LastBatchNonce(ctx, token)
		if err != nil {
			return results, err
		}
		if batch.IsObsolete(onChainBatchNonce) {
			r.logger.Debug("chosen batch already obsolete on-chain, skipping", "token", token, "nonce", batch.Nonce, "on_chain_nonce", onChainBatchNonce)
			continue
		}

		data, err := ethereum.SubmitBatchCall(currentValset, batch, sigsByToken[token])
		if err != nil {
			return results, types.ErrDecode.Wrapf("encode submitBatch: %s", err)
		}
		cost, err := r.bridge.EstimateGas(ctx, data)
		if err != nil {
			return results, err
		}
		r.logger.Info("broadcasting batch submission", "token", token, "nonce", batch.Nonce, "gas_units", cost.GasUnits, "gas_price", cost.GasPrice)

		txHash, _, err := r.bridge.Broadcast(ctx, data, cost.GasUnits, cost.GasPrice)
		if err != nil {
			return results, err
		}
		results = append(results, BatchResult{TxHash: txHash.Hex(), Token: token, Nonce: batch.Nonce})
	}

	return results, nil
}
