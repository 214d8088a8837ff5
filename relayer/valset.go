// Package relayer implements the valset and batch relayers (spec §4.5,
// §4.6): polling the native chain for signed artifacts, verifying
// submittability against the current on-chain validator set, pre-flighting
// against the EVM contract's live nonce, and broadcasting the update.
package relayer

import (
	"context"
	"sort"

	"cosmossdk.io/log"

	"github.com/cosmos/gravity-orchestrator/cosmoschain"
	"github.com/cosmos/gravity-orchestrator/ethereum"
	"github.com/cosmos/gravity-orchestrator/sig"
	"github.com/cosmos/gravity-orchestrator/types"
)

// ValsetRelayer relays validator-set rotations from the native chain to the
// EVM bridge contract.
type ValsetRelayer struct {
	native   cosmoschain.Client
	bridge   *ethereum.BridgeContract
	bridgeID string
	gasLimit uint64
	logger   log.Logger
}

func NewValsetRelayer(native cosmoschain.Client, bridge *ethereum.BridgeContract, bridgeID string, gasLimit uint64, logger log.Logger) *ValsetRelayer {
	return &ValsetRelayer{native: native, bridge: bridge, bridgeID: bridgeID, gasLimit: gasLimit, logger: logger.With("loop", "valset_relayer")}
}

// ValsetResult reports what, if anything, RunCycle did.
type ValsetResult struct {
	Submitted bool
	TxHash    string
	NewNonce  uint64
}

// RunCycle executes one valset relayer cycle per spec §4.5.
func (r *ValsetRelayer) RunCycle(ctx context.Context) (ValsetResult, error) {
	onChainNonce, err := r.bridge.ValsetNonce(ctx)
	if err != nil {
		return ValsetResult{}, err
	}

	known, err := r.native.LatestValsets(ctx)
	if err != nil {
		return ValsetResult{}, err
	}

	currentValset, ok := findByNonce(known, onChainNonce)
	if !ok {
		return ValsetResult{}, types.ErrDecode.Wrapf("no known valset for on-chain nonce %d", onChainNonce)
	}

	candidates := candidatesAbove(known, onChainNonce)
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Nonce > candidates[j].Nonce })

	var chosen types.Valset
	var chosenSigs types.SigArrays
	found := false
	for _, candidate := range candidates {
		confirmations, err := r.native.ValsetConfirmations(ctx, candidate.Nonce)
		if err != nil {
			return ValsetResult{}, err
		}
		// The confirm hash is over the candidate itself, not the currently
		// installed valset: validators sign the new valset they're
		// confirming (spec §4.3's encode_valset_confirm_hashed(bridge_id,
		// new_valset)), while currentValset only supplies the ordering and
		// threshold OrderSigs checks against.
		hash := sig.ValsetConfirmHash(r.bridgeID, candidate)
		sigs, err := sig.OrderSigs(currentValset, hash, confirmations)
		if err != nil {
			r.logger.Debug("valset candidate lacks sufficient signatures, trying next", "nonce", candidate.Nonce, "error", err)
			continue
		}
		chosen, chosenSigs, found = candidate, sigs, true
		break
	}
	if !found {
		return ValsetResult{}, nil
	}

	// Re-read immediately before broadcast: someone else may have relayed
	// this (or a newer) valset already (spec §4.5 step 3, testable property
	// 5 / scenario S6).
	freshNonce, err := r.bridge.ValsetNonce(ctx)
	if err != nil {
		return ValsetResult{}, err
	}
	if freshNonce != onChainNonce {
		r.logger.Info("valset already relayed by another instance, aborting quietly", "on_chain_nonce", freshNonce)
		return ValsetResult{}, nil
	}

	data, err := ethereum.UpdateValsetCall(chosen, currentValset, chosenSigs)
	if err != nil {
		return ValsetResult{}, types.ErrDecode.Wrapf("encode updateValset: %s", err)
	}
	cost, err := r.bridge.EstimateGas(ctx, data)
	if err != nil {
		return ValsetResult{}, err
	}
	r.logger.Info("broadcasting valset update", "new_nonce", chosen.Nonce, "gas_units", cost.GasUnits, "gas_price", cost.GasPrice)

	txHash, _, err := r.bridge.Broadcast(ctx, data, r.gasLimit, cost.GasPrice)
	if err != nil {
		return ValsetResult{}, err
	}

	advanced, err := r.bridge.ValsetNonce(ctx)
	if err != nil {
		return ValsetResult{}, err
	}
	if advanced != chosen.Nonce {
		// Per spec §9(b): log but still return success — a mismatch here
		// means another relayer raced us to a different valset, recoverable
		// on the next cycle, not a bug to retry in place.
		r.logger.Warn("valset nonce did not advance to expected value after broadcast", "expected", chosen.Nonce, "actual", advanced, "tx_hash", txHash.Hex())
	}
	return ValsetResult{Submitted: true, TxHash: txHash.Hex(), NewNonce: chosen.Nonce}, nil
}

func findByNonce(valsets []types.Valset, nonce uint64) (types.Valset, bool) {
	for _, v := range valsets {
		if v.Nonce == nonce {
			return v, true
		}
	}
	return types.Valset{}, false
}

func candidatesAbove(valsets []types.Valset, nonce uint64) []types.Valset {
	out := make([]types.Valset, 0, len(valsets))
	for _, v := range valsets {
		if v.Nonce > nonce {
			out = append(out, v)
		}
	}
	return out
}
