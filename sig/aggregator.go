package sig

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/cosmos/gravity-orchestrator/types"
)

// OrderSigs places each confirmation into the slot of the validator it was
// signed by, in valset order: position i holds the signature by valset
// Members[i] over messageHash if present, else the all-zero sentinel triple
// (the contract's "absent" encoding). A confirmation only fills a slot if it
// actually ecrecovers to the claimed validator's address over messageHash
// (spec §4.3: "find the confirmation signed by that validator over
// message_hash") — a confirmation that fails to recover, or recovers to a
// different address, is treated as absent rather than trusted at face
// value, so a garbage signature can never inflate presentPower. OrderSigs
// fails with ErrInsufficientSignatures if the total power of validators
// whose signature is present and verified falls short of the contract's
// threshold — the aggregator must never hand back a set that would be
// rejected on-chain without that error. The partially filled arrays are
// returned alongside the error; they are not a submittable set.
func OrderSigs(valset types.Valset, messageHash common.Hash, confirmations []types.Confirmation) (types.SigArrays, error) {
	filtered := valset.Filtered()

	byValidator := make(map[common.Address]types.Signature, len(confirmations))
	for _, c := range confirmations {
		if c.Signature.IsZero() {
			continue
		}
		signer, err := recoverSigner(messageHash, c.Signature)
		if err != nil || signer != c.Validator {
			continue
		}
		byValidator[c.Validator] = c.Signature
	}

	out := types.SigArrays{
		V: make([]uint8, len(filtered.Members)),
		R: make([]common.Hash, len(filtered.Members)),
		S: make([]common.Hash, len(filtered.Members)),
	}

	var presentPower uint64
	for i, m := range filtered.Members {
		if s, ok := byValidator[m.EthAddress]; ok {
			out.V[i], out.R[i], out.S[i] = s.V, s.R, s.S
			presentPower += m.VotingPower
		}
		// else leave the zero-value sentinel in place
	}

	threshold := thresholdOf(filtered)
	if presentPower < threshold {
		return out, types.ErrInsufficientSignatures.Wrapf(
			"present power %d below threshold %d (valset nonce %d)", presentPower, threshold, filtered.Nonce,
		)
	}
	return out, nil
}

// recoverSigner ecrecovers the address that produced sig over hash. sig.V
// follows the contract's {27,28} convention; go-ethereum's recovery wants
// the raw {0,1} recovery id, so it is un-biased before the call.
func recoverSigner(hash common.Hash, sig types.Signature) (common.Address, error) {
	v := sig.V
	if v >= 27 {
		v -= 27
	}
	raw := make([]byte, 65)
	copy(raw[0:32], sig.R.Bytes())
	copy(raw[32:64], sig.S.Bytes())
	raw[64] = v

	pub, err := crypto.SigToPub(hash.Bytes(), raw)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// thresholdOf computes the minimum aggregate power, relative to this
// valset's own total power, required for submittability. The bridge
// contract checks signed power against a fraction of the *current* valset's
// total power, not a fixed global constant.
func thresholdOf(v types.Valset) uint64 {
	total := v.TotalPower()
	return total * types.PowerThresholdNumerator / types.PowerThresholdDenominator
}
