package types

import (
	"github.com/ethereum/go-ethereum/common"
)

// ValsetMember is one (evm_address, voting_power) pair of the validator set,
// ordered identically to how the bridge contract stores it.
type ValsetMember struct {
	EthAddress  common.Address
	VotingPower uint64
}

// Valset is the ordered validator set the bridge contract currently trusts,
// plus the monotonically increasing nonce that versions it. Members is kept
// filtered of zero-address/zero-power entries before hashing or encoding, per
// the contract's own invariant.
type Valset struct {
	Nonce   uint64
	Members []ValsetMember
}

// TotalPower sums the voting power of every member. Callers that need the
// power of a subset (e.g. signatures present) should sum Members directly;
// this helper exists for the common "whole set" case used by threshold
// checks.
func (v Valset) TotalPower() uint64 {
	var total uint64
	for _, m := range v.Members {
		total += m.VotingPower
	}
	return total
}

// Filtered returns a copy of v with empty/zero-address members removed. The
// bridge contract never stores such entries; a relayer that encounters one
// (e.g. from a partially-initialized fixture) must not hash or submit it.
func (v Valset) Filtered() Valset {
	out := Valset{Nonce: v.Nonce, Members: make([]ValsetMember, 0, len(v.Members))}
	for _, m := range v.Members {
		if m.EthAddress == (common.Address{}) || m.VotingPower == 0 {
			continue
		}
		out.Members = append(out.Members, m)
	}
	return out
}

// PowerThresholdNumerator/Denominator is the fraction of a valset's total
// voting power that must sign for a valset/batch update to be considered
// submittable. This mirrors the bridge contract's own constant; the
// aggregator must refuse to hand back a set of signatures that would be
// rejected on-chain.
const (
	PowerThresholdNumerator   = 2
	PowerThresholdDenominator = 3
)
