package types

import (
	"github.com/ethereum/go-ethereum/common"
)

// Signature is the (v, r, s) triple of an ECDSA signature as the bridge
// contract expects it. The zero value is the contract's "absent" sentinel.
type Signature struct {
	V uint8
	R common.Hash
	S common.Hash
}

// IsZero reports whether s is the all-zero "absent" sentinel.
func (s Signature) IsZero() bool {
	return s.V == 0 && s.R == (common.Hash{}) && s.S == (common.Hash{})
}

// SigArrays is the aggregator's output: three parallel arrays, one entry per
// validator in valset order, submitted to the bridge contract as
// uint8[]/bytes32[]/bytes32[].
type SigArrays struct {
	V []uint8
	R []common.Hash
	S []common.Hash
}

// Len returns the number of entries, which must equal the valset size.
func (a SigArrays) Len() int { return len(a.V) }

// Confirmation is a single validator's off-chain signature over a valset or
// batch message hash, as collected by the native chain's bridge module.
// Subject (spec §3's third tuple field) is not carried here: the native
// chain's query surface already scopes confirmations to one nonce per call
// (ValsetConfirmations(nonce)/BatchConfirmations(nonce, token)), and
// sig.OrderSigs independently ecrecovers each signature against the exact
// message hash of the candidate being evaluated — a confirmation for the
// wrong subject simply fails to recover to its claimed validator and is
// dropped, which is a stronger check than comparing an unverified subject
// field would be.
type Confirmation struct {
	Validator common.Address
	Signature Signature
}
