// Package sig computes the bridge contract's domain-separated message hashes
// and orders validator confirmations into the arrays the contract expects.
package sig

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/cosmos/gravity-orchestrator/types"
)

// Method tags mixed into the preimage to separate a valset-confirm hash from
// a batch-confirm hash even when the rest of the payload happens to collide.
const (
	methodValsetConfirm = "checkpoint"
	methodBatchConfirm  = "transactionBatch"
)

// personalSignEnvelope wraps payload in the same `\x19Ethereum Signed
// Message:\n32` preimage eth_sign/personal_sign uses, over the keccak256 of
// payload. This must match the EVM contract's own verification bit-for-bit.
func personalSignEnvelope(payload []byte) common.Hash {
	innerHash := crypto.Keccak256(payload)
	prefixed := append([]byte("\x19Ethereum Signed Message:\n32"), innerHash...)
	return crypto.Keccak256Hash(prefixed)
}

// rightPadBridgeID right-pads the bridge id string to 32 bytes, as the
// contract does for its fixed-width identifier slot.
func rightPadBridgeID(bridgeID string) [32]byte {
	var out [32]byte
	copy(out[:], []byte(bridgeID))
	return out
}

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

var (
	typeBytes32   = mustType("bytes32")
	typeString    = mustType("string")
	typeUint256   = mustType("uint256")
	typeAddress   = mustType("address")
	typeAddresses = mustType("address[]")
	typeUint256s  = mustType("uint256[]")
)

// ValsetConfirmHash computes the message hash a validator signs to confirm a
// new valset, bit-exact to the contract's checkpoint preimage: bridge-id (32
// bytes) ++ "checkpoint" method tag ++ ABI-encoded
// (valsetNonce, validators[], powers[]), keccak256'd and personal-sign
// wrapped.
func ValsetConfirmHash(bridgeID string, v types.Valset) common.Hash {
	filtered := v.Filtered()
	addrs := make([]common.Address, len(filtered.Members))
	powers := make([]*big.Int, len(filtered.Members))
	for i, m := range filtered.Members {
		addrs[i] = m.EthAddress
		powers[i] = new(big.Int).SetUint64(m.VotingPower)
	}

	args := abi.Arguments{
		{Type: typeBytes32},
		{Type: typeString},
		{Type: typeUint256},
		{Type: typeAddresses},
		{Type: typeUint256s},
	}

	payload, err := args.Pack(
		rightPadBridgeID(bridgeID),
		methodValsetConfirm,
		new(big.Int).SetUint64(filtered.Nonce),
		addrs,
		powers,
	)
	if err != nil {
		panic(err)
	}
	return personalSignEnvelope(payload)
}

// BatchConfirmHash computes the message hash a validator signs to confirm a
// withdrawal batch: bridge-id ++ "transactionBatch" method tag ++
// ABI-encoded (amounts[], destinations[], nonce, tokenContract), the batch
// analogue of ValsetConfirmHash.
func BatchConfirmHash(bridgeID string, b types.TransactionBatch) common.Hash {
	destinations := make([]common.Address, len(b.Transfers))
	amounts := make([]*big.Int, len(b.Transfers))
	for i, tr := range b.Transfers {
		destinations[i] = tr.Destination
		amounts[i] = tr.Amount
	}

	args := abi.Arguments{
		{Type: typeBytes32},
		{Type: typeString},
		{Type: typeUint256s},
		{Type: typeAddresses},
		{Type: typeUint256},
		{Type: typeAddress},
	}

	payload, err := args.Pack(
		rightPadBridgeID(bridgeID),
		methodBatchConfirm,
		amounts,
		destinations,
		new(big.Int).SetUint64(b.Nonce),
		b.TokenContract,
	)
	if err != nil {
		panic(err)
	}
	return personalSignEnvelope(payload)
}
