package events

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Canonical event signatures, compile-time constants of the bridge contract
// ABI (spec §6). topic0 for each is keccak256 of the signature string, the
// same value Solidity computes for an event's first topic.
const (
	sigSendToCosmos      = "SendToCosmosEvent(address,address,bytes32,uint256,uint256)"
	sigBatchExecuted     = "TransactionBatchExecutedEvent(uint256,address,uint256)"
	sigValsetUpdated     = "ValsetUpdatedEvent(uint256,address[],uint256[])"
	sigERC20Deployed     = "ERC20DeployedEvent(string,address,string,string,uint8,uint256)"
	sigLogicCallExecuted = "LogicCallEvent(bytes32,uint256,bytes,uint256)"
)

// Topic0 returns the signature hashes in the fixed order the watcher scans
// them (spec §4.4 step 2: "each of the five event signatures").
var Topic0 = struct {
	SendToCosmos      common.Hash
	BatchExecuted     common.Hash
	ValsetUpdated     common.Hash
	ERC20Deployed     common.Hash
	LogicCallExecuted common.Hash
}{
	SendToCosmos:      crypto.Keccak256Hash([]byte(sigSendToCosmos)),
	BatchExecuted:     crypto.Keccak256Hash([]byte(sigBatchExecuted)),
	ValsetUpdated:     crypto.Keccak256Hash([]byte(sigValsetUpdated)),
	ERC20Deployed:     crypto.Keccak256Hash([]byte(sigERC20Deployed)),
	LogicCallExecuted: crypto.Keccak256Hash([]byte(sigLogicCallExecuted)),
}

// AllTopics lists the five signatures in watcher-scan order, for building the
// get_logs topic filter (spec §4.1 get_logs(from, to, addresses, topics)).
var AllTopics = []common.Hash{
	Topic0.SendToCosmos,
	Topic0.BatchExecuted,
	Topic0.ValsetUpdated,
	Topic0.ERC20Deployed,
	Topic0.LogicCallExecuted,
}

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

// Non-indexed argument layouts for each event's data payload. Indexed fields
// (the ones listed in each doc comment below) are read directly off the
// log's Topics, never through abi.Unpack.
var (
	// SendToCosmosEvent: tokenContract, sender, destination indexed; amount,
	// eventNonce in data.
	sendToCosmosData = abi.Arguments{
		{Name: "amount", Type: mustType("uint256")},
		{Name: "eventNonce", Type: mustType("uint256")},
	}

	// TransactionBatchExecutedEvent: batchNonce, token indexed; eventNonce in
	// data.
	batchExecutedData = abi.Arguments{
		{Name: "eventNonce", Type: mustType("uint256")},
	}

	// ValsetUpdatedEvent: newValsetNonce indexed; validators, powers,
	// eventNonce in data. The trailing eventNonce is appended beyond the
	// spec's illustrative 3-argument signature to satisfy the universal
	// event_nonce invariant (spec §3) — see DESIGN.md.
	valsetUpdatedData = abi.Arguments{
		{Name: "validators", Type: mustType("address[]")},
		{Name: "powers", Type: mustType("uint256[]")},
		{Name: "eventNonce", Type: mustType("uint256")},
	}

	// ERC20DeployedEvent: tokenContract indexed; cosmosDenom, name, symbol,
	// decimals, eventNonce in data.
	erc20DeployedData = abi.Arguments{
		{Name: "cosmosDenom", Type: mustType("string")},
		{Name: "name", Type: mustType("string")},
		{Name: "symbol", Type: mustType("string")},
		{Name: "decimals", Type: mustType("uint8")},
		{Name: "eventNonce", Type: mustType("uint256")},
	}

	// LogicCallEvent: invalidationId, invalidationNonce indexed; returnData,
	// eventNonce in data.
	logicCallExecutedData = abi.Arguments{
		{Name: "returnData", Type: mustType("bytes")},
		{Name: "eventNonce", Type: mustType("uint256")},
	}
)
