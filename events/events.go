// Package events parses the bridge contract's typed EVM events from raw logs
// and filters them by the monotonic event_nonce the contract assigns across
// all event kinds.
package events

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Kind tags which of the five canonical bridge events a decoded Event is.
type Kind int

const (
	KindSendToCosmos Kind = iota
	KindBatchExecuted
	KindValsetUpdated
	KindERC20Deployed
	KindLogicCallExecuted
)

func (k Kind) String() string {
	switch k {
	case KindSendToCosmos:
		return "SendToCosmos"
	case KindBatchExecuted:
		return "BatchExecuted"
	case KindValsetUpdated:
		return "ValsetUpdated"
	case KindERC20Deployed:
		return "ERC20Deployed"
	case KindLogicCallExecuted:
		return "LogicCallExecuted"
	default:
		return "Unknown"
	}
}

// Event is the tagged-variant interface every decoded bridge event
// implements. EventNonce is the strictly monotonic sequence the bridge
// contract assigns across all five kinds.
type Event interface {
	Kind() Kind
	EventNonce() uint64
}

// SendToCosmos is a deposit observed on the EVM side, destined for a Cosmos
// address.
type SendToCosmos struct {
	Nonce         uint64
	TokenContract common.Address
	Sender        common.Address
	Destination   common.Hash // raw bytes32 cosmos address encoding
	Amount        *big.Int
}

func (e SendToCosmos) Kind() Kind        { return KindSendToCosmos }
func (e SendToCosmos) EventNonce() uint64 { return e.Nonce }

// BatchExecuted confirms the EVM contract executed a withdrawal batch.
type BatchExecuted struct {
	Nonce         uint64
	BatchNonce    uint64
	TokenContract common.Address
}

func (e BatchExecuted) Kind() Kind        { return KindBatchExecuted }
func (e BatchExecuted) EventNonce() uint64 { return e.Nonce }

// ValsetUpdated confirms the EVM contract installed a new validator set.
type ValsetUpdated struct {
	Nonce         uint64
	NewValsetNonce uint64
	Validators    []common.Address
	Powers        []uint64
}

func (e ValsetUpdated) Kind() Kind        { return KindValsetUpdated }
func (e ValsetUpdated) EventNonce() uint64 { return e.Nonce }

// ERC20Deployed confirms the bridge contract deployed a wrapped ERC-20 for a
// Cosmos denom.
type ERC20Deployed struct {
	Nonce         uint64
	CosmosDenom   string
	TokenContract common.Address
	Name          string
	Symbol        string
	Decimals      uint8
}

func (e ERC20Deployed) Kind() Kind        { return KindERC20Deployed }
func (e ERC20Deployed) EventNonce() uint64 { return e.Nonce }

// LogicCallExecuted confirms the bridge contract executed an arbitrary logic
// call.
type LogicCallExecuted struct {
	Nonce            uint64
	InvalidationID   common.Hash
	InvalidationNonce uint64
	ReturnData       []byte
}

func (e LogicCallExecuted) Kind() Kind        { return KindLogicCallExecuted }
func (e LogicCallExecuted) EventNonce() uint64 { return e.Nonce }
