package types

import (
	errorsmod "cosmossdk.io/errors"
)

// ModuleName is the error codespace used by every error the orchestrator core
// returns. It mirrors the registered-codespace pattern the bridge module
// itself uses for its own sentinel errors.
const ModuleName = "orchestrator"

// Error kinds per the relay design: Transport, Decode, InsufficientSignatures,
// ContractRevert, InvalidBridgeState, Cancelled and InvalidConfig. Every
// early-exit in the core surfaces as one of these so a caller can dispatch on
// kind without string matching.
var (
	ErrTransport              = errorsmod.Register(ModuleName, 2, "chain transport failure")
	ErrDecode                 = errorsmod.Register(ModuleName, 3, "unparseable log or response")
	ErrInsufficientSignatures = errorsmod.Register(ModuleName, 4, "confirmations do not reach signing threshold")
	ErrContractRevert         = errorsmod.Register(ModuleName, 5, "submitted transaction reverted")
	ErrInvalidBridgeState     = errorsmod.Register(ModuleName, 6, "claim applied but bridge state did not advance")
	ErrCancelled              = errorsmod.Register(ModuleName, 7, "cycle cancelled by caller")
	ErrInvalidConfig          = errorsmod.Register(ModuleName, 8, "orchestrator configuration is incomplete or invalid")
)

// BridgeStateError wraps ErrInvalidBridgeState with the tx hash the caller
// needs for operator diagnosis (spec: claim submission returned ok but the
// native chain's last event nonce did not advance).
type BridgeStateError struct {
	TxHash string
	Detail string
}

func (e *BridgeStateError) Error() string {
	return ErrInvalidBridgeState.Wrapf("tx %s: %s", e.TxHash, e.Detail).Error()
}

func (e *BridgeStateError) Unwrap() error {
	return ErrInvalidBridgeState
}

// NewBridgeStateError builds the InvalidBridgeState error carrying the
// submitted tx hash, for the caller to retry or surface to the operator.
func NewBridgeStateError(txHash, detail string) error {
	return &BridgeStateError{TxHash: txHash, Detail: detail}
}
