// Package orchestrator wires the chain adapters, event watcher, and the two
// relayers into the three long-lived loops the process runs for its
// lifetime (spec §5).
package orchestrator

import (
	"math/big"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/cosmos/gravity-orchestrator/types"
)

// Config is every parameter the core is parameterized by (spec §6): "the
// core is parameterized by bridge-id string, EVM bridge contract address,
// EVM signing key, native-chain signing key, fee denomination and amount,
// RPC endpoints, per-cycle sleep, per-tx timeout." CLI/env binding is an
// external collaborator (spec §1); this struct is the seam cmd/orchestrator
// populates from viper.
type Config struct {
	BridgeID string

	EVMRPCEndpoint    string
	EVMChainID        uint64
	EVMContractAddr   common.Address
	EVMSigningKeyHex  string
	EVMGasLimitValset uint64

	NativeGRPCEndpoint  string
	NativeValidatorAddr common.Address
	NativeSigningKey    string
	FeeDenom            string
	FeeAmount           *big.Int

	CycleSleepSeconds uint64
	TxTimeoutSeconds  uint64
}

// Validate checks the parameters the core cannot safely run without. These
// are configuration mistakes, not chain-observed decode failures, so they
// surface as ErrInvalidConfig rather than ErrDecode.
func (c Config) Validate() error {
	if c.BridgeID == "" {
		return types.ErrInvalidConfig.Wrap("bridge-id must not be empty")
	}
	if c.EVMRPCEndpoint == "" {
		return types.ErrInvalidConfig.Wrap("evm rpc endpoint must not be empty")
	}
	if c.NativeGRPCEndpoint == "" {
		return types.ErrInvalidConfig.Wrap("native grpc endpoint must not be empty")
	}
	if c.EVMContractAddr == (common.Address{}) {
		return types.ErrInvalidConfig.Wrap("evm bridge contract address must not be empty")
	}
	if c.CycleSleepSeconds == 0 {
		return types.ErrInvalidConfig.Wrap("cycle sleep must be positive")
	}
	return nil
}

// Fee returns the claim-submission fee as an sdk.Coin.
func (c Config) Fee() sdk.Coin {
	amount := c.FeeAmount
	if amount == nil {
		amount = big.NewInt(0)
	}
	return sdk.NewCoin(c.FeeDenom, sdkIntFromBigInt(amount))
}

func sdkIntFromBigInt(n *big.Int) sdk.Int {
	return sdk.NewIntFromBigInt(n)
}
