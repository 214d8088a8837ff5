package relayer_test

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"testing"

	goethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"cosmossdk.io/log"

	"github.com/cosmos/gravity-orchestrator/cosmoschain/cosmostest"
	"github.com/cosmos/gravity-orchestrator/ethereum"
	"github.com/cosmos/gravity-orchestrator/ethereum/ethtest"
	"github.com/cosmos/gravity-orchestrator/relayer"
	"github.com/cosmos/gravity-orchestrator/sig"
	"github.com/cosmos/gravity-orchestrator/types"
)

const bridgeID = "test-bridge"

func testLogger() log.Logger { return log.NewNopLogger() }

type fixedSigner struct {
	from common.Address
}

func (s fixedSigner) From() common.Address { return s.from }
func (s fixedSigner) SignTx(tx *ethtypes.Transaction) (*ethtypes.Transaction, error) {
	return tx, nil
}

func uint256Result(t *testing.T, n uint64) []byte {
	t.Helper()
	typ, err := abi.NewType("uint256", "", nil)
	require.NoError(t, err)
	out, err := abi.Arguments{{Type: typ}}.Pack(new(big.Int).SetUint64(n))
	require.NoError(t, err)
	return out
}

func valsetNonceSelector() [4]byte {
	var out [4]byte
	copy(out[:], crypto.Keccak256([]byte("state_lastValsetNonce()"))[:4])
	return out
}

func scriptValsetNonce(t *testing.T, evm *ethtest.FakeClient, val uint64) {
	t.Helper()
	evm.CallResponses[valsetNonceSelector()] = uint256Result(t, val)
}

func threeValidatorSet(nonce uint64, validators ...common.Address) types.Valset {
	powers := []uint64{34, 33, 33}
	members := make([]types.ValsetMember, len(validators))
	for i, v := range validators {
		members[i] = types.ValsetMember{EthAddress: v, VotingPower: powers[i]}
	}
	return types.Valset{Nonce: nonce, Members: members}
}

// testValidators generates n validator keys and their addresses, so fixtures
// can carry confirmations that ecrecover to the claimed validator, as
// sig.OrderSigs requires.
func testValidators(t *testing.T, n int) ([]*ecdsa.PrivateKey, []common.Address) {
	t.Helper()
	keys := make([]*ecdsa.PrivateKey, n)
	addrs := make([]common.Address, n)
	for i := range keys {
		key, err := crypto.GenerateKey()
		require.NoError(t, err)
		keys[i], addrs[i] = key, crypto.PubkeyToAddress(key.PublicKey)
	}
	return keys, addrs
}

// confirm signs hash with key in the contract's {27,28} recovery-id
// convention and returns it as the key owner's confirmation.
func confirm(t *testing.T, key *ecdsa.PrivateKey, hash common.Hash) types.Confirmation {
	t.Helper()
	raw, err := crypto.Sign(hash.Bytes(), key)
	require.NoError(t, err)
	return types.Confirmation{
		Validator: crypto.PubkeyToAddress(key.PublicKey),
		Signature: types.Signature{V: raw[64] + 27, R: common.BytesToHash(raw[0:32]), S: common.BytesToHash(raw[32:64])},
	}
}

// S4: current on-chain valset nonce=5, candidates {6,7,8}, only 7 has
// sufficient confirmations ⇒ submits 7.
func TestValsetRelayerS4SelectsOnlySubmittableCandidate(t *testing.T) {
	keys, validators := testValidators(t, 3)
	currentValset := threeValidatorSet(5, validators...)
	candidate7 := threeValidatorSet(7, validators...)
	candidate6 := threeValidatorSet(6, validators...)
	candidate8 := threeValidatorSet(8, validators...)

	native := cosmostest.NewFakeClient()
	native.Valsets = []types.Valset{currentValset, candidate6, candidate7, candidate8}

	// Only candidate 7 gets confirmations from all three validators
	// (sufficient power); 6 and 8 get none.
	hash7 := sig.ValsetConfirmHash(bridgeID, candidate7)
	native.ValsetConfirms[7] = []types.Confirmation{
		confirm(t, keys[0], hash7),
		confirm(t, keys[1], hash7),
		confirm(t, keys[2], hash7),
	}

	evm := ethtest.NewFakeClient()
	scriptValsetNonce(t, evm, 5)

	bridge := ethereum.NewBridgeContract(common.HexToAddress("0xcafe"), evm, fixedSigner{from: common.HexToAddress("0xf00d")})
	r := relayer.NewValsetRelayer(native, bridge, bridgeID, 200000, testLogger())

	result, err := r.RunCycle(context.Background())
	require.NoError(t, err)
	require.True(t, result.Submitted)
	require.Equal(t, uint64(7), result.NewNonce)
}

// sequencedNonceClient wraps a FakeClient but returns a scripted sequence of
// ValsetNonce reads, to model the on-chain nonce changing between a
// relayer's candidate-selection read and its pre-broadcast re-read.
type sequencedNonceClient struct {
	*ethtest.FakeClient
	nonces []uint64
	calls  int
}

func (c *sequencedNonceClient) CallContract(ctx context.Context, call goethereum.CallMsg) ([]byte, error) {
	sel := valsetNonceSelector()
	if len(call.Data) >= 4 && [4]byte(call.Data[:4]) == sel {
		n := c.nonces[c.calls]
		if c.calls < len(c.nonces)-1 {
			c.calls++
		}
		typ, _ := abi.NewType("uint256", "", nil)
		out, _ := abi.Arguments{{Type: typ}}.Pack(new(big.Int).SetUint64(n))
		return out, nil
	}
	return c.FakeClient.CallContract(ctx, call)
}

// S6: two concurrent valset-relayer instances on the same artifact; the
// second's pre-broadcast re-read sees the new nonce already installed ⇒
// aborts quietly, no EVM tx sent.
func TestValsetRelayerS6StaleAbortsQuietly(t *testing.T) {
	keys, validators := testValidators(t, 3)
	currentValset := threeValidatorSet(5, validators...)
	candidate := threeValidatorSet(6, validators...)

	native := cosmostest.NewFakeClient()
	native.Valsets = []types.Valset{currentValset, candidate}
	hash6 := sig.ValsetConfirmHash(bridgeID, candidate)
	native.ValsetConfirms[6] = []types.Confirmation{
		confirm(t, keys[0], hash6),
		confirm(t, keys[1], hash6),
	}

	evm := &sequencedNonceClient{FakeClient: ethtest.NewFakeClient(), nonces: []uint64{5, 6}}

	bridge := ethereum.NewBridgeContract(common.HexToAddress("0xcafe"), evm, fixedSigner{from: common.HexToAddress("0xf00d")})
	r := relayer.NewValsetRelayer(native, bridge, bridgeID, 200000, testLogger())

	result, err := r.RunCycle(context.Background())
	require.NoError(t, err)
	require.False(t, result.Submitted)
	require.Empty(t, evm.SentTxs)
}
