package sig_test

import (
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/cosmos/gravity-orchestrator/sig"
	"github.com/cosmos/gravity-orchestrator/types"
)

// testValidator is a generated key plus its derived address, so tests can
// produce signatures that actually ecrecover, the way the real aggregator
// requires.
type testValidator struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

func newTestValidator(t *testing.T) testValidator {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return testValidator{key: key, address: crypto.PubkeyToAddress(key.PublicKey)}
}

// sign produces the (v, r, s) triple over hash, in the contract's {27,28}
// recovery-id convention.
func (tv testValidator) sign(t *testing.T, hash common.Hash) types.Signature {
	t.Helper()
	raw, err := crypto.Sign(hash.Bytes(), tv.key)
	require.NoError(t, err)
	return types.Signature{
		V: raw[64] + 27,
		R: common.BytesToHash(raw[0:32]),
		S: common.BytesToHash(raw[32:64]),
	}
}

func threeValidatorSet(t *testing.T) ([]testValidator, types.Valset) {
	t.Helper()
	vs := []testValidator{newTestValidator(t), newTestValidator(t), newTestValidator(t)}
	return vs, types.Valset{
		Nonce: 1,
		Members: []types.ValsetMember{
			{EthAddress: vs[0].address, VotingPower: 34},
			{EthAddress: vs[1].address, VotingPower: 33},
			{EthAddress: vs[2].address, VotingPower: 33},
		},
	}
}

func TestOrderSigsPositionsAndPadding(t *testing.T) {
	vs, v := threeValidatorSet(t)
	hash := sig.ValsetConfirmHash("testbridge", v)
	confs := []types.Confirmation{
		{Validator: vs[0].address, Signature: vs[0].sign(t, hash)},
		{Validator: vs[2].address, Signature: vs[2].sign(t, hash)},
	}

	out, err := sig.OrderSigs(v, hash, confs)
	require.NoError(t, err)
	require.Equal(t, 3, out.Len())
	require.Equal(t, confs[0].Signature.V, out.V[0])
	require.True(t, types.Signature{V: out.V[1], R: out.R[1], S: out.S[1]}.IsZero())
	require.Equal(t, confs[1].Signature.V, out.V[2])
}

func TestOrderSigsInsufficientPower(t *testing.T) {
	vs, v := threeValidatorSet(t)
	hash := sig.ValsetConfirmHash("testbridge", v)
	// Only 34 of 100 power signed: below the 2/3 threshold.
	confs := []types.Confirmation{
		{Validator: vs[0].address, Signature: vs[0].sign(t, hash)},
	}
	_, err := sig.OrderSigs(v, hash, confs)
	require.ErrorIs(t, err, types.ErrInsufficientSignatures)
}

func TestOrderSigsSufficientPower(t *testing.T) {
	vs, v := threeValidatorSet(t)
	hash := sig.ValsetConfirmHash("testbridge", v)
	confs := []types.Confirmation{
		{Validator: vs[0].address, Signature: vs[0].sign(t, hash)},
		{Validator: vs[1].address, Signature: vs[1].sign(t, hash)},
	}
	out, err := sig.OrderSigs(v, hash, confs)
	require.NoError(t, err)
	require.Equal(t, confs[0].Signature.V, out.V[0])
	require.Equal(t, confs[1].Signature.V, out.V[1])
}

func TestOrderSigsRejectsSignatureOverWrongSubject(t *testing.T) {
	vs, v := threeValidatorSet(t)
	hash := sig.ValsetConfirmHash("testbridge", v)

	other := v
	other.Nonce = 2
	wrongHash := sig.ValsetConfirmHash("testbridge", other)

	// Validator 0 signed a *different* valset nonce; its signature does
	// not ecrecover against this hash, so it must not count toward power
	// even though the confirmation claims validator 0's address.
	confs := []types.Confirmation{
		{Validator: vs[0].address, Signature: vs[0].sign(t, wrongHash)},
		{Validator: vs[1].address, Signature: vs[1].sign(t, hash)},
	}
	_, err := sig.OrderSigs(v, hash, confs)
	require.ErrorIs(t, err, types.ErrInsufficientSignatures)
}

func TestOrderSigsRejectsSignatureClaimingWrongValidator(t *testing.T) {
	vs, v := threeValidatorSet(t)
	hash := sig.ValsetConfirmHash("testbridge", v)

	// A genuine signature by validator 1, mislabeled as validator 0's
	// confirmation: must not fill validator 0's slot.
	confs := []types.Confirmation{
		{Validator: vs[0].address, Signature: vs[1].sign(t, hash)},
	}
	out, err := sig.OrderSigs(v, hash, confs)
	require.ErrorIs(t, err, types.ErrInsufficientSignatures)
	require.True(t, types.Signature{V: out.V[0], R: out.R[0], S: out.S[0]}.IsZero())
}

func TestHashDomainSeparation(t *testing.T) {
	_, v := threeValidatorSet(t)
	b := types.TransactionBatch{
		Nonce:         1,
		TokenContract: common.HexToAddress("0xdd"),
		Transfers: []types.Transfer{
			{Destination: common.HexToAddress("0xee"), Amount: big.NewInt(10), Fee: big.NewInt(1)},
		},
	}

	vh := sig.ValsetConfirmHash("testbridge", v)
	bh := sig.BatchConfirmHash("testbridge", b)
	require.NotEqual(t, vh, bh)
}

func TestValsetConfirmHashDeterministic(t *testing.T) {
	_, v := threeValidatorSet(t)
	h1 := sig.ValsetConfirmHash("testbridge", v)
	h2 := sig.ValsetConfirmHash("testbridge", v)
	require.Equal(t, h1, h2)

	v2 := v
	v2.Nonce = 2
	h3 := sig.ValsetConfirmHash("testbridge", v2)
	require.NotEqual(t, h1, h3)
}
