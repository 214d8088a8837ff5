package ethereum

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/cosmos/gravity-orchestrator/types"
)

// keySigner implements Signer over a raw ECDSA private key, the orchestrator's
// EVM signing key (spec §6: "EVM signing key" is one of the core's
// parameters).
type keySigner struct {
	key     *ecdsa.PrivateKey
	from    common.Address
	chainID *big.Int
}

// NewKeySigner builds a Signer from a hex-encoded ECDSA private key (no
// leading 0x) and the EVM chain id it signs for.
func NewKeySigner(hexKey string, chainID uint64) (Signer, error) {
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, types.ErrTransport.Wrapf("invalid EVM signing key: %s", err)
	}
	return &keySigner{
		key:     key,
		from:    crypto.PubkeyToAddress(key.PublicKey),
		chainID: new(big.Int).SetUint64(chainID),
	}, nil
}

func (s *keySigner) From() common.Address { return s.from }

func (s *keySigner) SignTx(tx *ethtypes.Transaction) (*ethtypes.Transaction, error) {
	signer := ethtypes.NewEIP155Signer(s.chainID)
	signed, err := ethtypes.SignTx(tx, signer, s.key)
	if err != nil {
		return nil, types.ErrTransport.Wrapf("sign tx: %s", err)
	}
	return signed, nil
}
