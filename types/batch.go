package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Transfer is a single withdrawal leg of a batch: send amount of the batch's
// token to dest, net of the transfer's own fee contribution.
type Transfer struct {
	ID          uint64
	Sender      common.Address
	Destination common.Address
	Amount      *big.Int
	Fee         *big.Int
}

// TransactionBatch groups withdrawals destined for a single ERC-20 contract.
// (TokenContract, Nonce) is unique; batches whose Nonce is at or below the
// contract's last-executed nonce for that token are permanently obsolete.
type TransactionBatch struct {
	Nonce         uint64
	TokenContract common.Address
	Transfers     []Transfer
	TimeoutBlock  uint64
}

// IsObsolete reports whether this batch can no longer be submitted because
// the EVM contract has already executed a batch at or beyond this nonce for
// the same token.
func (b TransactionBatch) IsObsolete(onChainLastBatchNonce uint64) bool {
	return b.Nonce <= onChainLastBatchNonce
}
