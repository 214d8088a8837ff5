// Package ethtest provides an in-memory fake of ethereum.Client for the
// watcher and relayer tests. It replays a fixed log stream; it does not
// check event or transaction nonces for monotonicity.
package ethtest

import (
	"context"
	"math/big"

	goethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/cosmos/gravity-orchestrator/types"
)

// FakeClient is a deterministic, in-process stand-in for ethereum.Client. Each
// field models one RPC capability as plain data or a function a test can
// script.
type FakeClient struct {
	Height   uint64
	NetID    uint64
	Logs     []ethtypes.Log // the full fixture log stream; GetLogs slices by block range
	Balances map[common.Address]*big.Int
	GasPrice *big.Int
	GasUnits uint64
	Nonces   map[common.Address]uint64

	SentTxs  []*ethtypes.Transaction
	Receipts map[common.Hash]*ethtypes.Receipt

	// CallResponses lets a test script a CallContract response by selector
	// (first 4 bytes of Data).
	CallResponses map[[4]byte][]byte

	GetLogsErr error
}

func NewFakeClient() *FakeClient {
	return &FakeClient{
		Balances:      map[common.Address]*big.Int{},
		Nonces:        map[common.Address]uint64{},
		Receipts:      map[common.Hash]*ethtypes.Receipt{},
		CallResponses: map[[4]byte][]byte{},
		GasPrice:      big.NewInt(1),
		GasUnits:      21000,
	}
}

func (f *FakeClient) LatestBlock(ctx context.Context) (uint64, error) { return f.Height, nil }
func (f *FakeClient) NetVersion(ctx context.Context) (uint64, error)  { return f.NetID, nil }

func (f *FakeClient) GetBalance(ctx context.Context, addr common.Address) (*big.Int, error) {
	if b, ok := f.Balances[addr]; ok {
		return b, nil
	}
	return big.NewInt(0), nil
}

func (f *FakeClient) PendingNonceAt(ctx context.Context, addr common.Address) (uint64, error) {
	return f.Nonces[addr], nil
}

func (f *FakeClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return f.GasPrice, nil
}

func (f *FakeClient) GetLogs(ctx context.Context, fromBlock, toBlock uint64, contract common.Address, topics []common.Hash) ([]ethtypes.Log, error) {
	if f.GetLogsErr != nil {
		return nil, f.GetLogsErr
	}
	wanted := map[common.Hash]bool{}
	for _, t := range topics {
		wanted[t] = true
	}
	var out []ethtypes.Log
	for _, l := range f.Logs {
		if l.BlockNumber < fromBlock || l.BlockNumber > toBlock {
			continue
		}
		if len(l.Topics) == 0 || !wanted[l.Topics[0]] {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (f *FakeClient) EstimateGas(ctx context.Context, call goethereum.CallMsg) (uint64, error) {
	return f.GasUnits, nil
}

func (f *FakeClient) SendTransaction(ctx context.Context, tx *ethtypes.Transaction) error {
	f.SentTxs = append(f.SentTxs, tx)
	if _, ok := f.Receipts[tx.Hash()]; !ok {
		f.Receipts[tx.Hash()] = &ethtypes.Receipt{Status: ethtypes.ReceiptStatusSuccessful, TxHash: tx.Hash()}
	}
	return nil
}

func (f *FakeClient) WaitForReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error) {
	if r, ok := f.Receipts[txHash]; ok {
		if r.Status == ethtypes.ReceiptStatusFailed {
			return r, types.ErrContractRevert.Wrapf("tx %s reverted", txHash)
		}
		return r, nil
	}
	return nil, types.ErrTransport.Wrapf("no receipt scripted for %s", txHash)
}

func (f *FakeClient) CallContract(ctx context.Context, call goethereum.CallMsg) ([]byte, error) {
	if len(call.Data) < 4 {
		return nil, types.ErrDecode.Wrap("call data too short")
	}
	var selector [4]byte
	copy(selector[:], call.Data[:4])
	if resp, ok := f.CallResponses[selector]; ok {
		return resp, nil
	}
	return nil, types.ErrTransport.Wrapf("no response scripted for selector %x", selector)
}
