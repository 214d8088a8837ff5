package ethereum

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/cosmos/gravity-orchestrator/types"
)

// BridgeContract is a thin, hand-bound wrapper over the bridge contract's
// calls (spec §6): updateValset, submitBatch, and the read-only getters for
// the current valset nonce and a token's last executed batch nonce. It plays
// the same role abigen's generated BoundContract would, without a codegen
// step, following the accounts/abi/bind conventions the pack's go-ethereum
// fork ships.
type BridgeContract struct {
	address common.Address
	client  Client
	signer  Signer
}

// Signer produces a signed transaction from an unsigned one, the same
// capability bind.SignerFn exposes to a BoundContract's TransactOpts.
type Signer interface {
	SignTx(tx *ethtypes.Transaction) (*ethtypes.Transaction, error)
	From() common.Address
}

func NewBridgeContract(address common.Address, client Client, signer Signer) *BridgeContract {
	return &BridgeContract{address: address, client: client, signer: signer}
}

func mustArgs(typeNames ...string) abi.Arguments {
	args := make(abi.Arguments, len(typeNames))
	for i, t := range typeNames {
		typ, err := abi.NewType(t, "", nil)
		if err != nil {
			panic(err)
		}
		args[i] = abi.Argument{Type: typ}
	}
	return args
}

var (
	selectorValsetNonce   = methodID("state_lastValsetNonce()")
	selectorLastBatchNonce = methodID("lastBatchNonce(address)")
	argsLastBatchNonce    = mustArgs("address")

	selectorUpdateValset = methodID(
		"updateValset(address[],uint256[],uint256,address[],uint256[],uint256,uint8[],bytes32[],bytes32[])")
	argsUpdateValset = mustArgs(
		"address[]", "uint256[]", "uint256",
		"address[]", "uint256[]", "uint256",
		"uint8[]", "bytes32[]", "bytes32[]")

	selectorSubmitBatch = methodID(
		"submitBatch(address[],uint256[],uint256,address,address[],uint256[],uint256[],uint256,uint8[],bytes32[],bytes32[])")
	argsSubmitBatch = mustArgs(
		"address[]", "uint256[]", "uint256",
		"address", "address[]", "uint256[]", "uint256[]", "uint256",
		"uint8[]", "bytes32[]", "bytes32[]")

	argsUint256Result = mustArgs("uint256")
)

// methodID returns the first 4 bytes of keccak256(signature), the standard
// Solidity function selector.
func methodID(signature string) [4]byte {
	var out [4]byte
	copy(out[:], crypto.Keccak256([]byte(signature))[:4])
	return out
}

func packCall(selector [4]byte, args abi.Arguments, vals ...interface{}) ([]byte, error) {
	packed, err := args.Pack(vals...)
	if err != nil {
		return nil, err
	}
	return append(selector[:], packed...), nil
}

// ValsetNonce reads the bridge contract's current valset nonce.
func (c *BridgeContract) ValsetNonce(ctx context.Context) (uint64, error) {
	data, err := packCall(selectorValsetNonce, nil)
	if err != nil {
		return 0, types.ErrDecode.Wrap(err.Error())
	}
	out, err := c.client.CallContract(ctx, ethereum.CallMsg{To: &c.address, Data: data})
	if err != nil {
		return 0, err
	}
	vals, err := argsUint256Result.Unpack(out)
	if err != nil || len(vals) != 1 {
		return 0, types.ErrDecode.Wrap("valset nonce: malformed response")
	}
	return vals[0].(*big.Int).Uint64(), nil
}

// LastBatchNonce reads the bridge contract's last executed batch nonce for
// the given token contract.
func (c *BridgeContract) LastBatchNonce(ctx context.Context, token common.Address) (uint64, error) {
	data, err := packCall(selectorLastBatchNonce, argsLastBatchNonce, token)
	if err != nil {
		return 0, types.ErrDecode.Wrap(err.Error())
	}
	out, err := c.client.CallContract(ctx, ethereum.CallMsg{To: &c.address, Data: data})
	if err != nil {
		return 0, err
	}
	vals, err := argsUint256Result.Unpack(out)
	if err != nil || len(vals) != 1 {
		return 0, types.ErrDecode.Wrap("last batch nonce: malformed response")
	}
	return vals[0].(*big.Int).Uint64(), nil
}

// UpdateValsetCall builds the ABI-encoded updateValset(...) calldata (spec
// §4.5 step 4).
func UpdateValsetCall(newValset types.Valset, currentValset types.Valset, sigs types.SigArrays) ([]byte, error) {
	newAddrs, newPowers := membersToArrays(newValset)
	curAddrs, curPowers := membersToArrays(currentValset)
	return packCall(selectorUpdateValset, argsUpdateValset,
		newAddrs, newPowers, new(big.Int).SetUint64(newValset.Nonce),
		curAddrs, curPowers, new(big.Int).SetUint64(currentValset.Nonce),
		sigs.V, hashesToBytes32(sigs.R), hashesToBytes32(sigs.S),
	)
}

// SubmitBatchCall builds the ABI-encoded submitBatch(...) calldata (spec
// §4.6 step 3).
func SubmitBatchCall(currentValset types.Valset, batch types.TransactionBatch, sigs types.SigArrays) ([]byte, error) {
	curAddrs, curPowers := membersToArrays(currentValset)
	amounts := make([]*big.Int, len(batch.Transfers))
	destinations := make([]common.Address, len(batch.Transfers))
	fees := make([]*big.Int, len(batch.Transfers))
	for i, tr := range batch.Transfers {
		amounts[i] = tr.Amount
		destinations[i] = tr.Destination
		fees[i] = tr.Fee
	}
	return packCall(selectorSubmitBatch, argsSubmitBatch,
		curAddrs, curPowers, new(big.Int).SetUint64(currentValset.Nonce),
		batch.TokenContract, destinations, amounts, fees, new(big.Int).SetUint64(batch.Nonce),
		sigs.V, hashesToBytes32(sigs.R), hashesToBytes32(sigs.S),
	)
}

// Broadcast signs and sends a call to the bridge contract, waiting for its
// receipt with the caller-supplied timeout (ctx's deadline).
func (c *BridgeContract) Broadcast(ctx context.Context, data []byte, gasLimit uint64, gasPrice *big.Int) (common.Hash, *ethtypes.Receipt, error) {
	nonce, err := c.client.PendingNonceAt(ctx, c.signer.From())
	if err != nil {
		return common.Hash{}, nil, err
	}
	tx := ethtypes.NewTx(&ethtypes.LegacyTx{
		Nonce:    nonce,
		To:       &c.address,
		Value:    big.NewInt(0),
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})
	signed, err := c.signer.SignTx(tx)
	if err != nil {
		return common.Hash{}, nil, types.ErrTransport.Wrapf("sign tx: %s", err)
	}
	if err := c.client.SendTransaction(ctx, signed); err != nil {
		return signed.Hash(), nil, err
	}
	receipt, err := c.client.WaitForReceipt(ctx, signed.Hash())
	return signed.Hash(), receipt, err
}

// EstimateGas estimates gas for a call against the bridge contract.
func (c *BridgeContract) EstimateGas(ctx context.Context, data []byte) (types.GasCost, error) {
	gasPrice, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		return types.GasCost{}, err
	}
	units, err := c.client.EstimateGas(ctx, ethereum.CallMsg{From: c.signer.From(), To: &c.address, Data: data})
	if err != nil {
		return types.GasCost{}, err
	}
	return types.GasCost{GasUnits: units, GasPrice: gasPrice}, nil
}

func (c *BridgeContract) Address() common.Address { return c.address }

func membersToArrays(v types.Valset) ([]common.Address, []*big.Int) {
	filtered := v.Filtered()
	addrs := make([]common.Address, len(filtered.Members))
	powers := make([]*big.Int, len(filtered.Members))
	for i, m := range filtered.Members {
		addrs[i] = m.EthAddress
		powers[i] = new(big.Int).SetUint64(m.VotingPower)
	}
	return addrs, powers
}

func hashesToBytes32(hs []common.Hash) [][32]byte {
	out := make([][32]byte, len(hs))
	for i, h := range hs {
		out[i] = h
	}
	return out
}
