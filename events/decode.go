package events

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/cosmos/gravity-orchestrator/types"
)

// Decode parses a single raw log into its typed Event, dispatching on
// topic0. Returns ErrDecode wrapped with the offending topic for any log
// whose topic0 doesn't match one of the five canonical signatures, or whose
// payload doesn't ABI-decode cleanly.
func Decode(l ethtypes.Log) (Event, error) {
	if len(l.Topics) == 0 {
		return nil, types.ErrDecode.Wrap("log has no topics")
	}

	switch l.Topics[0] {
	case Topic0.SendToCosmos:
		return decodeSendToCosmos(l)
	case Topic0.BatchExecuted:
		return decodeBatchExecuted(l)
	case Topic0.ValsetUpdated:
		return decodeValsetUpdated(l)
	case Topic0.ERC20Deployed:
		return decodeERC20Deployed(l)
	case Topic0.LogicCallExecuted:
		return decodeLogicCallExecuted(l)
	default:
		return nil, types.ErrDecode.Wrapf("unrecognized topic0 %s", l.Topics[0].Hex())
	}
}

// DecodeAll decodes every log in ls, failing the whole batch on the first
// undecodable entry (spec §4.2: decode all five event kinds from the scanned
// logs).
func DecodeAll(ls []ethtypes.Log) ([]Event, error) {
	out := make([]Event, 0, len(ls))
	for _, l := range ls {
		ev, err := Decode(l)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}

func requireTopics(l ethtypes.Log, n int) error {
	if len(l.Topics) != n {
		return types.ErrDecode.Wrapf("expected %d topics, got %d", n, len(l.Topics))
	}
	return nil
}

func decodeSendToCosmos(l ethtypes.Log) (Event, error) {
	if err := requireTopics(l, 4); err != nil {
		return nil, err
	}
	vals, err := sendToCosmosData.Unpack(l.Data)
	if err != nil {
		return nil, types.ErrDecode.Wrapf("SendToCosmosEvent: %s", err)
	}
	amount, nonce, err := unpackAmountAndNonce(vals)
	if err != nil {
		return nil, err
	}
	return SendToCosmos{
		Nonce:         nonce,
		TokenContract: common.BytesToAddress(l.Topics[1].Bytes()),
		Sender:        common.BytesToAddress(l.Topics[2].Bytes()),
		Destination:   l.Topics[3],
		Amount:        amount,
	}, nil
}

func unpackAmountAndNonce(vals []interface{}) (*big.Int, uint64, error) {
	if len(vals) != 2 {
		return nil, 0, types.ErrDecode.Wrap("expected 2 decoded fields")
	}
	amount, ok := vals[0].(*big.Int)
	if !ok {
		return nil, 0, types.ErrDecode.Wrap("amount field is not uint256")
	}
	nonce, ok := vals[1].(*big.Int)
	if !ok {
		return nil, 0, types.ErrDecode.Wrap("eventNonce field is not uint256")
	}
	return amount, nonce.Uint64(), nil
}

func decodeBatchExecuted(l ethtypes.Log) (Event, error) {
	if err := requireTopics(l, 3); err != nil {
		return nil, err
	}
	vals, err := batchExecutedData.Unpack(l.Data)
	if err != nil {
		return nil, types.ErrDecode.Wrapf("TransactionBatchExecutedEvent: %s", err)
	}
	if len(vals) != 1 {
		return nil, types.ErrDecode.Wrap("expected 1 decoded field")
	}
	nonce, ok := vals[0].(*big.Int)
	if !ok {
		return nil, types.ErrDecode.Wrap("eventNonce field is not uint256")
	}
	return BatchExecuted{
		Nonce:         nonce.Uint64(),
		BatchNonce:    new(big.Int).SetBytes(l.Topics[1].Bytes()).Uint64(),
		TokenContract: common.BytesToAddress(l.Topics[2].Bytes()),
	}, nil
}

func decodeValsetUpdated(l ethtypes.Log) (Event, error) {
	if err := requireTopics(l, 2); err != nil {
		return nil, err
	}
	vals, err := valsetUpdatedData.Unpack(l.Data)
	if err != nil {
		return nil, types.ErrDecode.Wrapf("ValsetUpdatedEvent: %s", err)
	}
	if len(vals) != 3 {
		return nil, types.ErrDecode.Wrap("expected 3 decoded fields")
	}
	addrs, ok := vals[0].([]common.Address)
	if !ok {
		return nil, types.ErrDecode.Wrap("validators field is not address[]")
	}
	powersBig, ok := vals[1].([]*big.Int)
	if !ok {
		return nil, types.ErrDecode.Wrap("powers field is not uint256[]")
	}
	nonce, ok := vals[2].(*big.Int)
	if !ok {
		return nil, types.ErrDecode.Wrap("eventNonce field is not uint256")
	}
	if len(addrs) != len(powersBig) {
		return nil, types.ErrDecode.Wrap("validators/powers length mismatch")
	}
	powers := make([]uint64, len(powersBig))
	for i, p := range powersBig {
		powers[i] = p.Uint64()
	}
	return ValsetUpdated{
		Nonce:          nonce.Uint64(),
		NewValsetNonce: new(big.Int).SetBytes(l.Topics[1].Bytes()).Uint64(),
		Validators:     addrs,
		Powers:         powers,
	}, nil
}

func decodeERC20Deployed(l ethtypes.Log) (Event, error) {
	if err := requireTopics(l, 2); err != nil {
		return nil, err
	}
	vals, err := erc20DeployedData.Unpack(l.Data)
	if err != nil {
		return nil, types.ErrDecode.Wrapf("ERC20DeployedEvent: %s", err)
	}
	if len(vals) != 5 {
		return nil, types.ErrDecode.Wrap("expected 5 decoded fields")
	}
	denom, ok := vals[0].(string)
	if !ok {
		return nil, types.ErrDecode.Wrap("cosmosDenom field is not string")
	}
	name, ok := vals[1].(string)
	if !ok {
		return nil, types.ErrDecode.Wrap("name field is not string")
	}
	symbol, ok := vals[2].(string)
	if !ok {
		return nil, types.ErrDecode.Wrap("symbol field is not string")
	}
	decimals, ok := vals[3].(uint8)
	if !ok {
		return nil, types.ErrDecode.Wrap("decimals field is not uint8")
	}
	nonce, ok := vals[4].(*big.Int)
	if !ok {
		return nil, types.ErrDecode.Wrap("eventNonce field is not uint256")
	}
	return ERC20Deployed{
		Nonce:         nonce.Uint64(),
		CosmosDenom:   denom,
		TokenContract: common.BytesToAddress(l.Topics[1].Bytes()),
		Name:          name,
		Symbol:        symbol,
		Decimals:      decimals,
	}, nil
}

func decodeLogicCallExecuted(l ethtypes.Log) (Event, error) {
	if err := requireTopics(l, 3); err != nil {
		return nil, err
	}
	vals, err := logicCallExecutedData.Unpack(l.Data)
	if err != nil {
		return nil, types.ErrDecode.Wrapf("LogicCallEvent: %s", err)
	}
	if len(vals) != 2 {
		return nil, types.ErrDecode.Wrap("expected 2 decoded fields")
	}
	returnData, ok := vals[0].([]byte)
	if !ok {
		return nil, types.ErrDecode.Wrap("returnData field is not bytes")
	}
	nonce, ok := vals[1].(*big.Int)
	if !ok {
		return nil, types.ErrDecode.Wrap("eventNonce field is not uint256")
	}
	return LogicCallExecuted{
		Nonce:             nonce.Uint64(),
		InvalidationID:    l.Topics[1],
		InvalidationNonce: new(big.Int).SetBytes(l.Topics[2].Bytes()).Uint64(),
		ReturnData:        returnData,
	}, nil
}
