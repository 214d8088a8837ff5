package types_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/cosmos/gravity-orchestrator/types"
)

func TestValsetFiltered(t *testing.T) {
	v := types.Valset{
		Nonce: 3,
		Members: []types.ValsetMember{
			{EthAddress: common.HexToAddress("0x1"), VotingPower: 100},
			{EthAddress: common.Address{}, VotingPower: 50},
			{EthAddress: common.HexToAddress("0x2"), VotingPower: 0},
			{EthAddress: common.HexToAddress("0x3"), VotingPower: 200},
		},
	}

	filtered := v.Filtered()
	require.Len(t, filtered.Members, 2)
	require.Equal(t, uint64(3), filtered.Nonce)
	require.Equal(t, uint64(300), filtered.TotalPower())
}

func TestPowerThresholdFraction(t *testing.T) {
	require.Equal(t, 2, types.PowerThresholdNumerator)
	require.Equal(t, 3, types.PowerThresholdDenominator)
}
