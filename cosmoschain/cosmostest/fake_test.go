package cosmostest_test

import (
	"context"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/cosmos/gravity-orchestrator/cosmoschain/cosmostest"
	"github.com/cosmos/gravity-orchestrator/events"
)

func TestFakeClientLastEventNonceDefaultsToZero(t *testing.T) {
	fake := cosmostest.NewFakeClient()
	n, err := fake.LastEventNonce(context.Background(), common.HexToAddress("0x1"))
	require.NoError(t, err)
	require.Equal(t, uint64(0), n)
}

func TestFakeClientSendEthereumClaimsRecordsAndAdvances(t *testing.T) {
	fake := cosmostest.NewFakeClient()
	validator := common.HexToAddress("0x1")
	claims := []events.Event{events.SendToCosmos{Nonce: 1}}
	fee := sdk.NewInt64Coin("stake", 1)

	hash, err := fake.SendEthereumClaims(context.Background(), claims, fee)
	require.NoError(t, err)
	require.Equal(t, fake.NextTxHash, hash)
	require.Len(t, fake.SentClaims, 1)

	fake.SetLastEventNonce(validator, 1)
	n, err := fake.LastEventNonce(context.Background(), validator)
	require.NoError(t, err)
	require.Equal(t, uint64(1), n)
}
