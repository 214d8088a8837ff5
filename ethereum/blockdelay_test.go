package ethereum_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cosmos/gravity-orchestrator/ethereum"
)

func TestBlockDelayTable(t *testing.T) {
	for _, id := range []uint64{1, 3, 7} {
		require.Equal(t, uint64(6), ethereum.BlockDelay(id), "net id %d", id)
	}
	for _, id := range []uint64{4, 5, 6, 15, 2018} {
		require.Equal(t, uint64(0), ethereum.BlockDelay(id), "net id %d", id)
	}
	require.Equal(t, uint64(6), ethereum.BlockDelay(999999))
}
