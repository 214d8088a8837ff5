package events_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cosmos/gravity-orchestrator/events"
)

type fakeEvent struct {
	kind  events.Kind
	nonce uint64
}

func (f fakeEvent) Kind() events.Kind  { return f.kind }
func (f fakeEvent) EventNonce() uint64 { return f.nonce }

func TestFilterByEventNonceIdempotentAndOrdered(t *testing.T) {
	evs := []events.Event{
		fakeEvent{kind: events.KindSendToCosmos, nonce: 11},
		fakeEvent{kind: events.KindSendToCosmos, nonce: 10},
		fakeEvent{kind: events.KindSendToCosmos, nonce: 12},
		// duplicate of nonce 11, same kind: re-scan overlap should dedupe to
		// the same logical event so the filtered result is unaffected by
		// which copy happens to be first.
		fakeEvent{kind: events.KindSendToCosmos, nonce: 11},
	}

	out, err := events.FilterByEventNonce(9, evs)
	require.NoError(t, err)
	require.Len(t, out, 3)
	require.Equal(t, uint64(10), out[0].EventNonce())
	require.Equal(t, uint64(11), out[1].EventNonce())
	require.Equal(t, uint64(12), out[2].EventNonce())

	// Without the duplicate, filtering by threshold 10 keeps only 11 and 12,
	// ascending — the identical result property 1 requires.
	clean := evs[:3]
	out2, err := events.FilterByEventNonce(10, clean)
	require.NoError(t, err)
	require.Len(t, out2, 2)
	require.Equal(t, uint64(11), out2[0].EventNonce())
	require.Equal(t, uint64(12), out2[1].EventNonce())
}

func TestFilterByEventNonceExcludesAtThreshold(t *testing.T) {
	evs := []events.Event{
		fakeEvent{kind: events.KindSendToCosmos, nonce: 10},
		fakeEvent{kind: events.KindSendToCosmos, nonce: 11},
	}
	out, err := events.FilterByEventNonce(10, evs)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, uint64(11), out[0].EventNonce())
}

func TestFilterByEventNonceCrossKindCollisionErrors(t *testing.T) {
	evs := []events.Event{
		fakeEvent{kind: events.KindSendToCosmos, nonce: 11},
		fakeEvent{kind: events.KindBatchExecuted, nonce: 11},
	}
	_, err := events.FilterByEventNonce(9, evs)
	require.Error(t, err)
}
