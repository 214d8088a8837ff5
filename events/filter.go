package events

import (
	"sort"

	"github.com/cosmos/gravity-orchestrator/types"
)

// FilterByEventNonce returns the events with EventNonce strictly greater than
// threshold, in ascending event_nonce order, deduplicated. Because
// event_nonce is assigned by the bridge contract as a single monotonic
// sequence across all five kinds (spec §3), the set of events returned here
// depends only on (threshold, events): a re-scan of the overlapping tail of
// the previous cycle's block range re-observes the identical (kind, nonce)
// log entries, and those collapse to one logical event each rather than
// erroring, which is what makes re-scanning idempotent (spec §4.4 "overlap
// semantics", testable property 1). Two distinct kinds sharing an
// event_nonce can never happen by contract invariant (spec §4.2) and remain
// a hard decode error.
func FilterByEventNonce(threshold uint64, evs []Event) ([]Event, error) {
	out := make([]Event, 0, len(evs))
	for _, e := range evs {
		if e.EventNonce() > threshold {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EventNonce() < out[j].EventNonce()
	})

	deduped := make([]Event, 0, len(out))
	for _, e := range out {
		if n := len(deduped); n > 0 && deduped[n-1].EventNonce() == e.EventNonce() {
			if deduped[n-1].Kind() != e.Kind() {
				return nil, types.ErrDecode.Wrapf(
					"event_nonce %d shared by distinct event kinds %s and %s, violates contract invariant",
					e.EventNonce(), deduped[n-1].Kind(), e.Kind(),
				)
			}
			// Same (kind, nonce) re-observed across an overlapping scan:
			// collapse to the single logical event instead of erroring.
			continue
		}
		deduped = append(deduped, e)
	}
	return deduped, nil
}
