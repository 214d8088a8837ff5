package types

// Checkpoint is the watcher's notion of progress: the last EVM block it
// scanned, and the last event nonce the native chain has applied for this
// relayer's validator. LastAppliedEventNonce is never stored locally — it is
// re-read from the native chain at the start of every cycle — so Checkpoint
// only ever exists as a local value inside one cycle, never as durable state
// the process must own across restarts.
type Checkpoint struct {
	LastScannedBlock      uint64
	LastAppliedEventNonce uint64
}
