package watcher

import (
	"context"
	"time"

	"cosmossdk.io/log"

	"github.com/cosmos/gravity-orchestrator/types"
)

// RunLoop drives RunCycle forever: drive-to-completion, then sleep, until ctx
// is cancelled (spec §5: "each loop is a drive-to-completion cycle followed
// by a fixed sleep"). A non-Cancelled cycle error is logged and the loop
// sleeps before retrying from the last returned checkpoint; InvalidBridgeState
// is retried forever with operator-visible logging, per the open-question
// resolution in DESIGN.md.
func RunLoop(ctx context.Context, w *Watcher, startingBlock uint64, sleep time.Duration, logger log.Logger) error {
	logger = logger.With("loop", "event_watcher")
	checkpoint := startingBlock

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result, err := w.RunCycle(ctx, checkpoint)
		switch {
		case err == nil:
			checkpoint = result.Checkpoint.LastScannedBlock
			if result.ClaimsSent > 0 {
				logger.Info("submitted ethereum claims",
					"count", result.ClaimsSent,
					"tx_hash", result.SubmittedTx,
					"checkpoint", checkpoint,
				)
			}
		case types.ErrCancelled.Is(err):
			return err
		default:
			logger.Error("event watcher cycle failed, retrying from last checkpoint", "error", err, "checkpoint", checkpoint)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
	}
}
