package relayer

import (
	"context"
	"time"

	"cosmossdk.io/log"
)

// RunValsetLoop drives ValsetRelayer.RunCycle forever: drive-to-completion,
// then sleep, until ctx is cancelled (spec §5).
func RunValsetLoop(ctx context.Context, r *ValsetRelayer, sleep time.Duration, logger log.Logger) error {
	logger = logger.With("loop", "valset_relayer")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result, err := r.RunCycle(ctx)
		if err != nil {
			logger.Error("valset relayer cycle failed", "error", err)
		} else if result.Submitted {
			logger.Info("valset relayed", "new_nonce", result.NewNonce, "tx_hash", result.TxHash)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
	}
}

// RunBatchLoop drives BatchRelayer.RunCycle forever, same shape as
// RunValsetLoop.
func RunBatchLoop(ctx context.Context, r *BatchRelayer, sleep time.Duration, logger log.Logger) error {
	logger = logger.With("loop", "batch_relayer")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		results, err := r.RunCycle(ctx)
		if err != nil {
			logger.Error("batch relayer cycle failed", "error", err)
		}
		for _, result := range results {
			logger.Info("batch relayed", "token", result.Token, "nonce", result.Nonce, "tx_hash", result.TxHash)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
	}
}
