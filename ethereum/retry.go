package ethereum

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"cosmossdk.io/log"
)

// retryForever runs op with bounded exponential backoff until it succeeds or
// ctx is cancelled. It is used only for the reads downstream decisions are
// meaningless without — latest block height and net id (spec §4.1, §9) —
// every other adapter call surfaces its error to the caller instead.
func retryForever(ctx context.Context, logger log.Logger, opName string, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0 // retry indefinitely; only ctx cancellation stops us

	bctx := backoff.WithContext(b, ctx)
	return backoff.RetryNotify(op, bctx, func(err error, next time.Duration) {
		logger.Warn("retrying after transport error", "op", opName, "err", err, "next_backoff", next)
	})
}
