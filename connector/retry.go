package connector

import (
	"context"
	"time"
)

// retry calls fn until it succeeds, the attempts in cfg run out, or ctx
// is done. It returns the last error.
func retry(ctx context.Context, cfg *RetryConfig, fn func(context.Context) error) error {
	delay := cfg.BaseDelay
	if delay == 0 {
		delay = time.Second // default
	}
	backoff := cfg.Backoff
	if backoff < 1 {
		backoff = 2
	}

	var err error
	for i := 0; i < cfg.MaxRetries; i++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if i == cfg.MaxRetries-1 {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			delay = time.Duration(float64(delay) * backoff)
			if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
		}
	}
	return err
}
