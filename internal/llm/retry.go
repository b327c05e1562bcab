package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// RetryClient bounds each Complete call with a timeout and retries failed
// attempts with a linear backoff.
type RetryClient struct {
	next     Client
	attempts int
	timeout  time.Duration
	backoff  time.Duration
	logger   *zap.Logger
}

// NewRetryClient wraps next. attempts < 1 means a single attempt; timeout <= 0
// disables the per-attempt deadline.
func NewRetryClient(next Client, attempts int, timeout time.Duration, logger *zap.Logger) *RetryClient {
	if attempts < 1 {
		attempts = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetryClient{
		next:     next,
		attempts: attempts,
		timeout:  timeout,
		backoff:  500 * time.Millisecond,
		logger:   logger,
	}
}

// Complete calls the wrapped client until it succeeds, the attempts run out or
// ctx is done.
func (c *RetryClient) Complete(ctx context.Context, messages []Message, tier ModelTier) (string, error) {
	var lastErr error
	for i := 0; i < c.attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.backoff * time.Duration(i)):
			}
		}

		text, err := c.completeOnce(ctx, messages, tier)
		if err == nil {
			return text, nil
		}
		lastErr = err
		c.logger.Warn("completion attempt failed",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", c.attempts),
			zap.Error(err))

		if ctx.Err() != nil {
			break
		}
	}
	return "", fmt.Errorf("after %d attempts: %w", c.attempts, lastErr)
}

func (c *RetryClient) completeOnce(ctx context.Context, messages []Message, tier ModelTier) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.next.Complete(ctx, messages, tier)
}

// GetModel returns the wrapped client's model for a tier.
func (c *RetryClient) GetModel(tier ModelTier) string { return c.next.GetModel(tier) }

// Close closes the wrapped client.
func (c *RetryClient) Close() error { return c.next.Close() }
