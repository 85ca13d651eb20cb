package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sovannvath/storefront-gateway/domain"
	"go.uber.org/zap"
)

// MaxRetriesMessage is the message of the synthetic result returned when
// every attempt failed without a response
const MaxRetriesMessage = "Max retries exceeded"

// RetryPolicy bounds how often one logical call is attempted
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, first one included
	MaxAttempts int
	// BaseDelay is multiplied by the attempt number between attempts
	BaseDelay time.Duration
	// RetryServerErrors also retries 5xx responses; off for calls that
	// are not safe to repeat
	RetryServerErrors bool
}

// DefaultRetryPolicy returns two attempts with a one second linear backoff
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:       2,
		BaseDelay:         time.Second,
		RetryServerErrors: true,
	}
}

// Call performs exactly one attempt of an upstream call
type Call[T any] func(ctx context.Context) (domain.APIResult[T], error)

// Retry runs call until it yields a final answer or the policy is
// exhausted. 4xx responses are final. Transport errors (and 5xx when the
// policy allows it) are retried after attempt*BaseDelay. When every attempt
// ended in an error the synthetic {500, "Max retries exceeded"} result is
// returned together with an error wrapping domain.ErrMaxRetriesExceeded.
func Retry[T any](ctx context.Context, p RetryPolicy, logger *zap.Logger, op string, call Call[T]) (domain.APIResult[T], error) {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var (
		last     domain.APIResult[T]
		lastErr  error
		response bool
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		logger.Debug("upstream attempt", zap.String("op", op), zap.Int("attempt", attempt), zap.Int("max_attempts", attempts))

		res, err := call(ctx)
		switch {
		case err == nil && (!p.RetryServerErrors || !res.Retryable()):
			return res, nil
		case err == nil:
			last, lastErr, response = res, nil, true
			logger.Warn("upstream server error",
				zap.String("op", op),
				zap.Int("attempt", attempt),
				zap.Int("status", res.Status),
			)
		case errors.Is(err, domain.ErrMalformedResponse):
			return res, fmt.Errorf("%s: %w", op, err)
		default:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return domain.APIResult[T]{Message: ctxErr.Error()}, fmt.Errorf("%s: %w", op, ctxErr)
			}
			lastErr, response = err, false
			logger.Warn("upstream call failed",
				zap.String("op", op),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		}

		if attempt == attempts {
			break
		}
		if err := sleep(ctx, time.Duration(attempt)*p.BaseDelay); err != nil {
			return domain.APIResult[T]{Message: err.Error()}, fmt.Errorf("%s: %w", op, err)
		}
	}

	if response {
		logger.Error("upstream retries exhausted", zap.String("op", op), zap.Int("status", last.Status))
		return last, nil
	}
	logger.Error("upstream retries exhausted", zap.String("op", op), zap.Error(lastErr))
	return domain.APIResult[T]{
		Status:  http.StatusInternalServerError,
		Message: MaxRetriesMessage,
	}, fmt.Errorf("%s: %w: %w", op, domain.ErrMaxRetriesExceeded, lastErr)
}

// sleep waits for d or until ctx is done
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
