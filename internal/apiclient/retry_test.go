package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/sovannvath/storefront-gateway/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

func fastPolicy(attempts int) RetryPolicy {
	return RetryPolicy{MaxAttempts: attempts, BaseDelay: time.Millisecond, RetryServerErrors: true}
}

// scripted returns a Call that replays outcomes in order and counts calls
func scripted(calls *int, outcomes ...func() (domain.APIResult[string], error)) Call[string] {
	return func(ctx context.Context) (domain.APIResult[string], error) {
		i := *calls
		*calls++
		if i >= len(outcomes) {
			i = len(outcomes) - 1
		}
		return outcomes[i]()
	}
}

func fail() (domain.APIResult[string], error) {
	return domain.APIResult[string]{}, domain.ErrUpstreamUnreachable
}

func succeed() (domain.APIResult[string], error) {
	return domain.APIResult[string]{Status: http.StatusOK, Data: "ok"}, nil
}

func status(code int) func() (domain.APIResult[string], error) {
	return func() (domain.APIResult[string], error) {
		return domain.APIResult[string]{Status: code, Message: http.StatusText(code)}, nil
	}
}

func TestRetry_SucceedsOnLastAttempt(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5} {
		t.Run(fmt.Sprintf("success_after_%d_failures", n-1), func(t *testing.T) {
			outcomes := make([]func() (domain.APIResult[string], error), 0, n)
			for i := 0; i < n-1; i++ {
				outcomes = append(outcomes, fail)
			}
			outcomes = append(outcomes, succeed)

			calls := 0
			res, err := Retry(context.Background(), fastPolicy(n), zap.NewNop(), "test", scripted(&calls, outcomes...))

			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, res.Status)
			assert.Equal(t, "ok", res.Data)
			assert.Equal(t, n, calls)
		})
	}
}

func TestRetry_NeverExceedsMaxAttempts(t *testing.T) {
	calls := 0
	res, err := Retry(context.Background(), fastPolicy(2), zap.NewNop(), "test", scripted(&calls, fail))

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMaxRetriesExceeded))
	assert.True(t, errors.Is(err, domain.ErrUpstreamUnreachable))
	assert.Equal(t, 2, calls)
	assert.Equal(t, http.StatusInternalServerError, res.Status)
	assert.Equal(t, MaxRetriesMessage, res.Message)
}

func TestRetry_ClientErrorsAreFinal(t *testing.T) {
	for _, code := range []int{400, 401, 403, 404, 422} {
		t.Run(http.StatusText(code), func(t *testing.T) {
			calls := 0
			res, err := Retry(context.Background(), fastPolicy(3), zap.NewNop(), "test", scripted(&calls, status(code)))

			require.NoError(t, err)
			assert.Equal(t, code, res.Status)
			assert.Equal(t, 1, calls)
		})
	}
}

func TestRetry_ServerErrors(t *testing.T) {
	t.Run("retried and recovered", func(t *testing.T) {
		calls := 0
		res, err := Retry(context.Background(), fastPolicy(3), zap.NewNop(), "test",
			scripted(&calls, status(503), status(502), succeed))

		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.Status)
		assert.Equal(t, 3, calls)
	})

	t.Run("exhausted returns last response", func(t *testing.T) {
		calls := 0
		res, err := Retry(context.Background(), fastPolicy(2), zap.NewNop(), "test",
			scripted(&calls, status(500), status(503)))

		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, res.Status)
		assert.Equal(t, 2, calls)
	})

	t.Run("not retried when unsafe to repeat", func(t *testing.T) {
		p := fastPolicy(3)
		p.RetryServerErrors = false

		calls := 0
		res, err := Retry(context.Background(), p, zap.NewNop(), "test", scripted(&calls, status(500), succeed))

		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, res.Status)
		assert.Equal(t, 1, calls)
	})
}

func TestRetry_MalformedResponseIsFinal(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), fastPolicy(3), zap.NewNop(), "test",
		scripted(&calls, func() (domain.APIResult[string], error) {
			return domain.APIResult[string]{Status: http.StatusBadGateway}, domain.ErrMalformedResponse
		}))

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMalformedResponse))
	assert.Equal(t, 1, calls)
}

func TestRetry_LinearBackoff(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 3, BaseDelay: 20 * time.Millisecond, RetryServerErrors: true}

	var stamps []time.Time
	call := func(ctx context.Context) (domain.APIResult[string], error) {
		stamps = append(stamps, time.Now())
		return fail()
	}

	_, err := Retry(context.Background(), p, zap.NewNop(), "test", call)
	require.Error(t, err)
	require.Len(t, stamps, 3)

	// attempt*BaseDelay: 20ms after the first failure, 40ms after the second
	assert.GreaterOrEqual(t, stamps[1].Sub(stamps[0]), 20*time.Millisecond)
	assert.GreaterOrEqual(t, stamps[2].Sub(stamps[1]), 40*time.Millisecond)
}

func TestRetry_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := RetryPolicy{MaxAttempts: 5, BaseDelay: time.Hour, RetryServerErrors: true}

	calls := 0
	call := func(ctx context.Context) (domain.APIResult[string], error) {
		calls++
		cancel()
		return fail()
	}

	start := time.Now()
	_, err := Retry(ctx, p, zap.NewNop(), "test", call)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, calls)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRetry_ZeroAttemptsMeansOne(t *testing.T) {
	calls := 0
	_, err := Retry(context.Background(), RetryPolicy{}, zap.NewNop(), "test", scripted(&calls, fail))

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
