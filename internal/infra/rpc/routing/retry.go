package routing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vietddude/relay/internal/core/domain"
	"github.com/vietddude/relay/internal/infra/rpc/endpoint"
	"github.com/vietddude/relay/internal/metrics"
)

// ErrRPCExhausted means the retry budget was spent against a transient fault.
var ErrRPCExhausted = errors.New("rpc retries exhausted")

// DefaultMaxAttempts bounds the retry loop.
const DefaultMaxAttempts = 3

const (
	rateLimitDefaultWait = 10 * time.Second
	rateLimitMinWait     = 5 * time.Second
	rateLimitMaxWait     = 60 * time.Second
)

// ErrorClass determines how the executor reacts to a failed attempt.
type ErrorClass int

const (
	ClassUnknown   ErrorClass = iota // generic failure, short linear backoff
	ClassRateLimit                   // provider told us to slow down
	ClassTransient                   // network-level fault, linear backoff
	ClassFatal                       // malformed input / not found, no retry
)

func (c ErrorClass) String() string {
	switch c {
	case ClassRateLimit:
		return "rate_limit"
	case ClassTransient:
		return "transient"
	case ClassFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Classify maps an RPC error to its class.
func Classify(err error) ErrorClass {
	if err == nil {
		return ClassUnknown
	}

	var rl *endpoint.RateLimitedError
	if errors.As(err, &rl) {
		return ClassRateLimit
	}

	if st, ok := status.FromError(err); ok && st.Code() != codes.Unknown {
		switch st.Code() {
		case codes.ResourceExhausted:
			return ClassRateLimit
		case codes.Unavailable, codes.DeadlineExceeded, codes.Aborted:
			return ClassTransient
		case codes.InvalidArgument, codes.NotFound, codes.Unimplemented:
			return ClassFatal
		}
	}

	s := err.Error()
	sLower := strings.ToLower(s)

	// JSON-RPC request-shape errors are never worth retrying.
	// -32700: parse error, -32600: invalid request, -32601: method not found,
	// -32602: invalid params
	if strings.Contains(s, "-32700") || strings.Contains(s, "-32600") ||
		strings.Contains(s, "-32601") || strings.Contains(s, "-32602") {
		return ClassFatal
	}
	if strings.Contains(sLower, "not found") || strings.Contains(sLower, "invalid argument") {
		return ClassFatal
	}

	if strings.Contains(s, "429") || strings.Contains(sLower, "too many requests") ||
		strings.Contains(sLower, "rate limit") || strings.Contains(sLower, "quota") ||
		strings.Contains(sLower, "count exceeded") {
		return ClassRateLimit
	}

	if strings.Contains(sLower, "connection refused") || strings.Contains(sLower, "connection reset") ||
		strings.Contains(sLower, "timeout") || strings.Contains(sLower, "deadline exceeded") ||
		strings.Contains(sLower, "eof") || strings.Contains(s, "502") ||
		strings.Contains(s, "503") || strings.Contains(s, "504") {
		return ClassTransient
	}

	return ClassUnknown
}

// Operation is one unit of work that needs a live endpoint. Name is used for
// logging and metrics. If Invoke is set it takes precedence; otherwise the
// endpoint performs a JSON-RPC call with Name and Params.
type Operation struct {
	Name   string
	Params []any
	Invoke func(ctx context.Context, ep *endpoint.Endpoint) (any, error)
}

func (op Operation) run(ctx context.Context, ep *endpoint.Endpoint) (any, error) {
	if op.Invoke != nil {
		return op.Invoke(ctx, ep)
	}
	return ep.Call(ctx, op.Name, op.Params)
}

// Executor wraps chain operations with bounded retries. It distinguishes
// retryable from fatal failures and surfaces exhaustion as ErrRPCExhausted.
type Executor struct {
	router      *Router
	maxAttempts int
	log         *slog.Logger

	// sleep is swappable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewExecutor creates an executor. maxAttempts <= 0 uses the default.
func NewExecutor(router *Router, maxAttempts int, log *slog.Logger) *Executor {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Executor{
		router:      router,
		maxAttempts: maxAttempts,
		log:         log,
		sleep:       sleepCtx,
	}
}

// Do runs op against the chain, routing each attempt through the best live
// endpoint. On success the chosen endpoint's error count is reset and the
// result returned immediately.
func (e *Executor) Do(ctx context.Context, chain domain.Chain, op Operation) (any, error) {
	var lastErr error

	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		ep, err := e.router.Select(chain)
		if err != nil {
			// No endpoint to run against: not a per-attempt fault, so the
			// retry budget does not apply.
			return nil, err
		}

		start := time.Now()
		result, err := op.run(ctx, ep)
		latency := time.Since(start)

		metrics.RPCCallsTotal.WithLabelValues(string(chain), ep.Name()).Inc()
		metrics.RPCLatency.WithLabelValues(string(chain), ep.Name()).Observe(latency.Seconds())

		if err == nil {
			ep.ResetErrors()
			return result, nil
		}

		lastErr = err
		class := Classify(err)
		metrics.RPCErrorsTotal.WithLabelValues(string(chain), ep.Name(), class.String()).Inc()

		if class == ClassFatal {
			return nil, err
		}
		if attempt == e.maxAttempts {
			break
		}

		wait := backoffFor(class, attempt, err)
		e.log.Debug("rpc attempt failed, backing off",
			"chain", chain, "endpoint", ep.Name(), "attempt", attempt,
			"class", class.String(), "wait", wait, "error", err)

		if err := e.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", ErrRPCExhausted, e.maxAttempts, lastErr)
}

// backoffFor computes the wait before the next attempt. Rate limits honor a
// provider retry-after hint clamped to [5s, 60s]; transient network faults
// back off linearly at 1s per attempt; everything else at 500ms per attempt.
func backoffFor(class ErrorClass, attempt int, err error) time.Duration {
	switch class {
	case ClassRateLimit:
		wait := rateLimitDefaultWait
		var rl *endpoint.RateLimitedError
		if errors.As(err, &rl) && rl.RetryAfter > 0 {
			wait = rl.RetryAfter
		}
		if wait < rateLimitMinWait {
			wait = rateLimitMinWait
		}
		if wait > rateLimitMaxWait {
			wait = rateLimitMaxWait
		}
		return wait
	case ClassTransient:
		return time.Duration(attempt) * time.Second
	default:
		return time.Duration(attempt) * 500 * time.Millisecond
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
