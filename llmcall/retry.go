package llmcall

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// RetryPolicy configures retry behavior with exponential backoff. It is
// immutable for the lifetime of a Caller.
type RetryPolicy struct {
	MaxAttempts       int           // total attempts, including the first
	BaseDelay         time.Duration // delay before the second attempt
	MaxDelay          time.Duration // cap on the delay between attempts
	BackoffMultiplier float64       // exponential backoff factor
	Jitter            bool          // add random jitter to prevent thundering herd
}

// DefaultRetryPolicy returns the default policy: 3 attempts, 1s base delay
// doubling up to a 10s cap, no jitter.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:       3,
		BaseDelay:         time.Second,
		MaxDelay:          10 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// Delay calculates the backoff inserted after attempt k fails (1-indexed),
// i.e. the wait before attempt k+1: min(base * multiplier^(k-1), max).
func (p RetryPolicy) Delay(k int) time.Duration {
	d := math.Min(float64(p.BaseDelay)*math.Pow(p.BackoffMultiplier, float64(k-1)), float64(p.MaxDelay))
	if p.Jitter {
		// +/- 50% jitter
		d = d * (0.5 + rand.Float64()) // rand in [0,1) -> [0.5, 1.5)
	}
	return time.Duration(d)
}

// Classification decides whether a failed attempt should be repeated.
type Classification int

const (
	Retryable Classification = iota
	Fatal
)

// Classifier maps a remote call failure to its classification.
type Classifier func(error) Classification

// DefaultClassifier classifies via IsRetryable: transient failures (5xx,
// rate limits, timeouts, connection errors) are Retryable, the rest Fatal.
func DefaultClassifier(err error) Classification {
	if IsRetryable(err) {
		return Retryable
	}
	return Fatal
}

// RemoteCall sends one prompt to the hosted model and returns its text.
// Implementations own the transport and enforce their own timeout,
// reporting it as a retryable failure.
type RemoteCall func(ctx context.Context, prompt Prompt) (string, error)

// Caller drives a RemoteCall through the retry state machine. Its only side
// effect is event emission to the configured Sink.
type Caller struct {
	policy   RetryPolicy
	classify Classifier
	sink     Sink
}

// NewCaller creates a Caller. A nil classify falls back to
// DefaultClassifier, a nil sink discards events, and out-of-range policy
// fields are clamped to their minimums.
func NewCaller(policy RetryPolicy, classify Classifier, sink Sink) *Caller {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.BackoffMultiplier < 1 {
		policy.BackoffMultiplier = 1
	}
	if classify == nil {
		classify = DefaultClassifier
	}
	if sink == nil {
		sink = NopSink()
	}
	return &Caller{policy: policy, classify: classify, sink: sink}
}

// Policy returns the caller's retry policy.
func (c *Caller) Policy() RetryPolicy {
	return c.policy
}

// Execute runs call until it succeeds, fails fatally, exhausts the attempt
// budget, or ctx is cancelled. Attempt 1 runs immediately; each Retryable
// failure with attempts remaining waits the policy delay before the next
// attempt. On terminal failure the returned error is a *TerminalError
// wrapping the last attempt's failure.
func (c *Caller) Execute(ctx context.Context, prompt Prompt, call RemoteCall) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", &TerminalError{Reason: TerminalCancelled, Attempts: attempt - 1, Cause: err}
		}

		c.emit(EventAttemptStart, map[string]interface{}{
			"attempt": attempt,
		})

		start := time.Now()
		text, err := call(ctx, prompt)
		latency := time.Since(start)

		if err == nil {
			c.emit(EventAttemptSuccess, map[string]interface{}{
				"attempt": attempt,
				"latency": latency,
			})
			if attempt > 1 {
				c.emit(EventRetrySucceeded, map[string]interface{}{
					"final_attempt": attempt,
				})
			}
			return text, nil
		}

		retryable := c.classify(err) == Retryable
		c.emit(EventAttemptFailure, map[string]interface{}{
			"attempt":   attempt,
			"latency":   latency,
			"retryable": retryable,
			"error":     err.Error(),
		})

		if !retryable {
			return "", &TerminalError{Reason: TerminalFatal, Attempts: attempt, Cause: err}
		}

		lastErr = err
		if attempt == c.policy.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return "", &TerminalError{Reason: TerminalCancelled, Attempts: attempt, Cause: ctx.Err()}
		case <-time.After(c.policy.Delay(attempt)):
		}
	}

	return "", &TerminalError{Reason: TerminalExhausted, Attempts: c.policy.MaxAttempts, Cause: lastErr}
}

func (c *Caller) emit(kind EventKind, data map[string]interface{}) {
	c.sink(Event{Kind: kind, Timestamp: time.Now(), Data: data})
}
