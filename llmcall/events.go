package llmcall

import (
	"log/slog"
	"sort"
	"time"
)

// EventKind identifies the type of attempt event.
type EventKind string

const (
	EventAttemptStart   EventKind = "attempt_start"
	EventAttemptSuccess EventKind = "attempt_success"
	EventAttemptFailure EventKind = "attempt_failure"
	EventRetrySucceeded EventKind = "retry_succeeded"
)

// Event is one structured record emitted during Execute.
type Event struct {
	Kind      EventKind              `json:"kind"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Sink receives events from a Caller. Implementations must not block;
// emission happens inline with the attempt loop.
type Sink func(Event)

// NopSink discards all events.
func NopSink() Sink {
	return func(Event) {}
}

// SlogSink forwards events to a slog.Logger, attempt failures at Warn and
// everything else at Info. Data keys are sorted for stable log output.
func SlogSink(logger *slog.Logger) Sink {
	return func(ev Event) {
		keys := make([]string, 0, len(ev.Data))
		for k := range ev.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		attrs := make([]any, 0, 2*len(keys))
		for _, k := range keys {
			attrs = append(attrs, k, ev.Data[k])
		}

		if ev.Kind == EventAttemptFailure {
			logger.Warn(string(ev.Kind), attrs...)
			return
		}
		logger.Info(string(ev.Kind), attrs...)
	}
}
