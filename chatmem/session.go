package chatmem

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/memchat/memchat/llmcall"
)

// ErrRateLimited is returned by Submit when the per-minute request budget
// is spent. The conversation state is untouched; the caller may retry after
// the reported wait.
var ErrRateLimited = errors.New("rate limit exceeded")

// SessionConfig holds configuration for a Session.
type SessionConfig struct {
	WindowCapacity    int
	RetryPolicy       llmcall.RetryPolicy
	Classifier        llmcall.Classifier // nil = llmcall.DefaultClassifier
	RequestsPerMinute int                // 0 disables client-side rate limiting
	Logger            *slog.Logger       // nil discards logs
}

// DefaultSessionConfig returns the default configuration.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		WindowCapacity:    DefaultCapacity,
		RetryPolicy:       llmcall.DefaultRetryPolicy(),
		RequestsPerMinute: 10,
	}
}

// Session owns one conversation: its window, its retrying caller, and the
// remote call it drives.
type Session struct {
	id      string
	window  *Window
	caller  *llmcall.Caller
	call    llmcall.RemoteCall
	limiter *llmcall.RateLimiter
	logger  *slog.Logger
}

// NewSession creates a Session around the given remote call. A nil config
// uses DefaultSessionConfig.
func NewSession(call llmcall.RemoteCall, config *SessionConfig) *Session {
	cfg := DefaultSessionConfig()
	if config != nil {
		cfg = *config
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Session{
		id:     uuid.New().String(),
		window: NewWindow(cfg.WindowCapacity),
		call:   call,
		logger: logger,
	}
	s.logger = s.logger.With("session_id", s.id)
	s.caller = llmcall.NewCaller(cfg.RetryPolicy, cfg.Classifier, llmcall.SlogSink(s.logger))
	if cfg.RequestsPerMinute > 0 {
		s.limiter = llmcall.NewRateLimiter(cfg.RequestsPerMinute)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Window returns the session's conversation window.
func (s *Session) Window() *Window { return s.window }

// Submit runs one chat exchange: build the prompt from retained history,
// execute the remote call with retry, and on success append the new turn.
// Terminal failures leave the window unchanged and are returned to the
// caller, who decides user-visible behavior.
func (s *Session) Submit(ctx context.Context, userInput string) (string, error) {
	if s.limiter != nil && !s.limiter.Allow() {
		wait := s.limiter.TimeUntilAvailable()
		s.logger.Warn("request rate limited", "retry_in", wait)
		return "", fmt.Errorf("%w: retry in %s", ErrRateLimited, wait.Round(time.Second))
	}

	prompt := BuildPrompt(s.window, userInput)
	s.logger.Info("submitting user input",
		"input_length", len(userInput),
		"context_messages", len(prompt)-2)

	response, err := s.caller.Execute(ctx, prompt, s.call)
	if err != nil {
		s.logger.Error("exchange failed", "error", err)
		return "", err
	}

	turn := s.window.Append(userInput, response)
	s.logger.Info("turn completed",
		"turn", turn.Index,
		"response_length", len(response))
	return response, nil
}

// History returns the retained turns, oldest first.
func (s *Session) History() []Turn {
	return s.window.Turns()
}

// Status reports the window's fill state.
func (s *Session) Status() WindowStatus {
	return s.window.Status()
}

// RateLimit reports the rate limiter state, or ok=false when rate limiting
// is disabled.
func (s *Session) RateLimit() (llmcall.RateLimitStatus, bool) {
	if s.limiter == nil {
		return llmcall.RateLimitStatus{}, false
	}
	return s.limiter.Status(), true
}

// Clear empties the conversation window. Turn indices are not reset.
func (s *Session) Clear() {
	cleared := s.window.Status().TurnCount
	s.window.Clear()
	s.logger.Info("conversation cleared", "previous_turns", cleared)
}
