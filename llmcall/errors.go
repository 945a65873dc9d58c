package llmcall

import "fmt"

// CallError is the base error type for all remote call failures.
type CallError struct {
	Message string
	Cause   error
}

func (e *CallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CallError) Unwrap() error {
	return e.Cause
}

// ProviderError represents a failure reported by the hosted model API.
type ProviderError struct {
	CallError
	StatusCode int
	Retryable  bool
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s (status=%d, retryable=%v)", e.Message, e.StatusCode, e.Retryable)
}

// Concrete provider error types.

type AuthenticationError struct{ ProviderError }
type AccessDeniedError struct{ ProviderError }
type NotFoundError struct{ ProviderError }
type InvalidRequestError struct{ ProviderError }
type RateLimitError struct{ ProviderError }
type ServerError struct{ ProviderError }

// Non-provider failures.

type RequestTimeoutError struct{ CallError }
type NetworkError struct{ CallError }

// ErrorFromStatusCode maps an HTTP status code to the appropriate error type.
func ErrorFromStatusCode(statusCode int, message string) error {
	pe := ProviderError{
		CallError:  CallError{Message: message},
		StatusCode: statusCode,
	}

	switch statusCode {
	case 400, 422:
		return &InvalidRequestError{ProviderError: pe}
	case 401:
		return &AuthenticationError{ProviderError: pe}
	case 403:
		return &AccessDeniedError{ProviderError: pe}
	case 404:
		return &NotFoundError{ProviderError: pe}
	case 408:
		return &RequestTimeoutError{CallError: CallError{Message: message}}
	case 429:
		pe.Retryable = true
		return &RateLimitError{ProviderError: pe}
	default:
		if statusCode >= 500 && statusCode < 600 {
			pe.Retryable = true
			return &ServerError{ProviderError: pe}
		}
		if statusCode >= 400 && statusCode < 500 {
			return &InvalidRequestError{ProviderError: pe}
		}
		// Unknown status codes default to retryable.
		pe.Retryable = true
		return &pe
	}
}

// IsRetryable returns true if the error is safe to retry: 5xx responses,
// rate limits, timeouts, and connection failures. Client-side failures
// (4xx, malformed requests, auth) are not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	switch e := err.(type) {
	case *AuthenticationError:
		return false
	case *AccessDeniedError:
		return false
	case *NotFoundError:
		return false
	case *InvalidRequestError:
		return false
	case *RateLimitError:
		return true
	case *ServerError:
		return true
	case *RequestTimeoutError:
		return true
	case *NetworkError:
		return true
	case *ProviderError:
		return e.Retryable
	default:
		// Unknown errors default to retryable.
		return true
	}
}

// TerminalReason tags the final outcome of an Execute call.
type TerminalReason string

const (
	TerminalFatal     TerminalReason = "fatal"
	TerminalExhausted TerminalReason = "exhausted"
	TerminalCancelled TerminalReason = "cancelled"
)

// TerminalError is the error Caller.Execute returns once no further attempts
// will occur. It wraps the failure of the last attempt that ran.
type TerminalError struct {
	Reason   TerminalReason
	Attempts int
	Cause    error
}

func (e *TerminalError) Error() string {
	return fmt.Sprintf("call failed (%s) after %d attempt(s): %v", e.Reason, e.Attempts, e.Cause)
}

func (e *TerminalError) Unwrap() error {
	return e.Cause
}
