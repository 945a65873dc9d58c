package llmcall

import (
	"context"
	"fmt"
	"strings"

	"github.com/teilomillet/gollm"
)

// GollmCaller adapts a gollm.LLM instance to the RemoteCall contract. It
// flattens the (role, text) prompt into gollm's single-prompt API and
// translates provider failures into the package error taxonomy.
type GollmCaller struct {
	provider string
	llm      gollm.LLM
}

// GollmOption configures a GollmCaller.
type GollmOption func(*gollmConfig)

type gollmConfig struct {
	apiKey      string
	maxTokens   int
	temperature float64
	extraOpts   []gollm.ConfigOption
}

// WithAPIKey sets the API key. When empty, gollm reads it from the
// provider's environment variable.
func WithAPIKey(key string) GollmOption {
	return func(c *gollmConfig) {
		c.apiKey = key
	}
}

// WithMaxTokens sets the response token limit.
func WithMaxTokens(n int) GollmOption {
	return func(c *gollmConfig) {
		c.maxTokens = n
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) GollmOption {
	return func(c *gollmConfig) {
		c.temperature = t
	}
}

// WithGollmOptions adds extra gollm configuration options.
func WithGollmOptions(opts ...gollm.ConfigOption) GollmOption {
	return func(c *gollmConfig) {
		c.extraOpts = append(c.extraOpts, opts...)
	}
}

// NewGollmCaller creates a GollmCaller for the given provider and model.
func NewGollmCaller(provider, model string, opts ...GollmOption) (*GollmCaller, error) {
	cfg := &gollmConfig{
		maxTokens:   1024,
		temperature: 0.7,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	gollmOpts := []gollm.ConfigOption{
		gollm.SetProvider(provider),
		gollm.SetModel(model),
		gollm.SetMaxTokens(cfg.maxTokens),
		gollm.SetTemperature(cfg.temperature),
		gollm.SetMaxRetries(0), // the Caller owns retry behavior
		gollm.SetLogLevel(gollm.LogLevelWarn),
	}
	if cfg.apiKey != "" {
		gollmOpts = append(gollmOpts, gollm.SetAPIKey(cfg.apiKey))
	}
	gollmOpts = append(gollmOpts, cfg.extraOpts...)

	llm, err := gollm.NewLLM(gollmOpts...)
	if err != nil {
		return nil, &CallError{
			Message: fmt.Sprintf("failed to create %s client", provider),
			Cause:   err,
		}
	}

	return &GollmCaller{provider: provider, llm: llm}, nil
}

// NewGollmCallerFromLLM wraps an existing gollm.LLM instance.
func NewGollmCallerFromLLM(provider string, llm gollm.LLM) *GollmCaller {
	return &GollmCaller{provider: provider, llm: llm}
}

// Provider returns the provider identifier.
func (g *GollmCaller) Provider() string {
	return g.provider
}

// Call implements RemoteCall. It sends the flattened prompt and returns the
// trimmed response text.
func (g *GollmCaller) Call(ctx context.Context, prompt Prompt) (string, error) {
	text := prompt.Flatten()
	if text == "" {
		text = "Hello"
	}

	promptOpts := []gollm.PromptOption{}
	if system := prompt.System(); system != "" {
		promptOpts = append(promptOpts, gollm.WithSystemPrompt(system, gollm.CacheTypeEphemeral))
	}

	response, err := g.llm.Generate(ctx, gollm.NewPrompt(text, promptOpts...))
	if err != nil {
		return "", g.translateError(err)
	}
	return strings.TrimSpace(response), nil
}

// translateError converts a gollm error into the package error hierarchy.
// gollm surfaces provider failures as strings, so classification falls back
// to message content.
func (g *GollmCaller) translateError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	msgLower := strings.ToLower(msg)

	base := CallError{Message: msg, Cause: err}
	provider := func(status int, retryable bool) ProviderError {
		return ProviderError{CallError: base, StatusCode: status, Retryable: retryable}
	}

	switch {
	case strings.Contains(msgLower, "401") || strings.Contains(msgLower, "unauthorized") || strings.Contains(msgLower, "invalid api key"):
		return &AuthenticationError{ProviderError: provider(401, false)}
	case strings.Contains(msgLower, "403") || strings.Contains(msgLower, "forbidden"):
		return &AccessDeniedError{ProviderError: provider(403, false)}
	case strings.Contains(msgLower, "404") || strings.Contains(msgLower, "not found"):
		return &NotFoundError{ProviderError: provider(404, false)}
	case strings.Contains(msgLower, "429") || strings.Contains(msgLower, "rate limit"):
		return &RateLimitError{ProviderError: provider(429, true)}
	case strings.Contains(msgLower, "400") || strings.Contains(msgLower, "invalid request") || strings.Contains(msgLower, "malformed"):
		return &InvalidRequestError{ProviderError: provider(400, false)}
	case strings.Contains(msgLower, "500") || strings.Contains(msgLower, "502") || strings.Contains(msgLower, "503") || strings.Contains(msgLower, "internal server"):
		return &ServerError{ProviderError: provider(500, true)}
	case strings.Contains(msgLower, "timeout") || strings.Contains(msgLower, "deadline exceeded"):
		return &RequestTimeoutError{CallError: base}
	case strings.Contains(msgLower, "connection refused") || strings.Contains(msgLower, "no such host") || strings.Contains(msgLower, "connection reset"):
		return &NetworkError{CallError: base}
	default:
		// Unknown provider failures default to retryable.
		pe := provider(0, true)
		return &pe
	}
}
