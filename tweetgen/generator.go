package tweetgen

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/memchat/memchat/llmcall"
)

// DefaultValidationRetries is how many extra rounds a Generator runs when
// the model's output fails parsing or validation.
const DefaultValidationRetries = 2

// Generator produces validated tweets. Transport failures are retried by
// the llmcall.Caller inside each round; malformed or invalid model output
// retries the whole round up to the validation budget.
type Generator struct {
	caller            *llmcall.Caller
	call              llmcall.RemoteCall
	validationRetries int
	logger            *slog.Logger
}

// NewGenerator creates a Generator around the given remote call. A nil
// logger discards logs.
func NewGenerator(call llmcall.RemoteCall, policy llmcall.RetryPolicy, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Generator{
		caller:            llmcall.NewCaller(policy, nil, llmcall.SlogSink(logger)),
		call:              call,
		validationRetries: DefaultValidationRetries,
		logger:            logger,
	}
}

// SetValidationRetries overrides the validation retry budget.
func (g *Generator) SetValidationRetries(n int) {
	if n < 0 {
		n = 0
	}
	g.validationRetries = n
}

const promptFormat = `You are a JSON-only API. Generate a %s tweet about %q.

CRITICAL REQUIREMENTS:
1. Respond ONLY with valid JSON (no explanations, no markdown, no backticks)
2. Count words EXACTLY - be precise with the word_count field
3. Use at most %d words in the tweet

Required JSON format:
{
    "tweet": "your tweet here",
    "word_count": %d,
    "sentiment": "positive|negative|neutral"
}

JSON response:`

func buildPrompt(req Request) llmcall.Prompt {
	return llmcall.Prompt{
		llmcall.UserMessage(fmt.Sprintf(promptFormat, req.Tone, req.Topic, req.MaxWords, req.MaxWords)),
	}
}

// extractJSON pulls the outermost JSON object out of raw model output,
// tolerating surrounding prose or markdown fences.
func extractJSON(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return raw[start : end+1], nil
}

func parseTweet(raw string) (*Tweet, error) {
	body, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	var tweet Tweet
	if err := json.Unmarshal([]byte(body), &tweet); err != nil {
		return nil, fmt.Errorf("invalid JSON format: %w", err)
	}
	tweet.Tweet = strings.TrimSpace(tweet.Tweet)

	if err := tweet.Validate(); err != nil {
		return nil, err
	}
	return &tweet, nil
}

// Generate runs generation rounds until a round produces a valid tweet or
// the validation budget is spent. RetryCount reports how many rounds
// failed before the outcome.
func (g *Generator) Generate(ctx context.Context, req Request) Result {
	if err := req.Validate(); err != nil {
		return Result{Error: err.Error()}
	}

	prompt := buildPrompt(req)
	retryCount := 0
	var lastErr error

	for round := 0; round <= g.validationRetries; round++ {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}

		raw, err := g.caller.Execute(ctx, prompt, g.call)
		if err != nil {
			lastErr = err
			retryCount++
			g.logger.Warn("tweet generation round failed",
				"round", round+1, "error", err.Error())
			continue
		}

		tweet, err := parseTweet(raw)
		if err != nil {
			lastErr = err
			retryCount++
			g.logger.Warn("tweet validation failed",
				"round", round+1, "error", err.Error())
			continue
		}

		g.logger.Info("tweet generated",
			"round", round+1, "retry_count", retryCount, "words", tweet.WordCount)
		return Result{Success: true, Data: tweet, RetryCount: retryCount}
	}

	return Result{
		Error:      fmt.Sprintf("failed after %d attempts: %v", g.validationRetries+1, lastErr),
		RetryCount: retryCount,
	}
}
