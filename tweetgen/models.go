// Package tweetgen generates short social posts as strict JSON through the
// retrying call machinery, validating both the request and the model's
// claimed output before accepting it.
package tweetgen

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Request describes the tweet to generate.
type Request struct {
	Topic    string `json:"topic" validate:"required,min=2,max=100"`
	Tone     string `json:"tone" validate:"required,oneof=professional humorous casual excited informative sarcastic"`
	MaxWords int    `json:"max_words" validate:"required,gte=5,lte=50"`
}

// Validate checks the request against its field constraints.
func (r Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid tweet request: %w", err)
	}
	return nil
}

// Tweet is the validated model output.
type Tweet struct {
	Tweet     string `json:"tweet" validate:"required,min=1,max=280"`
	WordCount int    `json:"word_count" validate:"required,gt=0"`
	Sentiment string `json:"sentiment" validate:"required,oneof=positive negative neutral"`
}

// wordCountTolerance allows the model's claimed count to be slightly off.
const wordCountTolerance = 2

// Validate checks field constraints and that the claimed word count is
// within tolerance of the actual count.
func (t Tweet) Validate() error {
	if strings.TrimSpace(t.Tweet) == "" {
		return fmt.Errorf("tweet cannot be empty")
	}
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("invalid tweet: %w", err)
	}

	actual := len(strings.Fields(t.Tweet))
	diff := t.WordCount - actual
	if diff < 0 {
		diff = -diff
	}
	if diff > wordCountTolerance {
		return fmt.Errorf("word count mismatch: claimed %d, actual %d", t.WordCount, actual)
	}
	return nil
}

// Result wraps the outcome of a generation round trip.
type Result struct {
	Success    bool   `json:"success"`
	Data       *Tweet `json:"data,omitempty"`
	Error      string `json:"error,omitempty"`
	RetryCount int    `json:"retry_count"`
}
