package llm

import (
	"context"
	"encoding/json"
	"errors"

	genai "google.golang.org/genai"
)

// ErrEmptyCompletion is returned when the provider answered without any
// candidate text.
var ErrEmptyCompletion = errors.New("llm: empty completion from provider")

// Client is the single outbound capability the pipeline depends on: given a
// system instruction and a user instruction, return the raw text the model
// produced. The schema is forwarded to the provider as a response-format
// hint only; callers must not assume the returned text honors it.
type Client interface {
	Name() string
	GenerateJSON(ctx context.Context, system, user string, schema *genai.Schema) (json.RawMessage, error)
	Close() error
}

// UpstreamError marks a transport failure or provider-side error. It wraps
// the provider's own error detail.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string { return "llm upstream: " + e.Err.Error() }
func (e *UpstreamError) Unwrap() error { return e.Err }

func upstream(err error) error {
	return &UpstreamError{Err: err}
}
