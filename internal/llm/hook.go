package llm

import (
	"context"
	"encoding/json"

	genai "google.golang.org/genai"
)

// PromptHook observes every completion call, before and after.
type PromptHook interface {
	Before(ctx context.Context, stage, system, user string)
	After(ctx context.Context, stage string, raw json.RawMessage, err error)
}

type ctxKeyStage struct{}

// WithStage labels the context with the pipeline stage issuing the call.
// Clients and decorators use it for logging and canned responses.
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, ctxKeyStage{}, stage)
}

// StageFrom returns the stage label stored in the context.
func StageFrom(ctx context.Context) string {
	if v := ctx.Value(ctxKeyStage{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return "unknown"
}

// WithHook wraps base so hook observes each GenerateJSON call.
func WithHook(base Client, hook PromptHook) Client {
	return &hooked{base: base, hook: hook}
}

type hooked struct {
	base Client
	hook PromptHook
}

func (h *hooked) Name() string { return h.base.Name() }
func (h *hooked) Close() error { return h.base.Close() }

func (h *hooked) GenerateJSON(ctx context.Context, system, user string, schema *genai.Schema) (json.RawMessage, error) {
	stage := StageFrom(ctx)
	h.hook.Before(ctx, stage, system, user)
	raw, err := h.base.GenerateJSON(ctx, system, user, schema)
	h.hook.After(ctx, stage, raw, err)
	return raw, err
}
