package llm

import (
	"context"
	"encoding/json"
	"sync"

	genai "google.golang.org/genai"
)

// Call records one GenerateJSON invocation against the fake.
type Call struct {
	Stage  string
	System string
	User   string
}

// FakeClient returns deterministic canned envelopes per stage for offline
// runs and tests. It records every call so tests can assert which stages
// reached the provider and with what instructions.
type FakeClient struct {
	mu    sync.Mutex
	calls []Call

	// Responses overrides the canned payload per stage when set.
	Responses map[string]json.RawMessage
	// Err, when set, is returned from every call.
	Err error
}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

// Calls returns a copy of the recorded calls.
func (f *FakeClient) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *FakeClient) GenerateJSON(ctx context.Context, system, user string, _ *genai.Schema) (json.RawMessage, error) {
	stage := StageFrom(ctx)
	f.mu.Lock()
	f.calls = append(f.calls, Call{Stage: stage, System: system, User: user})
	f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	if raw, ok := f.Responses[stage]; ok {
		return raw, nil
	}

	var obj map[string]any
	switch stage {
	case "persona":
		obj = cannedEnvelope(map[string]any{
			"expert_profile": map[string]any{
				"name":  "Dr. Fake Expert",
				"title": "Principal Consultant",
				"credentials": []any{
					map[string]any{"degree_or_certification": "PhD", "institution": "Fake University"},
				},
				"experience": map[string]any{
					"years":          12,
					"specialization": "problem decomposition",
				},
				"methodology":          "structured interviews and iterative refinement",
				"notable_achievements": []string{"fake achievement"},
				"guiding_principles":   []string{"never guess"},
			},
		})
	case "methodology":
		obj = cannedEnvelope(map[string]any{
			"analysis": map[string]any{
				"initial_assessment": "fake assessment",
				"recommended_steps":  []string{"step one"},
				"tactics":            []string{"tactic one"},
				"metrics":            []string{"metric one"},
				"pitfalls_to_avoid":  []string{"pitfall one"},
			},
		})
	case "optimize":
		obj = cannedEnvelope(map[string]any{
			"optimized_prompt":          "fake optimized prompt",
			"recommended_system_prompt": "fake system prompt",
			"clarifying_questions":      []string{},
		})
	default:
		obj = map[string]any{}
	}
	b, _ := json.Marshal(obj)
	return json.RawMessage(b), nil
}

func cannedEnvelope(output map[string]any) map[string]any {
	return map[string]any{
		"schema_version": "1.0",
		"task_state":     "ok",
		"summary":        "fake stage output",
		"output":         output,
		"assumptions":    []string{},
		"next_actions":   []any{},
		"warnings":       []string{},
		"errors":         []string{},
	}
}
