package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptsmith/internal/envelope"
	"promptsmith/internal/llm"
	"promptsmith/internal/schema"
)

const problemText = "Grow a B2B newsletter from 500 to 10k subscribers in six months."

// Persona reply that asks for clarification instead of inventing specifics.
// The output still has to satisfy the stage schema, so the profile carries
// placeholders.
const clarifyingPersona = `{
  "schema_version": "1.0",
  "task_state": "needs_clarification",
  "summary": "The problem statement is too vague to fit a persona.",
  "output": {
    "expert_profile": {
      "name": "",
      "title": "",
      "credentials": [],
      "experience": {"years": 0, "specialization": ""},
      "methodology": "",
      "notable_achievements": [],
      "guiding_principles": []
    }
  },
  "assumptions": ["target audience unknown"],
  "next_actions": [],
  "warnings": [],
  "errors": []
}`

func stageCalls(fake *llm.FakeClient, stage string) []llm.Call {
	var out []llm.Call
	for _, c := range fake.Calls() {
		if c.Stage == stage {
			out = append(out, c)
		}
	}
	return out
}

func TestRun_EmptyProblemNeverReachesClient(t *testing.T) {
	fake := llm.NewFakeClient()
	runner := NewRunner(fake)

	for _, problem := range []string{"", "   ", "\n\t"} {
		_, err := runner.Run(context.Background(), problem)
		require.ErrorIs(t, err, ErrInvalidInput)
	}
	assert.Empty(t, fake.Calls())
}

func TestRun_HappyPath(t *testing.T) {
	fake := llm.NewFakeClient()
	runner := NewRunner(fake)

	res, err := runner.Run(context.Background(), problemText)
	require.NoError(t, err)

	for id, raw := range map[schema.ID]json.RawMessage{
		schema.ExpertDesignV1: res.Persona,
		schema.MethodologyV1:  res.Methodology,
		schema.OptimizationV1: res.Optimized,
	} {
		env, err := envelope.Decode(raw, id)
		require.NoErrorf(t, err, "%s envelope", id)
		assert.Equal(t, envelope.TaskOK, env.TaskState)
	}

	calls := fake.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, StagePersona, calls[0].Stage)
	assert.Equal(t, StageMethodology, calls[1].Stage)
	assert.Equal(t, StageOptimize, calls[2].Stage)
	for _, c := range calls {
		assert.Contains(t, c.User, problemText)
	}
}

func TestRun_MethodologySeesOnlyTheProfile(t *testing.T) {
	fake := llm.NewFakeClient()
	runner := NewRunner(fake)

	_, err := runner.Run(context.Background(), problemText)
	require.NoError(t, err)

	calls := stageCalls(fake, StageMethodology)
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].User, "[EXPERT_PROFILE]")
	assert.Contains(t, calls[0].User, "Dr. Fake Expert")
	// The envelope scaffolding around the profile must not leak into the
	// prompt, or the model starts echoing it back.
	assert.NotContains(t, calls[0].User, "schema_version")
	assert.NotContains(t, calls[0].User, "next_actions")
}

func TestRun_OptimizeReceivesBothEnvelopesVerbatim(t *testing.T) {
	fake := llm.NewFakeClient()
	runner := NewRunner(fake)

	res, err := runner.Run(context.Background(), problemText)
	require.NoError(t, err)

	calls := stageCalls(fake, StageOptimize)
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].User, "[STEP1_ENVELOPE]")
	assert.Contains(t, calls[0].User, string(res.Persona))
	assert.Contains(t, calls[0].User, "[STEP2_ENVELOPE]")
	assert.Contains(t, calls[0].User, string(res.Methodology))
}

func TestRun_PersonaNeedsClarificationShortCircuitsMethodology(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.Responses = map[string]json.RawMessage{
		StagePersona: json.RawMessage(clarifyingPersona),
	}
	runner := NewRunner(fake)

	res, err := runner.Run(context.Background(), problemText)
	require.NoError(t, err, "short-circuit is a normal result, not a failure")

	assert.Empty(t, stageCalls(fake, StageMethodology), "skipped stage must not spend a completion call")
	require.Len(t, stageCalls(fake, StageOptimize), 1, "optimize always runs")

	env, err := envelope.Decode(res.Methodology, schema.MethodologyV1)
	require.NoError(t, err, "synthesized envelope must satisfy the stage schema")
	assert.Equal(t, envelope.TaskBlocked, env.TaskState)
	assert.Equal(t, []string{"Step1 task_state=needs_clarification. Resolve Step1 first."}, env.Errors)
	assert.Equal(t, []string{"target audience unknown"}, env.Assumptions, "assumptions are copied from the persona envelope")
}

func TestRun_PersonaTransportErrorAbortsRun(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.Err = &llm.UpstreamError{Err: errors.New("connection reset")}
	runner := NewRunner(fake)

	_, err := runner.Run(context.Background(), problemText)
	var upstream *llm.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Len(t, fake.Calls(), 1, "later stages must not run after a failure")
}

func TestRun_PersonaSchemaDriftAbortsRun(t *testing.T) {
	fake := llm.NewFakeClient()
	fake.Responses = map[string]json.RawMessage{
		StagePersona: json.RawMessage(`{"persona": "I am an expert"}`),
	}
	runner := NewRunner(fake)

	_, err := runner.Run(context.Background(), problemText)
	var violation *envelope.SchemaViolation
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, schema.ExpertDesignV1, violation.Schema)
	assert.Len(t, fake.Calls(), 1)
}

func TestRun_RepeatedRunsAreByteIdentical(t *testing.T) {
	runner := NewRunner(llm.NewFakeClient())

	first, err := runner.Run(context.Background(), problemText)
	require.NoError(t, err)
	second, err := runner.Run(context.Background(), problemText)
	require.NoError(t, err)

	assert.Equal(t, string(first.Persona), string(second.Persona))
	assert.Equal(t, string(first.Methodology), string(second.Methodology))
	assert.Equal(t, string(first.Optimized), string(second.Optimized))
}
