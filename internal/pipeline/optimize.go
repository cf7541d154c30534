package pipeline

import (
	"context"

	"promptsmith/internal/envelope"
	"promptsmith/internal/llm"
	"promptsmith/internal/prompt"
	"promptsmith/internal/schema"
)

const optimizeSystem = `You are a prompt engineering specialist. Turn the problem statement
and the two step envelopes into a production-ready prompt for a downstream
generative AI model.

STEP1_ENVELOPE holds the designed expert persona; STEP2_ENVELOPE holds that
expert's analysis. Treat both as ground truth: build on them, do not
contradict or re-derive them.

Produce:
- optimized_prompt: the deliverable, a complete prompt embedding the persona
  and the analysis so a downstream model can act as that expert
- recommended_system_prompt: the system prompt to pair with it
- clarifying_questions: questions for the requester, empty when none remain

Rules:
- Respond with STRICT JSON matching the response schema. No prose outside it.
- If either envelope reports needs_clarification or blocked, or its content
  shows information is missing, set task_state to "needs_clarification" and
  populate clarifying_questions with what the requester must answer.
- Still produce the best optimized_prompt the available inputs allow.
`

// Optimize produces the final optimized prompt. It always runs, even after a
// short-circuited methodology step: the envelopes themselves tell it what is
// missing, and it turns that into clarifying questions.
type Optimize struct{ LLM llm.Client }

func (o *Optimize) Run(ctx context.Context, problem string, persona, methodology *envelope.Envelope) (*envelope.Envelope, error) {
	var b prompt.Builder
	user, err := b.
		Section("PROBLEM", problem).
		Section("STEP1_ENVELOPE", string(persona.Raw)).
		Section("STEP2_ENVELOPE", string(methodology.Raw)).
		Build()
	if err != nil {
		return nil, err
	}
	ctx = llm.WithStage(ctx, StageOptimize)
	raw, err := o.LLM.GenerateJSON(ctx, optimizeSystem, user, schema.MustLookup(schema.OptimizationV1))
	if err != nil {
		return nil, err
	}
	return envelope.Decode(raw, schema.OptimizationV1)
}
