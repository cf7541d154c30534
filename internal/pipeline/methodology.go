package pipeline

import (
	"context"
	"fmt"

	"promptsmith/internal/envelope"
	"promptsmith/internal/jsonutil"
	"promptsmith/internal/llm"
	"promptsmith/internal/prompt"
	"promptsmith/internal/schema"
)

const methodologySystem = `You are the expert described in EXPERT_PROFILE. Apply your stated
methodology to the problem and produce a concrete analysis.

The analysis must contain:
- initial_assessment: your read of the problem
- recommended_steps: the ordered steps you would take
- tactics: concrete techniques supporting those steps
- metrics: how progress and success would be measured
- pitfalls_to_avoid: mistakes someone with less experience would make

Rules:
- Respond with STRICT JSON matching the response schema. No prose outside it.
- Stay inside the profile you were given. Do not invent credentials,
  experience, or expertise beyond what EXPERT_PROFILE states.
- Never guess. If the problem lacks information your methodology needs, set
  task_state to "needs_clarification" and list the gaps in assumptions.
- Set task_state to "blocked" and populate errors only when the analysis
  cannot be performed at all.
`

// Methodology runs the designed expert's methodology against the problem.
// It receives only the expert_profile sub-object, not the whole persona
// envelope: that keeps the prompt small and stops the model from inventing
// credentials beyond what the first stage set.
type Methodology struct{ LLM llm.Client }

func (m *Methodology) Run(ctx context.Context, problem string, profile envelope.ExpertProfile) (*envelope.Envelope, error) {
	var b prompt.Builder
	user, err := b.
		Section("PROBLEM", problem).
		JSONSection("EXPERT_PROFILE", profile).
		Build()
	if err != nil {
		return nil, err
	}
	ctx = llm.WithStage(ctx, StageMethodology)
	raw, err := m.LLM.GenerateJSON(ctx, methodologySystem, user, schema.MustLookup(schema.MethodologyV1))
	if err != nil {
		return nil, err
	}
	return envelope.Decode(raw, schema.MethodologyV1)
}

// Skip synthesizes the blocked envelope for the short-circuit path: a broken
// persona step never spends a completion call here. The output carries
// zero-value placeholders so the envelope still satisfies the stage schema,
// and assumptions are copied verbatim from the persona envelope so the
// caller sees what is missing.
func (m *Methodology) Skip(persona *envelope.Envelope) (*envelope.Envelope, error) {
	analysis, err := jsonutil.MarshalNoEscape(envelope.MethodologyOutput{
		Analysis: envelope.Analysis{
			RecommendedSteps: []string{},
			Tactics:          []string{},
			Metrics:          []string{},
			PitfallsToAvoid:  []string{},
		},
	})
	if err != nil {
		return nil, err
	}

	assumptions := persona.Assumptions
	if assumptions == nil {
		assumptions = []string{}
	}
	env := &envelope.Envelope{
		SchemaVersion: schema.EnvelopeVersion,
		TaskState:     envelope.TaskBlocked,
		Summary:       "Methodology execution was skipped because the persona step did not complete.",
		Output:        analysis,
		Assumptions:   assumptions,
		NextActions:   []envelope.NextAction{},
		Warnings:      []string{},
		Errors:        []string{fmt.Sprintf("Step1 task_state=%s. Resolve Step1 first.", persona.TaskState)},
	}
	raw, err := jsonutil.MarshalNoEscape(env)
	if err != nil {
		return nil, err
	}
	env.Raw = raw
	return env, nil
}
