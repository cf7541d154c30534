package pipeline

import (
	"context"

	"promptsmith/internal/envelope"
	"promptsmith/internal/llm"
	"promptsmith/internal/prompt"
	"promptsmith/internal/schema"
)

const personaSystem = `You are an expert persona designer. Given a problem statement, invent
the one expert persona most precisely fitted to solving it.

The expert_profile you design must cover all six facets:
1. name and title
2. education (degrees or certifications, with institutions)
3. experience (years and specialization)
4. methodology (how this expert approaches problems, in their own words)
5. notable achievements
6. guiding principles

Rules:
- Respond with STRICT JSON matching the response schema. No prose outside it.
- Fit the persona to the problem as stated; do not generalize it.
- Never guess. If the problem statement is too vague to determine a facet,
  set task_state to "needs_clarification" and list what you need in
  assumptions instead of inventing specifics.
- Set task_state to "blocked" and populate errors only when no meaningful
  persona can be designed at all.
- summary is one short paragraph describing the persona and why it fits.
`

// Persona designs the expert persona for the problem. Always the first
// stage; it sees only the raw problem text.
type Persona struct{ LLM llm.Client }

func (p *Persona) Run(ctx context.Context, problem string) (*envelope.Envelope, error) {
	var b prompt.Builder
	user, err := b.Section("PROBLEM", problem).Build()
	if err != nil {
		return nil, err
	}
	ctx = llm.WithStage(ctx, StagePersona)
	raw, err := p.LLM.GenerateJSON(ctx, personaSystem, user, schema.MustLookup(schema.ExpertDesignV1))
	if err != nil {
		return nil, err
	}
	return envelope.Decode(raw, schema.ExpertDesignV1)
}
