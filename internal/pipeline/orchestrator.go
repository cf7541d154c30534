package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"promptsmith/internal/envelope"
	"promptsmith/internal/llm"
)

// Stage labels carried in context for logging, hooks, and canned responses.
const (
	StagePersona     = "persona"
	StageMethodology = "methodology"
	StageOptimize    = "optimize"
)

// ErrInvalidInput is returned when the problem text is empty after trimming.
// The pipeline never reaches the network in that case.
var ErrInvalidInput = errors.New("pipeline: problem text is empty")

// Result holds the three stage envelopes' serialized text, in stage order.
// Callers outside the pipeline only need display-ready JSON; keeping this
// contract opaque avoids coupling them to the envelope schema version.
type Result struct {
	Persona     json.RawMessage `json:"persona"`
	Methodology json.RawMessage `json:"methodology"`
	Optimized   json.RawMessage `json:"optimized_prompt"`
}

// Runner sequences the three stages over one shared completion client.
// It is stateless across invocations and safe for concurrent use.
type Runner struct {
	persona     Persona
	methodology Methodology
	optimize    Optimize
}

func NewRunner(cli llm.Client) *Runner {
	return &Runner{
		persona:     Persona{LLM: cli},
		methodology: Methodology{LLM: cli},
		optimize:    Optimize{LLM: cli},
	}
}

// Run executes persona → methodology → optimize for one problem statement.
//
// The methodology stage is conditioned on the persona outcome: anything but
// "ok" short-circuits it into a locally synthesized blocked envelope without
// a completion call. That branch is a normal result, not a failure. Any
// transport or validation failure aborts the whole run; there is no partial
// result.
func (r *Runner) Run(ctx context.Context, problem string) (*Result, error) {
	problem = strings.TrimSpace(problem)
	if problem == "" {
		return nil, ErrInvalidInput
	}

	personaEnv, err := r.persona.Run(ctx, problem)
	if err != nil {
		return nil, err
	}

	var methodologyEnv *envelope.Envelope
	if personaEnv.TaskState != envelope.TaskOK {
		methodologyEnv, err = r.methodology.Skip(personaEnv)
	} else {
		var design envelope.ExpertDesignOutput
		design, err = personaEnv.ExpertDesign()
		if err != nil {
			return nil, err
		}
		methodologyEnv, err = r.methodology.Run(ctx, problem, design.ExpertProfile)
	}
	if err != nil {
		return nil, err
	}

	optimizedEnv, err := r.optimize.Run(ctx, problem, personaEnv, methodologyEnv)
	if err != nil {
		return nil, err
	}

	return &Result{
		Persona:     personaEnv.Raw,
		Methodology: methodologyEnv.Raw,
		Optimized:   optimizedEnv.Raw,
	}, nil
}
