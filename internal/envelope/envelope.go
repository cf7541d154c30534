package envelope

import (
	"encoding/json"
	"fmt"
)

// TaskState is the outcome signal every stage must report.
type TaskState string

const (
	TaskOK                 TaskState = "ok"
	TaskNeedsClarification TaskState = "needs_clarification"
	TaskBlocked            TaskState = "blocked"
)

// NextAction is an advisory follow-up suggested by a stage. Parameters is an
// open bag; its shape is whatever the model decided to put there.
type NextAction struct {
	Action     string         `json:"action"`
	Priority   string         `json:"priority"`
	Parameters map[string]any `json:"parameters"`
}

// Envelope is the canonical structure every stage emits. Output stays raw
// here; the stage-specific accessors below decode it. Once decoded an
// envelope is read-only: downstream stages consume it, never rewrite it.
type Envelope struct {
	SchemaVersion string          `json:"schema_version"`
	TaskState     TaskState       `json:"task_state"`
	Summary       string          `json:"summary"`
	Output        json.RawMessage `json:"output"`
	Assumptions   []string        `json:"assumptions"`
	NextActions   []NextAction    `json:"next_actions"`
	Warnings      []string        `json:"warnings"`
	Errors        []string        `json:"errors"`

	// Raw is the canonical serialized form the envelope was decoded from.
	Raw json.RawMessage `json:"-"`
}

// Credential is one education entry in an expert profile.
type Credential struct {
	DegreeOrCertification string `json:"degree_or_certification"`
	Institution           string `json:"institution"`
}

// Experience summarizes an expert's professional background.
type Experience struct {
	Years          float64 `json:"years"`
	Specialization string  `json:"specialization"`
}

// ExpertProfile is the persona the first stage designs for the problem.
type ExpertProfile struct {
	Name                string       `json:"name"`
	Title               string       `json:"title"`
	Credentials         []Credential `json:"credentials"`
	Experience          Experience   `json:"experience"`
	Methodology         string       `json:"methodology"`
	NotableAchievements []string     `json:"notable_achievements"`
	GuidingPrinciples   []string     `json:"guiding_principles"`
}

// ExpertDesignOutput is the persona stage's payload.
type ExpertDesignOutput struct {
	ExpertProfile ExpertProfile `json:"expert_profile"`
}

// Analysis is the methodology stage's worked application of the persona's
// approach to the problem.
type Analysis struct {
	InitialAssessment string   `json:"initial_assessment"`
	RecommendedSteps  []string `json:"recommended_steps"`
	Tactics           []string `json:"tactics"`
	Metrics           []string `json:"metrics"`
	PitfallsToAvoid   []string `json:"pitfalls_to_avoid"`
}

// MethodologyOutput is the methodology stage's payload.
type MethodologyOutput struct {
	Analysis Analysis `json:"analysis"`
}

// OptimizationOutput carries the final deliverable.
type OptimizationOutput struct {
	OptimizedPrompt         string   `json:"optimized_prompt"`
	RecommendedSystemPrompt string   `json:"recommended_system_prompt"`
	ClarifyingQuestions     []string `json:"clarifying_questions"`
}

// ExpertDesign decodes the envelope's output as the persona payload.
func (e *Envelope) ExpertDesign() (ExpertDesignOutput, error) {
	var out ExpertDesignOutput
	if err := json.Unmarshal(e.Output, &out); err != nil {
		return ExpertDesignOutput{}, fmt.Errorf("envelope: expert design output: %w", err)
	}
	return out, nil
}

// MethodologyExecution decodes the envelope's output as the analysis payload.
func (e *Envelope) MethodologyExecution() (MethodologyOutput, error) {
	var out MethodologyOutput
	if err := json.Unmarshal(e.Output, &out); err != nil {
		return MethodologyOutput{}, fmt.Errorf("envelope: methodology output: %w", err)
	}
	return out, nil
}

// PromptOptimization decodes the envelope's output as the optimizer payload.
func (e *Envelope) PromptOptimization() (OptimizationOutput, error) {
	var out OptimizationOutput
	if err := json.Unmarshal(e.Output, &out); err != nil {
		return OptimizationOutput{}, fmt.Errorf("envelope: optimization output: %w", err)
	}
	return out, nil
}
