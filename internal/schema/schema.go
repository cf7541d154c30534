package schema

import (
	genai "google.golang.org/genai"
)

// EnvelopeVersion is the revision stamped into every envelope's schema_version.
const EnvelopeVersion = "1.0"

// ID names a registered stage schema. The version suffix is part of the
// identity so an incompatible revision can be registered alongside the old one.
type ID string

const (
	ExpertDesignV1 ID = "expert_design.v1"
	MethodologyV1  ID = "methodology_execution.v1"
	OptimizationV1 ID = "prompt_optimization.v1"
)

// TaskState values every stage must report.
var TaskStates = []string{"ok", "needs_clarification", "blocked"}

// Priorities allowed in next_actions entries.
var Priorities = []string{"low", "medium", "high"}

var registry = map[ID]*genai.Schema{
	ExpertDesignV1: envelope(expertDesignOutput),
	MethodologyV1:  envelope(methodologyOutput),
	OptimizationV1: envelope(optimizationOutput),
}

// Lookup returns the schema registered under id.
func Lookup(id ID) (*genai.Schema, bool) {
	s, ok := registry[id]
	return s, ok
}

// MustLookup panics on an unknown id; stage schemas are wired at compile time.
func MustLookup(id ID) *genai.Schema {
	s, ok := registry[id]
	if !ok {
		panic("schema: unknown id " + string(id))
	}
	return s
}

// envelope wraps a stage output schema with the shared scaffolding fields.
// Everything is required so a stage can never omit the state signal.
func envelope(output *genai.Schema) *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"schema_version": {Type: genai.TypeString, Description: "Envelope schema revision."},
			"task_state":     {Type: genai.TypeString, Enum: TaskStates},
			"summary":        {Type: genai.TypeString, Description: "One paragraph on what this step did."},
			"output":         output,
			"assumptions":    {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"next_actions":   {Type: genai.TypeArray, Items: nextAction},
			"warnings":       {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			"errors":         {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		},
		Required: []string{
			"schema_version", "task_state", "summary", "output",
			"assumptions", "next_actions", "warnings", "errors",
		},
	}
}

// nextAction entries are advisory; parameters stays an open object because its
// shape is whatever the model decided to suggest.
var nextAction = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"action":     {Type: genai.TypeString},
		"priority":   {Type: genai.TypeString, Enum: Priorities},
		"parameters": {Type: genai.TypeObject},
	},
	Required: []string{"action", "priority", "parameters"},
}

var expertDesignOutput = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"expert_profile": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"name":  {Type: genai.TypeString},
				"title": {Type: genai.TypeString},
				"credentials": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"degree_or_certification": {Type: genai.TypeString},
							"institution":             {Type: genai.TypeString},
						},
						Required: []string{"degree_or_certification", "institution"},
					},
				},
				"experience": {
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"years":          {Type: genai.TypeNumber},
						"specialization": {Type: genai.TypeString},
					},
					Required: []string{"years", "specialization"},
				},
				"methodology":          {Type: genai.TypeString},
				"notable_achievements": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				"guiding_principles":   {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			},
			Required: []string{
				"name", "title", "credentials", "experience",
				"methodology", "notable_achievements", "guiding_principles",
			},
		},
	},
	Required: []string{"expert_profile"},
}

var methodologyOutput = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"analysis": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"initial_assessment": {Type: genai.TypeString},
				"recommended_steps":  {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				"tactics":            {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				"metrics":            {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				"pitfalls_to_avoid":  {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			},
			Required: []string{
				"initial_assessment", "recommended_steps", "tactics",
				"metrics", "pitfalls_to_avoid",
			},
		},
	},
	Required: []string{"analysis"},
}

var optimizationOutput = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"optimized_prompt":          {Type: genai.TypeString},
		"recommended_system_prompt": {Type: genai.TypeString},
		"clarifying_questions":      {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"optimized_prompt", "recommended_system_prompt", "clarifying_questions"},
}
