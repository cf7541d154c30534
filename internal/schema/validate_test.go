package schema

import (
	"strings"
	"testing"
)

const validExpertDesign = `{
  "schema_version": "1.0",
  "task_state": "ok",
  "summary": "Designed a persona.",
  "output": {
    "expert_profile": {
      "name": "Dr. A",
      "title": "Consultant",
      "credentials": [{"degree_or_certification": "PhD", "institution": "MIT"}],
      "experience": {"years": 10, "specialization": "marketing"},
      "methodology": "interviews",
      "notable_achievements": ["a"],
      "guiding_principles": ["b"]
    }
  },
  "assumptions": [],
  "next_actions": [{"action": "review", "priority": "low", "parameters": {"anything": ["goes", 1]}}],
  "warnings": [],
  "errors": []
}`

func TestValidate_AcceptsWellFormedEnvelope(t *testing.T) {
	if err := Validate([]byte(validExpertDesign), MustLookup(ExpertDesignV1)); err != nil {
		t.Fatalf("expected valid envelope, got %v", err)
	}
}

func TestValidate_RejectsUndeclaredField(t *testing.T) {
	doc := strings.Replace(validExpertDesign, `"schema_version"`, `"extra_field": true, "schema_version"`, 1)
	err := Validate([]byte(doc), MustLookup(ExpertDesignV1))
	if err == nil || !strings.Contains(err.Error(), "undeclared field") {
		t.Fatalf("expected undeclared field error, got %v", err)
	}
}

func TestValidate_RejectsMissingRequiredField(t *testing.T) {
	doc := strings.Replace(validExpertDesign, `"summary": "Designed a persona.",`, ``, 1)
	err := Validate([]byte(doc), MustLookup(ExpertDesignV1))
	if err == nil || !strings.Contains(err.Error(), `missing required field "summary"`) {
		t.Fatalf("expected missing field error, got %v", err)
	}
}

func TestValidate_RejectsNestedUndeclaredField(t *testing.T) {
	doc := strings.Replace(validExpertDesign, `"name": "Dr. A",`, `"name": "Dr. A", "hallucinated": "yes",`, 1)
	err := Validate([]byte(doc), MustLookup(ExpertDesignV1))
	if err == nil || !strings.Contains(err.Error(), "hallucinated") {
		t.Fatalf("expected nested undeclared field error, got %v", err)
	}
}

func TestValidate_RejectsBadEnumValue(t *testing.T) {
	doc := strings.Replace(validExpertDesign, `"task_state": "ok"`, `"task_state": "done"`, 1)
	err := Validate([]byte(doc), MustLookup(ExpertDesignV1))
	if err == nil || !strings.Contains(err.Error(), "task_state") {
		t.Fatalf("expected enum error, got %v", err)
	}
}

func TestValidate_RejectsWrongType(t *testing.T) {
	doc := strings.Replace(validExpertDesign, `"years": 10`, `"years": "ten"`, 1)
	err := Validate([]byte(doc), MustLookup(ExpertDesignV1))
	if err == nil || !strings.Contains(err.Error(), "expected number") {
		t.Fatalf("expected type error, got %v", err)
	}
}

func TestValidate_ParametersStayOpen(t *testing.T) {
	doc := strings.Replace(validExpertDesign,
		`"parameters": {"anything": ["goes", 1]}`,
		`"parameters": {"deeply": {"nested": {"free": "form"}}}`, 1)
	if err := Validate([]byte(doc), MustLookup(ExpertDesignV1)); err != nil {
		t.Fatalf("expected open parameters to validate, got %v", err)
	}
}

func TestValidate_RejectsNonJSON(t *testing.T) {
	err := Validate([]byte("I am not JSON"), MustLookup(ExpertDesignV1))
	if err == nil || !strings.Contains(err.Error(), "not valid JSON") {
		t.Fatalf("expected JSON syntax error, got %v", err)
	}
}

func TestLookup_KnowsAllStageSchemas(t *testing.T) {
	for _, id := range []ID{ExpertDesignV1, MethodologyV1, OptimizationV1} {
		s, ok := Lookup(id)
		if !ok || s == nil {
			t.Fatalf("schema %s not registered", id)
		}
		for _, req := range []string{"schema_version", "task_state", "summary", "output"} {
			if _, ok := s.Properties[req]; !ok {
				t.Fatalf("schema %s missing scaffolding property %s", id, req)
			}
		}
	}
}
