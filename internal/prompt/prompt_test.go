package prompt

import (
	"strings"
	"testing"
)

func TestBuilder_RendersSections(t *testing.T) {
	var b Builder
	out, err := b.
		Section("PROBLEM", "Grow a newsletter to 10k subscribers.").
		JSONSection("EXPERT_PROFILE", map[string]string{"name": "Dr. A"}).
		List("RULES", []string{"Be concise.", "", "No markdown."}).
		Build()
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	for _, sec := range []string{"[PROBLEM]", "[EXPERT_PROFILE]", "[RULES]"} {
		if !strings.Contains(out, sec) {
			t.Fatalf("expected section %s in prompt:\n%s", sec, out)
		}
	}
	if !strings.Contains(out, `"name": "Dr. A"`) {
		t.Fatalf("expected JSON body in prompt:\n%s", out)
	}
	if !strings.Contains(out, "- Be concise.\n- No markdown.") {
		t.Fatalf("expected list body in prompt:\n%s", out)
	}
}

func TestBuilder_SkipsEmptySections(t *testing.T) {
	var b Builder
	out, err := b.
		Section("PROBLEM", "x").
		Section("EMPTY", "   ").
		List("NONE", nil).
		Build()
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	if strings.Contains(out, "[EMPTY]") || strings.Contains(out, "[NONE]") {
		t.Fatalf("empty sections rendered:\n%s", out)
	}
}

func TestBuilder_JSONSectionKeepsAngleBrackets(t *testing.T) {
	var b Builder
	out, err := b.JSONSection("INPUT", map[string]string{"cmp": "a < b"}).Build()
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	if !strings.Contains(out, "a < b") {
		t.Fatalf("angle bracket was escaped:\n%s", out)
	}
}
