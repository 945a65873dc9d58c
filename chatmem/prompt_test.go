package chatmem

import (
	"strings"
	"testing"

	"github.com/memchat/memchat/llmcall"
)

func TestTemplateRender(t *testing.T) {
	tmpl, err := NewTemplate("Write a {tone} note about {topic}.", "tone", "topic")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := tmpl.Render(map[string]string{"tone": "cheerful", "topic": "rain"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "Write a cheerful note about rain." {
		t.Errorf("unexpected render: %q", out)
	}
}

func TestTemplateMissingRequiredVariable(t *testing.T) {
	tmpl, err := NewTemplate("Hello {name}", "name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := tmpl.Render(map[string]string{}); err == nil {
		t.Error("expected error for missing required variable")
	}
}

func TestTemplateRequiredVariableAbsentFromText(t *testing.T) {
	if _, err := NewTemplate("no placeholders here", "topic"); err == nil {
		t.Error("expected error when required variable is not in the template")
	}
}

func TestTemplateUnprovidedPlaceholder(t *testing.T) {
	tmpl, err := NewTemplate("{greeting}, {name}!", "name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := tmpl.Render(map[string]string{"name": "Ada"}); err == nil {
		t.Error("expected error for placeholder without a value")
	}
}

func TestBuildPromptEmptyWindow(t *testing.T) {
	w := NewWindow(4)
	prompt := BuildPrompt(w, "hello there")

	if len(prompt) != 2 {
		t.Fatalf("expected system + user message, got %d messages", len(prompt))
	}
	if prompt[0].Role != llmcall.RoleSystem {
		t.Errorf("expected leading system message, got %s", prompt[0].Role)
	}
	if prompt[1].Role != llmcall.RoleUser || prompt[1].Text != "hello there" {
		t.Errorf("expected trailing user message, got %+v", prompt[1])
	}
}

func TestBuildPromptIncludesHistoryInOrder(t *testing.T) {
	w := NewWindow(4)
	w.Append("what is Go?", "a programming language")
	w.Append("who made it?", "a team at Google")

	prompt := BuildPrompt(w, "when?")
	if len(prompt) != 6 {
		t.Fatalf("expected 6 messages, got %d", len(prompt))
	}

	flat := prompt.Flatten()
	wantOrder := []string{
		"User: what is Go?",
		"Assistant: a programming language",
		"User: who made it?",
		"Assistant: a team at Google",
		"User: when?",
	}
	pos := -1
	for _, line := range wantOrder {
		idx := strings.Index(flat, line)
		if idx == -1 {
			t.Fatalf("flattened prompt missing %q:\n%s", line, flat)
		}
		if idx <= pos {
			t.Errorf("line %q out of order", line)
		}
		pos = idx
	}
}
