package chatmem

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/memchat/memchat/llmcall"
)

var templateVarPattern = regexp.MustCompile(`\{(\w+)\}`)

// Template is a reusable prompt template with {name} placeholders and
// required-variable validation.
type Template struct {
	text     string
	required []string
}

// NewTemplate creates a Template. Every required variable must appear as a
// placeholder in the template text.
func NewTemplate(text string, required ...string) (*Template, error) {
	present := make(map[string]bool)
	for _, match := range templateVarPattern.FindAllStringSubmatch(text, -1) {
		present[match[1]] = true
	}
	for _, name := range required {
		if !present[name] {
			return nil, fmt.Errorf("required variable %q not found in template", name)
		}
	}
	return &Template{text: text, required: required}, nil
}

// Render substitutes vars into the template. Missing required variables or
// placeholders without a value are errors.
func (t *Template) Render(vars map[string]string) (string, error) {
	var missing []string
	for _, name := range t.required {
		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return "", fmt.Errorf("missing required variables: %s", strings.Join(missing, ", "))
	}

	var renderErr error
	out := templateVarPattern.ReplaceAllStringFunc(t.text, func(match string) string {
		name := match[1 : len(match)-1]
		value, ok := vars[name]
		if !ok {
			renderErr = fmt.Errorf("template variable %q not provided", name)
			return match
		}
		return value
	})
	if renderErr != nil {
		return "", renderErr
	}
	return out, nil
}

const chatPreamble = "You are a helpful AI assistant having a conversation. " +
	"Take the conversation history into account and keep your responses concise and engaging."

// BuildPrompt assembles the prompt for one chat exchange: the assistant
// preamble, the window's retained history, then the new user input.
func BuildPrompt(window *Window, userInput string) llmcall.Prompt {
	context := window.Context()

	prompt := make(llmcall.Prompt, 0, len(context)+2)
	prompt = append(prompt, llmcall.SystemMessage(chatPreamble))
	prompt = append(prompt, context...)
	prompt = append(prompt, llmcall.UserMessage(userInput))
	return prompt
}
