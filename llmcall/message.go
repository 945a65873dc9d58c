package llmcall

import "strings"

// Role identifies who produced a message in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one (role, text) entry in a prompt.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// SystemMessage creates a system Message.
func SystemMessage(text string) Message {
	return Message{Role: RoleSystem, Text: text}
}

// UserMessage creates a user Message.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Text: text}
}

// AssistantMessage creates an assistant Message.
func AssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Text: text}
}

// Prompt is the ordered message sequence sent to the remote model.
type Prompt []Message

// System returns the concatenated text of all system messages.
func (p Prompt) System() string {
	var sb strings.Builder
	for _, msg := range p {
		if msg.Role == RoleSystem {
			if sb.Len() > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(msg.Text)
		}
	}
	return sb.String()
}

// Flatten renders the non-system messages as plain text, one labeled line
// per message, for providers that accept a single prompt string.
func (p Prompt) Flatten() string {
	var parts []string
	for _, msg := range p {
		switch msg.Role {
		case RoleUser:
			parts = append(parts, "User: "+msg.Text)
		case RoleAssistant:
			parts = append(parts, "Assistant: "+msg.Text)
		}
	}
	return strings.Join(parts, "\n")
}
