package chatmem

import "github.com/memchat/memchat/llmcall"

// DefaultCapacity is the default number of retained turns.
const DefaultCapacity = 4

// Turn is one user/assistant exchange. Immutable once created; Index is
// assigned at append time and monotonically increasing within a window.
type Turn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
	Index     int    `json:"index"`
}

// Window is a sliding buffer of the most recent turns. Oldest turns are
// evicted from the front once capacity is exceeded.
type Window struct {
	capacity  int
	turns     []Turn
	nextIndex int
}

// WindowStatus reports the buffer fill state.
type WindowStatus struct {
	TurnCount    int  `json:"turn_count"`
	MessageCount int  `json:"message_count"`
	Capacity     int  `json:"capacity"`
	Full         bool `json:"full"`
}

// NewWindow creates an empty window retaining the last capacity turns.
// A capacity of zero is valid: every appended turn is evicted immediately.
func NewWindow(capacity int) *Window {
	if capacity < 0 {
		capacity = 0
	}
	return &Window{capacity: capacity, nextIndex: 1}
}

// Append records a completed exchange as a new turn with the next index,
// evicting from the front while the window is over capacity. It always
// succeeds and returns the created turn.
func (w *Window) Append(userText, assistantText string) Turn {
	turn := Turn{User: userText, Assistant: assistantText, Index: w.nextIndex}
	w.nextIndex++

	w.turns = append(w.turns, turn)
	for len(w.turns) > w.capacity {
		w.turns = w.turns[1:]
	}
	return turn
}

// Turns returns a copy of the retained turns, oldest first.
func (w *Window) Turns() []Turn {
	turns := make([]Turn, len(w.turns))
	copy(turns, w.turns)
	return turns
}

// Context renders the retained turns as an alternating user/assistant
// message sequence, oldest first, for prompt construction. Pure read;
// repeated calls yield identical results until the next Append.
func (w *Window) Context() []llmcall.Message {
	messages := make([]llmcall.Message, 0, 2*len(w.turns))
	for _, turn := range w.turns {
		messages = append(messages,
			llmcall.UserMessage(turn.User),
			llmcall.AssistantMessage(turn.Assistant))
	}
	return messages
}

// Status reports the buffer fill state.
func (w *Window) Status() WindowStatus {
	return WindowStatus{
		TurnCount:    len(w.turns),
		MessageCount: 2 * len(w.turns),
		Capacity:     w.capacity,
		Full:         len(w.turns) == w.capacity,
	}
}

// Clear empties the buffer. The index counter is deliberately left alone:
// indices are never reused, so the next appended turn continues numbering
// from where the cleared conversation left off.
func (w *Window) Clear() {
	w.turns = nil
}

// NextIndex returns the index the next appended turn will receive.
func (w *Window) NextIndex() int {
	return w.nextIndex
}
