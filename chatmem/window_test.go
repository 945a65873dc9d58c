package chatmem

import (
	"fmt"
	"testing"

	"github.com/memchat/memchat/llmcall"
)

func TestWindowRetainsLastN(t *testing.T) {
	const capacity = 4
	w := NewWindow(capacity)

	for i := 1; i <= 10; i++ {
		w.Append(fmt.Sprintf("u%d", i), fmt.Sprintf("a%d", i))

		turns := w.Turns()
		if len(turns) > capacity {
			t.Fatalf("after %d appends: len %d exceeds capacity %d", i, len(turns), capacity)
		}

		// Retained turns are exactly the last min(i, capacity), in order.
		expected := i - capacity + 1
		if expected < 1 {
			expected = 1
		}
		for j, turn := range turns {
			if turn.Index != expected+j {
				t.Errorf("after %d appends: turn %d has index %d, want %d", i, j, turn.Index, expected+j)
			}
			if turn.User != fmt.Sprintf("u%d", expected+j) {
				t.Errorf("after %d appends: turn %d has user %q", i, j, turn.User)
			}
		}
	}
}

func TestWindowEvictsExactlyOnePerAppendAtCapacity(t *testing.T) {
	w := NewWindow(2)
	w.Append("u1", "a1")
	w.Append("u2", "a2")

	for i := 3; i <= 6; i++ {
		w.Append(fmt.Sprintf("u%d", i), fmt.Sprintf("a%d", i))
		turns := w.Turns()
		if len(turns) != 2 {
			t.Fatalf("expected length pinned at 2, got %d", len(turns))
		}
		if turns[0].Index != i-1 || turns[1].Index != i {
			t.Errorf("expected indices [%d %d], got [%d %d]", i-1, i, turns[0].Index, turns[1].Index)
		}
	}
}

func TestWindowZeroCapacity(t *testing.T) {
	w := NewWindow(0)

	turn := w.Append("hello", "hi")
	if turn.Index != 1 {
		t.Errorf("expected index 1, got %d", turn.Index)
	}
	if len(w.Turns()) != 0 {
		t.Error("zero-capacity window must retain nothing")
	}
	if len(w.Context()) != 0 {
		t.Error("zero-capacity window context must be empty")
	}

	// Indices keep advancing even though nothing is retained.
	turn = w.Append("again", "still here")
	if turn.Index != 2 {
		t.Errorf("expected index 2, got %d", turn.Index)
	}

	status := w.Status()
	if !status.Full {
		t.Error("zero-capacity window is always full (0 == 0)")
	}
}

func TestWindowNegativeCapacityClamped(t *testing.T) {
	w := NewWindow(-3)
	w.Append("u", "a")
	if len(w.Turns()) != 0 {
		t.Error("negative capacity should behave like zero")
	}
}

func TestWindowContextAlternatesRoles(t *testing.T) {
	w := NewWindow(3)
	w.Append("first question", "first answer")
	w.Append("second question", "second answer")

	messages := w.Context()
	if len(messages) != 4 {
		t.Fatalf("expected 2*turn_count = 4 messages, got %d", len(messages))
	}

	expected := []llmcall.Message{
		llmcall.UserMessage("first question"),
		llmcall.AssistantMessage("first answer"),
		llmcall.UserMessage("second question"),
		llmcall.AssistantMessage("second answer"),
	}
	for i, msg := range messages {
		if msg != expected[i] {
			t.Errorf("message %d: got %+v, want %+v", i, msg, expected[i])
		}
	}
}

func TestWindowContextRepeatable(t *testing.T) {
	w := NewWindow(2)
	w.Append("u1", "a1")

	first := w.Context()
	second := w.Context()
	if len(first) != len(second) {
		t.Fatal("repeated Context calls must agree")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("message %d differs between calls", i)
		}
	}
}

func TestWindowEmptyContext(t *testing.T) {
	w := NewWindow(4)
	if got := w.Context(); len(got) != 0 {
		t.Errorf("expected empty context, got %d messages", len(got))
	}
}

func TestWindowStatus(t *testing.T) {
	w := NewWindow(2)

	status := w.Status()
	if status.TurnCount != 0 || status.MessageCount != 0 || status.Capacity != 2 || status.Full {
		t.Errorf("unexpected empty status: %+v", status)
	}

	w.Append("u1", "a1")
	status = w.Status()
	if status.TurnCount != 1 || status.MessageCount != 2 || status.Full {
		t.Errorf("unexpected status after one turn: %+v", status)
	}

	w.Append("u2", "a2")
	status = w.Status()
	if !status.Full {
		t.Error("expected full at capacity")
	}
	if status.MessageCount != 2*status.TurnCount {
		t.Errorf("message_count %d != 2 * turn_count %d", status.MessageCount, status.TurnCount)
	}
}

func TestWindowClearKeepsIndexCounter(t *testing.T) {
	w := NewWindow(4)
	w.Append("u1", "a1")
	w.Append("u2", "a2")

	w.Clear()
	if len(w.Turns()) != 0 {
		t.Error("expected empty window after clear")
	}
	if w.NextIndex() != 3 {
		t.Errorf("clear must not reset the index counter: next index %d, want 3", w.NextIndex())
	}

	turn := w.Append("u3", "a3")
	if turn.Index != 3 {
		t.Errorf("expected index 3 after clear, got %d", turn.Index)
	}
}

func TestWindowIndicesStrictlyIncreasingAfterEviction(t *testing.T) {
	w := NewWindow(3)
	for i := 0; i < 8; i++ {
		w.Append("u", "a")
	}

	turns := w.Turns()
	for i := 1; i < len(turns); i++ {
		if turns[i].Index <= turns[i-1].Index {
			t.Errorf("indices not strictly increasing: %d then %d", turns[i-1].Index, turns[i].Index)
		}
	}
	// Not contiguous from 1 once eviction has occurred.
	if turns[0].Index != 6 {
		t.Errorf("expected oldest retained index 6, got %d", turns[0].Index)
	}
}
