package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memchat/memchat/chatmem"
	"github.com/memchat/memchat/llmcall"
)

func newTestChat(t *testing.T, call llmcall.RemoteCall, input string) (*Chat, *bytes.Buffer) {
	t.Helper()
	cfg := chatmem.DefaultSessionConfig()
	cfg.RetryPolicy = llmcall.RetryPolicy{
		MaxAttempts:       1,
		BaseDelay:         time.Millisecond,
		MaxDelay:          time.Millisecond,
		BackoffMultiplier: 1,
	}
	cfg.RequestsPerMinute = 0
	session := chatmem.NewSession(call, &cfg)

	out := &bytes.Buffer{}
	return NewChat(session, strings.NewReader(input), out), out
}

func echoCall(ctx context.Context, prompt llmcall.Prompt) (string, error) {
	return "echo: " + prompt[len(prompt)-1].Text, nil
}

func TestChatQuitEndsLoop(t *testing.T) {
	chat, out := newTestChat(t, echoCall, "quit\n")
	require.NoError(t, chat.Run(context.Background()))
	assert.Contains(t, out.String(), "Goodbye")
}

func TestChatExitEndsLoop(t *testing.T) {
	chat, _ := newTestChat(t, echoCall, "EXIT\n")
	require.NoError(t, chat.Run(context.Background()))
}

func TestChatEOFEndsLoop(t *testing.T) {
	chat, _ := newTestChat(t, echoCall, "")
	require.NoError(t, chat.Run(context.Background()))
}

func TestChatRoutesInputThroughSession(t *testing.T) {
	chat, out := newTestChat(t, echoCall, "hello there\nquit\n")
	require.NoError(t, chat.Run(context.Background()))
	assert.Contains(t, out.String(), "echo: hello there")
}

func TestChatHistoryCommand(t *testing.T) {
	chat, out := newTestChat(t, echoCall, "hi\nhistory\nquit\n")
	require.NoError(t, chat.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Conversation History")
	assert.Contains(t, text, "Turn 1:")
	assert.Contains(t, text, "hi")
}

func TestChatHistoryEmpty(t *testing.T) {
	chat, out := newTestChat(t, echoCall, "history\nquit\n")
	require.NoError(t, chat.Run(context.Background()))
	assert.Contains(t, out.String(), "No conversation history yet")
}

func TestChatStatusCommand(t *testing.T) {
	chat, out := newTestChat(t, echoCall, "hi\nstatus\nquit\n")
	require.NoError(t, chat.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Conversation turns: 1")
	assert.Contains(t, text, "Messages in buffer: 2")
	assert.Contains(t, text, "Buffer full:        false")
}

func TestChatClearCommand(t *testing.T) {
	chat, out := newTestChat(t, echoCall, "hi\nclear\nstatus\nquit\n")
	require.NoError(t, chat.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Conversation history cleared")
	assert.Contains(t, text, "Conversation turns: 0")
}

func TestChatContinuesAfterTerminalError(t *testing.T) {
	callCount := 0
	call := func(ctx context.Context, prompt llmcall.Prompt) (string, error) {
		callCount++
		if callCount == 1 {
			return "", llmcall.ErrorFromStatusCode(401, "bad key")
		}
		return "recovered", nil
	}
	chat, out := newTestChat(t, call, "first\nsecond\nquit\n")
	require.NoError(t, chat.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Sorry, I encountered an error")
	assert.Contains(t, text, "recovered")
}

func TestChatBlankInputIgnored(t *testing.T) {
	callCount := 0
	call := func(ctx context.Context, prompt llmcall.Prompt) (string, error) {
		callCount++
		return "ok", nil
	}
	chat, _ := newTestChat(t, call, "\n   \nquit\n")
	require.NoError(t, chat.Run(context.Background()))
	assert.Zero(t, callCount)
}
