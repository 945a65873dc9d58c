// Package cli implements the interactive chat loop over a chatmem.Session.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/memchat/memchat/chatmem"
	"github.com/memchat/memchat/llmcall"
)

var (
	banner    = color.New(color.FgCyan, color.Bold)
	aiLabel   = color.New(color.FgGreen, color.Bold)
	userLabel = color.New(color.FgYellow)
	errLabel  = color.New(color.FgRed)
	dim       = color.New(color.Faint)
)

// Chat drives one interactive conversation session over in/out.
type Chat struct {
	session *chatmem.Session
	in      io.Reader
	out     io.Writer
}

// NewChat creates a Chat reading user input from in and writing to out.
func NewChat(session *chatmem.Session, in io.Reader, out io.Writer) *Chat {
	return &Chat{session: session, in: in, out: out}
}

// Run executes the loop until quit/exit, EOF, or a read error. Terminal
// call failures are printed and the conversation continues.
func (c *Chat) Run(ctx context.Context) error {
	c.printWelcome()

	scanner := bufio.NewScanner(c.in)
	for {
		fmt.Fprintf(c.out, "\n[Turn %d] ", c.session.Window().NextIndex())
		userLabel.Fprint(c.out, "You: ")
		if !scanner.Scan() {
			fmt.Fprintln(c.out)
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "quit", "exit":
			fmt.Fprintln(c.out, "\nGoodbye! Thanks for chatting.")
			return nil
		case "clear":
			c.session.Clear()
			fmt.Fprintln(c.out, "\nConversation history cleared.")
			continue
		case "history":
			c.printHistory()
			continue
		case "status":
			c.printStatus()
			continue
		}

		response, err := c.session.Submit(ctx, input)
		if err != nil {
			c.printError(err)
			continue
		}

		fmt.Fprintln(c.out)
		aiLabel.Fprint(c.out, "AI: ")
		fmt.Fprintln(c.out, response)
	}
}

func (c *Chat) printWelcome() {
	capacity := c.session.Status().Capacity
	banner.Fprintln(c.out, "AI Chatbot with Memory")
	fmt.Fprintf(c.out, "I remember the last %d conversation turns.\n\n", capacity)
	fmt.Fprintln(c.out, "Commands:")
	fmt.Fprintln(c.out, "  quit, exit  end the conversation")
	fmt.Fprintln(c.out, "  clear       clear conversation history")
	fmt.Fprintln(c.out, "  history     show conversation history")
	fmt.Fprintln(c.out, "  status      show memory buffer status")
}

func (c *Chat) printHistory() {
	history := c.session.History()
	if len(history) == 0 {
		fmt.Fprintln(c.out, "\nNo conversation history yet.")
		return
	}

	fmt.Fprintln(c.out, "\nConversation History:")
	for _, turn := range history {
		dim.Fprintf(c.out, "\nTurn %d:\n", turn.Index)
		userLabel.Fprint(c.out, "  You: ")
		fmt.Fprintln(c.out, turn.User)
		aiLabel.Fprint(c.out, "  AI: ")
		fmt.Fprintln(c.out, turn.Assistant)
	}
}

func (c *Chat) printStatus() {
	status := c.session.Status()
	fmt.Fprintln(c.out, "\nMemory Status:")
	fmt.Fprintf(c.out, "  Conversation turns: %d\n", status.TurnCount)
	fmt.Fprintf(c.out, "  Messages in buffer: %d\n", status.MessageCount)
	fmt.Fprintf(c.out, "  Window capacity:    %d turns\n", status.Capacity)
	fmt.Fprintf(c.out, "  Buffer full:        %v\n", status.Full)

	if rl, ok := c.session.RateLimit(); ok {
		fmt.Fprintf(c.out, "  Requests remaining: %d/%d per minute\n", rl.Remaining, rl.LimitPerMinute)
	}
}

func (c *Chat) printError(err error) {
	fmt.Fprintln(c.out)
	switch {
	case errors.Is(err, chatmem.ErrRateLimited):
		errLabel.Fprint(c.out, "Slow down: ")
		fmt.Fprintln(c.out, err)
	default:
		var terminal *llmcall.TerminalError
		if errors.As(err, &terminal) && terminal.Reason == llmcall.TerminalExhausted {
			errLabel.Fprint(c.out, "The model is unavailable right now: ")
		} else {
			errLabel.Fprint(c.out, "Sorry, I encountered an error: ")
		}
		fmt.Fprintln(c.out, err)
	}
}
