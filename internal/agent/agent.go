// Package agent defines the boundary to the conversational agent engine:
// the command contract the gateway invokes, and the process-wide feed of
// run-scoped progress events the engine publishes while a command runs.
package agent

import (
	"context"
	"strings"
)

// CommandRequest is one instruction handed to the agent engine.
type CommandRequest struct {
	// SessionKey groups related requests into one continuing conversation.
	SessionKey string
	// Message is the flattened instruction, including any rendered history.
	Message string
	// ExtraSystemPrompt carries system/developer guidance outside the message.
	ExtraSystemPrompt string
	// RunID correlates progress events on the feed with this invocation.
	RunID string
}

type Payload struct {
	Text string
}

// CommandResult is the engine's final output. The concatenation of payload
// texts, in order, is the full response text.
type CommandResult struct {
	Payloads []Payload
}

func (r *CommandResult) Text() string {
	var b strings.Builder
	for _, p := range r.Payloads {
		b.WriteString(p.Text)
	}
	return b.String()
}

// Invoker runs agent commands. Implementations may publish Event values
// tagged with the request's RunID to a Feed before returning.
type Invoker interface {
	Command(ctx context.Context, req CommandRequest) (*CommandResult, error)
}
