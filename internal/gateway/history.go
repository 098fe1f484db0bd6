package gateway

import (
	"errors"
	"strings"

	"github.com/clawdbot/gateway/internal/types"
)

// Sentinel markers delimiting regions of the flattened instruction. Emitted
// verbatim so the agent can reliably split prior context from the live turn.
const (
	historyContextMarker = "[Chat messages since your last reply - for context]"
	currentMessageMarker = "[Current message - respond to this]"
)

// ErrNoConversationalTurn is returned when a request carries only
// system/developer messages (or none at all).
var ErrNoConversationalTurn = errors.New("at least one user, assistant or tool message is required")

// Instruction is the payload handed to the agent engine: the flattened
// message plus any system/developer guidance lifted out of the turn list.
type Instruction struct {
	Message           string
	ExtraSystemPrompt string
}

func roleLabel(role string) string {
	switch role {
	case types.RoleAssistant:
		return "Assistant"
	case types.RoleTool:
		return "Tool"
	default:
		return "User"
	}
}

// BuildInstruction folds an ordered message list into one Instruction.
//
// System and developer messages are newline-joined into ExtraSystemPrompt in
// original order; developer is a pure alias of system. The remaining
// conversational messages form the instruction body: the last one is the
// current turn, everything before it is history. With a single conversational
// message the body is its raw text and neither marker appears.
func BuildInstruction(messages []types.ChatMessage) (Instruction, error) {
	var system []string
	var convo []types.ChatMessage
	for _, m := range messages {
		switch m.Role {
		case types.RoleSystem, types.RoleDeveloper:
			system = append(system, contentText(m.Content))
		case types.RoleUser, types.RoleAssistant, types.RoleTool:
			convo = append(convo, m)
		}
	}

	if len(convo) == 0 {
		return Instruction{}, ErrNoConversationalTurn
	}

	inst := Instruction{ExtraSystemPrompt: strings.Join(system, "\n")}

	if len(convo) == 1 {
		inst.Message = contentText(convo[0].Content)
		return inst, nil
	}

	var b strings.Builder
	b.WriteString(historyContextMarker)
	b.WriteString("\n")
	for _, m := range convo[:len(convo)-1] {
		b.WriteString(roleLabel(m.Role))
		b.WriteString(": ")
		b.WriteString(contentText(m.Content))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(currentMessageMarker)
	b.WriteString("\n")
	current := convo[len(convo)-1]
	b.WriteString(roleLabel(current.Role))
	b.WriteString(": ")
	b.WriteString(contentText(current.Content))

	inst.Message = b.String()
	return inst, nil
}
