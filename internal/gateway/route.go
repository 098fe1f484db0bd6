package gateway

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Optional headers consumed by the route resolver.
const (
	headerAgentID    = "X-Clawdbot-Agent-Id"
	headerSessionKey = "X-Clawdbot-Session-Key"
)

// RouteDecision names the agent a request targets and the session key the
// engine will use to group related requests.
type RouteDecision struct {
	AgentID    string
	SessionKey string
}

type routeInput struct {
	HeaderAgentID    string
	HeaderSessionKey string
	Model            string
	User             string
	DefaultAgentID   string
}

// Agent identity precedence, highest first. Each step either resolves or
// defers to the next; the chain always terminates at the default.
var agentIDSteps = []func(routeInput) (string, bool){
	agentFromHeader,
	agentFromModel,
	agentFromDefault,
}

func agentFromHeader(in routeInput) (string, bool) {
	id := strings.TrimSpace(in.HeaderAgentID)
	return id, id != ""
}

// agentFromModel recognizes the "<baseModel>:<agentId>" convention. A bare
// model value is no override.
func agentFromModel(in routeInput) (string, bool) {
	_, id, found := strings.Cut(in.Model, ":")
	if !found {
		return "", false
	}
	id = strings.TrimSpace(id)
	return id, id != ""
}

func agentFromDefault(in routeInput) (string, bool) {
	return in.DefaultAgentID, true
}

// ResolveRoute derives the target agent and session key. Resolution always
// succeeds: absent inputs only change which default branch is taken. An
// explicit session-key header is used verbatim; otherwise the key is
// "agent:<agentId>:<stabilizer>", where the stabilizer is derived from the
// request's user field when present and is a fresh identifier otherwise.
func ResolveRoute(in routeInput) RouteDecision {
	var agentID string
	for _, step := range agentIDSteps {
		if id, ok := step(in); ok {
			agentID = id
			break
		}
	}

	if key := strings.TrimSpace(in.HeaderSessionKey); key != "" {
		return RouteDecision{AgentID: agentID, SessionKey: key}
	}

	stabilizer := "openai:" + uuid.NewString()
	if in.User != "" {
		stabilizer = "openai-user:" + in.User
	}
	return RouteDecision{
		AgentID:    agentID,
		SessionKey: fmt.Sprintf("agent:%s:%s", agentID, stabilizer),
	}
}
