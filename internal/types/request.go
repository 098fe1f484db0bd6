package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Message roles accepted on the chat-completions endpoint.
const (
	RoleSystem    = "system"
	RoleDeveloper = "developer"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ChatCompletionRequest is the subset of the OpenAI chat-completions request
// the gateway consumes. Unknown fields are ignored.
type ChatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	User     string        `json:"user,omitempty"`
	Stream   bool          `json:"stream,omitempty"`
}

type ChatMessage struct {
	Role    string         `json:"role"`
	Content MessageContent `json:"content"`
}

// MessageContent is the union-shaped content of a chat message: either a
// plain string or an ordered list of typed content parts. A nil Parts slice
// means the string form was sent; a non-nil (possibly empty) slice means the
// array form was sent.
type MessageContent struct {
	Plain string
	Parts []ContentPart
}

type ContentPart struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

var jsonNull = []byte("null")

func (c *MessageContent) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*c = MessageContent{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = MessageContent{Plain: s}
		return nil
	}
	var parts []ContentPart
	if err := json.Unmarshal(data, &parts); err == nil {
		if parts == nil {
			parts = []ContentPart{}
		}
		*c = MessageContent{Parts: parts}
		return nil
	}
	return fmt.Errorf("message content must be a string or an array of content parts")
}

func (c MessageContent) MarshalJSON() ([]byte, error) {
	if c.Parts != nil {
		return json.Marshal(c.Parts)
	}
	return json.Marshal(c.Plain)
}
