package gateway

import (
	"strings"

	"github.com/clawdbot/gateway/internal/types"
)

// contentText flattens union-shaped message content to plain text. String
// content is returned unchanged. Array content contributes the text of every
// text-like part, newline-joined in original order; parts of other kinds
// (images, audio) are skipped silently.
func contentText(c types.MessageContent) string {
	if c.Parts == nil {
		return c.Plain
	}
	var segments []string
	for _, part := range c.Parts {
		switch part.Type {
		case "text", "input_text":
			segments = append(segments, part.Text)
		}
	}
	return strings.Join(segments, "\n")
}
