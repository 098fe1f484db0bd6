package gateway

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/clawdbot/gateway/internal/types"
)

func completionID(runID string) string {
	return "chatcmpl-" + runID
}

// writeCompletion emits the single-shot chat.completion document.
func writeCompletion(w http.ResponseWriter, id, model, content string) {
	resp := types.ChatCompletion{
		ID:      id,
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   model,
		Choices: []types.Choice{{
			Index: 0,
			Message: types.Message{
				Role:    types.RoleAssistant,
				Content: content,
			},
			FinishReason: "stop",
		}},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
