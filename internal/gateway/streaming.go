package gateway

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/clawdbot/gateway/internal/agent"
	"github.com/clawdbot/gateway/internal/httputil"
	"github.com/clawdbot/gateway/internal/types"
)

type commandOutcome struct {
	result *agent.CommandResult
	err    error
}

// streamCompletion renders a chat completion as an SSE stream. It subscribes
// to the run's event feed before invoking the engine, so deltas published
// while the call is in flight cannot be missed, then forwards each delta as
// one chat.completion.chunk frame in arrival order. Duplicate deltas are
// forwarded verbatim. If the engine resolves without having emitted any
// delta, a single fallback frame carries the full final text. The stream
// always terminates with "data: [DONE]", including on engine failure.
func (h *Handler) streamCompletion(w http.ResponseWriter, r *http.Request, reqID, runID, model string, route RouteDecision, cmd agent.CommandRequest, receivedAt time.Time) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		httputil.WriteInternalError(w, reqID, "Streaming not supported")
		return
	}

	events, cancel := h.feed.Subscribe(runID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Request-ID", reqID)
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	outcome := make(chan commandOutcome, 1)
	go func() {
		result, err := h.invoker.Command(r.Context(), cmd)
		outcome <- commandOutcome{result: result, err: err}
	}()

	id := completionID(runID)
	created := time.Now().Unix()
	sent := 0

	forward := func(ev agent.Event) {
		if ev.Stream != agent.StreamAssistant || ev.Data.Delta == "" {
			return
		}
		writeChunk(w, flusher, id, model, created, ev.Data.Delta)
		sent++
		if h.metrics != nil {
			h.metrics.RecordStreamChunk(route.AgentID)
		}
	}

	for {
		select {
		case ev := <-events:
			forward(ev)

		case out := <-outcome:
			// Deltas published before the engine call resolved are already
			// buffered on the subscription; drain them before deciding on
			// the fallback frame.
			for drained := false; !drained; {
				select {
				case ev := <-events:
					forward(ev)
				default:
					drained = true
				}
			}

			status := http.StatusOK
			if out.err != nil {
				slog.Error("agent run failed mid-stream",
					"request_id", reqID,
					"run_id", runID,
					"agent", route.AgentID,
					"error", out.err,
				)
				writeStreamError(w, flusher, "Agent run failed")
				status = http.StatusInternalServerError
			} else if sent == 0 {
				writeChunk(w, flusher, id, model, created, out.result.Text())
			}

			fmt.Fprint(w, "data: [DONE]\n\n")
			flusher.Flush()

			slog.Info("stream completed",
				"request_id", reqID,
				"run_id", runID,
				"agent", route.AgentID,
				"chunks", sent,
				"duration_ms", time.Since(receivedAt).Milliseconds(),
			)
			h.recordRequest(route.AgentID, model, "stream", status, receivedAt)
			return

		case <-r.Context().Done():
			// Client went away: stop writing and release the subscription.
			// The engine call is left to finish server-side.
			slog.Info("client disconnected mid-stream",
				"request_id", reqID,
				"run_id", runID,
				"agent", route.AgentID,
				"chunks", sent,
			)
			return
		}
	}
}

func writeChunk(w http.ResponseWriter, flusher http.Flusher, id, model string, created int64, content string) {
	chunk := types.ChatCompletionChunk{
		ID:      id,
		Object:  "chat.completion.chunk",
		Created: created,
		Model:   model,
		Choices: []types.ChunkChoice{{
			Index: 0,
			Delta: types.Delta{Content: content},
		}},
	}
	data, err := json.Marshal(chunk)
	if err != nil {
		slog.Error("failed to marshal stream chunk", "error", err)
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
	flusher.Flush()
}

// writeStreamError renders an engine failure through the standard error body
// as one SSE frame; the caller still terminates the stream with [DONE].
func writeStreamError(w http.ResponseWriter, flusher http.Flusher, message string) {
	data, err := json.Marshal(httputil.APIError{
		Error: httputil.APIErrorBody{
			Message: message,
			Type:    "server_error",
			Code:    "internal_error",
		},
	})
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
	flusher.Flush()
}
