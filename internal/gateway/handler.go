package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/clawdbot/gateway/internal/agent"
	"github.com/clawdbot/gateway/internal/config"
	"github.com/clawdbot/gateway/internal/httputil"
	"github.com/clawdbot/gateway/internal/telemetry"
	"github.com/clawdbot/gateway/internal/types"
)

// Handler holds dependencies for the OpenAI-compatible HTTP handlers.
type Handler struct {
	invoker agent.Invoker
	feed    *agent.Feed
	cfg     func() *config.Config
	metrics *telemetry.Metrics
}

func NewHandler(invoker agent.Invoker, feed *agent.Feed, cfg func() *config.Config, metrics *telemetry.Metrics) *Handler {
	return &Handler{
		invoker: invoker,
		feed:    feed,
		cfg:     cfg,
		metrics: metrics,
	}
}

// ChatCompletions handles POST /v1/chat/completions.
func (h *Handler) ChatCompletions(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")
	receivedAt := time.Now()

	cfg := h.cfg()
	if !cfg.OpenAI.ChatCompletionsEnabled {
		http.NotFound(w, r)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		httputil.WriteInvalidRequestError(w, reqID, "Failed to read request body")
		return
	}
	defer r.Body.Close()

	var chatReq types.ChatCompletionRequest
	if err := json.Unmarshal(body, &chatReq); err != nil {
		httputil.WriteInvalidRequestError(w, reqID, "Invalid JSON: "+err.Error())
		return
	}

	instruction, err := BuildInstruction(chatReq.Messages)
	if err != nil {
		if errors.Is(err, ErrNoConversationalTurn) {
			httputil.WriteInvalidRequestError(w, reqID, err.Error())
			return
		}
		httputil.WriteInternalError(w, reqID, "Failed to build instruction")
		return
	}

	route := ResolveRoute(routeInput{
		HeaderAgentID:    r.Header.Get(headerAgentID),
		HeaderSessionKey: r.Header.Get(headerSessionKey),
		Model:            chatReq.Model,
		User:             chatReq.User,
		DefaultAgentID:   cfg.Agents.Default,
	})

	runID := uuid.NewString()
	cmd := agent.CommandRequest{
		SessionKey:        route.SessionKey,
		Message:           instruction.Message,
		ExtraSystemPrompt: instruction.ExtraSystemPrompt,
		RunID:             runID,
	}

	slog.Info("chat completion accepted",
		"request_id", reqID,
		"run_id", runID,
		"agent", route.AgentID,
		"model", chatReq.Model,
		"stream", chatReq.Stream,
	)

	if chatReq.Stream {
		h.streamCompletion(w, r, reqID, runID, chatReq.Model, route, cmd, receivedAt)
		return
	}

	result, err := h.invoker.Command(r.Context(), cmd)
	if err != nil {
		slog.Error("agent run failed",
			"request_id", reqID,
			"run_id", runID,
			"agent", route.AgentID,
			"error", err,
		)
		h.recordRequest(route.AgentID, chatReq.Model, "json", http.StatusInternalServerError, receivedAt)
		httputil.WriteInternalError(w, reqID, "Agent run failed")
		return
	}

	writeCompletion(w, completionID(runID), chatReq.Model, result.Text())

	duration := time.Since(receivedAt)
	slog.Info("request completed",
		"request_id", reqID,
		"run_id", runID,
		"agent", route.AgentID,
		"model", chatReq.Model,
		"duration_ms", duration.Milliseconds(),
		"status_code", http.StatusOK,
		"stream", false,
	)
	h.recordRequest(route.AgentID, chatReq.Model, "json", http.StatusOK, receivedAt)
}

// ListModels handles GET /v1/models. It advertises the base model plus one
// "<base>:<agentId>" entry per known agent.
func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	cfg := h.cfg()

	models := []modelObject{{
		ID:      cfg.Agents.BaseModel,
		Object:  "model",
		OwnedBy: "clawdbot",
	}}
	for _, id := range cfg.Agents.Known {
		models = append(models, modelObject{
			ID:      cfg.Agents.BaseModel + ":" + id,
			Object:  "model",
			OwnedBy: "clawdbot",
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(modelListResponse{
		Object: "list",
		Data:   models,
	})
}

func (h *Handler) recordRequest(agentID, model, mode string, status int, receivedAt time.Time) {
	if h.metrics == nil {
		return
	}
	h.metrics.RecordRequest(telemetry.RequestLabels{
		Agent:      agentID,
		Model:      model,
		Mode:       mode,
		Status:     strconv.Itoa(status),
		DurationMs: float64(time.Since(receivedAt).Milliseconds()),
	})
}

type modelObject struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

type modelListResponse struct {
	Object string        `json:"object"`
	Data   []modelObject `json:"data"`
}
