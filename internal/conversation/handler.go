package conversation

import (
	"encoding/json"
	"net/http"

	"github.com/autolane/dealer-ai-platform/pkg/logging"
)

// Handler exposes the conversation pipeline over HTTP.
type Handler struct {
	engine *Engine
	logger *logging.Logger
}

func NewHandler(engine *Engine, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{engine: engine, logger: logger}
}

// ProcessMessage handles POST /conversations/process. The pipeline itself
// never fails, so the only non-200 outcome is a malformed request body.
func (h *Handler) ProcessMessage(w http.ResponseWriter, r *http.Request) {
	var req ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	result := h.engine.Process(r.Context(), req)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.logger.Error("failed to encode response", "error", err, "session_id", result.SessionID)
	}
}
