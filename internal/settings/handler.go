package settings

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/autolane/dealer-ai-platform/pkg/logging"
)

// Handler exposes the admin settings surface: writing rows and clearing the
// cache. Reads go through the engine, not HTTP.
type Handler struct {
	store  *CachedStore
	logger *logging.Logger
}

// NewHandler creates a settings handler.
func NewHandler(store *CachedStore, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

type putSettingRequest struct {
	Value string `json:"value"`
}

// PutSetting handles PUT /admin/dealers/{dealerID}/settings/{key}. A dealerID
// of "global" writes a global row.
func (h *Handler) PutSetting(w http.ResponseWriter, r *http.Request) {
	dealerID := chi.URLParam(r, "dealerID")
	key := strings.TrimSpace(chi.URLParam(r, "key"))
	if key == "" {
		http.Error(w, "missing setting key", http.StatusBadRequest)
		return
	}
	if dealerID == globalCacheKey {
		dealerID = ""
	}

	var req putSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.store.Put(r.Context(), dealerID, key, req.Value); err != nil {
		h.logger.Error("failed to write setting", "error", err, "dealer_id", dealerID, "key", key)
		http.Error(w, "failed to write setting", http.StatusInternalServerError)
		return
	}

	h.logger.Info("setting updated", "dealer_id", dealerID, "key", key)
	w.WriteHeader(http.StatusNoContent)
}

// InvalidateCache handles POST /admin/dealers/{dealerID}/settings/invalidate.
func (h *Handler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	dealerID := chi.URLParam(r, "dealerID")
	if dealerID == globalCacheKey {
		dealerID = ""
	}
	h.store.Invalidate(dealerID)
	w.WriteHeader(http.StatusNoContent)
}
