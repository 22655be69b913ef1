package leads

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/autolane/dealer-ai-platform/pkg/logging"
)

// Handler exposes the admin lead surface.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// ListLeads handles GET /admin/dealers/{dealerID}/leads.
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	dealerID := chi.URLParam(r, "dealerID")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	list, err := h.repo.ListByDealer(r.Context(), dealerID, limit)
	if err != nil {
		h.logger.Error("failed to list leads", "error", err, "dealer_id", dealerID)
		http.Error(w, "failed to list leads", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []Lead{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"leads": list, "count": len(list)})
}

// GetLead handles GET /admin/dealers/{dealerID}/leads/{leadID}.
func (h *Handler) GetLead(w http.ResponseWriter, r *http.Request) {
	dealerID := chi.URLParam(r, "dealerID")
	leadID := chi.URLParam(r, "leadID")

	lead, err := h.repo.GetByID(r.Context(), dealerID, leadID)
	if errors.Is(err, ErrLeadNotFound) {
		http.Error(w, "lead not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to get lead", "error", err, "dealer_id", dealerID, "lead_id", leadID)
		http.Error(w, "failed to get lead", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lead)
}
