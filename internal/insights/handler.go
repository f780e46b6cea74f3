package insights

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/barberia-pro/platform/pkg/logging"
)

// Handler serves insight content to the dashboard.
type Handler struct {
	provider Provider
	logger   *logging.Logger
}

// NewHandler creates the insights HTTP handler.
func NewHandler(provider Provider, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{provider: provider, logger: logger}
}

// GetDailyInsights handles GET /api/insights/{barbershopID}
func (h *Handler) GetDailyInsights(w http.ResponseWriter, r *http.Request) {
	shopID, err := uuid.Parse(chi.URLParam(r, "barbershopID"))
	if err != nil {
		http.Error(w, "invalid barbershop id", http.StatusBadRequest)
		return
	}

	list, err := h.provider.DailyInsights(r.Context(), shopID)
	if err != nil {
		h.logger.Error("daily insights failed", "error", err, "barbershop_id", shopID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"insights": list})
}

// GetCustomerBehavior handles GET /api/insights/customers/{customerID}
func (h *Handler) GetCustomerBehavior(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(chi.URLParam(r, "customerID"))
	if err != nil {
		http.Error(w, "invalid customer id", http.StatusBadRequest)
		return
	}

	behavior, err := h.provider.CustomerBehavior(r.Context(), customerID)
	if err != nil {
		h.logger.Error("customer behavior failed", "error", err, "customer_id", customerID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, behavior)
}

// GetRecommendations handles GET /api/insights/customers/{customerID}/recommendations
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(chi.URLParam(r, "customerID"))
	if err != nil {
		http.Error(w, "invalid customer id", http.StatusBadRequest)
		return
	}

	recs, err := h.provider.ServiceRecommendations(r.Context(), customerID)
	if err != nil {
		h.logger.Error("recommendations failed", "error", err, "customer_id", customerID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"recommendations": recs})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}
