package gamification

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/barberia-pro/platform/pkg/logging"
)

// Handler exposes the rewards program over HTTP.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates the gamification HTTP handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// GetPoints handles GET /api/gamification/points/{userID}
func (h *Handler) GetPoints(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	points, err := h.service.Points(r.Context(), userID)
	if err != nil {
		h.logger.Error("get points failed", "error", err, "user_id", userID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

// GetLeaderboard handles GET /api/gamification/leaderboard/{barbershopID}?limit=N
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	shopID, err := uuid.Parse(chi.URLParam(r, "barbershopID"))
	if err != nil {
		http.Error(w, "invalid barbershop id", http.StatusBadRequest)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.service.Leaderboard(r.Context(), shopID, limit)
	if err != nil {
		h.logger.Error("leaderboard failed", "error", err, "barbershop_id", shopID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"leaderboard": entries})
}

// GetAchievements handles GET /api/gamification/achievements
func (h *Handler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"achievements": Achievements()})
}

type createCodeRequest struct {
	UserID       uuid.UUID `json:"userId"`
	BarbershopID uuid.UUID `json:"barbershopId"`
}

// CreateReferralCode handles POST /api/gamification/referrals
func (h *Handler) CreateReferralCode(w http.ResponseWriter, r *http.Request) {
	var req createCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if req.UserID == uuid.Nil || req.BarbershopID == uuid.Nil {
		http.Error(w, "userId and barbershopId are required", http.StatusBadRequest)
		return
	}

	code, err := h.service.CreateReferralCode(r.Context(), req.UserID, req.BarbershopID)
	if err != nil {
		h.logger.Error("create referral code failed", "error", err, "user_id", req.UserID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, code)
}

type redeemRequest struct {
	Code         string    `json:"code"`
	BarbershopID uuid.UUID `json:"barbershopId"`
}

// RedeemReferralCode handles POST /api/gamification/referrals/redeem
func (h *Handler) RedeemReferralCode(w http.ResponseWriter, r *http.Request) {
	var req redeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if req.Code == "" {
		http.Error(w, "code is required", http.StatusBadRequest)
		return
	}

	reward, err := h.service.RedeemReferralCode(r.Context(), req.Code, req.BarbershopID)
	switch {
	case errors.Is(err, ErrCodeUnavailable):
		http.Error(w, "referral code unavailable", http.StatusConflict)
		return
	case err != nil:
		h.logger.Error("redeem referral code failed", "error", err, "code", req.Code)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "reward": reward})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
