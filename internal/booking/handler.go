package booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/barberia-pro/platform/pkg/logging"
)

// catalog is the read side the handler needs for the booking UI.
type catalog interface {
	GetBarbershop(ctx context.Context, id uuid.UUID) (*Barbershop, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	GetBarber(ctx context.Context, barbershopID, barberID uuid.UUID) (*Barber, error)
	GetServices(ctx context.Context, barbershopID uuid.UUID, ids []uuid.UUID) ([]Service, error)
	ListBarbers(ctx context.Context, barbershopID uuid.UUID) ([]Barber, error)
	ListServices(ctx context.Context, barbershopID uuid.UUID) ([]Service, error)
}

type slotLister interface {
	Slots(ctx context.Context, barbershopID, barberID uuid.UUID, date string) ([]string, error)
}

// Handler exposes the booking flow over HTTP.
type Handler struct {
	catalog catalog
	slots   slotLister
	manager *Manager
	logger  *logging.Logger
}

// HandlerConfig wires the booking handler.
type HandlerConfig struct {
	Catalog catalog
	Slots   slotLister
	Manager *Manager
	Logger  *logging.Logger
}

// NewHandler creates the booking HTTP handler.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Handler{
		catalog: cfg.Catalog,
		slots:   cfg.Slots,
		manager: cfg.Manager,
		logger:  cfg.Logger,
	}
}

// ListBarbers handles GET /api/barbershops/{barbershopID}/barbers
func (h *Handler) ListBarbers(w http.ResponseWriter, r *http.Request) {
	shopID, ok := shopParam(w, r)
	if !ok {
		return
	}
	barbers, err := h.catalog.ListBarbers(r.Context(), shopID)
	if err != nil {
		h.logger.Error("list barbers failed", "error", err, "barbershop_id", shopID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if barbers == nil {
		barbers = []Barber{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"barbers": barbers})
}

// ListServices handles GET /api/barbershops/{barbershopID}/services
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	shopID, ok := shopParam(w, r)
	if !ok {
		return
	}
	services, err := h.catalog.ListServices(r.Context(), shopID)
	if err != nil {
		h.logger.Error("list services failed", "error", err, "barbershop_id", shopID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if services == nil {
		services = []Service{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": services})
}

// GetSlots handles GET /api/barbershops/{barbershopID}/slots?barberId=&date=
func (h *Handler) GetSlots(w http.ResponseWriter, r *http.Request) {
	shopID, ok := shopParam(w, r)
	if !ok {
		return
	}
	barberID, err := uuid.Parse(r.URL.Query().Get("barberId"))
	if err != nil {
		http.Error(w, "barberId is required", http.StatusBadRequest)
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		http.Error(w, "date is required", http.StatusBadRequest)
		return
	}

	slots, err := h.slots.Slots(r.Context(), shopID, barberID, date)
	if err != nil {
		h.logger.Error("slot lookup failed", "error", err, "barbershop_id", shopID, "date", date)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if slots == nil {
		slots = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": date, "slots": slots})
}

type createAppointmentRequest struct {
	BarbershopID  uuid.UUID   `json:"barbershopId"`
	BarberID      uuid.UUID   `json:"barberId"`
	ServiceIDs    []uuid.UUID `json:"serviceIds"`
	Date          string      `json:"date"`
	Time          string      `json:"time"`
	ClientName    string      `json:"clientName"`
	ClientPhone   string      `json:"clientPhone"`
	Notes         string      `json:"notes"`
	PaymentMethod string      `json:"paymentMethod"`
}

// CreateAppointment handles POST /api/appointments. The request replays the
// wizard transitions server-side so the same gating applies no matter what
// the client sent.
func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if req.BarbershopID == uuid.Nil {
		http.Error(w, "barbershopId is required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	barber, err := h.catalog.GetBarber(ctx, req.BarbershopID, req.BarberID)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "barber not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("barber lookup failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	services, err := h.catalog.GetServices(ctx, req.BarbershopID, req.ServiceIDs)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "service not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("service lookup failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	wizard := NewWizard().
		SelectBarber(*barber).Advance().
		SelectServices(services).Advance().
		SelectDate(req.Date).SelectTime(req.Time).Advance().
		WithClient(req.ClientName, req.ClientPhone, req.Notes)
	if req.PaymentMethod != "" {
		wizard = wizard.WithPaymentMethod(PaymentMethod(req.PaymentMethod))
	}

	result, err := h.manager.Submit(ctx, req.BarbershopID, wizard)
	switch {
	case errors.Is(err, ErrIncompleteDraft):
		http.Error(w, "incomplete booking", http.StatusBadRequest)
		return
	case errors.Is(err, ErrSlotTaken):
		http.Error(w, "slot no longer available", http.StatusConflict)
		return
	case errors.Is(err, context.DeadlineExceeded):
		http.Error(w, "booking timed out", http.StatusGatewayTimeout)
		return
	case err != nil:
		h.logger.Error("appointment submission failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := map[string]any{"appointment": result.Appointment}
	if result.BRCode != "" {
		resp["pixCode"] = result.BRCode
	}
	writeJSON(w, http.StatusCreated, resp)
}

// GetAppointment handles GET /api/appointments/{appointmentID}
func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "appointmentID"))
	if err != nil {
		http.Error(w, "invalid appointment id", http.StatusBadRequest)
		return
	}

	appt, err := h.catalog.GetByID(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("appointment lookup failed", "error", err, "appointment_id", id)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

func shopParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	shopID, err := uuid.Parse(chi.URLParam(r, "barbershopID"))
	if err != nil {
		http.Error(w, "invalid barbershop id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return shopID, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
