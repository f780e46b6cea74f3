package payments

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/barberia-pro/platform/internal/booking"
	observemetrics "github.com/barberia-pro/platform/internal/observability/metrics"
	"github.com/barberia-pro/platform/pkg/logging"
)

type appointmentStore interface {
	GetByPixPaymentID(ctx context.Context, pixPaymentID string) (*booking.Appointment, error)
	ConfirmIfScheduled(ctx context.Context, id uuid.UUID) (bool, error)
}

type chargeStore interface {
	MarkPaidIfPending(ctx context.Context, id string, paidAt time.Time) (bool, error)
}

type processedTracker interface {
	AlreadyProcessed(ctx context.Context, provider, eventID string) (bool, error)
	MarkProcessed(ctx context.Context, provider, eventID string) (bool, error)
}

type paymentNotifier interface {
	PaymentConfirmed(ctx context.Context, appt *booking.Appointment, amountCents int64) error
}

// WebhookHandler ingests PIX payment events from the provider. Once a payload
// is structurally valid the notifier always gets a success response, even when
// downstream steps fail; those failures are logged, never surfaced, so the
// provider does not retry-storm us.
type WebhookHandler struct {
	charges      chargeStore
	appointments appointmentStore
	processed    processedTracker
	notifier     paymentNotifier
	metrics      *observemetrics.WebhookMetrics
	logger       *logging.Logger
}

// WebhookConfig wires the handler's collaborators.
type WebhookConfig struct {
	Charges      chargeStore
	Appointments appointmentStore
	Processed    processedTracker
	Notifier     paymentNotifier
	Metrics      *observemetrics.WebhookMetrics
	Logger       *logging.Logger
}

// NewWebhookHandler builds the PIX webhook handler.
func NewWebhookHandler(cfg WebhookConfig) *WebhookHandler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &WebhookHandler{
		charges:      cfg.Charges,
		appointments: cfg.Appointments,
		processed:    cfg.Processed,
		notifier:     cfg.Notifier,
		metrics:      cfg.Metrics,
		logger:       cfg.Logger,
	}
}

type pixWebhookEvent struct {
	ID            string  `json:"id"`
	PixID         string  `json:"pixId"`
	Status        string  `json:"status"`
	Amount        float64 `json:"amount"`
	PaidAt        string  `json:"paidAt"`
	PayerDocument string  `json:"payerDocument"`
	PayerName     string  `json:"payerName"`
}

// Handle processes POST /webhooks/pix.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var evt pixWebhookEvent
	if err := json.NewDecoder(r.Body).Decode(&evt); err != nil {
		h.logger.Warn("malformed pix webhook payload", "error", err)
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if evt.PixID == "" || evt.Status == "" {
		http.Error(w, "missing pixId or status", http.StatusBadRequest)
		return
	}

	// Payload is structurally valid; everything below is best-effort.
	eventID := evt.ID
	if eventID == "" {
		eventID = evt.PixID + ":" + evt.Status
	}

	if seen, err := h.processed.AlreadyProcessed(r.Context(), "pix", eventID); err != nil {
		h.logger.Error("processed lookup failed", "error", err, "event_id", eventID)
	} else if seen {
		h.metrics.ObservePix("duplicate")
		respondSuccess(w)
		return
	}

	status := h.process(r.Context(), evt)

	if _, err := h.processed.MarkProcessed(r.Context(), "pix", eventID); err != nil {
		h.logger.Error("failed to mark pix event processed", "error", err, "event_id", eventID)
	}
	h.metrics.ObservePix(status)
	h.metrics.ObserveLatency("pix", time.Since(start).Seconds())
	respondSuccess(w)
}

// process runs the confirmation pipeline and returns a metrics label.
func (h *WebhookHandler) process(ctx context.Context, evt pixWebhookEvent) string {
	if evt.Status != string(ChargePaid) {
		h.logger.Info("pix event ignored", "pix_id", evt.PixID, "status", evt.Status)
		return "ignored"
	}

	paidAt := time.Now().UTC()
	if parsed, err := time.Parse(time.RFC3339, evt.PaidAt); err == nil {
		paidAt = parsed
	}
	if _, err := h.charges.MarkPaidIfPending(ctx, evt.PixID, paidAt); err != nil {
		h.logger.Error("failed to mark charge paid", "error", err, "pix_id", evt.PixID)
	}

	appt, err := h.appointments.GetByPixPaymentID(ctx, evt.PixID)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			h.logger.Warn("pix event references unknown appointment", "pix_id", evt.PixID)
			return "orphan"
		}
		h.logger.Error("appointment lookup failed", "error", err, "pix_id", evt.PixID)
		return "error"
	}

	confirmed, err := h.appointments.ConfirmIfScheduled(ctx, appt.ID)
	if err != nil {
		h.logger.Error("appointment confirmation failed", "error", err, "appointment_id", appt.ID)
		return "error"
	}
	if !confirmed {
		// A concurrent delivery won the conditional update; nothing left to do.
		h.logger.Info("appointment already confirmed", "appointment_id", appt.ID)
		return "duplicate"
	}

	amountCents := int64(math.Round(evt.Amount * 100))
	if amountCents == 0 {
		amountCents = appt.TotalCents
	}

	// Notification is best-effort: the confirmation above is authoritative and
	// never rolled back on send failure.
	if err := h.notifier.PaymentConfirmed(ctx, appt, amountCents); err != nil {
		h.logger.Error("payment confirmation notify failed", "error", err, "appointment_id", appt.ID)
		h.metrics.ObserveNotification("payment_confirmation", "failed")
	} else {
		h.metrics.ObserveNotification("payment_confirmation", "sent")
	}

	h.logger.Info("appointment confirmed via pix webhook",
		"appointment_id", appt.ID,
		"pix_id", evt.PixID,
		"amount_cents", amountCents,
	)
	return "confirmed"
}

func respondSuccess(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
