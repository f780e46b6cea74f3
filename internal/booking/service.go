package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/barberia-pro/platform/pkg/logging"
)

var submitTracer = otel.Tracer("barberia.internal.booking.submit")

// submitStore is the slice of the repository Submit needs.
type submitStore interface {
	Create(ctx context.Context, appt *Appointment) error
	SetPixPayment(ctx context.Context, id uuid.UUID, pixPaymentID string) error
	CancelIfScheduled(ctx context.Context, id uuid.UUID) (bool, error)
}

// ChargeOpener opens a PIX charge for a freshly created appointment and
// returns the charge id and the copy-paste BR Code.
type ChargeOpener interface {
	OpenCharge(ctx context.Context, appt *Appointment) (chargeID, brCode string, err error)
}

type confirmationNotifier interface {
	AppointmentConfirmed(ctx context.Context, appt *Appointment, brCode string) error
}

type slotInvalidator interface {
	Invalidate(ctx context.Context, barbershopID, barberID uuid.UUID, date string)
}

// Manager runs the booking submission flow: persist the appointment, open
// the PIX charge, refresh availability, and notify the client.
type Manager struct {
	store    submitStore
	charges  ChargeOpener
	notifier confirmationNotifier
	slots    slotInvalidator
	timeout  time.Duration
	logger   *logging.Logger
}

// ManagerConfig wires the submission flow.
type ManagerConfig struct {
	Store    submitStore
	Charges  ChargeOpener
	Notifier confirmationNotifier
	Slots    slotInvalidator
	Timeout  time.Duration
	Logger   *logging.Logger
}

// NewManager creates the booking manager.
func NewManager(cfg ManagerConfig) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Manager{
		store:    cfg.Store,
		charges:  cfg.Charges,
		notifier: cfg.Notifier,
		slots:    cfg.Slots,
		timeout:  cfg.Timeout,
		logger:   cfg.Logger,
	}
}

// SubmitResult is what a completed submission hands back to the client.
type SubmitResult struct {
	Appointment *Appointment
	BRCode      string
}

// Submit turns a completed wizard into a persisted appointment. The slot is
// reserved first; if the PIX charge cannot be opened afterward the
// appointment is cancelled and the error surfaced, so a failed payment setup
// never holds a slot. Notification and cache invalidation are best effort.
func (m *Manager) Submit(ctx context.Context, barbershopID uuid.UUID, w Wizard) (*SubmitResult, error) {
	ctx, span := submitTracer.Start(ctx, "booking.submit",
		trace.WithAttributes(attribute.String("barberia.barbershop_id", barbershopID.String())))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if !w.CanSubmit() {
		return nil, ErrIncompleteDraft
	}

	draft := w.Draft
	serviceIDs := make([]uuid.UUID, 0, len(draft.Services))
	for _, svc := range draft.Services {
		serviceIDs = append(serviceIDs, svc.ID)
	}

	appt := &Appointment{
		ID:            uuid.New(),
		BarbershopID:  barbershopID,
		BarberID:      draft.Barber.ID,
		ServiceIDs:    serviceIDs,
		Date:          draft.Date,
		Time:          draft.Time,
		ClientName:    draft.ClientName,
		ClientPhone:   draft.ClientPhone,
		Notes:         draft.Notes,
		PaymentMethod: draft.PaymentMethod,
		Status:        StatusScheduled,
		TotalCents:    w.TotalPriceCents(),
		CreatedAt:     time.Now().UTC(),
	}
	span.SetAttributes(
		attribute.String("barberia.date", appt.Date),
		attribute.String("barberia.time", appt.Time),
	)

	if err := m.store.Create(ctx, appt); err != nil {
		return nil, err
	}

	var brCode string
	if draft.PaymentMethod == PaymentPix && m.charges != nil {
		chargeID, code, err := m.charges.OpenCharge(ctx, appt)
		if err != nil {
			m.release(appt)
			return nil, fmt.Errorf("booking: open pix charge: %w", err)
		}
		if err := m.store.SetPixPayment(ctx, appt.ID, chargeID); err != nil {
			m.release(appt)
			return nil, fmt.Errorf("booking: attach pix charge: %w", err)
		}
		appt.PixPaymentID = chargeID
		brCode = code
	}

	if m.slots != nil {
		m.slots.Invalidate(ctx, appt.BarbershopID, appt.BarberID, appt.Date)
	}

	if m.notifier != nil {
		if err := m.notifier.AppointmentConfirmed(ctx, appt, brCode); err != nil {
			m.logger.Error("booking confirmation notification failed", "error", err, "appointment_id", appt.ID)
		}
	}

	m.logger.Info("appointment created",
		"appointment_id", appt.ID,
		"barbershop_id", appt.BarbershopID,
		"barber_id", appt.BarberID,
		"date", appt.Date,
		"time", appt.Time,
	)
	return &SubmitResult{Appointment: appt, BRCode: brCode}, nil
}

// release frees the slot after a failed charge setup. It runs on a fresh
// context so a submission timeout cannot strand a scheduled appointment.
func (m *Manager) release(appt *Appointment) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := m.store.CancelIfScheduled(ctx, appt.ID); err != nil {
		m.logger.Error("failed to release slot after charge error", "error", err, "appointment_id", appt.ID)
	}
	if m.slots != nil {
		m.slots.Invalidate(ctx, appt.BarbershopID, appt.BarberID, appt.Date)
	}
}
