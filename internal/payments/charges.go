package payments

import (
	"context"
	"fmt"

	"github.com/barberia-pro/platform/internal/booking"
	"github.com/barberia-pro/platform/pkg/logging"
)

type chargeInserter interface {
	Insert(ctx context.Context, charge *Charge) error
}

// ChargeService opens gateway charges for appointments and records them in
// the pix_payments table. It satisfies the booking flow's ChargeOpener.
type ChargeService struct {
	gateway Gateway
	store   chargeInserter
	logger  *logging.Logger
}

// NewChargeService creates the charge service.
func NewChargeService(gateway Gateway, store chargeInserter, logger *logging.Logger) *ChargeService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ChargeService{gateway: gateway, store: store, logger: logger}
}

// OpenCharge creates a PIX charge for the appointment total and persists it.
func (s *ChargeService) OpenCharge(ctx context.Context, appt *booking.Appointment) (string, string, error) {
	req := CreateChargeRequest{
		AmountCents:   appt.TotalCents,
		Description:   fmt.Sprintf("Agendamento %s %s", appt.Date, appt.Time),
		CustomerRef:   appt.ClientPhone,
		AppointmentID: appt.ID,
	}

	charge, err := s.gateway.CreateCharge(ctx, req)
	if err != nil {
		return "", "", fmt.Errorf("payments: create charge: %w", err)
	}

	if s.store != nil {
		if err := s.store.Insert(ctx, charge); err != nil {
			return "", "", fmt.Errorf("payments: record charge: %w", err)
		}
	}

	s.logger.Info("pix charge opened",
		"charge_id", charge.ID,
		"appointment_id", appt.ID,
		"amount_cents", charge.AmountCents,
	)
	return charge.ID, charge.BRCode, nil
}
