package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/barberia-pro/platform/internal/booking"
	observemetrics "github.com/barberia-pro/platform/internal/observability/metrics"
	"github.com/barberia-pro/platform/internal/whatsapp"
	"github.com/barberia-pro/platform/pkg/logging"
)

// Catalog resolves the names shown inside notification messages.
type Catalog interface {
	GetBarbershop(ctx context.Context, id uuid.UUID) (*booking.Barbershop, error)
	GetBarber(ctx context.Context, barbershopID, barberID uuid.UUID) (*booking.Barber, error)
	GetServices(ctx context.Context, barbershopID uuid.UUID, ids []uuid.UUID) ([]booking.Service, error)
}

// Service sends WhatsApp notifications to clients. Every send is best
// effort: callers treat failures as log-and-continue.
type Service struct {
	client  whatsapp.Client
	catalog Catalog
	metrics *observemetrics.WebhookMetrics
	logger  *logging.Logger
}

// NewService creates a notification service.
func NewService(client whatsapp.Client, catalog Catalog, metrics *observemetrics.WebhookMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		client:  client,
		catalog: catalog,
		metrics: metrics,
		logger:  logger,
	}
}

// AppointmentConfirmed sends the booking confirmation, including the PIX
// copy-paste code when the appointment is paid by PIX.
func (s *Service) AppointmentConfirmed(ctx context.Context, appt *booking.Appointment, brCode string) error {
	if s.client == nil {
		s.logger.Debug("notify: whatsapp client not configured, skipping")
		return nil
	}

	details, err := s.details(ctx, appt)
	if err != nil {
		s.metrics.ObserveNotification("appointment_confirmation", "error")
		return fmt.Errorf("notify: appointment confirmation: %w", err)
	}

	body := whatsapp.AppointmentConfirmation(details, brCode)
	if _, err := s.client.SendText(ctx, appt.ClientPhone, body); err != nil {
		s.metrics.ObserveNotification("appointment_confirmation", "error")
		return fmt.Errorf("notify: send appointment confirmation: %w", err)
	}

	s.metrics.ObserveNotification("appointment_confirmation", "sent")
	s.logger.Info("appointment confirmation sent", "appointment_id", appt.ID, "to", appt.ClientPhone)
	return nil
}

// PaymentConfirmed sends the payment receipt after the PIX webhook confirms
// a charge.
func (s *Service) PaymentConfirmed(ctx context.Context, appt *booking.Appointment, amountCents int64) error {
	if s.client == nil {
		s.logger.Debug("notify: whatsapp client not configured, skipping")
		return nil
	}

	serviceName := s.serviceNames(ctx, appt.BarbershopID, appt.ServiceIDs)
	body := whatsapp.PaymentConfirmation(appt.ClientName, amountCents, serviceName)
	if _, err := s.client.SendText(ctx, appt.ClientPhone, body); err != nil {
		s.metrics.ObserveNotification("payment_confirmation", "error")
		return fmt.Errorf("notify: send payment confirmation: %w", err)
	}

	s.metrics.ObserveNotification("payment_confirmation", "sent")
	s.logger.Info("payment confirmation sent", "appointment_id", appt.ID, "to", appt.ClientPhone)
	return nil
}

// AppointmentCancelled tells the client their booking was cancelled.
func (s *Service) AppointmentCancelled(ctx context.Context, appt *booking.Appointment) error {
	if s.client == nil {
		return nil
	}

	details, err := s.details(ctx, appt)
	if err != nil {
		s.metrics.ObserveNotification("appointment_cancellation", "error")
		return fmt.Errorf("notify: appointment cancellation: %w", err)
	}

	body := whatsapp.Cancellation(details)
	if _, err := s.client.SendText(ctx, appt.ClientPhone, body); err != nil {
		s.metrics.ObserveNotification("appointment_cancellation", "error")
		return fmt.Errorf("notify: send cancellation: %w", err)
	}

	s.metrics.ObserveNotification("appointment_cancellation", "sent")
	return nil
}

func (s *Service) details(ctx context.Context, appt *booking.Appointment) (whatsapp.AppointmentDetails, error) {
	details := whatsapp.AppointmentDetails{
		ClientName: appt.ClientName,
		Date:       appt.Date,
		Time:       appt.Time,
	}
	if s.catalog == nil {
		return details, nil
	}

	shop, err := s.catalog.GetBarbershop(ctx, appt.BarbershopID)
	if err != nil {
		return details, fmt.Errorf("get barbershop: %w", err)
	}
	details.BarbershopName = shop.Name

	barber, err := s.catalog.GetBarber(ctx, appt.BarbershopID, appt.BarberID)
	if err != nil {
		return details, fmt.Errorf("get barber: %w", err)
	}
	details.BarberName = barber.Name

	details.ServiceName = s.serviceNames(ctx, appt.BarbershopID, appt.ServiceIDs)
	return details, nil
}

// serviceNames joins the names of the booked services. Lookup failures fall
// back to an empty string; a missing service label is not worth failing a
// notification over.
func (s *Service) serviceNames(ctx context.Context, barbershopID uuid.UUID, ids []uuid.UUID) string {
	if s.catalog == nil || len(ids) == 0 {
		return ""
	}
	services, err := s.catalog.GetServices(ctx, barbershopID, ids)
	if err != nil {
		s.logger.Warn("notify: service lookup failed", "error", err)
		return ""
	}
	names := make([]string, 0, len(services))
	for _, svc := range services {
		names = append(names, svc.Name)
	}
	return strings.Join(names, " + ")
}
