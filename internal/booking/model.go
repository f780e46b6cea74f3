package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus is the lifecycle state of a persisted appointment.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// PaymentMethod selects how the customer pays at confirmation.
type PaymentMethod string

const (
	PaymentPix  PaymentMethod = "pix"
	PaymentCash PaymentMethod = "dinheiro"
)

var (
	ErrNotFound        = errors.New("booking: not found")
	ErrSlotTaken       = errors.New("booking: slot already taken")
	ErrIncompleteDraft = errors.New("booking: draft is incomplete")
)

// Barbershop is the tenant that owns barbers, services and appointments.
type Barbershop struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address"`
	Phone   string    `json:"phone"`
}

// Barber works at a single barbershop.
type Barber struct {
	ID           uuid.UUID `json:"id"`
	BarbershopID uuid.UUID `json:"barbershop_id"`
	Name         string    `json:"name"`
}

// Service is a bookable offering with a price and a duration.
type Service struct {
	ID              uuid.UUID `json:"id"`
	BarbershopID    uuid.UUID `json:"barbershop_id"`
	Name            string    `json:"name"`
	PriceCents      int64     `json:"price_cents"`
	DurationMinutes int       `json:"duration_minutes"`
}

// Appointment is the persisted booking record. It is the one resource shared
// by the submission path and the payment webhook path, so status changes go
// through conditional updates only.
type Appointment struct {
	ID            uuid.UUID         `json:"id"`
	BarbershopID  uuid.UUID         `json:"barbershop_id"`
	BarberID      uuid.UUID         `json:"barber_id"`
	ServiceIDs    []uuid.UUID       `json:"service_ids"`
	Date          string            `json:"date"`
	Time          string            `json:"time"`
	ClientName    string            `json:"client_name"`
	ClientPhone   string            `json:"client_phone"`
	Notes         string            `json:"notes,omitempty"`
	PaymentMethod PaymentMethod     `json:"payment_method"`
	Status        AppointmentStatus `json:"status"`
	Paid          bool              `json:"paid"`
	PixPaymentID  string            `json:"pix_payment_id,omitempty"`
	TotalCents    int64             `json:"total_cents"`
	CreatedAt     time.Time         `json:"created_at"`
}
