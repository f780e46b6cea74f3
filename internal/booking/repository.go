package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository persists appointments and the barbershop catalog.
type Repository struct {
	db querier
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("booking: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithQuerier allows injecting pgxmock in tests.
func NewRepositoryWithQuerier(q querier) *Repository {
	return &Repository{db: q}
}

// Create inserts a scheduled appointment. The slot is reserved atomically: a
// partial unique index on (barber_id, date, time) for non-cancelled rows turns
// a double-booking race into ErrSlotTaken.
func (r *Repository) Create(ctx context.Context, appt *Appointment) error {
	query := `
		INSERT INTO appointments
			(id, barbershop_id, barber_id, service_ids, date, time,
			 client_name, client_phone, notes, payment_method, status, paid, total_cents, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.db.Exec(ctx, query,
		appt.ID, appt.BarbershopID, appt.BarberID, appt.ServiceIDs, appt.Date, appt.Time,
		appt.ClientName, appt.ClientPhone, appt.Notes, string(appt.PaymentMethod),
		string(appt.Status), appt.Paid, appt.TotalCents, appt.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrSlotTaken
		}
		return fmt.Errorf("booking: insert appointment: %w", err)
	}
	return nil
}

// GetByID loads one appointment.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	query := appointmentSelect + ` WHERE id = $1`
	return r.scanAppointment(r.db.QueryRow(ctx, query, id))
}

// GetByPixPaymentID loads the appointment correlated to a PIX charge.
func (r *Repository) GetByPixPaymentID(ctx context.Context, pixPaymentID string) (*Appointment, error) {
	query := appointmentSelect + ` WHERE pix_payment_id = $1`
	return r.scanAppointment(r.db.QueryRow(ctx, query, pixPaymentID))
}

// SetPixPayment links a created PIX charge to the appointment.
func (r *Repository) SetPixPayment(ctx context.Context, id uuid.UUID, pixPaymentID string) error {
	query := `UPDATE appointments SET pix_payment_id = $2 WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id, pixPaymentID); err != nil {
		return fmt.Errorf("booking: set pix payment: %w", err)
	}
	return nil
}

// ConfirmIfScheduled marks the appointment confirmed and paid only when it is
// still in the scheduled state. Returns false when another delivery already
// confirmed it, which is what makes webhook redelivery idempotent.
func (r *Repository) ConfirmIfScheduled(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE appointments
		SET status = $2, paid = TRUE
		WHERE id = $1 AND status = $3
	`
	ct, err := r.db.Exec(ctx, query, id, string(StatusConfirmed), string(StatusScheduled))
	if err != nil {
		return false, fmt.Errorf("booking: confirm appointment: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

// CancelIfScheduled releases the slot when a submission cannot complete.
func (r *Repository) CancelIfScheduled(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE appointments
		SET status = $2
		WHERE id = $1 AND status = $3
	`
	ct, err := r.db.Exec(ctx, query, id, string(StatusCancelled), string(StatusScheduled))
	if err != nil {
		return false, fmt.Errorf("booking: cancel appointment: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

// BookedTimes lists the taken slot labels for a barber and day, cancelled
// appointments excluded.
func (r *Repository) BookedTimes(ctx context.Context, barbershopID, barberID uuid.UUID, date string) ([]string, error) {
	query := `
		SELECT time FROM appointments
		WHERE barbershop_id = $1 AND barber_id = $2 AND date = $3 AND status <> $4
		ORDER BY time
	`
	rows, err := r.db.Query(ctx, query, barbershopID, barberID, date, string(StatusCancelled))
	if err != nil {
		return nil, fmt.Errorf("booking: booked times: %w", err)
	}
	defer rows.Close()

	var times []string
	for rows.Next() {
		var slot string
		if err := rows.Scan(&slot); err != nil {
			return nil, fmt.Errorf("booking: scan booked time: %w", err)
		}
		times = append(times, slot)
	}
	return times, rows.Err()
}

// GetBarber loads one barber scoped to the barbershop.
func (r *Repository) GetBarber(ctx context.Context, barbershopID, barberID uuid.UUID) (*Barber, error) {
	query := `SELECT id, barbershop_id, name FROM barbers WHERE id = $1 AND barbershop_id = $2`
	var b Barber
	if err := r.db.QueryRow(ctx, query, barberID, barbershopID).Scan(&b.ID, &b.BarbershopID, &b.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("booking: load barber: %w", err)
	}
	return &b, nil
}

// ListBarbers lists a barbershop's barbers.
func (r *Repository) ListBarbers(ctx context.Context, barbershopID uuid.UUID) ([]Barber, error) {
	query := `SELECT id, barbershop_id, name FROM barbers WHERE barbershop_id = $1 ORDER BY name`
	rows, err := r.db.Query(ctx, query, barbershopID)
	if err != nil {
		return nil, fmt.Errorf("booking: list barbers: %w", err)
	}
	defer rows.Close()

	var barbers []Barber
	for rows.Next() {
		var b Barber
		if err := rows.Scan(&b.ID, &b.BarbershopID, &b.Name); err != nil {
			return nil, fmt.Errorf("booking: scan barber: %w", err)
		}
		barbers = append(barbers, b)
	}
	return barbers, rows.Err()
}

// GetServices loads services by id scoped to the barbershop. Every requested
// id must exist; a partial result is treated as not found so price totals can
// never silently drop a line item.
func (r *Repository) GetServices(ctx context.Context, barbershopID uuid.UUID, ids []uuid.UUID) ([]Service, error) {
	query := `
		SELECT id, barbershop_id, name, price_cents, duration_minutes
		FROM services
		WHERE barbershop_id = $1 AND id = ANY($2)
	`
	rows, err := r.db.Query(ctx, query, barbershopID, ids)
	if err != nil {
		return nil, fmt.Errorf("booking: load services: %w", err)
	}
	defer rows.Close()

	var services []Service
	for rows.Next() {
		var s Service
		if err := rows.Scan(&s.ID, &s.BarbershopID, &s.Name, &s.PriceCents, &s.DurationMinutes); err != nil {
			return nil, fmt.Errorf("booking: scan service: %w", err)
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(services) != len(ids) {
		return nil, ErrNotFound
	}
	return services, nil
}

// ListServices lists a barbershop's catalog.
func (r *Repository) ListServices(ctx context.Context, barbershopID uuid.UUID) ([]Service, error) {
	query := `
		SELECT id, barbershop_id, name, price_cents, duration_minutes
		FROM services
		WHERE barbershop_id = $1
		ORDER BY name
	`
	rows, err := r.db.Query(ctx, query, barbershopID)
	if err != nil {
		return nil, fmt.Errorf("booking: list services: %w", err)
	}
	defer rows.Close()

	var services []Service
	for rows.Next() {
		var s Service
		if err := rows.Scan(&s.ID, &s.BarbershopID, &s.Name, &s.PriceCents, &s.DurationMinutes); err != nil {
			return nil, fmt.Errorf("booking: scan service: %w", err)
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

// GetBarbershop loads one barbershop.
func (r *Repository) GetBarbershop(ctx context.Context, id uuid.UUID) (*Barbershop, error) {
	query := `SELECT id, name, address, phone FROM barbershops WHERE id = $1`
	var shop Barbershop
	if err := r.db.QueryRow(ctx, query, id).Scan(&shop.ID, &shop.Name, &shop.Address, &shop.Phone); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("booking: load barbershop: %w", err)
	}
	return &shop, nil
}

const appointmentSelect = `
	SELECT id, barbershop_id, barber_id, service_ids, date, time,
	       client_name, client_phone, notes, payment_method, status, paid,
	       COALESCE(pix_payment_id, ''), total_cents, created_at
	FROM appointments`

func (r *Repository) scanAppointment(row pgx.Row) (*Appointment, error) {
	var (
		appt          Appointment
		paymentMethod string
		status        string
		createdAt     time.Time
	)
	err := row.Scan(
		&appt.ID, &appt.BarbershopID, &appt.BarberID, &appt.ServiceIDs, &appt.Date, &appt.Time,
		&appt.ClientName, &appt.ClientPhone, &appt.Notes, &paymentMethod, &status, &appt.Paid,
		&appt.PixPaymentID, &appt.TotalCents, &createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("booking: load appointment: %w", err)
	}
	appt.PaymentMethod = PaymentMethod(paymentMethod)
	appt.Status = AppointmentStatus(status)
	appt.CreatedAt = createdAt
	return &appt, nil
}
