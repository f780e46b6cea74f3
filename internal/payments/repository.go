package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository persists PIX charges and their lifecycle transitions.
type Repository struct {
	db querier
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("payments: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithQuerier allows injecting pgxmock in tests.
func NewRepositoryWithQuerier(q querier) *Repository {
	return &Repository{db: q}
}

// Insert stores a freshly created charge.
func (r *Repository) Insert(ctx context.Context, charge *Charge) error {
	query := `
		INSERT INTO pix_payments
			(id, amount_cents, description, br_code, status, customer_ref, appointment_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		charge.ID, charge.AmountCents, charge.Description, charge.BRCode,
		string(charge.Status), charge.CustomerRef, charge.AppointmentID,
		charge.CreatedAt, charge.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("payments: insert charge: %w", err)
	}
	return nil
}

// MarkPaidIfPending transitions pending -> paid. Returns false when the
// charge was already settled, expired or cancelled.
func (r *Repository) MarkPaidIfPending(ctx context.Context, id string, paidAt time.Time) (bool, error) {
	query := `
		UPDATE pix_payments
		SET status = $2, paid_at = $3
		WHERE id = $1 AND status = $4
	`
	ct, err := r.db.Exec(ctx, query, id, string(ChargePaid), paidAt, string(ChargePending))
	if err != nil {
		return false, fmt.Errorf("payments: mark paid: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

// ExpirePending transitions every pending charge past its deadline to
// expired, returning how many rows changed.
func (r *Repository) ExpirePending(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE pix_payments
		SET status = $1
		WHERE status = $2 AND expires_at < $3
	`
	ct, err := r.db.Exec(ctx, query, string(ChargeExpired), string(ChargePending), now)
	if err != nil {
		return 0, fmt.Errorf("payments: expire pending: %w", err)
	}
	return ct.RowsAffected(), nil
}

// GetByID loads one charge.
func (r *Repository) GetByID(ctx context.Context, id string) (*Charge, error) {
	query := `
		SELECT id, amount_cents, description, br_code, status, customer_ref, appointment_id,
		       created_at, expires_at, paid_at
		FROM pix_payments
		WHERE id = $1
	`
	var (
		charge Charge
		status string
		paidAt *time.Time
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&charge.ID, &charge.AmountCents, &charge.Description, &charge.BRCode,
		&status, &charge.CustomerRef, &charge.AppointmentID,
		&charge.CreatedAt, &charge.ExpiresAt, &paidAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrChargeNotFound
		}
		return nil, fmt.Errorf("payments: load charge: %w", err)
	}
	charge.Status = ChargeStatus(status)
	charge.PaidAt = paidAt
	return &charge, nil
}
