package gamification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository persists user points and referral codes.
type Repository struct {
	db querier
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("gamification: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithQuerier allows injecting pgxmock in tests.
func NewRepositoryWithQuerier(q querier) *Repository {
	return &Repository{db: q}
}

// GetPoints loads a user's score. Users without a row get a zero-valued
// record at level 1 rather than ErrNotFound; a new customer simply has no
// points yet.
func (r *Repository) GetPoints(ctx context.Context, userID uuid.UUID) (*UserPoints, error) {
	query := `
		SELECT user_id, barbershop_id, referral_points, loyalty_points, achievement_points
		FROM user_points
		WHERE user_id = $1
	`
	up := &UserPoints{}
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&up.UserID, &up.BarbershopID, &up.ReferralPoints, &up.LoyaltyPoints, &up.AchievementPoints,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		up = &UserPoints{UserID: userID}
		up.Derive()
		return up, nil
	}
	if err != nil {
		return nil, fmt.Errorf("gamification: get points: %w", err)
	}
	up.Derive()
	return up, nil
}

// AddPoints awards points to a user in one category, creating the row on
// first award.
func (r *Repository) AddPoints(ctx context.Context, userID, barbershopID uuid.UUID, category PointCategory, delta int64) error {
	var column string
	switch category {
	case PointsReferral:
		column = "referral_points"
	case PointsLoyalty:
		column = "loyalty_points"
	case PointsAchievement:
		column = "achievement_points"
	default:
		return fmt.Errorf("gamification: unknown point category %q", category)
	}

	query := fmt.Sprintf(`
		INSERT INTO user_points (user_id, barbershop_id, %s)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET %s = user_points.%s + EXCLUDED.%s
	`, column, column, column, column)
	if _, err := r.db.Exec(ctx, query, userID, barbershopID, delta); err != nil {
		return fmt.Errorf("gamification: add points: %w", err)
	}
	return nil
}

// Leaderboard returns the top scorers of one barbershop, ranked by total
// points.
func (r *Repository) Leaderboard(ctx context.Context, barbershopID uuid.UUID, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT user_id, user_name,
			referral_points + loyalty_points + achievement_points AS total
		FROM user_points
		WHERE barbershop_id = $1
		ORDER BY total DESC, user_name ASC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, barbershopID, limit)
	if err != nil {
		return nil, fmt.Errorf("gamification: leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.UserName, &e.Points); err != nil {
			return nil, fmt.Errorf("gamification: scan leaderboard row: %w", err)
		}
		e.Rank = len(entries) + 1
		e.Level = LevelForPoints(e.Points)
		e.Badge = BadgeForLevel(e.Level)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("gamification: leaderboard rows: %w", err)
	}
	return entries, nil
}

// CreateReferralCode stores a freshly generated code.
func (r *Repository) CreateReferralCode(ctx context.Context, rc *ReferralCode) error {
	query := `
		INSERT INTO referral_codes
			(id, code, user_id, barbershop_id, uses, max_uses, reward_points, is_active, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		rc.ID, rc.Code, rc.UserID, rc.BarbershopID, rc.Uses, rc.MaxUses,
		rc.RewardPoints, rc.Active, rc.CreatedAt, rc.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("gamification: insert referral code: %w", err)
	}
	return nil
}

// CodeExists reports whether a code is already taken, regardless of state.
// Expired codes still occupy their string so lookups stay unambiguous.
func (r *Repository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM referral_codes WHERE code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("gamification: code exists: %w", err)
	}
	return exists, nil
}

// GetReferralCode loads one code by its string.
func (r *Repository) GetReferralCode(ctx context.Context, code string) (*ReferralCode, error) {
	query := `
		SELECT id, code, user_id, barbershop_id, uses, max_uses, reward_points, is_active, created_at, expires_at
		FROM referral_codes
		WHERE code = $1
	`
	rc := &ReferralCode{}
	err := r.db.QueryRow(ctx, query, code).Scan(
		&rc.ID, &rc.Code, &rc.UserID, &rc.BarbershopID, &rc.Uses, &rc.MaxUses,
		&rc.RewardPoints, &rc.Active, &rc.CreatedAt, &rc.ExpiresAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("gamification: get referral code: %w", err)
	}
	return rc, nil
}

// ConsumeReferralCode increments a code's use count if it is still
// redeemable, returning the owner and reward. The conditional update makes
// concurrent redemptions of the last use race-safe.
func (r *Repository) ConsumeReferralCode(ctx context.Context, code string, now time.Time) (uuid.UUID, int64, error) {
	query := `
		UPDATE referral_codes
		SET uses = uses + 1
		WHERE code = $1 AND is_active AND uses < max_uses AND expires_at > $2
		RETURNING user_id, reward_points
	`
	var ownerID uuid.UUID
	var reward int64
	err := r.db.QueryRow(ctx, query, code, now).Scan(&ownerID, &reward)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, 0, ErrCodeUnavailable
	}
	if err != nil {
		return uuid.Nil, 0, fmt.Errorf("gamification: consume referral code: %w", err)
	}
	return ownerID, reward, nil
}
