package gamification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/barberia-pro/platform/pkg/logging"
)

// Store is the persistence surface the service needs.
type Store interface {
	CodeChecker
	GetPoints(ctx context.Context, userID uuid.UUID) (*UserPoints, error)
	AddPoints(ctx context.Context, userID, barbershopID uuid.UUID, category PointCategory, delta int64) error
	Leaderboard(ctx context.Context, barbershopID uuid.UUID, limit int) ([]LeaderboardEntry, error)
	CreateReferralCode(ctx context.Context, rc *ReferralCode) error
	GetReferralCode(ctx context.Context, code string) (*ReferralCode, error)
	ConsumeReferralCode(ctx context.Context, code string, now time.Time) (uuid.UUID, int64, error)
}

// Default referral code terms.
const (
	defaultMaxUses      = 10
	defaultRewardPoints = 50
	defaultCodeLifetime = 90 * 24 * time.Hour
)

// Service implements the rewards program on top of the store.
type Service struct {
	store       Store
	maxAttempts int
	now         func() time.Time
	logger      *logging.Logger
}

// NewService creates the gamification service. maxAttempts bounds referral
// code generation retries.
func NewService(store Store, maxAttempts int, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:       store,
		maxAttempts: maxAttempts,
		now:         time.Now,
		logger:      logger,
	}
}

// Points returns a user's score with derived level and badge.
func (s *Service) Points(ctx context.Context, userID uuid.UUID) (*UserPoints, error) {
	return s.store.GetPoints(ctx, userID)
}

// Leaderboard returns the barbershop's ranked top scorers.
func (s *Service) Leaderboard(ctx context.Context, barbershopID uuid.UUID, limit int) ([]LeaderboardEntry, error) {
	return s.store.Leaderboard(ctx, barbershopID, limit)
}

// CreateReferralCode mints a new code for a user under the default terms.
func (s *Service) CreateReferralCode(ctx context.Context, userID, barbershopID uuid.UUID) (*ReferralCode, error) {
	code, err := GenerateReferralCode(ctx, s.store, s.maxAttempts)
	if err != nil {
		return nil, err
	}
	now := s.now()
	rc := &ReferralCode{
		ID:           uuid.New(),
		Code:         code,
		UserID:       userID,
		BarbershopID: barbershopID,
		MaxUses:      defaultMaxUses,
		RewardPoints: defaultRewardPoints,
		Active:       true,
		CreatedAt:    now,
		ExpiresAt:    now.Add(defaultCodeLifetime),
	}
	if err := s.store.CreateReferralCode(ctx, rc); err != nil {
		return nil, err
	}
	s.logger.Info("referral code created", "user_id", userID, "code", rc.Code)
	return rc, nil
}

// RedeemReferralCode consumes one use of a code and awards the reward to the
// code's owner. Returns the points awarded.
func (s *Service) RedeemReferralCode(ctx context.Context, code string, barbershopID uuid.UUID) (int64, error) {
	ownerID, reward, err := s.store.ConsumeReferralCode(ctx, code, s.now())
	if err != nil {
		return 0, err
	}
	if err := s.store.AddPoints(ctx, ownerID, barbershopID, PointsReferral, reward); err != nil {
		// The use is already consumed; surface the award failure so the
		// caller can retry the credit.
		return 0, fmt.Errorf("gamification: award referral points: %w", err)
	}
	s.logger.Info("referral code redeemed", "code", code, "owner_id", ownerID, "reward", reward)
	return reward, nil
}

// AwardLoyaltyPoints credits a completed appointment.
func (s *Service) AwardLoyaltyPoints(ctx context.Context, userID, barbershopID uuid.UUID, points int64) error {
	return s.store.AddPoints(ctx, userID, barbershopID, PointsLoyalty, points)
}
