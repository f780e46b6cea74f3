package gamification

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound means the user has no points record yet.
	ErrNotFound = errors.New("gamification: not found")
	// ErrCodeUnavailable means the referral code is unknown, inactive,
	// expired, or out of uses.
	ErrCodeUnavailable = errors.New("gamification: referral code unavailable")
)

// PointCategory is the bucket a point award lands in.
type PointCategory string

const (
	PointsReferral    PointCategory = "referral"
	PointsLoyalty     PointCategory = "loyalty"
	PointsAchievement PointCategory = "achievement"
)

// UserPoints is a user's accumulated score, with the derived level and badge.
type UserPoints struct {
	UserID            uuid.UUID `json:"userId"`
	BarbershopID      uuid.UUID `json:"barbershopId"`
	ReferralPoints    int64     `json:"referralPoints"`
	LoyaltyPoints     int64     `json:"loyaltyPoints"`
	AchievementPoints int64     `json:"achievementPoints"`
	TotalPoints       int64     `json:"totalPoints"`
	Level             int       `json:"currentLevel"`
	Badge             string    `json:"badge"`
}

// Derive fills TotalPoints, Level, and Badge from the category buckets.
func (u *UserPoints) Derive() {
	u.TotalPoints = u.ReferralPoints + u.LoyaltyPoints + u.AchievementPoints
	u.Level = LevelForPoints(u.TotalPoints)
	u.Badge = BadgeForLevel(u.Level)
}

// ReferralCode is a redeemable invite token owned by one user.
type ReferralCode struct {
	ID           uuid.UUID `json:"id"`
	Code         string    `json:"code"`
	UserID       uuid.UUID `json:"userId"`
	BarbershopID uuid.UUID `json:"barbershopId"`
	Uses         int       `json:"uses"`
	MaxUses      int       `json:"maxUses"`
	RewardPoints int64     `json:"reward"`
	Active       bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// LeaderboardEntry is one row of the barbershop ranking.
type LeaderboardEntry struct {
	UserID   uuid.UUID `json:"userId"`
	UserName string    `json:"userName"`
	Points   int64     `json:"points"`
	Level    int       `json:"level"`
	Rank     int       `json:"rank"`
	Badge    string    `json:"badge"`
}
