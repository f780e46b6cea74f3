package gamification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
)

func newMockRepo(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)
	return NewRepositoryWithQuerier(mock), mock
}

func TestGetPointsMissingUserIsZeroed(t *testing.T) {
	repo, mock := newMockRepo(t)
	userID := uuid.New()

	mock.ExpectQuery(`SELECT user_id, barbershop_id`).
		WithArgs(userID).
		WillReturnError(pgx.ErrNoRows)

	up, err := repo.GetPoints(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetPoints: %v", err)
	}
	if up.TotalPoints != 0 || up.Level != 1 || up.Badge != BadgeBronze {
		t.Fatalf("expected fresh zero record, got %+v", up)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGetPointsDerivesLevel(t *testing.T) {
	repo, mock := newMockRepo(t)
	userID, shopID := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT user_id, barbershop_id`).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows(
			[]string{"user_id", "barbershop_id", "referral_points", "loyalty_points", "achievement_points"},
		).AddRow(userID, shopID, int64(400), int64(500), int64(200)))

	up, err := repo.GetPoints(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetPoints: %v", err)
	}
	if up.TotalPoints != 1100 || up.Level != 5 || up.Badge != BadgeGold {
		t.Fatalf("unexpected derivation: %+v", up)
	}
}

func TestAddPointsRejectsUnknownCategory(t *testing.T) {
	repo, _ := newMockRepo(t)

	err := repo.AddPoints(context.Background(), uuid.New(), uuid.New(), PointCategory("bogus"), 10)
	if err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestAddPointsUpserts(t *testing.T) {
	repo, mock := newMockRepo(t)
	userID, shopID := uuid.New(), uuid.New()

	mock.ExpectExec(`INSERT INTO user_points \(user_id, barbershop_id, loyalty_points\)`).
		WithArgs(userID, shopID, int64(120)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.AddPoints(context.Background(), userID, shopID, PointsLoyalty, 120); err != nil {
		t.Fatalf("AddPoints: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestLeaderboardRanksRows(t *testing.T) {
	repo, mock := newMockRepo(t)
	shopID := uuid.New()
	first, second := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT user_id, user_name`).
		WithArgs(shopID, 10).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "user_name", "total"}).
			AddRow(first, "João Silva", int64(1200)).
			AddRow(second, "Maria Santos", int64(450)))

	entries, err := repo.Leaderboard(context.Background(), shopID, 0)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Rank != 1 || entries[1].Rank != 2 {
		t.Fatalf("ranks wrong: %+v", entries)
	}
	if entries[0].Level != 5 || entries[0].Badge != BadgeGold {
		t.Fatalf("level derivation wrong: %+v", entries[0])
	}
}

func TestConsumeReferralCodeUnavailable(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`UPDATE referral_codes`).
		WithArgs("BARBERAAAAAA", pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	_, _, err := repo.ConsumeReferralCode(context.Background(), "BARBERAAAAAA", time.Now())
	if !errors.Is(err, ErrCodeUnavailable) {
		t.Fatalf("expected ErrCodeUnavailable, got %v", err)
	}
}

func TestConsumeReferralCodeReturnsOwner(t *testing.T) {
	repo, mock := newMockRepo(t)
	ownerID := uuid.New()

	mock.ExpectQuery(`UPDATE referral_codes`).
		WithArgs("BARBERAAAAAA", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "reward_points"}).AddRow(ownerID, int64(50)))

	gotOwner, reward, err := repo.ConsumeReferralCode(context.Background(), "BARBERAAAAAA", time.Now())
	if err != nil {
		t.Fatalf("ConsumeReferralCode: %v", err)
	}
	if gotOwner != ownerID || reward != 50 {
		t.Fatalf("got owner %s reward %d", gotOwner, reward)
	}
}

func TestCodeExists(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("BARBERAAAAAA").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.CodeExists(context.Background(), "BARBERAAAAAA")
	if err != nil {
		t.Fatalf("CodeExists: %v", err)
	}
	if !exists {
		t.Fatal("expected exists = true")
	}
}
