package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/barberia-pro/platform/pkg/logging"
)

// BookedTimesLookup reports the slot labels already taken for a barber on a
// given day. Availability is keyed by (barbershop, barber, date) so one
// barber's booking never blocks another's schedule.
type BookedTimesLookup interface {
	BookedTimes(ctx context.Context, barbershopID, barberID uuid.UUID, date string) ([]string, error)
}

// Availability computes open slots for a barber and day, with a short-lived
// Redis cache in front of the appointments store.
type Availability struct {
	booked   BookedTimesLookup
	cache    *redis.Client
	cacheTTL time.Duration
	open     int
	close    int
	interval int
	logger   *logging.Logger
}

// NewAvailability constructs the availability service. The cache client is
// optional; without it every request hits the appointments store.
func NewAvailability(booked BookedTimesLookup, cache *redis.Client, cacheTTL time.Duration, openHour, closeHour, intervalMinutes int, logger *logging.Logger) *Availability {
	if logger == nil {
		logger = logging.Default()
	}
	return &Availability{
		booked:   booked,
		cache:    cache,
		cacheTTL: cacheTTL,
		open:     openHour,
		close:    closeHour,
		interval: intervalMinutes,
		logger:   logger,
	}
}

// Slots returns the open slot labels for the barber on the given date
// (YYYY-MM-DD). Cache misses and cache errors fall through to the store.
func (a *Availability) Slots(ctx context.Context, barbershopID, barberID uuid.UUID, date string) ([]string, error) {
	key := slotCacheKey(barbershopID, barberID, date)
	if a.cache != nil {
		if cached, err := a.cache.Get(ctx, key).Result(); err == nil {
			var slots []string
			if err := json.Unmarshal([]byte(cached), &slots); err == nil {
				return slots, nil
			}
		}
	}

	taken, err := a.booked.BookedTimes(ctx, barbershopID, barberID, date)
	if err != nil {
		return nil, fmt.Errorf("schedule: load booked times: %w", err)
	}

	slots := Available(Generate(a.open, a.close, a.interval), BlockedSet(taken))

	if a.cache != nil {
		if encoded, err := json.Marshal(slots); err == nil {
			if err := a.cache.Set(ctx, key, encoded, a.cacheTTL).Err(); err != nil {
				a.logger.Warn("slot cache write failed", "error", err, "key", key)
			}
		}
	}
	return slots, nil
}

// Invalidate drops the cached slot list after a booking lands on the day.
func (a *Availability) Invalidate(ctx context.Context, barbershopID, barberID uuid.UUID, date string) {
	if a.cache == nil {
		return
	}
	if err := a.cache.Del(ctx, slotCacheKey(barbershopID, barberID, date)).Err(); err != nil {
		a.logger.Warn("slot cache invalidate failed", "error", err, "date", date)
	}
}

func slotCacheKey(barbershopID, barberID uuid.UUID, date string) string {
	return fmt.Sprintf("slots:%s:%s:%s", barbershopID, barberID, date)
}
