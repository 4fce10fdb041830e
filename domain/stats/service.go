package stats

import (
	"context"
	"errors"
	"time"

	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/pkg/circuitbreaker"
	"github.com/akeren/waitlist-api/pkg/constants"
	apperrors "github.com/akeren/waitlist-api/pkg/errors"
)

type StatsService interface {
	// Compute counts all entries and those created since local midnight.
	Compute(ctx context.Context) (*StatsResponse, error)
}

type statsService struct {
	logger     *log.Logger
	repository StatsRepository
	breaker    circuitbreaker.CircuitBreaker
	now        func() time.Time
}

// NewStatsService guards the store with breaker; a nil breaker gets the defaults.
func NewStatsService(logger *log.Logger, repository StatsRepository, breaker circuitbreaker.CircuitBreaker) StatsService {
	if breaker == nil {
		breaker = circuitbreaker.NewCircuitBreaker(nil)
	}

	return &statsService{
		logger:     logger,
		repository: repository,
		breaker:    breaker,
		now:        time.Now,
	}
}

func (s *statsService) Compute(ctx context.Context) (*StatsResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	now := s.now()
	midnight := StartOfDay(now)

	var counts *EntryCounts
	err := s.breaker.Call(func() error {
		var err error
		counts, err = s.repository.CountEntries(ctx, midnight)
		return err
	})

	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		logger.Warn("Stats store circuit is open; failing fast")
		return nil, apperrors.NewDatabaseError("statistics are temporarily unavailable", err)
	}
	if err != nil {
		logger.Error("Failed to compute waitlist stats", "error", err)
		return nil, err
	}

	return &StatsResponse{
		TotalUsers:  counts.Total,
		TodayUsers:  counts.Today,
		LastUpdated: now.UTC().Format(constants.RFC3339MillisFormat),
	}, nil
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
