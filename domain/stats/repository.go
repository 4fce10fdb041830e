package stats

import (
	"context"
	"time"

	"github.com/akeren/waitlist-api/internal/models"
	apperrors "github.com/akeren/waitlist-api/pkg/errors"
	"gorm.io/gorm"
)

// EntryCounts is read in a single statement so Today can never exceed Total.
type EntryCounts struct {
	Total int64
	Today int64
}

type StatsRepository interface {
	// CountEntries returns the number of entries overall and created at or after since.
	CountEntries(ctx context.Context, since time.Time) (*EntryCounts, error)
}

type statsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (sr *statsRepository) CountEntries(ctx context.Context, since time.Time) (*EntryCounts, error) {
	var counts EntryCounts

	err := sr.db.WithContext(ctx).
		Model(&models.WaitlistEntry{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0) AS today", since).
		Scan(&counts).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to count waitlist entries", err)
	}

	return &counts, nil
}
