package stats

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/akeren/waitlist-api/internal/models"
	apperrors "github.com/akeren/waitlist-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.ModelRegistry...))
	return db
}

func TestStatsRepository_CountEntries(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()
	midnight := StartOfDay(now)

	for i, createdAt := range []time.Time{
		midnight.Add(-48 * time.Hour),
		midnight.Add(-time.Second),
		midnight,
		now,
	} {
		entry := &models.WaitlistEntry{Email: "user" + string(rune('a'+i)) + "@example.com", CreatedAt: createdAt}
		require.NoError(t, db.Create(entry).Error)
	}

	counts, err := NewStatsRepository(db).CountEntries(context.Background(), midnight)

	require.NoError(t, err)
	assert.Equal(t, int64(4), counts.Total)
	assert.Equal(t, int64(2), counts.Today)
}

func TestStatsRepository_EmptyTable(t *testing.T) {
	counts, err := NewStatsRepository(newTestDB(t)).CountEntries(context.Background(), time.Now())

	require.NoError(t, err)
	assert.Equal(t, &EntryCounts{}, counts)
}

func TestStatsRepository_PostgresFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) AS total`)).
		WillReturnError(assert.AnError)

	_, err = NewStatsRepository(db).CountEntries(context.Background(), time.Now())

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeDatabaseError))
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}
