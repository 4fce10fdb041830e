package waitlist

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/internal/models"
	apperrors "github.com/akeren/waitlist-api/pkg/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestWaitlistRepository_CreateAndFind(t *testing.T) {
	repo := NewWaitlistRepository(newTestDB(t))
	ctx := context.Background()

	created, err := repo.CreateEntry(ctx, &models.WaitlistEntry{Email: "a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, uint(1), created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	found, err := repo.FindEntryByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.FindEntryByEmail(ctx, "A@example.com")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound), "lookup must be exact")
}

func TestWaitlistRepository_DuplicateEmailIsConflict(t *testing.T) {
	db := newTestDB(t)
	repo := NewWaitlistRepository(db)
	ctx := context.Background()

	_, err := repo.CreateEntry(ctx, &models.WaitlistEntry{Email: "a@example.com"})
	require.NoError(t, err)

	_, err = repo.CreateEntry(ctx, &models.WaitlistEntry{Email: "a@example.com"})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
	assert.Equal(t, msgDuplicateEmail, apperrors.GetHumanReadableMessage(err))

	var count int64
	require.NoError(t, db.Model(&models.WaitlistEntry{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestWaitlistRepository_EmailsDifferingInCaseAreDistinct(t *testing.T) {
	repo := NewWaitlistRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.CreateEntry(ctx, &models.WaitlistEntry{Email: "a@example.com"})
	require.NoError(t, err)
	_, err = repo.CreateEntry(ctx, &models.WaitlistEntry{Email: "A@example.com"})
	assert.NoError(t, err)
}

func TestWaitlistRepository_ListNewestFirst(t *testing.T) {
	repo := NewWaitlistRepository(newTestDB(t))
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for _, e := range []*models.WaitlistEntry{
		{Email: "a@example.com", CreatedAt: base},
		{Email: "b@example.com", CreatedAt: base.Add(time.Hour)},
		{Email: "c@example.com", CreatedAt: base.Add(time.Hour)},
	} {
		_, err := repo.CreateEntry(ctx, e)
		require.NoError(t, err)
	}

	entries, err := repo.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	emails := []string{entries[0].Email, entries[1].Email, entries[2].Email}
	assert.Equal(t, []string{"c@example.com", "b@example.com", "a@example.com"}, emails)
}

func TestWaitlistRepository_ListEmpty(t *testing.T) {
	entries, err := NewWaitlistRepository(newTestDB(t)).ListEntries(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestWaitlistRepository_DeleteIsPhysicalAndIDsAreNotReused(t *testing.T) {
	db := newTestDB(t)
	repo := NewWaitlistRepository(db)
	ctx := context.Background()

	first, err := repo.CreateEntry(ctx, &models.WaitlistEntry{Email: "a@example.com"})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteEntry(ctx, first.ID))

	var count int64
	require.NoError(t, db.Unscoped().Model(&models.WaitlistEntry{}).Count(&count).Error)
	assert.Zero(t, count)

	err = repo.DeleteEntry(ctx, first.ID)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))

	second, err := repo.CreateEntry(ctx, &models.WaitlistEntry{Email: "a@example.com"})
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)
}

func TestWaitlistService_ConcurrentDuplicateSubmissions(t *testing.T) {
	db := newTestDB(t)
	service := NewWaitlistService(log.NewLoggerWithJSONOutput(), NewWaitlistRepository(db))

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.SubmitEntry(context.Background(), "race@example.com")

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case apperrors.IsType(err, apperrors.ErrorTypeConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, conflicts)

	var count int64
	require.NoError(t, db.Model(&models.WaitlistEntry{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func newPostgresMock(t *testing.T) (WaitlistRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewWaitlistRepository(db), mock
}

func TestWaitlistRepository_Postgres_UniqueViolationIsConflict(t *testing.T) {
	repo, mock := newPostgresMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "waitlist_entries"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uni_waitlist_entries_email"})

	_, err := repo.CreateEntry(context.Background(), &models.WaitlistEntry{Email: "a@example.com"})

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWaitlistRepository_Postgres_OtherFailuresAreStoreErrors(t *testing.T) {
	repo, mock := newPostgresMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "waitlist_entries"`)).
		WillReturnError(&pgconn.PgError{Code: "53300", Message: "too many connections"})

	_, err := repo.CreateEntry(context.Background(), &models.WaitlistEntry{Email: "a@example.com"})

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeDatabaseError))
	assert.Equal(t, msgStoreFailure, apperrors.GetHumanReadableMessage(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWaitlistRepository_Postgres_ListFailure(t *testing.T) {
	repo, mock := newPostgresMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "waitlist_entries" ORDER BY created_at DESC,id DESC`)).
		WillReturnError(errors.New("connection reset by peer"))

	_, err := repo.ListEntries(context.Background())

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeDatabaseError))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWaitlistRepository_Postgres_DeleteNothingIsNotFound(t *testing.T) {
	repo, mock := newPostgresMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "waitlist_entries"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteEntry(context.Background(), 42)

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
