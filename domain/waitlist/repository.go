package waitlist

import (
	"context"
	"errors"

	"github.com/akeren/waitlist-api/internal/models"
	apperrors "github.com/akeren/waitlist-api/pkg/errors"
	"gorm.io/gorm"
)

type WaitlistRepository interface {
	// CreateEntry inserts entry; the store assigns ID and CreatedAt.
	CreateEntry(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error)
	// FindEntryByEmail matches the stored value exactly.
	FindEntryByEmail(ctx context.Context, email string) (*models.WaitlistEntry, error)
	// ListEntries returns every entry, newest first.
	ListEntries(ctx context.Context) ([]*models.WaitlistEntry, error)
	// DeleteEntry physically removes the entry.
	DeleteEntry(ctx context.Context, id uint) error
}

type waitlistRepository struct {
	db *gorm.DB
}

func NewWaitlistRepository(db *gorm.DB) WaitlistRepository {
	return &waitlistRepository{db: db}
}

func (wr *waitlistRepository) CreateEntry(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error) {
	if err := wr.db.WithContext(ctx).Create(entry).Error; err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflictError(msgDuplicateEmail, err)
		}
		return nil, apperrors.NewDatabaseError(msgStoreFailure, err)
	}

	return entry, nil
}

func (wr *waitlistRepository) FindEntryByEmail(ctx context.Context, email string) (*models.WaitlistEntry, error) {
	var entry models.WaitlistEntry

	if err := wr.db.WithContext(ctx).Where("email = ?", email).Take(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError(msgEntryNotFound, err)
		}
		return nil, apperrors.NewDatabaseError(msgStoreFailure, err)
	}

	return &entry, nil
}

func (wr *waitlistRepository) ListEntries(ctx context.Context) ([]*models.WaitlistEntry, error) {
	entries := make([]*models.WaitlistEntry, 0)

	err := wr.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError(msgServerFailure, err)
	}

	return entries, nil
}

func (wr *waitlistRepository) DeleteEntry(ctx context.Context, id uint) error {
	result := wr.db.WithContext(ctx).Delete(&models.WaitlistEntry{}, id)

	if result.Error != nil {
		return apperrors.NewDatabaseError(msgServerFailure, result.Error)
	}

	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError(msgEntryNotFound, nil)
	}

	return nil
}
