package waitlist

import (
	"context"

	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/internal/models"
	apperrors "github.com/akeren/waitlist-api/pkg/errors"
	"github.com/go-playground/validator/v10"
)

type WaitlistService interface {
	// SubmitEntry validates email and adds it to the waitlist, returning the new id.
	SubmitEntry(ctx context.Context, email string) (*SubmitEntryResponse, error)

	// ListEntries returns the full waitlist, most recent signup first.
	ListEntries(ctx context.Context) ([]WaitlistEntryResponse, error)

	// DeleteEntry removes the entry with the given id.
	DeleteEntry(ctx context.Context, id uint) error
}

type waitlistService struct {
	logger     *log.Logger
	repository WaitlistRepository
	validate   *validator.Validate
}

func NewWaitlistService(logger *log.Logger, repository WaitlistRepository) WaitlistService {
	return &waitlistService{
		logger:     logger,
		repository: repository,
		validate:   validator.New(),
	}
}

func (s *waitlistService) SubmitEntry(ctx context.Context, email string) (*SubmitEntryResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if err := s.validate.Var(email, emailRule); err != nil {
		logger.Warn("SubmitEntry rejected malformed email", "error", err)
		return nil, apperrors.NewInvalidRequestError(msgInvalidEmail, err)
	}

	// The unique index is what actually guards concurrent submissions; this
	// lookup only produces the friendlier error in the common case.
	existing, err := s.repository.FindEntryByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		logger.Info("SubmitEntry found existing entry", "id", existing.ID)
		return nil, apperrors.NewConflictError(msgDuplicateEmail, nil)
	case err != nil && !apperrors.IsType(err, apperrors.ErrorTypeNotFound):
		logger.Error("Failed to look up waitlist entry", "error", err)
		return nil, err
	}

	entry, err := s.repository.CreateEntry(ctx, &models.WaitlistEntry{Email: email})
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeConflict) {
			logger.Info("SubmitEntry lost a concurrent insert race")
		} else {
			logger.Error("Failed to create waitlist entry", "error", err)
		}
		return nil, err
	}

	logger.Info("Waitlist entry created", "id", entry.ID)

	return &SubmitEntryResponse{Message: msgJoined, UserID: entry.ID}, nil
}

func (s *waitlistService) ListEntries(ctx context.Context) ([]WaitlistEntryResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	entries, err := s.repository.ListEntries(ctx)
	if err != nil {
		logger.Error("Failed to list waitlist entries", "error", err)
		return nil, err
	}

	responses := make([]WaitlistEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, ToWaitlistEntryResponse(entry))
	}

	logger.Debug("Waitlist entries listed", "count", len(responses))
	return responses, nil
}

func (s *waitlistService) DeleteEntry(ctx context.Context, id uint) error {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if id == 0 {
		logger.Error("DeleteEntry received invalid ID")
		return apperrors.NewInvalidRequestError(msgInvalidID, nil)
	}

	if err := s.repository.DeleteEntry(ctx, id); err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			logger.Warn("DeleteEntry found no entry", "id", id)
		} else {
			logger.Error("Failed to delete waitlist entry", "id", id, "error", err)
		}
		return err
	}

	logger.Info("Waitlist entry deleted", "id", id)
	return nil
}
