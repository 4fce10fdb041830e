package waitlist

import (
	"github.com/akeren/waitlist-api/internal/models"
	"github.com/akeren/waitlist-api/pkg/constants"
	apperrors "github.com/akeren/waitlist-api/pkg/errors"
)

// emailRule is shared by request binding and the service so both surfaces agree.
const emailRule = "required,email,max=255"

type SubmitEntryRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
}

type SubmitEntryResponse struct {
	Message string `json:"message"`
	UserID  uint   `json:"userId"`
}

type WaitlistEntryResponse struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

type ListEntriesResponse struct {
	Users []WaitlistEntryResponse `json:"users"`
}

type MessageResponse struct {
	Message string                              `json:"message"`
	Errors  []apperrors.ValidationErrorResponse `json:"errors,omitempty"`
}

func ToWaitlistEntryResponse(entry *models.WaitlistEntry) WaitlistEntryResponse {
	if entry == nil {
		return WaitlistEntryResponse{}
	}
	return WaitlistEntryResponse{
		ID:        entry.ID,
		Email:     entry.Email,
		CreatedAt: entry.CreatedAt.Format(constants.RFC3339MillisFormat),
	}
}
