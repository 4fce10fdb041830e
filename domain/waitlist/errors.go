package waitlist

// Client-facing messages. AppError.Message is what handlers return, so these
// must never contain driver output.
const (
	msgJoined         = "Successfully joined the waitlist"
	msgDuplicateEmail = "This email is already on the waitlist"
	msgInvalidEmail   = "Please enter a valid email address"
	msgValidation     = "Validation failed"
	msgInvalidBody    = "Invalid request body"
	msgStoreFailure   = "Database operation failed, please try again later"
	msgServerFailure  = "Server error, please try again later"
	msgEntryNotFound  = "User not found"
	msgMissingID      = "Missing user ID"
	msgInvalidID      = "Invalid user ID"
	msgDeleted        = "User deleted successfully"
)
