package correction

import "errors"

var (
	ErrRequestNotFound      = errors.New("correction request not found")
	ErrPendingRequestExists = errors.New("a pending correction request already exists")
	ErrAlreadyProcessed     = errors.New("correction request has already been processed")
	ErrNoActiveGrant        = errors.New("no active edit grant")
	ErrEditWindowExpired    = errors.New("edit window has expired")
	ErrRequestNotEditable   = errors.New("correction request is no longer editable")
	ErrInvalidField         = errors.New("unknown correction field")
	ErrPhotoRequired        = errors.New("a photo upload is required for this correction")
)
