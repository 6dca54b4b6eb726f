package response

import (
	"errors"
	"net/http"

	"github.com/niosa-ap/attendance-backend-go/internal/domain/attendance"
	"github.com/niosa-ap/attendance-backend-go/internal/domain/auth"
	"github.com/niosa-ap/attendance-backend-go/internal/domain/correction"
	"github.com/niosa-ap/attendance-backend-go/internal/domain/settings"
	"github.com/niosa-ap/attendance-backend-go/internal/domain/user"
	"github.com/niosa-ap/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid credentials")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrAdminNotRegistered):
		Forbidden(w, "Google account is not a registered admin")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrAdminNotFound):
		NotFound(w, "Admin not found")
	case errors.Is(err, user.ErrUserSuspended):
		Forbidden(w, "Account is suspended")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Attendance already marked for today")
	case errors.Is(err, attendance.ErrTooEarlyToCheckIn):
		BadRequest(w, "Check-in is not open yet", nil)
	case errors.Is(err, attendance.ErrOutsideAllowedRadius):
		Forbidden(w, "You are outside the allowed office radius")
	case errors.Is(err, attendance.ErrLivenessNotConfirmed):
		Forbidden(w, "Liveness has not been confirmed")
	case errors.Is(err, attendance.ErrNoLivenessSession):
		BadRequest(w, "No active liveness session", nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrShiftNotEnded):
		BadRequest(w, "Overtime can only start after the shift ends", nil)
	case errors.Is(err, attendance.ErrOvertimeAlreadyStarted):
		Conflict(w, "Overtime is already active")
	case errors.Is(err, attendance.ErrOvertimeNotStarted):
		BadRequest(w, "Overtime has not been started", nil)
	case errors.Is(err, attendance.ErrOvertimeCompleted):
		Conflict(w, "Overtime is already completed")
	case errors.Is(err, attendance.ErrLocationPermissionDenied):
		Forbidden(w, "Location permission denied")
	case errors.Is(err, attendance.ErrLocationUnavailable):
		BadRequest(w, "Location is unavailable", nil)
	case errors.Is(err, attendance.ErrLocationTimeout):
		BadRequest(w, "Timed out acquiring location", nil)
	case errors.Is(err, attendance.ErrInvalidCoordinate):
		BadRequest(w, "Coordinate is invalid", nil)

	// Correction domain errors
	case errors.Is(err, correction.ErrRequestNotFound):
		NotFound(w, "Correction request not found")
	case errors.Is(err, correction.ErrPendingRequestExists):
		Conflict(w, "A pending correction request already exists")
	case errors.Is(err, correction.ErrAlreadyProcessed):
		Conflict(w, "Correction request has already been processed")
	case errors.Is(err, correction.ErrNoActiveGrant):
		Forbidden(w, "No active edit grant")
	case errors.Is(err, correction.ErrEditWindowExpired):
		Forbidden(w, "Edit window has expired")
	case errors.Is(err, correction.ErrRequestNotEditable):
		Conflict(w, "Correction request is no longer editable")
	case errors.Is(err, correction.ErrInvalidField):
		BadRequest(w, "Unknown correction field", nil)
	case errors.Is(err, correction.ErrPhotoRequired):
		BadRequest(w, "A photo upload is required for this correction", nil)

	// Settings domain errors
	case errors.Is(err, settings.ErrGeoFenceNotConfigured):
		NotFound(w, "Geofence is not configured")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
