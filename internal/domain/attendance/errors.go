package attendance

import "errors"

var (
	ErrAlreadyCheckedIn     = errors.New("attendance already marked for today")
	ErrTooEarlyToCheckIn    = errors.New("check-in is not open yet")
	ErrOutsideAllowedRadius = errors.New("location is outside the allowed office radius")
	ErrLivenessNotConfirmed = errors.New("liveness has not been confirmed")
	ErrNoLivenessSession    = errors.New("no active liveness session")
	ErrAttendanceNotFound   = errors.New("attendance record not found")

	ErrShiftNotEnded          = errors.New("shift has not ended yet")
	ErrOvertimeAlreadyStarted = errors.New("overtime is already active")
	ErrOvertimeNotStarted     = errors.New("overtime has not been started")
	ErrOvertimeCompleted      = errors.New("overtime is already completed")

	ErrLocationPermissionDenied = errors.New("location permission denied")
	ErrLocationUnavailable      = errors.New("location is unavailable")
	ErrLocationTimeout          = errors.New("timed out acquiring location")
	ErrInvalidCoordinate        = errors.New("coordinate is invalid")
)
