package attendance

import (
	"context"

	"github.com/niosa-ap/attendance-backend-go/internal/pkg/liveness"
)

type AttendanceService interface {
	// CheckIn runs the full verification chain for the authenticated
	// staff member: location, geofence, confirmed liveness, then the
	// attendance decision.
	CheckIn(ctx context.Context, loc LocationProvider) (AttendanceResponse, error)

	Today(ctx context.Context) (TodayResponse, error)

	StartLiveness(ctx context.Context) (LivenessStatusResponse, error)
	PushLivenessFrame(ctx context.Context, frame liveness.FrameSample) (LivenessStatusResponse, error)
	CancelLiveness(ctx context.Context) error

	StartOvertime(ctx context.Context) (AttendanceResponse, error)
	StopOvertime(ctx context.Context) (AttendanceResponse, error)

	MyAttendance(ctx context.Context, filter ListFilter) (ListAttendanceResponse, error)
	ListAttendance(ctx context.Context, filter ListFilter) (ListAttendanceResponse, error)
}
