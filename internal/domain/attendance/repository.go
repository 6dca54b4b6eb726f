package attendance

import (
	"context"
	"time"
)

type Repository interface {
	// CreateIfAbsent inserts the record unless one already exists for the
	// same staff member and date. Returns ErrAlreadyCheckedIn when the
	// row was taken, including when two requests race.
	CreateIfAbsent(ctx context.Context, att *Attendance) (*Attendance, error)

	GetByID(ctx context.Context, id string) (*Attendance, error)
	GetByStaffAndDate(ctx context.Context, staffID, date string) (*Attendance, error)

	// StartOvertime stamps overtime_start and freezes out_time, guarded
	// so only a record with no overtime yet is updated. Zero rows
	// affected maps to ErrOvertimeAlreadyStarted.
	StartOvertime(ctx context.Context, id string, start, outTime time.Time) error

	// StopOvertime closes an active session. Zero rows affected maps to
	// ErrOvertimeNotStarted.
	StopOvertime(ctx context.Context, id string, end time.Time, hours float64, reviewRequired bool) error

	ListByStaff(ctx context.Context, staffID string, filter ListFilter) ([]Attendance, int64, error)
	List(ctx context.Context, filter ListFilter) ([]Attendance, int64, error)
}
