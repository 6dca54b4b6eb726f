package correction

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, req *Request) (*Request, error)
	GetByID(ctx context.Context, id string) (*Request, error)

	// FindPendingByStaff returns the staff member's open request, or
	// ErrRequestNotFound when none is pending.
	FindPendingByStaff(ctx context.Context, staffID string) (*Request, error)

	// FindApprovedByStaff returns the most recently approved request
	// for the staff member, or ErrRequestNotFound.
	FindApprovedByStaff(ctx context.Context, staffID string) (*Request, error)

	ListByStaff(ctx context.Context, staffID string, filter ListFilter) ([]Request, int64, error)
	List(ctx context.Context, filter ListFilter) ([]Request, int64, error)

	// Approve moves pending to approved and stamps approved_at. Zero
	// rows affected maps to ErrAlreadyProcessed.
	Approve(ctx context.Context, id string, approvedAt time.Time) error

	// Reject moves pending to rejected. Zero rows affected maps to
	// ErrAlreadyProcessed.
	Reject(ctx context.Context, id string) error

	// Complete consumes an approval, moving approved to completed.
	// Zero rows affected maps to ErrRequestNotEditable, which covers
	// both double use and a sweep that already expired the row.
	Complete(ctx context.Context, id string, newValue string) error

	// ExpireStale marks approved requests older than cutoff as expired
	// and reports how many rows changed.
	ExpireStale(ctx context.Context, cutoff time.Time) (int64, error)
}
