package correction

import "context"

type CorrectionService interface {
	Submit(ctx context.Context, req SubmitRequest) (Response, error)
	MyRequests(ctx context.Context, filter ListFilter) (ListResponse, error)

	// ActiveGrant reports whether the authenticated staff member holds
	// an open edit window right now.
	ActiveGrant(ctx context.Context) (GrantResponse, error)

	// Apply performs the approved change and consumes the grant in one
	// transaction. A grant can be consumed exactly once.
	Apply(ctx context.Context, req ApplyRequest) (Response, error)

	List(ctx context.Context, filter ListFilter) (ListResponse, error)
	Approve(ctx context.Context, id string) (Response, error)
	Reject(ctx context.Context, id string) (Response, error)

	ExpireStaleGrants(ctx context.Context) (int64, error)
}
