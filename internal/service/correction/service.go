package correction

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/niosa-ap/attendance-backend-go/internal/domain/correction"
	"github.com/niosa-ap/attendance-backend-go/internal/domain/user"
	"github.com/niosa-ap/attendance-backend-go/internal/pkg/clock"
	"github.com/niosa-ap/attendance-backend-go/internal/pkg/database"
	"github.com/niosa-ap/attendance-backend-go/internal/pkg/storage"
	"github.com/niosa-ap/attendance-backend-go/internal/pkg/validator"
	"github.com/niosa-ap/attendance-backend-go/internal/repository/postgresql"
)

type CorrectionServiceImpl struct {
	db *database.DB
	correction.Repository
	users   user.Repository
	storage storage.FileStorage
	clk     clock.Clock
}

func staffClaims(ctx context.Context) (staffID, name string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	staffID, ok := claims["staff_id"].(string)
	if !ok || staffID == "" {
		return "", "", fmt.Errorf("staff_id claim is missing or invalid")
	}

	name, _ = claims["name"].(string)

	return staffID, name, nil
}

// oldValue snapshots the field's current value so reviewers see what
// the request would change.
func oldValue(u *user.User, field correction.Field) string {
	switch field {
	case correction.FieldName:
		return u.Name
	case correction.FieldPhone:
		return u.Phone
	case correction.FieldAddress:
		return u.Address
	case correction.FieldPhoto:
		if u.PhotoURL != nil {
			return *u.PhotoURL
		}
		return ""
	}
	return ""
}

// Submit implements correction.CorrectionService.
func (c *CorrectionServiceImpl) Submit(ctx context.Context, req correction.SubmitRequest) (correction.Response, error) {
	if err := req.Validate(); err != nil {
		return correction.Response{}, err
	}

	staffID, name, err := staffClaims(ctx)
	if err != nil {
		return correction.Response{}, err
	}

	if _, err := c.Repository.FindPendingByStaff(ctx, staffID); err == nil {
		return correction.Response{}, correction.ErrPendingRequestExists
	} else if !errors.Is(err, correction.ErrRequestNotFound) {
		return correction.Response{}, fmt.Errorf("failed to check pending requests: %w", err)
	}

	staff, err := c.users.GetByStaffID(ctx, staffID)
	if err != nil {
		return correction.Response{}, fmt.Errorf("failed to look up staff member: %w", err)
	}

	created, err := c.Repository.Create(ctx, &correction.Request{
		StaffID:     staffID,
		UserName:    name,
		Field:       correction.Field(req.Field),
		OldValue:    oldValue(staff, correction.Field(req.Field)),
		NewValue:    req.NewValue,
		Reason:      req.Reason,
		Status:      correction.StatusPending,
		RequestDate: c.clk.Now(),
	})
	if err != nil {
		return correction.Response{}, err
	}

	return correction.ToResponse(created), nil
}

// MyRequests implements correction.CorrectionService.
func (c *CorrectionServiceImpl) MyRequests(ctx context.Context, filter correction.ListFilter) (correction.ListResponse, error) {
	staffID, _, err := staffClaims(ctx)
	if err != nil {
		return correction.ListResponse{}, err
	}

	if err := filter.Validate(); err != nil {
		return correction.ListResponse{}, err
	}

	items, total, err := c.Repository.ListByStaff(ctx, staffID, filter)
	if err != nil {
		return correction.ListResponse{}, fmt.Errorf("failed to list correction requests: %w", err)
	}

	return toListResponse(items, total, filter), nil
}

// ActiveGrant implements correction.CorrectionService.
func (c *CorrectionServiceImpl) ActiveGrant(ctx context.Context) (correction.GrantResponse, error) {
	staffID, _, err := staffClaims(ctx)
	if err != nil {
		return correction.GrantResponse{}, err
	}

	req, err := c.Repository.FindApprovedByStaff(ctx, staffID)
	if err != nil {
		if errors.Is(err, correction.ErrRequestNotFound) {
			return correction.GrantResponse{}, nil
		}
		return correction.GrantResponse{}, fmt.Errorf("failed to look up approved request: %w", err)
	}

	grant := req.Grant(c.clk.Now())
	if !grant.Active {
		return correction.GrantResponse{}, nil
	}

	resp := correction.ToResponse(req)
	return correction.GrantResponse{
		Active:           true,
		RemainingSeconds: grant.RemainingSeconds,
		Request:          &resp,
	}, nil
}

// Apply implements correction.CorrectionService.
//
// The profile update and the grant consumption commit together; if
// either fails the other rolls back and the window stays open.
func (c *CorrectionServiceImpl) Apply(ctx context.Context, req correction.ApplyRequest) (correction.Response, error) {
	staffID, _, err := staffClaims(ctx)
	if err != nil {
		return correction.Response{}, err
	}

	approved, err := c.Repository.FindApprovedByStaff(ctx, staffID)
	if err != nil {
		if errors.Is(err, correction.ErrRequestNotFound) {
			return correction.Response{}, correction.ErrNoActiveGrant
		}
		return correction.Response{}, fmt.Errorf("failed to look up approved request: %w", err)
	}

	now := c.clk.Now()
	if !approved.Grant(now).Active {
		return correction.Response{}, correction.ErrEditWindowExpired
	}

	value, err := c.resolveValue(ctx, staffID, approved.Field, req)
	if err != nil {
		return correction.Response{}, err
	}

	staff, err := c.users.GetByStaffID(ctx, staffID)
	if err != nil {
		return correction.Response{}, fmt.Errorf("failed to look up staff member: %w", err)
	}

	err = c.inTransaction(ctx, func(txCtx context.Context) error {
		if err := c.Repository.Complete(txCtx, approved.ID, value); err != nil {
			return err
		}

		switch approved.Field {
		case correction.FieldName:
			return c.users.UpdateName(txCtx, staff.ID, value)
		case correction.FieldPhone:
			return c.users.UpdatePhone(txCtx, staff.ID, value)
		case correction.FieldAddress:
			return c.users.UpdateAddress(txCtx, staff.ID, value)
		case correction.FieldPhoto:
			return c.users.UpdatePhotoURL(txCtx, staff.ID, value)
		}
		return correction.ErrInvalidField
	})
	if err != nil {
		return correction.Response{}, err
	}

	completed, err := c.Repository.GetByID(ctx, approved.ID)
	if err != nil {
		return correction.Response{}, err
	}
	return correction.ToResponse(completed), nil
}

// inTransaction wraps fn in a database transaction. A nil db runs fn
// directly, which backs the in-memory repositories used in tests.
func (c *CorrectionServiceImpl) inTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if c.db == nil {
		return fn(ctx)
	}
	return postgresql.WithTransaction(ctx, c.db, func(tx pgx.Tx) error {
		return fn(postgresql.ContextWithTx(ctx, tx))
	})
}

// resolveValue produces the replacement value for the approved field,
// storing the uploaded photo when the field needs one.
func (c *CorrectionServiceImpl) resolveValue(ctx context.Context, staffID string, field correction.Field, req correction.ApplyRequest) (string, error) {
	if field == correction.FieldPhoto {
		if req.File == nil || req.FileHeader == nil {
			return "", correction.ErrPhotoRequired
		}

		ext := filepath.Ext(req.FileHeader.Filename)
		path := fmt.Sprintf("profiles/%s/%s%s", staffID, uuid.New().String(), ext)
		stored, err := c.storage.Upload(ctx, req.File, path, req.FileHeader.Header.Get("Content-Type"))
		if err != nil {
			return "", fmt.Errorf("failed to store profile photo: %w", err)
		}
		return c.storage.GetURL(ctx, stored, 0)
	}

	if validator.IsEmpty(req.Value) {
		return "", validator.ValidationErrors{{Field: "value", Message: "value is required"}}
	}
	if field == correction.FieldPhone && !validator.IsValidPhoneNumber(req.Value) {
		return "", validator.ValidationErrors{{Field: "value", Message: "value must be a valid phone number"}}
	}
	return req.Value, nil
}

// List implements correction.CorrectionService.
func (c *CorrectionServiceImpl) List(ctx context.Context, filter correction.ListFilter) (correction.ListResponse, error) {
	if err := filter.Validate(); err != nil {
		return correction.ListResponse{}, err
	}

	items, total, err := c.Repository.List(ctx, filter)
	if err != nil {
		return correction.ListResponse{}, fmt.Errorf("failed to list correction requests: %w", err)
	}

	return toListResponse(items, total, filter), nil
}

// Approve implements correction.CorrectionService. The approval stamp
// is what opens the five minute edit window.
func (c *CorrectionServiceImpl) Approve(ctx context.Context, id string) (correction.Response, error) {
	if _, err := c.Repository.GetByID(ctx, id); err != nil {
		return correction.Response{}, err
	}

	if err := c.Repository.Approve(ctx, id, c.clk.Now()); err != nil {
		return correction.Response{}, err
	}

	req, err := c.Repository.GetByID(ctx, id)
	if err != nil {
		return correction.Response{}, err
	}
	return correction.ToResponse(req), nil
}

// Reject implements correction.CorrectionService.
func (c *CorrectionServiceImpl) Reject(ctx context.Context, id string) (correction.Response, error) {
	if _, err := c.Repository.GetByID(ctx, id); err != nil {
		return correction.Response{}, err
	}

	if err := c.Repository.Reject(ctx, id); err != nil {
		return correction.Response{}, err
	}

	req, err := c.Repository.GetByID(ctx, id)
	if err != nil {
		return correction.Response{}, err
	}
	return correction.ToResponse(req), nil
}

// ExpireStaleGrants implements correction.CorrectionService.
func (c *CorrectionServiceImpl) ExpireStaleGrants(ctx context.Context) (int64, error) {
	cutoff := c.clk.Now().Add(-correction.EditWindow)
	return c.Repository.ExpireStale(ctx, cutoff)
}

func toListResponse(items []correction.Request, total int64, filter correction.ListFilter) correction.ListResponse {
	resp := correction.ListResponse{
		Items: make([]correction.Response, 0, len(items)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range items {
		resp.Items = append(resp.Items, correction.ToResponse(&items[i]))
	}
	return resp
}

func NewCorrectionService(
	db *database.DB,
	repo correction.Repository,
	users user.Repository,
	fileStorage storage.FileStorage,
	clk clock.Clock,
) correction.CorrectionService {
	return &CorrectionServiceImpl{
		db:         db,
		Repository: repo,
		users:      users,
		storage:    fileStorage,
		clk:        clk,
	}
}
