package correction

import (
	"mime/multipart"
	"time"

	"github.com/niosa-ap/attendance-backend-go/internal/pkg/validator"
)

type SubmitRequest struct {
	Field    string `json:"field"`
	NewValue string `json:"new_value"`
	Reason   string `json:"reason"`
}

func (r *SubmitRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Field) {
		errs = append(errs, validator.ValidationError{
			Field:   "field",
			Message: "field is required",
		})
	} else if !Field(r.Field).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "field",
			Message: "field must be one of Name, Phone, Address, Photo",
		})
	}

	// Photo corrections carry no new value up front; the replacement is
	// uploaded inside the edit window after approval.
	if Field(r.Field) != FieldPhoto && validator.IsEmpty(r.NewValue) {
		errs = append(errs, validator.ValidationError{
			Field:   "new_value",
			Message: "new_value is required",
		})
	}
	if len(r.NewValue) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "new_value",
			Message: "new_value must not exceed 500 characters",
		})
	}
	if Field(r.Field) == FieldPhone && r.NewValue != "" && !validator.IsValidPhoneNumber(r.NewValue) {
		errs = append(errs, validator.ValidationError{
			Field:   "new_value",
			Message: "new_value must be a valid phone number",
		})
	}
	if len(r.Reason) > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ApplyRequest consumes an active grant. Photo corrections attach a
// file; the other fields carry the replacement value as text.
type ApplyRequest struct {
	Value      string                `json:"value"`
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

type Response struct {
	ID          string  `json:"id"`
	StaffID     string  `json:"staff_id"`
	UserName    string  `json:"user_name"`
	Field       Field   `json:"field"`
	OldValue    string  `json:"old_value"`
	NewValue    string  `json:"new_value"`
	Reason      string  `json:"reason,omitempty"`
	Status      Status  `json:"status"`
	RequestDate string  `json:"request_date"`
	ApprovedAt  *string `json:"approved_at"`
}

func ToResponse(r *Request) Response {
	resp := Response{
		ID:          r.ID,
		StaffID:     r.StaffID,
		UserName:    r.UserName,
		Field:       r.Field,
		OldValue:    r.OldValue,
		NewValue:    r.NewValue,
		Reason:      r.Reason,
		Status:      r.Status,
		RequestDate: r.RequestDate.Format(time.RFC3339),
	}
	if r.ApprovedAt != nil {
		at := r.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &at
	}
	return resp
}

type GrantResponse struct {
	Active           bool      `json:"active"`
	RemainingSeconds int       `json:"remaining_seconds"`
	Request          *Response `json:"request"`
}

type ListFilter struct {
	StaffID string `json:"staff_id,omitempty"`
	Status  string `json:"status,omitempty"`
	Page    int    `json:"page"`
	Limit   int    `json:"limit"`
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != "" && !validator.IsInSlice(f.Status, []string{
		string(StatusPending),
		string(StatusApproved),
		string(StatusRejected),
		string(StatusCompleted),
		string(StatusExpired),
	}) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of pending, approved, rejected, completed, expired",
		})
	}
	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must not be negative",
		})
	}
	if f.Limit < 0 || f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be between 0 and 100",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit == 0 {
		f.Limit = 20
	}

	return nil
}

type ListResponse struct {
	Items []Response `json:"items"`
	Total int64      `json:"total"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
}
