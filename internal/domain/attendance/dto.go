package attendance

import (
	"fmt"

	"github.com/niosa-ap/attendance-backend-go/internal/pkg/validator"
)

// Location error codes a client device may report instead of a fix.
const (
	LocationErrorPermissionDenied = "permission_denied"
	LocationErrorUnavailable      = "unavailable"
	LocationErrorTimeout          = "timeout"
)

type CheckInRequest struct {
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	LocationError string  `json:"location_error,omitempty"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.LocationError != "" {
		if !validator.IsInSlice(r.LocationError, []string{
			LocationErrorPermissionDenied,
			LocationErrorUnavailable,
			LocationErrorTimeout,
		}) {
			errs = append(errs, validator.ValidationError{
				Field:   "location_error",
				Message: "location_error must be one of permission_denied, unavailable, timeout",
			})
		}
	} else {
		if r.Latitude < -90 || r.Latitude > 90 {
			errs = append(errs, validator.ValidationError{
				Field:   "latitude",
				Message: "latitude must be between -90 and 90",
			})
		}
		if r.Longitude < -180 || r.Longitude > 180 {
			errs = append(errs, validator.ValidationError{
				Field:   "longitude",
				Message: "longitude must be between -180 and 180",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type OvertimeResponse struct {
	StartTime      *string `json:"start_time"`
	EndTime        *string `json:"end_time"`
	Hours          *string `json:"hours"`
	ReviewRequired bool    `json:"review_required"`
}

type AttendanceResponse struct {
	ID        string           `json:"id"`
	StaffID   string           `json:"staff_id"`
	UserName  string           `json:"user_name"`
	Date      string           `json:"date"`
	InTime    string           `json:"in_time"`
	OutTime   *string          `json:"out_time"`
	Status    Status           `json:"status"`
	Latitude  *float64         `json:"latitude"`
	Longitude *float64         `json:"longitude"`
	PhotoURL  string           `json:"photo_url,omitempty"`
	Overtime  OvertimeResponse `json:"overtime"`
}

func ToAttendanceResponse(a *Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:        a.ID,
		StaffID:   a.StaffID,
		UserName:  a.UserName,
		Date:      a.Date,
		InTime:    a.InTime.Format(ClockLayout),
		Status:    a.Status,
		Latitude:  a.Latitude,
		Longitude: a.Longitude,
		PhotoURL:  a.PhotoURL,
	}
	if a.OutTime != nil {
		out := a.OutTime.Format(ClockLayout)
		resp.OutTime = &out
	}
	if a.Overtime.StartTime != nil {
		start := a.Overtime.StartTime.Format(ClockLayout)
		resp.Overtime.StartTime = &start
	}
	if a.Overtime.EndTime != nil {
		end := a.Overtime.EndTime.Format(ClockLayout)
		resp.Overtime.EndTime = &end
	}
	if a.Overtime.Hours != nil {
		hours := fmt.Sprintf("%.2f", *a.Overtime.Hours)
		resp.Overtime.Hours = &hours
	}
	resp.Overtime.ReviewRequired = a.Overtime.ReviewRequired
	return resp
}

type TodayResponse struct {
	CheckedIn        bool                `json:"checked_in"`
	CanStartOvertime bool                `json:"can_start_overtime"`
	CanStopOvertime  bool                `json:"can_stop_overtime"`
	Attendance       *AttendanceResponse `json:"attendance"`
}

type ListFilter struct {
	StaffID   string `json:"staff_id,omitempty"`
	Date      string `json:"date,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Status    string `json:"status,omitempty"`
	Page      int    `json:"page"`
	Limit     int    `json:"limit"`
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Date != "" {
		if _, ok := validator.IsValidDate(f.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must use the YYYY-MM-DD format",
			})
		}
	}
	if f.StartDate != "" {
		if _, ok := validator.IsValidDate(f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must use the YYYY-MM-DD format",
			})
		}
	}
	if f.EndDate != "" {
		if _, ok := validator.IsValidDate(f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must use the YYYY-MM-DD format",
			})
		}
	}
	if f.Status != "" && !validator.IsInSlice(f.Status, []string{string(StatusPresent), string(StatusAbsent)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be Present or Absent",
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

type ListAttendanceResponse struct {
	Items []AttendanceResponse `json:"items"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

type LivenessStatusResponse struct {
	State       string  `json:"state"`
	MotionScore float64 `json:"motion_score"`
	Captured    bool    `json:"captured"`
}
