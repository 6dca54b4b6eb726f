package attendance

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/go-chi/jwtauth/v5"

	"github.com/niosa-ap/attendance-backend-go/internal/domain/attendance"
	"github.com/niosa-ap/attendance-backend-go/internal/domain/settings"
	"github.com/niosa-ap/attendance-backend-go/internal/pkg/clock"
	"github.com/niosa-ap/attendance-backend-go/internal/pkg/geo"
	"github.com/niosa-ap/attendance-backend-go/internal/pkg/liveness"
	"github.com/niosa-ap/attendance-backend-go/internal/pkg/storage"
)

type AttendanceServiceImpl struct {
	attendance.Repository
	settings settings.Repository
	registry *liveness.Registry
	storage  storage.FileStorage
	clk      clock.Clock
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

// CheckIn implements attendance.AttendanceService.
//
// The chain is ordered so nothing is consumed before it has to be: the
// captured liveness frame is only taken once the day, the location and
// the fence have all passed.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, loc attendance.LocationProvider) (attendance.AttendanceResponse, error) {
	staffID, name, err := staffClaims(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := a.clk.Now()
	date := now.Format(attendance.DateLayout)

	existing, err := a.Repository.GetByStaffAndDate(ctx, staffID, date)
	if err != nil && !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check today's attendance: %w", err)
	}

	status, err := Decide(now, existing != nil)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	coord, err := loc.CurrentCoordinate(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	fence, err := a.fence(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	result := geo.Evaluate(coord, fence)
	if !result.Inside {
		return attendance.AttendanceResponse{}, attendance.ErrOutsideAllowedRadius
	}

	frame, ok := a.registry.Take(staffID)
	if !ok {
		return attendance.AttendanceResponse{}, attendance.ErrLivenessNotConfirmed
	}

	photoURL, err := a.storePhoto(ctx, staffID, date, frame)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record := &attendance.Attendance{
		StaffID:   staffID,
		UserName:  name,
		Date:      date,
		InTime:    now,
		Status:    status,
		Latitude:  &coord.Latitude,
		Longitude: &coord.Longitude,
		PhotoURL:  photoURL,
	}

	created, err := a.Repository.CreateIfAbsent(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return attendance.ToAttendanceResponse(created), nil
}

// fence loads the configured geofence. An unconfigured fence behaves
// like a disabled one so a fresh deployment does not lock staff out.
func (a *AttendanceServiceImpl) fence(ctx context.Context) (geo.Fence, error) {
	cfg, err := a.settings.GetGeoFence(ctx)
	if err != nil {
		if errors.Is(err, settings.ErrGeoFenceNotConfigured) {
			return geo.Fence{Enabled: false}, nil
		}
		return geo.Fence{}, fmt.Errorf("failed to load geofence: %w", err)
	}
	return cfg.Fence(), nil
}

func (a *AttendanceServiceImpl) storePhoto(ctx context.Context, staffID, date string, frame liveness.FrameSample) (string, error) {
	if len(frame.Raw) == 0 {
		return "", nil
	}

	path := fmt.Sprintf("attendance/%s/%s.jpg", staffID, date)
	stored, err := a.storage.Upload(ctx, bytes.NewReader(frame.Raw), path, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to store check-in photo: %w", err)
	}

	url, err := a.storage.GetURL(ctx, stored, 0)
	if err != nil {
		return "", fmt.Errorf("failed to resolve check-in photo URL: %w", err)
	}

	return url, nil
}

// Today implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Today(ctx context.Context) (attendance.TodayResponse, error) {
	staffID, _, err := staffClaims(ctx)
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	now := a.clk.Now()
	record, err := a.Repository.GetByStaffAndDate(ctx, staffID, now.Format(attendance.DateLayout))
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.TodayResponse{}, nil
		}
		return attendance.TodayResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	resp := attendance.ToAttendanceResponse(record)
	return attendance.TodayResponse{
		CheckedIn:        true,
		CanStartOvertime: !record.Overtime.Started() && now.After(attendance.ShiftEnd(now)),
		CanStopOvertime:  record.Overtime.Started() && !record.Overtime.Completed(),
		Attendance:       &resp,
	}, nil
}

// StartLiveness implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) StartLiveness(ctx context.Context) (attendance.LivenessStatusResponse, error) {
	staffID, _, err := staffClaims(ctx)
	if err != nil {
		return attendance.LivenessStatusResponse{}, err
	}

	session := a.registry.Open(staffID)
	return livenessStatus(session), nil
}

// PushLivenessFrame implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) PushLivenessFrame(ctx context.Context, frame liveness.FrameSample) (attendance.LivenessStatusResponse, error) {
	staffID, _, err := staffClaims(ctx)
	if err != nil {
		return attendance.LivenessStatusResponse{}, err
	}

	if err := a.registry.Push(staffID, frame); err != nil {
		return attendance.LivenessStatusResponse{}, attendance.ErrNoLivenessSession
	}

	session, ok := a.registry.Get(staffID)
	if !ok {
		return attendance.LivenessStatusResponse{}, attendance.ErrNoLivenessSession
	}
	return livenessStatus(session), nil
}

// CancelLiveness implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CancelLiveness(ctx context.Context) error {
	staffID, _, err := staffClaims(ctx)
	if err != nil {
		return err
	}

	a.registry.Close(staffID)
	return nil
}

func livenessStatus(s *liveness.Session) attendance.LivenessStatusResponse {
	_, captured := s.Captured()
	return attendance.LivenessStatusResponse{
		State:       string(s.State()),
		MotionScore: s.MotionScore(),
		Captured:    captured,
	}
}

// StartOvertime implements attendance.AttendanceService.
//
// Starting overtime freezes the regular out time at shift end so the
// overtime span never inflates the regular day.
func (a *AttendanceServiceImpl) StartOvertime(ctx context.Context) (attendance.AttendanceResponse, error) {
	staffID, _, err := staffClaims(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := a.clk.Now()
	record, err := a.Repository.GetByStaffAndDate(ctx, staffID, now.Format(attendance.DateLayout))
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if now.Before(attendance.ShiftEnd(now)) {
		return attendance.AttendanceResponse{}, attendance.ErrShiftNotEnded
	}
	if record.Overtime.Completed() {
		return attendance.AttendanceResponse{}, attendance.ErrOvertimeCompleted
	}
	if record.Overtime.Started() {
		return attendance.AttendanceResponse{}, attendance.ErrOvertimeAlreadyStarted
	}

	if err := a.Repository.StartOvertime(ctx, record.ID, now, attendance.ShiftEnd(now)); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	updated, err := a.Repository.GetByID(ctx, record.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.ToAttendanceResponse(updated), nil
}

// StopOvertime implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) StopOvertime(ctx context.Context) (attendance.AttendanceResponse, error) {
	staffID, _, err := staffClaims(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := a.clk.Now()
	record, err := a.Repository.GetByStaffAndDate(ctx, staffID, now.Format(attendance.DateLayout))
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if record.Overtime.Completed() {
		return attendance.AttendanceResponse{}, attendance.ErrOvertimeCompleted
	}
	if !record.Overtime.Started() {
		return attendance.AttendanceResponse{}, attendance.ErrOvertimeNotStarted
	}

	hours, reviewRequired := OvertimeHours(*record.Overtime.StartTime, now)
	if err := a.Repository.StopOvertime(ctx, record.ID, now, hours, reviewRequired); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	updated, err := a.Repository.GetByID(ctx, record.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return attendance.ToAttendanceResponse(updated), nil
}

// MyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) MyAttendance(ctx context.Context, filter attendance.ListFilter) (attendance.ListAttendanceResponse, error) {
	staffID, _, err := staffClaims(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	items, total, err := a.Repository.ListByStaff(ctx, staffID, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	return toListResponse(items, total, filter), nil
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.ListFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	items, total, err := a.Repository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	return toListResponse(items, total, filter), nil
}

func toListResponse(items []attendance.Attendance, total int64, filter attendance.ListFilter) attendance.ListAttendanceResponse {
	resp := attendance.ListAttendanceResponse{
		Items: make([]attendance.AttendanceResponse, 0, len(items)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range items {
		resp.Items = append(resp.Items, attendance.ToAttendanceResponse(&items[i]))
	}
	return resp
}

func NewAttendanceService(
	repo attendance.Repository,
	settingsRepo settings.Repository,
	registry *liveness.Registry,
	fileStorage storage.FileStorage,
	clk clock.Clock,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		Repository: repo,
		settings:   settingsRepo,
		registry:   registry,
		storage:    fileStorage,
		clk:        clk,
	}
}
