package http

import (
	"bytes"
	"encoding/json"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/niosa-ap/attendance-backend-go/internal/domain/attendance"
	"github.com/niosa-ap/attendance-backend-go/internal/handler/http/response"
	"github.com/niosa-ap/attendance-backend-go/internal/pkg/geo"
	"github.com/niosa-ap/attendance-backend-go/internal/pkg/liveness"
)

// Frame uploads are capped well above a camera still at sane quality.
const maxFrameBytes = 8 << 20

type AttendanceHandler interface {
	Today(w http.ResponseWriter, r *http.Request)
	CheckIn(w http.ResponseWriter, r *http.Request)
	StartLiveness(w http.ResponseWriter, r *http.Request)
	PushLivenessFrame(w http.ResponseWriter, r *http.Request)
	CancelLiveness(w http.ResponseWriter, r *http.Request)
	StartOvertime(w http.ResponseWriter, r *http.Request)
	StopOvertime(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.Today(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckInRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CheckIn decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.CheckIn(r.Context(), locationFromRequest(req))
	if err != nil {
		slog.Error("CheckIn service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance marked successfully", result)
}

// locationFromRequest turns the client-reported coordinate or failure
// code into a location provider for the verification chain.
func locationFromRequest(req attendance.CheckInRequest) attendance.LocationProvider {
	switch req.LocationError {
	case attendance.LocationErrorPermissionDenied:
		return attendance.FailedLocation(attendance.ErrLocationPermissionDenied)
	case attendance.LocationErrorUnavailable:
		return attendance.FailedLocation(attendance.ErrLocationUnavailable)
	case attendance.LocationErrorTimeout:
		return attendance.FailedLocation(attendance.ErrLocationTimeout)
	}
	return attendance.StaticLocation(geo.Coordinate{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
}

// StartLiveness implements AttendanceHandler.
func (h *attendanceHandlerImpl) StartLiveness(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.StartLiveness(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Liveness session started", result)
}

// PushLivenessFrame implements AttendanceHandler. The body is a single
// JPEG or PNG frame from the client camera.
func (h *attendanceHandlerImpl) PushLivenessFrame(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxFrameBytes+1))
	if err != nil {
		response.BadRequest(w, "Failed to read frame", nil)
		return
	}
	if len(raw) == 0 || len(raw) > maxFrameBytes {
		response.BadRequest(w, "Frame must be a non-empty image up to 8 MiB", nil)
		return
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		response.BadRequest(w, "Frame must be a valid JPEG or PNG image", nil)
		return
	}

	frame := liveness.NewFrameFromImage(img, raw, time.Now())
	result, err := h.attendanceService.PushLivenessFrame(r.Context(), frame)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CancelLiveness implements AttendanceHandler.
func (h *attendanceHandlerImpl) CancelLiveness(w http.ResponseWriter, r *http.Request) {
	if err := h.attendanceService.CancelLiveness(r.Context()); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Liveness session cancelled", nil)
}

// StartOvertime implements AttendanceHandler.
func (h *attendanceHandlerImpl) StartOvertime(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.StartOvertime(r.Context())
	if err != nil {
		slog.Error("StartOvertime service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime started", result)
}

// StopOvertime implements AttendanceHandler.
func (h *attendanceHandlerImpl) StopOvertime(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.StopOvertime(r.Context())
	if err != nil {
		slog.Error("StopOvertime service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime stopped", result)
}

func attendanceFilterFromQuery(r *http.Request) attendance.ListFilter {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return attendance.ListFilter{
		StaffID:   q.Get("staff_id"),
		Date:      q.Get("date"),
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		Status:    q.Get("status"),
		Page:      page,
		Limit:     limit,
	}
}

// GetMyAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	filter := attendanceFilterFromQuery(r)
	filter.StaffID = ""

	result, err := h.attendanceService.MyAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Items, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.Total,
	})
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.ListAttendance(r.Context(), attendanceFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Items, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.Total,
	})
}
