package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/niosa-ap/attendance-backend-go/internal/domain/correction"
	"github.com/niosa-ap/attendance-backend-go/internal/handler/http/response"
)

type CorrectionHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	MyRequests(w http.ResponseWriter, r *http.Request)
	ActiveGrant(w http.ResponseWriter, r *http.Request)
	Apply(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type correctionHandlerImpl struct {
	correctionService correction.CorrectionService
}

func NewCorrectionHandler(correctionService correction.CorrectionService) CorrectionHandler {
	return &correctionHandlerImpl{
		correctionService: correctionService,
	}
}

// Submit implements CorrectionHandler.
func (h *correctionHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	var req correction.SubmitRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Submit correction decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.correctionService.Submit(r.Context(), req)
	if err != nil {
		slog.Error("Submit correction service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Correction request submitted", result)
}

func correctionFilterFromQuery(r *http.Request) correction.ListFilter {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return correction.ListFilter{
		StaffID: q.Get("staff_id"),
		Status:  q.Get("status"),
		Page:    page,
		Limit:   limit,
	}
}

// MyRequests implements CorrectionHandler.
func (h *correctionHandlerImpl) MyRequests(w http.ResponseWriter, r *http.Request) {
	filter := correctionFilterFromQuery(r)
	filter.StaffID = ""

	result, err := h.correctionService.MyRequests(r.Context(), filter)
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

// ActiveGrant implements CorrectionHandler.
func (h *correctionHandlerImpl) ActiveGrant(w http.ResponseWriter, r *http.Request) {
	result, err := h.correctionService.ActiveGrant(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Apply implements CorrectionHandler. Text fields arrive as JSON; photo
// corrections arrive as multipart with the replacement image.
func (h *correctionHandlerImpl) Apply(w http.ResponseWriter, r *http.Request) {
	var req correction.ApplyRequest

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			slog.Error("Apply correction multipart error", "error", err)
			response.BadRequest(w, "Failed to parse form data", nil)
			return
		}

		req.Value = r.FormValue("value")

		file, fileHeader, err := r.FormFile("photo")
		if err != nil && err != http.ErrMissingFile {
			response.BadRequest(w, "Invalid file upload", nil)
			return
		}
		if err == nil {
			defer file.Close()
			req.File = file
			req.FileHeader = fileHeader
		}
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Apply correction decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.correctionService.Apply(r.Context(), req)
	if err != nil {
		slog.Error("Apply correction service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Correction applied", result)
}

// List implements CorrectionHandler.
func (h *correctionHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.correctionService.List(r.Context(), correctionFilterFromQuery(r))
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

// Approve implements CorrectionHandler.
func (h *correctionHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.correctionService.Approve(r.Context(), id)
	if err != nil {
		slog.Error("Approve correction service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Correction request approved", result)
}

// Reject implements CorrectionHandler.
func (h *correctionHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.correctionService.Reject(r.Context(), id)
	if err != nil {
		slog.Error("Reject correction service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Correction request rejected", result)
}
