package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/attendance"
	"github.com/hakobu-dev/hakobu-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	DirectGo(w http.ResponseWriter, r *http.Request)
	DirectReturn(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
	ListMy(w http.ResponseWriter, r *http.Request)
}

type AttendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &AttendanceHandlerImpl{attendanceService: attendanceService}
}

// CheckIn implements AttendanceHandler.
func (h *AttendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var loc attendance.LocationPayload
	if err := json.NewDecoder(r.Body).Decode(&loc); err != nil {
		slog.Error("CheckIn decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.attendanceService.CheckIn(r.Context(), identityFromRequest(r), loc)
	if err != nil {
		slog.Error("CheckIn service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checked in", resp)
}

// CheckOut implements AttendanceHandler.
func (h *AttendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	var loc attendance.LocationPayload
	if err := json.NewDecoder(r.Body).Decode(&loc); err != nil {
		slog.Error("CheckOut decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.attendanceService.CheckOut(r.Context(), identityFromRequest(r), loc)
	if err != nil {
		slog.Error("CheckOut service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checked out", resp)
}

// DirectGo implements AttendanceHandler.
func (h *AttendanceHandlerImpl) DirectGo(w http.ResponseWriter, r *http.Request) {
	var req attendance.DirectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("DirectGo decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.attendanceService.RequestDirectGo(r.Context(), identityFromRequest(r), req)
	if err != nil {
		slog.Error("DirectGo service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Direct go requested", resp)
}

// DirectReturn implements AttendanceHandler.
func (h *AttendanceHandlerImpl) DirectReturn(w http.ResponseWriter, r *http.Request) {
	var req attendance.DirectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("DirectReturn decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.attendanceService.RequestDirectReturn(r.Context(), identityFromRequest(r), req)
	if err != nil {
		slog.Error("DirectReturn service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Direct return requested", resp)
}

// Status implements AttendanceHandler.
func (h *AttendanceHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	resp, err := h.attendanceService.Status(r.Context(), identityFromRequest(r))
	if err != nil {
		slog.Error("Status service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// ListMy implements AttendanceHandler.
func (h *AttendanceHandlerImpl) ListMy(w http.ResponseWriter, r *http.Request) {
	filter := attendance.MyAttendanceFilter{
		Page:  queryInt(r, "page", 1),
		Limit: queryInt(r, "limit", 20),
	}
	if v := r.URL.Query().Get("start_date"); v != "" {
		filter.StartDate = &v
	}
	if v := r.URL.Query().Get("end_date"); v != "" {
		filter.EndDate = &v
	}

	records, total, err := h.attendanceService.ListMy(r.Context(), identityFromRequest(r), filter)
	if err != nil {
		slog.Error("ListMy service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, records, paginationMeta(filter.Page, filter.Limit, total))
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func paginationMeta(page, limit int, total int64) *response.Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return &response.Meta{
		Page:       page,
		Limit:      limit,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
