package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jakechorley/health-ops/pkg/core/model"
	"github.com/jakechorley/health-ops/pkg/core/services"
	"github.com/jakechorley/health-ops/pkg/db"
)

// Handler serves the engine operations over a store
type Handler struct {
	Store            db.Database
	Logger           *zap.Logger
	Options          services.Options
	DefaultDaysAhead int
}

// ListShifts returns every shift.
// GET /api/shifts
func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := services.ListShifts(r.Context(), h.Store, h.Logger)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shifts)
}

// ListOpenShifts returns the open shifts starting in a window.
// GET /api/shifts/open?location_id=&from=&to=
func (h *Handler) ListOpenShifts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	shifts, err := services.ListOpenShifts(r.Context(), h.Store, h.Logger, h.Options,
		q.Get("location_id"), q.Get("from"), q.Get("to"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shifts)
}

// SuggestAssignments proposes caregivers for the open shifts at a location.
// GET /api/suggestions?location_id=&from=&to=
func (h *Handler) SuggestAssignments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	suggestions, err := services.SuggestAssignments(r.Context(), h.Store, h.Logger, h.Options,
		q.Get("location_id"), q.Get("from"), q.Get("to"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestions)
}

// AssignShift commits a caregiver to a shift.
// POST /api/shifts/{id}/assign
func (h *Handler) AssignShift(w http.ResponseWriter, r *http.Request) {
	var req AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", model.CodeParse, err)
		return
	}
	if strings.TrimSpace(req.CaregiverID) == "" {
		writeError(w, http.StatusBadRequest, "caregiver_id is required", model.CodeValidation, nil)
		return
	}

	result, err := services.AssignShift(r.Context(), h.Store, h.Logger, h.Options,
		chi.URLParam(r, "id"), req.CaregiverID, req.Source)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	status := http.StatusOK
	if !result.OK {
		status = statusFor(result.Err)
	}
	writeJSON(w, status, result)
}

// ListExpiringCompliance returns compliance items expiring soon.
// GET /api/compliance/expiring?days_ahead=
func (h *Handler) ListExpiringCompliance(w http.ResponseWriter, r *http.Request) {
	daysAhead := h.DefaultDaysAhead
	if raw := r.URL.Query().Get("days_ahead"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "days_ahead must be a whole number", model.CodeParse, err)
			return
		}
		daysAhead = n
	}

	items, err := services.ListExpiringCompliance(r.Context(), h.Store, h.Logger, h.now(), daysAhead)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// DescribeSchema lists the workforce entities.
// GET /api/schema
func (h *Handler) DescribeSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, services.DescribeSchema())
}

func (h *Handler) now() time.Time {
	if h.Options.Now != nil {
		return h.Options.Now().UTC()
	}
	return time.Now().UTC()
}

// statusFor maps an engine error to an HTTP status
func statusFor(err error) int {
	switch model.ErrorCode(err) {
	case model.CodeValidation, model.CodeParse:
		return http.StatusBadRequest
	case model.CodeShiftNotFound, model.CodeCaregiverNotFound:
		return http.StatusNotFound
	case model.CodeShiftNotOpen:
		return http.StatusConflict
	case model.CodeCaregiverNotEligible:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.Logger.Error("Request failed", zap.Error(err))
		writeError(w, status, "Internal error", "", err)
		return
	}

	var message string
	var notFound *model.NotFoundError
	switch {
	case errors.As(err, &notFound):
		message = fmt.Sprintf("%s not found", strings.TrimSuffix(notFound.Code, "_not_found"))
	default:
		message = "Invalid request"
	}
	writeError(w, status, message, model.ErrorCode(err), err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message, code string, err error) {
	resp := ErrorResponse{Error: message, Code: code}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
