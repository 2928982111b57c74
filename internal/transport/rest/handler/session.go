package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"kidassess/internal/service"
	"kidassess/internal/session"
)

// SessionHandler exposes the respondent-facing assessment session API
type SessionHandler struct {
	assessSvc *service.AssessmentService
}

func NewSessionHandler(assessSvc *service.AssessmentService) *SessionHandler {
	return &SessionHandler{assessSvc: assessSvc}
}

// StartSessionRequest is the request body for creating a session
type StartSessionRequest struct {
	Locale string `json:"locale,omitempty"`
	Filter string `json:"filter,omitempty"`
}

// SelectRequest is the respondent's option choice
type SelectRequest struct {
	OptionID string `json:"optionId"`
}

// FilterRequest switches the visible category
type FilterRequest struct {
	Category string `json:"category"`
}

// Start handles POST /v1/sessions
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	view, err := h.assessSvc.Start(r.Context(), req.Locale, req.Filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// Get handles GET /v1/sessions/{sessionId}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.assessSvc.View(r.Context(), mux.Vars(r)["sessionId"])
	h.respond(w, view, err)
}

// Next handles POST /v1/sessions/{sessionId}/next
func (h *SessionHandler) Next(w http.ResponseWriter, r *http.Request) {
	view, err := h.assessSvc.Next(mux.Vars(r)["sessionId"])
	h.respond(w, view, err)
}

// Previous handles POST /v1/sessions/{sessionId}/previous
func (h *SessionHandler) Previous(w http.ResponseWriter, r *http.Request) {
	view, err := h.assessSvc.Previous(mux.Vars(r)["sessionId"])
	h.respond(w, view, err)
}

// Filter handles POST /v1/sessions/{sessionId}/filter
func (h *SessionHandler) Filter(w http.ResponseWriter, r *http.Request) {
	var req FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	view, err := h.assessSvc.SetFilter(mux.Vars(r)["sessionId"], req.Category)
	h.respond(w, view, err)
}

// Select handles POST /v1/sessions/{sessionId}/select
func (h *SessionHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OptionID == "" {
		writeError(w, http.StatusBadRequest, "optionId is required")
		return
	}
	view, err := h.assessSvc.Select(mux.Vars(r)["sessionId"], req.OptionID)
	h.respond(w, view, err)
}

// Repeat handles POST /v1/sessions/{sessionId}/repeat
func (h *SessionHandler) Repeat(w http.ResponseWriter, r *http.Request) {
	view, err := h.assessSvc.Repeat(mux.Vars(r)["sessionId"])
	h.respond(w, view, err)
}

// Narrated handles POST /v1/sessions/{sessionId}/narrated, the client's
// playback-complete acknowledgement. Stale acks are harmless.
func (h *SessionHandler) Narrated(w http.ResponseWriter, r *http.Request) {
	view, err := h.assessSvc.NarrationDone(mux.Vars(r)["sessionId"])
	h.respond(w, view, err)
}

// Answers handles GET /v1/sessions/{sessionId}/answers
func (h *SessionHandler) Answers(w http.ResponseWriter, r *http.Request) {
	answers, err := h.assessSvc.Answers(r.Context(), mux.Vars(r)["sessionId"])
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"answers": answers})
}

// End handles DELETE /v1/sessions/{sessionId}
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	if err := h.assessSvc.End(r.Context(), mux.Vars(r)["sessionId"]); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ended"})
}

func (h *SessionHandler) respond(w http.ResponseWriter, view session.View, err error) {
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}
