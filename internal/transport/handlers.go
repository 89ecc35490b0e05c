package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rpggio/recipe-activity/internal/domain/activity"
	"github.com/rpggio/recipe-activity/internal/domain/quantity"
	"github.com/rpggio/recipe-activity/internal/domain/session"
)

type deleteActivitiesRequest struct {
	IDs []string `json:"ids"`
}

// ScaleResponse is returned by GET /api/quantities/scale.
type ScaleResponse struct {
	Amount    float64 `json:"amount"`
	Scaled    float64 `json:"scaled"`
	Formatted string  `json:"formatted"`
}

func (s *Server) handleLogActivity(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := s.tenant(w, r)
	if !ok {
		return
	}

	var event activity.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid JSON body")
		return
	}
	if err := s.activity.LogActivity(r.Context(), tenantID, &event); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

func (s *Server) handleListActivity(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := s.tenant(w, r)
	if !ok {
		return
	}

	opts, err := parseListOptions(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	events, err := s.activity.List(r.Context(), tenantID, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if events == nil {
		events = []activity.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := s.tenant(w, r)
	if !ok {
		return
	}
	if err := s.activity.Delete(r.Context(), tenantID, chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteActivities(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := s.tenant(w, r)
	if !ok {
		return
	}

	var req deleteActivitiesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "ids required")
		return
	}
	writeJSON(w, http.StatusOK, s.activity.DeleteMany(r.Context(), tenantID, req.IDs))
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := s.tenant(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := session.Filter{
		Status:   session.SessionStatus(q.Get("status")),
		Username: q.Get("username"),
		Search:   q.Get("search"),
	}
	limit, err := intParam(q.Get("limit"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	filter.Limit = limit

	sessions, err := s.sessions.List(r.Context(), tenantID, filter)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleSessionStats(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := s.tenant(w, r)
	if !ok {
		return
	}
	stats, err := s.sessions.Stats(r.Context(), tenantID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := s.tenant(w, r)
	if !ok {
		return
	}
	sess, err := s.sessions.Get(r.Context(), tenantID, chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := s.tenant(w, r)
	if !ok {
		return
	}
	result, err := s.sessions.Delete(r.Context(), tenantID, chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	status := http.StatusOK
	if result.Failed > 0 {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, result)
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := s.tenant(w, r)
	if !ok {
		return
	}
	if err := s.sessions.MarkCompleted(r.Context(), tenantID, chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReopenSession(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := s.tenant(w, r)
	if !ok {
		return
	}
	if err := s.sessions.Reopen(r.Context(), tenantID, chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleScaleQuantity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	amount, err := quantity.Parse(q.Get("amount"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	from, err := intParam(q.Get("from"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	to, err := intParam(q.Get("to"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	scaled, err := quantity.Scale(amount, from, to)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ScaleResponse{
		Amount:    amount,
		Scaled:    scaled,
		Formatted: quantity.Format(scaled),
	})
}

func parseListOptions(r *http.Request) (activity.ListOptions, error) {
	q := r.URL.Query()
	opts := activity.ListOptions{Username: q.Get("username")}

	if typ := q.Get("type"); typ != "" {
		t := activity.ActivityType(typ)
		opts.ActivityType = &t
	}
	if since := q.Get("since"); since != "" {
		ts, err := time.Parse(time.RFC3339, since)
		if err != nil {
			return opts, fmt.Errorf("%w: since must be RFC 3339", activity.ErrInvalidInput)
		}
		opts.Since = &ts
	}

	var err error
	if opts.Limit, err = intParam(q.Get("limit")); err != nil {
		return opts, err
	}
	if opts.Offset, err = intParam(q.Get("offset")); err != nil {
		return opts, err
	}
	return opts, nil
}

func intParam(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q is not a non-negative integer", activity.ErrInvalidInput, raw)
	}
	return n, nil
}
