package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bakehouse-dev/baker-scheduling/web/internal/api"
	"github.com/bakehouse-dev/baker-scheduling/web/internal/domain"
	"github.com/bakehouse-dev/baker-scheduling/web/internal/schedule"
)

const dateLayout = "2006-01-02"

type schedulePage struct {
	Month      string
	RangeStart string
	RangeEnd   string
	Shifts     []domain.Shift
	Statuses   []domain.ShiftStatus
	CanManage  bool
}

// Schedule is the default view: the current month's shifts. The calendar
// widget refreshes itself through ScheduleEvents when the range changes.
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserCtxKey).(*domain.User)
	token := r.Context().Value(TokenCtxKey).(string)

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	if s, err := time.Parse(dateLayout, r.URL.Query().Get("month")); err == nil {
		start = time.Date(s.Year(), s.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, -1)
	}

	rng := schedule.Range{Start: start, End: end}
	shifts, err := h.loaders.For(user.Username, string(domain.ViewSchedule)).Load(r.Context(), rng, func(ctx context.Context, rng schedule.Range) ([]domain.Shift, error) {
		return h.client.ListShifts(ctx, token, rng.Start, rng.End)
	})

	data := &pageData{
		Title: "Schedule",
		User:  user,
		Nav:   h.nav(user, domain.ViewSchedule),
		Data: &schedulePage{
			Month:      start.Format("January 2006"),
			RangeStart: start.Format(dateLayout),
			RangeEnd:   end.Format(dateLayout),
			Shifts:     shifts,
			Statuses:   allShiftStatuses,
			CanManage:  user.Role.CanManageShifts(),
		},
	}

	if err != nil && !errors.Is(err, schedule.ErrStale) {
		if api.IsAuthError(err) {
			h.forceLogout(w, r)
			return
		}
		status, msg := h.upstreamError(r, err)
		data.Error = msg
		h.render(w, r, status, "schedule.tmpl", data)
		return
	}

	h.render(w, r, http.StatusOK, "schedule.tmpl", data)
}

var allShiftStatuses = []domain.ShiftStatus{
	domain.ShiftStatusNone,
	domain.ShiftStatusHasShift,
	domain.ShiftStatusPendingAvailability,
	domain.ShiftStatusConfirmedAvailability,
	domain.ShiftStatusCancelledAvailability,
}

type scheduleEvent struct {
	ID     int64              `json:"id"`
	Title  string             `json:"title"`
	Start  string             `json:"start"`
	End    string             `json:"end"`
	Status domain.ShiftStatus `json:"status"`
}

// ScheduleEvents serves the calendar's range refreshes as JSON. A fetch
// superseded by a newer range answers 204 so the stale response carries no
// data that could overwrite the fresh one.
func (h *Handler) ScheduleEvents(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserCtxKey).(*domain.User)
	token := r.Context().Value(TokenCtxKey).(string)

	start, err := time.Parse(dateLayout, r.URL.Query().Get("start"))
	if err != nil {
		h.writeJSON(w, r, http.StatusBadRequest, map[string]string{"message": "invalid start date"})
		return
	}
	end, err := time.Parse(dateLayout, r.URL.Query().Get("end"))
	if err != nil {
		h.writeJSON(w, r, http.StatusBadRequest, map[string]string{"message": "invalid end date"})
		return
	}

	rng := schedule.Range{Start: start, End: end}
	shifts, err := h.loaders.For(user.Username, string(domain.ViewSchedule)).Load(r.Context(), rng, func(ctx context.Context, rng schedule.Range) ([]domain.Shift, error) {
		return h.client.ListShifts(ctx, token, rng.Start, rng.End)
	})
	if err != nil {
		if errors.Is(err, schedule.ErrStale) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if api.IsAuthError(err) {
			// clear the dead session so the calendar stops replaying it
			h.clearSessionCookie(w, r)
			h.writeJSON(w, r, http.StatusUnauthorized, map[string]string{"message": "session expired"})
			return
		}
		status, msg := h.upstreamError(r, err)
		h.writeJSON(w, r, status, map[string]string{"message": msg})
		return
	}

	events := make([]scheduleEvent, 0, len(shifts))
	for _, s := range shifts {
		title := s.Type
		if title == "" {
			title = "Shift"
		}
		events = append(events, scheduleEvent{
			ID:     s.ID,
			Title:  fmt.Sprintf("%s (%d/%d)", title, s.ConfirmedCount(), s.RequiredStaff),
			Start:  fmt.Sprintf("%sT%s", s.Date, s.StartTime),
			End:    fmt.Sprintf("%sT%s", s.Date, s.EndTime),
			Status: s.Status,
		})
	}

	h.writeJSON(w, r, http.StatusOK, map[string]any{"events": events})
}

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	token := r.Context().Value(TokenCtxKey).(string)

	if err := r.ParseForm(); err != nil {
		h.renderScheduleError(w, r, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	requiredStaff, _ := strconv.Atoi(r.PostFormValue("requiredStaff"))
	req := &api.CreateShiftRequest{
		Date:          r.PostFormValue("date"),
		StartTime:     r.PostFormValue("startTime"),
		EndTime:       r.PostFormValue("endTime"),
		Type:          r.PostFormValue("type"),
		RequiredStaff: requiredStaff,
		Staff:         r.PostForm["staff"],
	}

	if err := h.validate.Struct(req); err != nil {
		h.renderScheduleError(w, r, http.StatusBadRequest, h.formError(err))
		return
	}

	if _, err := h.client.CreateShift(r.Context(), token, req); err != nil {
		if api.IsAuthError(err) {
			h.forceLogout(w, r)
			return
		}
		status, msg := h.upstreamError(r, err)
		h.renderScheduleError(w, r, status, msg)
		return
	}

	http.Redirect(w, r, viewPath(domain.ViewSchedule)+"?month="+req.Date, http.StatusSeeOther)
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	token := r.Context().Value(TokenCtxKey).(string)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.renderScheduleError(w, r, http.StatusBadRequest, "Invalid shift id.")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderScheduleError(w, r, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	// only submitted fields travel upstream
	req := &api.UpdateShiftRequest{}
	if v := r.PostFormValue("date"); v != "" {
		req.Date = &v
	}
	if v := r.PostFormValue("startTime"); v != "" {
		req.StartTime = &v
	}
	if v := r.PostFormValue("endTime"); v != "" {
		req.EndTime = &v
	}
	if v := r.PostFormValue("status"); v != "" {
		status := domain.ShiftStatus(v)
		req.Status = &status
	}

	if err := h.validate.Struct(req); err != nil {
		h.renderScheduleError(w, r, http.StatusBadRequest, h.formError(err))
		return
	}

	if _, err := h.client.UpdateShift(r.Context(), token, id, req); err != nil {
		if api.IsAuthError(err) {
			h.forceLogout(w, r)
			return
		}
		status, msg := h.upstreamError(r, err)
		h.renderScheduleError(w, r, status, msg)
		return
	}

	back := viewPath(domain.ViewSchedule)
	if req.Date != nil {
		back += "?month=" + *req.Date
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	token := r.Context().Value(TokenCtxKey).(string)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.renderScheduleError(w, r, http.StatusBadRequest, "Invalid shift id.")
		return
	}

	if err := h.client.DeleteShift(r.Context(), token, id); err != nil {
		if api.IsAuthError(err) {
			h.forceLogout(w, r)
			return
		}
		status, msg := h.upstreamError(r, err)
		h.renderScheduleError(w, r, status, msg)
		return
	}

	http.Redirect(w, r, viewPath(domain.ViewSchedule), http.StatusSeeOther)
}

func (h *Handler) renderScheduleError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	user := r.Context().Value(UserCtxKey).(*domain.User)

	h.render(w, r, status, "schedule.tmpl", &pageData{
		Title: "Schedule",
		User:  user,
		Nav:   h.nav(user, domain.ViewSchedule),
		Error: msg,
		Data: &schedulePage{
			Statuses:  allShiftStatuses,
			CanManage: user.Role.CanManageShifts(),
		},
	})
}

// clearSessionCookie expires the persisted session in the response.
func (h *Handler) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	cookieValue := ""
	if cookie, err := r.Cookie(h.session.CookieName()); err == nil {
		cookieValue = cookie.Value
	}
	http.SetCookie(w, h.session.Logout(r.Context(), cookieValue))
}

// forceLogout handles a token that the server stopped accepting mid-session.
func (h *Handler) forceLogout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
