package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bakehouse-dev/baker-scheduling/web/internal/api"
	"github.com/bakehouse-dev/baker-scheduling/web/internal/domain"
	"github.com/bakehouse-dev/baker-scheduling/web/internal/schedule"
)

type availabilityShift struct {
	domain.Shift
	Mine       domain.AssignmentStatus
	NextStatus domain.AssignmentStatus
}

type availabilityPage struct {
	Date   string
	Shifts []availabilityShift
}

// Availability shows the signed-in user's shifts for one date with a
// confirm/decline toggle. The identity always comes from the session, never
// from anything the browser sends.
func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserCtxKey).(*domain.User)
	token := r.Context().Value(TokenCtxKey).(string)

	// today in the server's zone; truncating the UTC timeline shifts the
	// date near midnight for non-UTC deployments
	date, _ := time.Parse(dateLayout, time.Now().Format(dateLayout))
	if d, err := time.Parse(dateLayout, r.URL.Query().Get("date")); err == nil {
		date = d
	}

	rng := schedule.Range{Start: date, End: date}
	shifts, err := h.loaders.For(user.Username, string(domain.ViewAvailability)).Load(r.Context(), rng, func(ctx context.Context, rng schedule.Range) ([]domain.Shift, error) {
		return h.client.ListShifts(ctx, token, rng.Start, rng.End)
	})

	data := &pageData{
		Title: "My Availability",
		User:  user,
		Nav:   h.nav(user, domain.ViewAvailability),
		Data: &availabilityPage{
			Date:   date.Format(dateLayout),
			Shifts: h.decorateShifts(user, shifts),
		},
	}

	if err != nil && !errors.Is(err, schedule.ErrStale) {
		if api.IsAuthError(err) {
			h.forceLogout(w, r)
			return
		}
		status, msg := h.upstreamError(r, err)
		data.Error = msg
		h.render(w, r, status, "availability.tmpl", data)
		return
	}

	h.render(w, r, http.StatusOK, "availability.tmpl", data)
}

// decorateShifts works out the session user's own assignment status per
// shift and the status a toggle would move it to.
func (h *Handler) decorateShifts(user *domain.User, shifts []domain.Shift) []availabilityShift {
	out := make([]availabilityShift, 0, len(shifts))
	for _, s := range shifts {
		mine := domain.AssignmentPending
		if a, ok := s.AssignmentFor(user.Username); ok {
			mine = a.Status
		}

		next := domain.AssignmentConfirmed
		if mine == domain.AssignmentConfirmed {
			next = domain.AssignmentCancelled
		}

		out = append(out, availabilityShift{Shift: s, Mine: mine, NextStatus: next})
	}
	return out
}

// ToggleAvailability records the session user's availability on a shift.
func (h *Handler) ToggleAvailability(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserCtxKey).(*domain.User)
	token := r.Context().Value(TokenCtxKey).(string)

	shiftID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Redirect(w, r, viewPath(domain.ViewAvailability), http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, viewPath(domain.ViewAvailability), http.StatusSeeOther)
		return
	}

	req := struct {
		Status string `validate:"required,oneof=pending available confirmed cancelled"`
		Date   string `validate:"omitempty,datetime=2006-01-02"`
	}{
		Status: r.PostFormValue("status"),
		Date:   r.PostFormValue("date"),
	}

	back := viewPath(domain.ViewAvailability)
	if req.Date != "" {
		back += "?date=" + url.QueryEscape(req.Date)
	}

	if err := h.validate.Struct(req); err != nil {
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	if err := h.client.SetShiftAvailability(r.Context(), token, shiftID, user.Username, domain.AssignmentStatus(req.Status)); err != nil {
		if api.IsAuthError(err) {
			h.forceLogout(w, r)
			return
		}

		status, msg := h.upstreamError(r, err)
		h.render(w, r, status, "availability.tmpl", &pageData{
			Title: "My Availability",
			User:  user,
			Nav:   h.nav(user, domain.ViewAvailability),
			Error: msg,
			Data:  &availabilityPage{Date: req.Date},
		})
		return
	}

	http.Redirect(w, r, back, http.StatusSeeOther)
}
