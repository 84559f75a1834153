package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/bakehouse-dev/baker-scheduling/web/internal/api"
	"github.com/bakehouse-dev/baker-scheduling/web/internal/domain"
)

var viewPaths = map[domain.View]string{
	domain.ViewSchedule:     "/",
	domain.ViewAvailability: "/availability",
	domain.ViewStaff:        "/staff",
	domain.ViewSettings:     "/settings",
	domain.ViewProfile:      "/profile",
}

var viewLabels = map[domain.View]string{
	domain.ViewSchedule:     "Schedule",
	domain.ViewAvailability: "My Availability",
	domain.ViewStaff:        "Staff",
	domain.ViewSettings:     "Settings",
	domain.ViewProfile:      "Profile",
}

func viewPath(v domain.View) string {
	return viewPaths[v]
}

type navLink struct {
	Label  string
	Path   string
	Active bool
}

// pageData is what every template receives. Data carries the page-specific
// payload; Error is the inline user-visible message, never a raw error.
type pageData struct {
	Title string
	User  *domain.User
	Nav   []navLink
	Error string
	Data  any
}

// nav renders only the destinations the capability table allows.
func (h *Handler) nav(user *domain.User, active domain.View) []navLink {
	views := user.Role.Views()
	links := make([]navLink, 0, len(views))
	for _, v := range views {
		links = append(links, navLink{
			Label:  viewLabels[v],
			Path:   viewPaths[v],
			Active: v == active,
		})
	}
	return links
}

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	slog.Error("internal server error", "method", r.Method, "path", r.URL.Path, "error", err)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, data *pageData) {
	// render to a buffer first so a template fault never emits a half page
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.logInternalServerError(r, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logInternalServerError(r, err)
	}
}

// formError turns a validation failure into the first translated message.
func (h *Handler) formError(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	return validationErrors[0].Translate(h.translator)
}

// upstreamError maps the api error taxonomy onto a response status and an
// inline message. AuthError never lands here: the auth middleware and the
// session manager special-case it into a logout before views see it.
func (h *Handler) upstreamError(r *http.Request, err error) (int, string) {
	var transportErr *api.TransportError
	if errors.As(err, &transportErr) {
		slog.Warn("scheduling API unreachable", "method", r.Method, "path", r.URL.Path, "error", err)
		return http.StatusBadGateway, "The scheduling service is unreachable. Please try again."
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.StatusCode, apiErr.Message
		}
		return apiErr.StatusCode, "The scheduling service reported an error. Please try again."
	}

	h.logInternalServerError(r, err)
	return http.StatusInternalServerError, "Something went wrong. Please try again."
}
