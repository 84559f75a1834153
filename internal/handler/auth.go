package handler

import (
	"net/http"

	"github.com/bakehouse-dev/baker-scheduling/web/internal/api"
	"github.com/bakehouse-dev/baker-scheduling/web/internal/domain"
)

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	// a browser that still holds a cookie goes straight to the schedule;
	// if the cookie turns out invalid the auth middleware bounces it back
	if _, err := r.Cookie(h.session.CookieName()); err == nil {
		http.Redirect(w, r, viewPath(domain.DefaultView), http.StatusSeeOther)
		return
	}

	h.render(w, r, http.StatusOK, "login.tmpl", &pageData{Title: "Log in"})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, "login.tmpl", &pageData{Title: "Log in", Error: "Invalid form submission."})
		return
	}

	req := struct {
		Username string `validate:"required"`
		Password string `validate:"required"`
	}{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}

	if err := h.validate.Struct(req); err != nil {
		h.render(w, r, http.StatusBadRequest, "login.tmpl", &pageData{Title: "Log in", Error: h.formError(err)})
		return
	}

	_, cookie, err := h.session.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if api.IsAuthError(err) {
			h.render(w, r, http.StatusUnauthorized, "login.tmpl", &pageData{Title: "Log in", Error: "Invalid username or password."})
			return
		}

		status, msg := h.upstreamError(r, err)
		h.render(w, r, status, "login.tmpl", &pageData{Title: "Log in", Error: msg})
		return
	}

	http.SetCookie(w, cookie)
	http.Redirect(w, r, viewPath(domain.DefaultView), http.StatusSeeOther)
}

// Logout clears the session unconditionally. Logging out while already
// logged out is a no-op that still lands on the login page.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	cookieValue := ""
	if cookie, err := r.Cookie(h.session.CookieName()); err == nil {
		cookieValue = cookie.Value
	}

	if user, _, err := h.session.CurrentUser(r.Context(), cookieValue); err == nil {
		h.loaders.Drop(user.Username)
	}

	http.SetCookie(w, h.session.Logout(r.Context(), cookieValue))
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
