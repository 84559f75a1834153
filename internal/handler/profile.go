package handler

import (
	"net/http"

	"github.com/bakehouse-dev/baker-scheduling/web/internal/domain"
)

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserCtxKey).(*domain.User)

	h.render(w, r, http.StatusOK, "profile.tmpl", &pageData{
		Title: "Profile",
		User:  user,
		Nav:   h.nav(user, domain.ViewProfile),
		Data:  user,
	})
}

func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserCtxKey).(*domain.User)

	h.render(w, r, http.StatusOK, "settings.tmpl", &pageData{
		Title: "Settings",
		User:  user,
		Nav:   h.nav(user, domain.ViewSettings),
	})
}
