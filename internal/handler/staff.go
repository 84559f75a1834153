package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bakehouse-dev/baker-scheduling/web/internal/api"
	"github.com/bakehouse-dev/baker-scheduling/web/internal/domain"
)

type staffPage struct {
	Users []domain.User
	Roles []domain.Role
}

type staffEditPage struct {
	Record *domain.User
	Roles  []domain.Role
}

var allRoles = []domain.Role{domain.RoleAdmin, domain.RoleManager, domain.RoleBaker}

func (h *Handler) StaffList(w http.ResponseWriter, r *http.Request) {
	h.renderStaff(w, r, http.StatusOK, "")
}

func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	token := r.Context().Value(TokenCtxKey).(string)

	if err := r.ParseForm(); err != nil {
		h.renderStaff(w, r, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	req := &api.CreateUserRequest{
		Username: r.PostFormValue("username"),
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		Role:     domain.Role(r.PostFormValue("role")),
	}

	if err := h.validate.Struct(req); err != nil {
		h.renderStaff(w, r, http.StatusBadRequest, h.formError(err))
		return
	}

	if _, err := h.client.CreateUser(r.Context(), token, req); err != nil {
		if api.IsAuthError(err) {
			h.forceLogout(w, r)
			return
		}
		status, msg := h.upstreamError(r, err)
		h.renderStaff(w, r, status, msg)
		return
	}

	http.Redirect(w, r, viewPath(domain.ViewStaff), http.StatusSeeOther)
}

// EditStaff shows one staff member's record with a prefilled edit form.
func (h *Handler) EditStaff(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserCtxKey).(*domain.User)
	token := r.Context().Value(TokenCtxKey).(string)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.renderStaff(w, r, http.StatusBadRequest, "Invalid user id.")
		return
	}

	record, err := h.client.GetUser(r.Context(), token, id)
	if err != nil {
		if api.IsAuthError(err) {
			h.forceLogout(w, r)
			return
		}
		status, msg := h.upstreamError(r, err)
		h.renderStaff(w, r, status, msg)
		return
	}

	h.render(w, r, http.StatusOK, "staff_edit.tmpl", &pageData{
		Title: "Edit Staff",
		User:  user,
		Nav:   h.nav(user, domain.ViewStaff),
		Data: &staffEditPage{
			Record: record,
			Roles:  allRoles,
		},
	})
}

func (h *Handler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	token := r.Context().Value(TokenCtxKey).(string)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.renderStaff(w, r, http.StatusBadRequest, "Invalid user id.")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderStaff(w, r, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	// only submitted fields travel upstream
	req := &api.UpdateUserRequest{}
	if v := r.PostFormValue("name"); v != "" {
		req.Name = &v
	}
	if v := r.PostFormValue("email"); v != "" {
		req.Email = &v
	}
	if v := r.PostFormValue("password"); v != "" {
		req.Password = &v
	}
	if v := r.PostFormValue("role"); v != "" {
		role := domain.Role(v)
		req.Role = &role
	}

	if err := h.validate.Struct(req); err != nil {
		h.renderStaff(w, r, http.StatusBadRequest, h.formError(err))
		return
	}

	if _, err := h.client.UpdateUser(r.Context(), token, id, req); err != nil {
		if api.IsAuthError(err) {
			h.forceLogout(w, r)
			return
		}
		status, msg := h.upstreamError(r, err)
		h.renderStaff(w, r, status, msg)
		return
	}

	http.Redirect(w, r, viewPath(domain.ViewStaff), http.StatusSeeOther)
}

func (h *Handler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserCtxKey).(*domain.User)
	token := r.Context().Value(TokenCtxKey).(string)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.renderStaff(w, r, http.StatusBadRequest, "Invalid user id.")
		return
	}

	if id == user.ID {
		h.renderStaff(w, r, http.StatusBadRequest, "You cannot delete your own account.")
		return
	}

	if err := h.client.DeleteUser(r.Context(), token, id); err != nil {
		if api.IsAuthError(err) {
			h.forceLogout(w, r)
			return
		}
		status, msg := h.upstreamError(r, err)
		h.renderStaff(w, r, status, msg)
		return
	}

	http.Redirect(w, r, viewPath(domain.ViewStaff), http.StatusSeeOther)
}

func (h *Handler) renderStaff(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	user := r.Context().Value(UserCtxKey).(*domain.User)
	token := r.Context().Value(TokenCtxKey).(string)

	users, err := h.client.ListUsers(r.Context(), token)
	if err != nil {
		if api.IsAuthError(err) {
			h.forceLogout(w, r)
			return
		}
		if errMsg == "" {
			status, errMsg = h.upstreamError(r, err)
		}
	}

	h.render(w, r, status, "staff.tmpl", &pageData{
		Title: "Staff",
		User:  user,
		Nav:   h.nav(user, domain.ViewStaff),
		Error: errMsg,
		Data: &staffPage{
			Users: users,
			Roles: allRoles,
		},
	})
}
