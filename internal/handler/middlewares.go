package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bakehouse-dev/baker-scheduling/web/internal/api"
	"github.com/bakehouse-dev/baker-scheduling/web/internal/domain"
	"github.com/bakehouse-dev/baker-scheduling/web/internal/metrics"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *ResponseWriter) Write(b []byte) (int, error) {
	if rw.StatusCode == 0 {
		rw.StatusCode = http.StatusOK
	}
	return rw.ResponseWriter.Write(b)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("request handled", "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.logInternalServerError(r, fmt.Errorf("panic: %v", err))
				fmt.Print(string(debug.Stack()))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) measure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w}
		next.ServeHTTP(rw, r)

		pattern := chi.RouteContext(r.Context()).RoutePattern()
		if pattern == "" {
			pattern = "unmatched"
		}
		metrics.RequestsTotal.WithLabelValues(r.Method, pattern, strconv.Itoa(rw.StatusCode)).Inc()
		metrics.RequestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
	})
}

// auth resolves the session behind the cookie and puts the identity and the
// API token on the request context. An AuthError here is the one automatic
// logout path: the cookie is cleared and the browser sent to login.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(h.session.CookieName())
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		user, token, err := h.session.CurrentUser(r.Context(), cookie.Value)
		if err != nil {
			if api.IsAuthError(err) {
				http.SetCookie(w, h.session.Logout(r.Context(), cookie.Value))
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			status, msg := h.upstreamError(r, err)
			h.render(w, r, status, "error.tmpl", &pageData{Title: "Error", Error: msg})
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, UserCtxKey, user)
		ctx = context.WithValue(ctx, TokenCtxKey, token)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireView bounces roles that cannot reach the view back to the default
// view. This is the only place the capability table is consulted.
func (h *Handler) requireView(view domain.View) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := r.Context().Value(UserCtxKey).(*domain.User)
			if !user.Role.CanView(view) {
				http.Redirect(w, r, viewPath(domain.DefaultView), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (h *Handler) requireShiftManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := r.Context().Value(UserCtxKey).(*domain.User)
		if !user.Role.CanManageShifts() {
			http.Redirect(w, r, viewPath(domain.DefaultView), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
