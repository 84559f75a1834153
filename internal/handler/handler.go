package handler

import (
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bakehouse-dev/baker-scheduling/web/internal/api"
	"github.com/bakehouse-dev/baker-scheduling/web/internal/config"
	"github.com/bakehouse-dev/baker-scheduling/web/internal/domain"
	"github.com/bakehouse-dev/baker-scheduling/web/internal/schedule"
	"github.com/bakehouse-dev/baker-scheduling/web/internal/session"
	"github.com/bakehouse-dev/baker-scheduling/web/web"
)

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	session    *session.Manager
	client     *api.Client
	loaders    *schedule.Loaders
	translator ut.Translator
	templates  *template.Template

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, sm *session.Manager, client *api.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	templates, err := template.ParseFS(web.Templates, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		session:    sm,
		client:     client,
		loaders:    schedule.NewLoaders(),
		translator: trans,
		templates:  templates,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)
	h.Mux.Use(h.measure)

	h.Mux.Handle("/metrics", promhttp.Handler())

	// login is the only view reachable while logged out
	h.Mux.Get("/login", h.LoginPage)
	h.Mux.Post("/login", h.Login)
	h.Mux.Post("/logout", h.Logout)

	// everything below requires a live session
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/", h.Schedule)
		r.Get("/schedule/events", h.ScheduleEvents)

		r.Route("/shifts", func(r chi.Router) {
			r.With(h.requireShiftManager).Post("/", h.CreateShift)
			r.With(h.requireShiftManager).Post("/{id}", h.UpdateShift)
			r.With(h.requireShiftManager).Post("/{id}/delete", h.DeleteShift)
			r.Post("/{id}/availability", h.ToggleAvailability)
		})

		r.With(h.requireView(domain.ViewAvailability)).Get("/availability", h.Availability)

		r.Route("/staff", func(r chi.Router) {
			r.Use(h.requireView(domain.ViewStaff))
			r.Get("/", h.StaffList)
			r.Post("/", h.CreateStaff)
			r.Get("/{id}", h.EditStaff)
			r.Post("/{id}", h.UpdateStaff)
			r.Post("/{id}/delete", h.DeleteStaff)
		})

		r.With(h.requireView(domain.ViewSettings)).Get("/settings", h.Settings)
		r.Get("/profile", h.Profile)
	})

	h.Mux.NotFound(h.notFound)
}

// notFound sends unknown paths to the default view for authenticated users
// and to login otherwise. An invalid cookie bounces off the auth middleware
// on the next hop, so presence is enough to decide here.
func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie(h.session.CookieName()); err == nil {
		http.Redirect(w, r, viewPath(domain.DefaultView), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
