package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	gcontext "github.com/gorilla/context"
	"github.com/rs/cors"

	"github.com/petermazzocco/renovation-portal/internal/auth"
	"github.com/petermazzocco/renovation-portal/internal/config"
	"github.com/petermazzocco/renovation-portal/internal/storage"
)

// NewRouter wires every route. Role checks happen inside the workflow
// services, so admin routes only require a signed-in user here.
func NewRouter(h *Handler, cfg *config.Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/catalog", h.Catalog)
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	if h.OAuthEnabled {
		r.Get("/auth/{provider}", h.BeginOAuth)
		r.Get("/auth/{provider}/callback", h.OAuthCallback)
	}

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireUser(h.Sessions))
		if cfg.RateLimitPerMin > 0 {
			r.Use(httprate.Limit(
				cfg.RateLimitPerMin,
				1*time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint),
			))
		}

		r.Get("/me", h.Me)
		r.Get("/dashboard", h.Dashboard)
		r.Get(storage.FilesPrefix+"/{folder}/{name}", h.ServeFile)

		r.Post("/request-estimate", h.SubmitEstimate)
		r.Get("/estimate/{id}", h.ViewEstimate)
		r.Post("/estimate/{id}/approve", h.ApproveEstimate)
		r.Post("/estimate/{id}/decline", h.DeclineEstimate)

		r.Get("/track-projects", h.TrackProjects)
		r.Get("/project/{id}", h.ViewProject)
		r.Post("/project/{id}/approve-schedule", h.ApproveSchedule)
		r.Post("/project/{id}/request-new-schedule", h.RequestNewSchedule)
		r.Post("/project/{id}/message", h.PostMessage)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/dashboard", h.AdminDashboard)
			r.Get("/estimate-requests", h.EstimateRequests)
			r.Get("/estimate/{id}/view", h.AdminViewEstimate)
			r.Post("/estimate/{id}/view", h.UploadEstimatePDF)
			r.Post("/new-project", h.NewProject)
			r.Get("/project/{id}/view", h.AdminViewProject)
			r.Get("/project/{id}/schedule", h.ScheduleForm)
			r.Post("/project/{id}/schedule", h.ProposeSchedule)
			r.Post("/project/{id}/assign", h.AssignProject)
			r.Post("/project/{id}/upload", h.UploadProjectFile)
			r.Post("/project/{id}/message", h.PostMessage)
			r.Post("/project/{id}/complete", h.CompleteProject)
			r.Post("/project/{id}/delete", h.DeleteProject)
			r.Delete("/project/{id}", h.DeleteProject)
			r.Get("/projects/manage", h.ManageProjects)
		})
	})

	// Releases per-request session state kept by gorilla/sessions.
	handler := gcontext.ClearHandler(r)
	if len(cfg.CORSAllowedOrigins) == 0 {
		return handler
	}
	co := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})
	return co.Handler(handler)
}
