package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/stackly/stackly-api/internal/api"
	apiMiddleware "github.com/stackly/stackly-api/internal/api/middleware"
	"github.com/stackly/stackly-api/internal/service/policy"
)

// setupRouter creates and configures the application router with all routes
// and middleware. Role and ownership mismatches on the protected routes
// surface as 401 responses at the handler layer.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.passwordService)
	userHandler := api.NewUserHandler(app.userStore, app.avatarStore)
	stackHandler := api.NewStackHandler(app.contentService)
	themeHandler := api.NewThemeHandler(app.contentService)
	progressHandler := api.NewProgressHandler(app.progressService)
	assistantHandler := api.NewAssistantHandler(app.tutor, app.contentService, app.progressService)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Catalog reads are public
		r.Group(func(r chi.Router) {
			r.Use(apiMiddleware.RequirePolicy(policy.Public()))
			r.Get("/stacks", stackHandler.List)
			r.Get("/stacks/{id}", stackHandler.Get)
			r.Get("/themes", themeHandler.List)
			r.Get("/themes/{id}", themeHandler.Get)
		})

		// Routes for any authenticated user
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(apiMiddleware.RequirePolicy(policy.Unrestricted()))

			r.Get("/users/me", userHandler.Me)
			r.Put("/users/me", userHandler.UpdateMe)
			r.Post("/users/me/avatar", userHandler.UploadAvatar)

			r.Post("/progress/stacks", progressHandler.CreateStack)
			r.Get("/progress/stacks", progressHandler.ListStacks)
			r.Get("/progress/stacks/{id}/themes", progressHandler.ListThemes)
			r.Post("/progress/themes", progressHandler.CreateTheme)
			r.Post("/progress/themes/{id}/record", progressHandler.Record)

			r.Post("/assistant/ask", assistantHandler.Ask)
			r.Post("/assistant/quiz", assistantHandler.Quiz)
			r.Post("/assistant/grade", assistantHandler.Grade)
		})

		// Admin-only management routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(apiMiddleware.RequirePolicy(policy.AdminOnly()))

			r.Post("/stacks", stackHandler.Create)
			r.Put("/stacks/{id}", stackHandler.Update)
			r.Delete("/stacks/{id}", stackHandler.Delete)
			r.Post("/stacks/{id}/themes", themeHandler.Create)
			r.Put("/themes/{id}", themeHandler.Update)
			r.Delete("/themes/{id}", themeHandler.Delete)

			r.Get("/users", userHandler.List)
			r.Get("/users/{id}", userHandler.Get)
			r.Delete("/users/{id}", userHandler.Delete)
		})
	})

	// Uploaded avatars are served straight from disk.
	avatarFS := http.StripPrefix(
		app.config.Storage.AvatarBaseURL+"/",
		http.FileServer(http.Dir(app.config.Storage.AvatarDir)),
	)
	r.Get(app.config.Storage.AvatarBaseURL+"/*", avatarFS.ServeHTTP)

	r.Get("/healthz", app.handleHealthz)

	return r
}

// handleHealthz reports liveness, including a database ping.
func (app *application) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := app.db.PingContext(ctx); err != nil {
		app.logger.Error("health check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("database unavailable"))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
