package rest

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/henryantwi/activity-tracker/internal/activity"
	"github.com/henryantwi/activity-tracker/internal/auth"
	"github.com/henryantwi/activity-tracker/internal/handover"
	"github.com/henryantwi/activity-tracker/internal/report"
	"github.com/henryantwi/activity-tracker/internal/transport/middleware"
	"github.com/henryantwi/activity-tracker/internal/user"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, allowedOrigins string, authHandler *auth.Handler, userHandler *user.Handler, activityHandler *activity.Handler, handoverHandler *handover.Handler, reportHandler *report.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/refresh", authHandler.RefreshToken)
				sr.Post("/logout", authHandler.Logout)
			})
		}

		if authHandler != nil {
			// Everything below requires a valid access token.
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				if userHandler != nil {
					pr.Route("/users", func(ur chi.Router) {
						ur.Get("/", userHandler.ListUsers)
						ur.Get("/me", userHandler.GetCurrentUser)
						ur.Patch("/{id}/role", userHandler.UpdateRole)
					})
				}

				if activityHandler != nil {
					pr.Route("/activities", func(ar chi.Router) {
						ar.Post("/", activityHandler.CreateActivity)
						ar.Get("/", activityHandler.ListActivities)
						ar.Get("/{id}", activityHandler.GetActivity)
						ar.Patch("/{id}", activityHandler.UpdateActivity)
						ar.Delete("/{id}", activityHandler.DeleteActivity)
						ar.Patch("/{id}/status", activityHandler.UpdateStatus)
						ar.Get("/{id}/updates", activityHandler.ListUpdates)
					})
				}

				if handoverHandler != nil {
					pr.Route("/handovers", func(hr chi.Router) {
						hr.Post("/", handoverHandler.CreateHandover)
						hr.Get("/", handoverHandler.ListHandovers)
						hr.Get("/daily-report", handoverHandler.DailyReport)
						hr.Get("/{id}", handoverHandler.GetHandover)
						hr.Post("/{id}/acknowledge", handoverHandler.Acknowledge)
						hr.Delete("/{id}", handoverHandler.DeleteHandover)
					})
				}

				if reportHandler != nil {
					pr.Route("/reports", func(rr chi.Router) {
						rr.Get("/dashboard", reportHandler.Dashboard)
						rr.Get("/activities", reportHandler.ActivityReport)
						rr.Get("/activities/export", reportHandler.ExportActivities)
					})
				}
			})
		}
	})
}
