package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"

	"github.com/niosa-ap/attendance-backend-go/internal/handler/http/middleware"
	"github.com/niosa-ap/attendance-backend-go/internal/pkg/jwt"
)

type Handlers struct {
	Auth       AuthHandler
	User       UserHandler
	Attendance AttendanceHandler
	Correction CorrectionHandler
	Settings   SettingsHandler
}

func NewRouter(JWTService jwt.Service, h Handlers, frontendURL string) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "niosa-ap-attendance"),
		slog.String("version", "v1.0.0"),
		slog.String("env", "development"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{frontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
			r.Route("/oauth/callback", func(r chi.Router) {
				r.Get("/google", h.Auth.OAuthCallbackGoogle)
			})

			r.Route("/login", func(r chi.Router) {
				r.Post("/", h.Auth.Login)
				r.Route("/oauth", func(r chi.Router) {
					r.Get("/google", h.Auth.LoginWithGoogle)
				})
			})

			r.Route("/admin", func(r chi.Router) {
				r.Post("/login", h.Auth.AdminLogin)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", h.User.Me)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/today", h.Attendance.Today)
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Get("/my", h.Attendance.GetMyAttendance)

				r.Route("/liveness", func(r chi.Router) {
					r.Post("/start", h.Attendance.StartLiveness)
					r.Post("/frame", h.Attendance.PushLivenessFrame)
					r.Post("/cancel", h.Attendance.CancelLiveness)
				})

				r.Route("/overtime", func(r chi.Router) {
					r.Post("/start", h.Attendance.StartOvertime)
					r.Post("/stop", h.Attendance.StopOvertime)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", h.Attendance.List)
				})
			})

			r.Route("/corrections", func(r chi.Router) {
				r.Post("/", h.Correction.Submit)
				r.Get("/my", h.Correction.MyRequests)
				r.Get("/grant", h.Correction.ActiveGrant)
				r.Post("/apply", h.Correction.Apply)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", h.Correction.List)
					r.Post("/{id}/approve", h.Correction.Approve)
					r.Post("/{id}/reject", h.Correction.Reject)
				})
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/geofence", h.Settings.GetGeoFence)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Put("/geofence", h.Settings.UpdateGeoFence)
				})
			})
		})
	})
	return r
}
