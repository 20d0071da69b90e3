package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/hakobu-dev/hakobu-backend-go/internal/config"
	"github.com/hakobu-dev/hakobu-backend-go/internal/handler/http/middleware"
	"github.com/hakobu-dev/hakobu-backend-go/internal/pkg/jwt"
	"golang.org/x/time/rate"
)

type Handlers struct {
	Auth         AuthHandler
	Attendance   AttendanceHandler
	Location     LocationHandler
	LiveMap      LiveMapHandler
	Delivery     DeliveryHandler
	Vehicle      VehicleHandler
	Notification NotificationHandler
}

func NewRouter(cfg *config.Config, jwtService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hakobu-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.App.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
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

	// Per-IP budget for the location ingestion hot path.
	ingestLimiter := middleware.NewIPRateLimiter(rate.Limit(10), 20)

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
		})

		// Stream endpoints authenticate with short-lived stream tokens
		// in the query string, not with the Verifier middleware.
		r.Get("/live-map/stream", h.LiveMap.Stream)
		r.Get("/notifications/stream", h.Notification.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/attendances", func(r chi.Router) {
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)
				r.Post("/direct-go", h.Attendance.DirectGo)
				r.Post("/direct-return", h.Attendance.DirectReturn)
				r.Get("/status", h.Attendance.Status)
				r.Get("/my", h.Attendance.ListMy)
			})

			r.Route("/locations", func(r chi.Router) {
				r.Use(middleware.DriverOnly)
				r.Use(middleware.RateLimit(ingestLimiter))
				r.Post("/", h.Location.Ingest)
			})

			r.Route("/live-map", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/markers", h.LiveMap.Markers)
				r.Post("/stream-token", h.LiveMap.StreamToken)
			})

			r.Route("/deliveries", func(r chi.Router) {
				r.Get("/my", h.Delivery.ListMine)
				r.Get("/{id}", h.Delivery.GetByID)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", h.Delivery.List)
					r.Post("/", h.Delivery.Create)
					r.Put("/{id}", h.Delivery.Update)
					r.Patch("/{id}/invoice-status", h.Delivery.UpdateInvoiceStatus)
					r.Delete("/{id}", h.Delivery.Delete)
				})
			})

			r.Route("/vehicles", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/", h.Vehicle.List)
				r.Post("/", h.Vehicle.Create)
				r.Get("/{id}", h.Vehicle.GetByID)
				r.Put("/{id}", h.Vehicle.Update)
				r.Delete("/{id}", h.Vehicle.Delete)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", h.Notification.List)
				r.Post("/stream-token", h.Notification.StreamToken)
				r.Patch("/{id}/read", h.Notification.MarkRead)
				r.Patch("/read-all", h.Notification.MarkAllRead)
			})
		})
	})

	return r
}
