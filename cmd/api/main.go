package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hakobu-dev/hakobu-backend-go/internal/config"
	"github.com/hakobu-dev/hakobu-backend-go/internal/domain/location"
	appHTTP "github.com/hakobu-dev/hakobu-backend-go/internal/handler/http"
	"github.com/hakobu-dev/hakobu-backend-go/internal/pkg/database"
	"github.com/hakobu-dev/hakobu-backend-go/internal/pkg/jwt"
	"github.com/hakobu-dev/hakobu-backend-go/internal/pkg/sse"
	"github.com/hakobu-dev/hakobu-backend-go/internal/pkg/ws"
	"github.com/hakobu-dev/hakobu-backend-go/internal/repository/postgresql"
	attendanceService "github.com/hakobu-dev/hakobu-backend-go/internal/service/attendance"
	authService "github.com/hakobu-dev/hakobu-backend-go/internal/service/auth"
	deliveryService "github.com/hakobu-dev/hakobu-backend-go/internal/service/delivery"
	"github.com/hakobu-dev/hakobu-backend-go/internal/service/livemap"
	locationService "github.com/hakobu-dev/hakobu-backend-go/internal/service/location"
	notificationService "github.com/hakobu-dev/hakobu-backend-go/internal/service/notification"
	vehicleService "github.com/hakobu-dev/hakobu-backend-go/internal/service/vehicle"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.PoolConfig{})
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		os.Exit(1)
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	locationRepo := postgresql.NewLocationRepository(db)
	deliveryRepo := postgresql.NewDeliveryRepository(db)
	vehicleRepo := postgresql.NewVehicleRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	sseHub := sse.NewHub()
	wsHub := ws.NewHub()
	feed := location.NewFeed()

	notifService := notificationService.NewNotificationService(notificationRepo, sseHub, notificationService.Config{})
	defer notifService.Stop()

	authSvc := authService.NewAuthService(db, userRepo, jwtService, refreshTokenRepo)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, userRepo, notifService)
	locationSvc := locationService.NewLocationService(locationRepo, feed)
	deliverySvc := deliveryService.NewDeliveryService(deliveryRepo, notifService)
	vehicleSvc := vehicleService.NewVehicleService(vehicleRepo)

	aggregator := livemap.NewAggregator(locationRepo, userRepo, feed, wsHub)
	if err := aggregator.Start(context.Background()); err != nil {
		fmt.Println("Error starting live map aggregator:", err)
		os.Exit(1)
	}
	defer aggregator.Close()

	router := appHTTP.NewRouter(cfg, jwtService, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(jwtService, authSvc),
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc),
		Location:     appHTTP.NewLocationHandler(locationSvc),
		LiveMap:      appHTTP.NewLiveMapHandler(aggregator, wsHub, jwtService),
		Delivery:     appHTTP.NewDeliveryHandler(deliverySvc),
		Vehicle:      appHTTP.NewVehicleHandler(vehicleSvc),
		Notification: appHTTP.NewNotificationHandler(notifService, sseHub, jwtService),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.App.Port, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown error", "error", err)
	}
}
