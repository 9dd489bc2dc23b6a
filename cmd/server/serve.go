package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Kilat-Hospitality/service-reservation/internal/application"
	reservationEvents "github.com/Kilat-Hospitality/service-reservation/internal/events"
	"github.com/Kilat-Hospitality/service-reservation/internal/handler"
	"github.com/Kilat-Hospitality/service-reservation/pkg/auth"
	"github.com/Kilat-Hospitality/service-reservation/pkg/domain"
	"github.com/Kilat-Hospitality/service-reservation/pkg/health"
	"github.com/Kilat-Hospitality/service-reservation/pkg/middleware"
	"github.com/Kilat-Hospitality/service-reservation/pkg/response"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the room event consumer and the availability sweeper",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfigAndLogger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			log.Info("starting "+serviceName,
				zap.String("port", cfg.Port),
				zap.String("store", cfg.StoreDriver),
				zap.String("lock", cfg.LockDriver),
			)

			a, err := newApp(cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			// Room event consumer
			if cfg.KafkaConfig.Enabled {
				groupID := cfg.KafkaConfig.GroupPrefix + "reservation-service"
				roomConsumer := reservationEvents.NewRoomEventConsumer(cfg.KafkaConfig.Brokers, groupID, a.service, log)
				defer func() { _ = roomConsumer.Close() }()

				go func() {
					log.Info("starting room event consumer")
					if err := roomConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
						log.Error("room event consumer error", zap.Error(err))
					}
				}()
			}

			// Availability sweeper
			sweeper := application.NewReconcileSweeper(a.service, cfg.ReconcileInterval, log.Named("sweeper"))
			go sweeper.Run(ctx)

			// HTTP
			jwtManager := auth.NewJWTManager(cfg.JWTConfig.Secret, 15*time.Minute)
			if !jwtManager.Enabled() {
				log.Warn("JWT_SECRET not set; API authentication is disabled")
			}

			gin.SetMode(gin.ReleaseMode)
			router := gin.New()
			router.Use(middleware.RecoveryMiddleware(log))
			router.Use(middleware.LoggerMiddleware(log))
			router.Use(middleware.RequestIDMiddleware())
			router.Use(middleware.CORSMiddleware())
			router.Use(middleware.SecurityHeadersMiddleware())

			health.NewHandler(a.db, serviceName).RegisterRoutes(router)
			handler.NewReservationHandler(a.service).RegisterRoutes(&router.RouterGroup, jwtManager)
			handler.NewAdminReservationHandler(a.service).RegisterRoutes(&router.RouterGroup, jwtManager)
			router.NoRoute(func(c *gin.Context) {
				response.Error(c, domain.NewNotFoundError("route", c.Request.URL.Path))
			})

			srv := &http.Server{
				Addr:         cfg.Port,
				Handler:      router,
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			serveErr := make(chan error, 1)
			go func() {
				log.Info("HTTP server starting", zap.String("addr", cfg.Port))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serveErr <- err
				}
			}()

			select {
			case <-ctx.Done():
			case err := <-serveErr:
				log.Error("HTTP server error", zap.Error(err))
				cancel()
				return err
			}

			log.Info("shutting down " + serviceName + "...")

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error("HTTP server forced shutdown", zap.Error(err))
			}

			log.Info(serviceName + " stopped")
			return nil
		},
	}
}
