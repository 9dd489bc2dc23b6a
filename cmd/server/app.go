package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Kilat-Hospitality/service-reservation/internal/application"
	"github.com/Kilat-Hospitality/service-reservation/internal/client"
	"github.com/Kilat-Hospitality/service-reservation/internal/config"
	"github.com/Kilat-Hospitality/service-reservation/internal/domain/reservation"
	"github.com/Kilat-Hospitality/service-reservation/internal/lock"
	"github.com/Kilat-Hospitality/service-reservation/internal/repository"
	"github.com/Kilat-Hospitality/service-reservation/migrations"
	"github.com/Kilat-Hospitality/service-reservation/pkg/database"
	"github.com/Kilat-Hospitality/service-reservation/pkg/kafka"
	"github.com/Kilat-Hospitality/service-reservation/pkg/logger"
)

// app holds the wired components shared by the subcommands.
type app struct {
	cfg      *config.ServiceConfig
	log      *zap.Logger
	db       *gorm.DB
	redis    *redis.Client
	producer *kafka.Producer
	service  *application.ReservationService
}

func loadConfigAndLogger() (*config.ServiceConfig, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}

// newApp connects the store, lock and broker selected by cfg and builds the
// reservation service on top of them.
func newApp(cfg *config.ServiceConfig, log *zap.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}

	var repo reservation.ReservationRepository
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		log.Warn("using in-memory reservation store; data is lost on restart")
		repo = repository.NewMemoryReservationRepository()
	default:
		db, err := database.Connect(cfg.DBConfig, log)
		if err != nil {
			return nil, err
		}
		a.db = db
		if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), migrations.FS, log); err != nil {
			a.Close()
			return nil, err
		}
		repo = repository.NewGormReservationRepository(db)
	}

	var locker lock.RoomLocker
	switch cfg.LockDriver {
	case config.LockDriverRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisConfig.Addr,
			Password: cfg.RedisConfig.Password,
			DB:       cfg.RedisConfig.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			_ = rdb.Close()
			a.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisConfig.Addr, err)
		}
		a.redis = rdb
		locker = lock.NewRedisRoomLocker(rdb, cfg.LockTTL, log.Named("room-lock"))
	default:
		locker = lock.NewLocalRoomLocker()
	}

	var publisher application.EventPublisher = application.NopPublisher{}
	if cfg.KafkaConfig.Enabled {
		a.producer = kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
		publisher = a.producer
	} else {
		log.Info("kafka disabled; reservation events are not published")
	}

	clientCfg := func(url string) client.Config {
		return client.Config{BaseURL: url, Timeout: cfg.ClientTimeout, MaxRetries: cfg.ClientMaxRetries}
	}

	a.service = application.NewReservationService(
		repo,
		client.NewRoomClient(clientCfg(cfg.RoomServiceURL), log),
		client.NewGuestClient(clientCfg(cfg.GuestServiceURL), log),
		locker,
		reservation.NewStayPricing(),
		publisher,
		application.RealClock{},
		log,
	)
	return a, nil
}

// Close releases every connection the app opened.
func (a *app) Close() {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.log.Warn("failed to close kafka producer", zap.Error(err))
		}
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
