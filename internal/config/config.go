package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Kilat-Hospitality/service-reservation/pkg/config"
)

// Store and lock backends.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"

	LockDriverLocal = "local"
	LockDriverRedis = "redis"
)

// ServiceConfig holds all configuration for the reservation service.
type ServiceConfig struct {
	Port        string
	AppEnv      string
	DBConfig    config.DatabaseConfig
	JWTConfig   config.JWTConfig
	KafkaConfig config.KafkaConfig
	RedisConfig config.RedisConfig

	RoomServiceURL   string
	GuestServiceURL  string
	ClientTimeout    time.Duration
	ClientMaxRetries int

	StoreDriver       string
	LockDriver        string
	LockTTL           time.Duration
	ReconcileInterval time.Duration
}

// Load reads configuration from environment variables.
func Load() (*ServiceConfig, error) {
	v, err := config.Load("RESERVATION")
	if err != nil {
		return nil, err
	}
	v.SetDefault("DB_NAME", "hotel_reservation")
	v.SetDefault("ROOM_SERVICE_URL", "http://localhost:8081")
	v.SetDefault("GUEST_SERVICE_URL", "http://localhost:8082")
	v.SetDefault("CLIENT_MAX_RETRIES", 3)
	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("LOCK_DRIVER", LockDriverLocal)

	cfg := &ServiceConfig{
		Port:        config.GetServicePort(v, "SERVICE_PORT"),
		AppEnv:      config.GetAppEnv(v),
		DBConfig:    config.LoadDatabaseConfig(v, "DB_NAME"),
		JWTConfig:   config.LoadJWTConfig(v),
		KafkaConfig: config.LoadKafkaConfig(v),
		RedisConfig: config.LoadRedisConfig(v),

		RoomServiceURL:   v.GetString("ROOM_SERVICE_URL"),
		GuestServiceURL:  v.GetString("GUEST_SERVICE_URL"),
		ClientTimeout:    config.GetDuration(v, "CLIENT_TIMEOUT", 3*time.Second),
		ClientMaxRetries: v.GetInt("CLIENT_MAX_RETRIES"),

		StoreDriver:       strings.ToLower(v.GetString("STORE_DRIVER")),
		LockDriver:        strings.ToLower(v.GetString("LOCK_DRIVER")),
		LockTTL:           config.GetDuration(v, "LOCK_TTL", 10*time.Second),
		ReconcileInterval: config.GetDuration(v, "RECONCILE_INTERVAL", 15*time.Minute),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *ServiceConfig) validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	switch c.LockDriver {
	case LockDriverLocal, LockDriverRedis:
	default:
		return fmt.Errorf("unsupported LOCK_DRIVER %q", c.LockDriver)
	}
	if c.ClientMaxRetries < 0 {
		return fmt.Errorf("CLIENT_MAX_RETRIES must not be negative")
	}
	return nil
}
