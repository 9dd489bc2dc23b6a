//go:build integration

package main_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Kilat-Hospitality/service-reservation/internal/application"
	"github.com/Kilat-Hospitality/service-reservation/internal/client"
	"github.com/Kilat-Hospitality/service-reservation/internal/domain/reservation"
	"github.com/Kilat-Hospitality/service-reservation/internal/domain/room"
	reservationEvents "github.com/Kilat-Hospitality/service-reservation/internal/events"
	"github.com/Kilat-Hospitality/service-reservation/internal/lock"
	"github.com/Kilat-Hospitality/service-reservation/internal/repository"
	"github.com/Kilat-Hospitality/service-reservation/migrations"
	"github.com/Kilat-Hospitality/service-reservation/pkg/config"
	"github.com/Kilat-Hospitality/service-reservation/pkg/database"
	"github.com/Kilat-Hospitality/service-reservation/pkg/kafka"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	Redis        *redis.Client
	KafkaBrokers []string
	Cleanup      func()
}

// reservationStack holds wired-up reservation service components.
type reservationStack struct {
	Service         *application.ReservationService
	Consumer        *reservationEvents.RoomEventConsumer
	Registry        *fakeRegistry
	CleanupProducer func()
}

// setupContainers starts PostgreSQL, Redis and Kafka testcontainers, applies
// the migrations and returns connected clients.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_reservation",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dbCfg := config.DatabaseConfig{
		Host:     pgHost,
		Port:     pgPort.Port(),
		User:     "test",
		Password: "test",
		DBName:   "test_reservation",
		SSLMode:  "disable",
	}

	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = database.Connect(dbCfg, logger)
		return err == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, database.RunMigrations(dbCfg.DatabaseURL(), migrations.FS, logger))

	redisReq := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: redisReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start Redis container")

	redisHost, err := redisContainer.Host(ctx)
	require.NoError(t, err)
	redisPort, err := redisContainer.MappedPort(ctx, "6379")
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: net.JoinHostPort(redisHost, redisPort.Port())})
	require.NoError(t, rdb.Ping(ctx).Err())

	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, kafkaBrokers, application.TopicReservationEvents, application.TopicRoomEvents)

	cleanup := func() {
		_ = rdb.Close()
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		if err := redisContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Redis container: %v", err)
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testInfra{
		DB:           db,
		Redis:        rdb,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// setupReservationStack wires the service against the containers and a fake
// room registry and guest directory served over HTTP.
func setupReservationStack(t *testing.T, infra *testInfra, rooms ...room.Room) *reservationStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	registry := newFakeRegistry(rooms...)
	srv := httptest.NewServer(registry)
	t.Cleanup(srv.Close)

	clientCfg := client.Config{BaseURL: srv.URL, Timeout: 2 * time.Second, MaxRetries: 1}
	producer := kafka.NewProducer(infra.KafkaBrokers, logger)

	svc := application.NewReservationService(
		repository.NewGormReservationRepository(infra.DB),
		client.NewRoomClient(clientCfg, logger),
		client.NewGuestClient(clientCfg, logger),
		lock.NewRedisRoomLocker(infra.Redis, 5*time.Second, logger),
		reservation.NewStayPricing(),
		producer,
		application.RealClock{},
		logger,
	)

	groupID := fmt.Sprintf("test-reservation-%s", uuid.New().String()[:8])
	consumer := reservationEvents.NewRoomEventConsumer(infra.KafkaBrokers, groupID, svc, logger)

	return &reservationStack{
		Service:         svc,
		Consumer:        consumer,
		Registry:        registry,
		CleanupProducer: func() { _ = producer.Close() },
	}
}

// fakeRegistry serves the room and guest endpoints the HTTP clients call and
// records every availability push.
type fakeRegistry struct {
	mu     sync.Mutex
	rooms  []room.Room
	pushes map[int64][]bool
	// listDelay slows every room listing down.
	listDelay time.Duration
}

func newFakeRegistry(rooms ...room.Room) *fakeRegistry {
	return &fakeRegistry{rooms: rooms, pushes: make(map[int64][]bool)}
}

func (f *fakeRegistry) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/rooms":
		f.mu.Lock()
		rooms, delay := f.rooms, f.listDelay
		f.mu.Unlock()
		time.Sleep(delay)
		_ = json.NewEncoder(w).Encode(rooms)
	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/api/rooms/"):
		id, err := strconv.ParseInt(strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/rooms/"), "/availability"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.pushes[id] = append(f.pushes[id], r.URL.Query().Get("available") == "true")
		f.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/guests/"):
		id := strings.TrimPrefix(r.URL.Path, "/api/guests/")
		_, _ = fmt.Fprintf(w, `{"id":%s,"name":"Guest %s","email":"guest%s@example.com"}`, id, id, id)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// pushCount returns how many availability pushes room id has received.
func (f *fakeRegistry) pushCount(id int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pushes[id])
}

// lastPush returns the most recent availability pushed for room id.
func (f *fakeRegistry) lastPush(id int64) (bool, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.pushes[id]
	if len(p) == 0 {
		return false, false
	}
	return p[len(p)-1], true
}

// publishTestEvent publishes a CloudEvent to Kafka.
func publishTestEvent(t *testing.T, brokers []string, topic, source, eventType string, data any) {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	producer := kafka.NewProducer(brokers, logger)
	defer func() { _ = producer.Close() }()

	ce, err := kafka.NewCloudEvent(source, eventType, data)
	require.NoError(t, err, "failed to create cloud event")

	err = producer.PublishEvent(context.Background(), topic, ce)
	require.NoError(t, err, "failed to publish event")
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) kafka.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		ce, err := kafka.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == expectedType {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	require.NoError(t, controllerConn.CreateTopics(topicConfigs...), "failed to create Kafka topics")

	time.Sleep(1 * time.Second)
}
