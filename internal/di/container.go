// Package di wires configuration, infrastructure and application layers.
package di

import (
	"context"

	"go.uber.org/zap"

	"github.com/gatherly/ticketing/internal/config"
	"github.com/gatherly/ticketing/internal/handler"
	"github.com/gatherly/ticketing/internal/repository"
	"github.com/gatherly/ticketing/internal/service"
	"github.com/gatherly/ticketing/pkg/database"
	"github.com/gatherly/ticketing/pkg/kafka"
	"github.com/gatherly/ticketing/pkg/logger"
	pkgredis "github.com/gatherly/ticketing/pkg/redis"
	"github.com/gatherly/ticketing/pkg/retry"
)

// Container holds the wired application graph
type Container struct {
	Config *config.Config
	Logger *logger.Logger

	DB       *database.PostgresDB
	Redis    *pkgredis.Client
	Producer *kafka.Producer

	EventRepo   repository.EventRepository
	BookingRepo repository.BookingRepository

	Publisher      service.EventPublisher
	EventService   service.EventService
	BookingService service.BookingService

	EventHandler   *handler.EventHandler
	BookingHandler *handler.BookingHandler
	HealthHandler  *handler.HealthHandler
}

// New builds the container. PostgreSQL is required unless the database
// host is empty, in which case the in-memory store is used. Redis and
// Kafka are optional; when unreachable the service starts without
// idempotency replay and with a no-op publisher.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: log}

	if cfg.Database.Host != "" {
		db, err := database.NewPostgres(ctx, &database.PostgresConfig{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			Database:        cfg.Database.DBName,
			SSLMode:         cfg.Database.SSLMode,
			MaxConns:        int32(cfg.Database.MaxOpenConns),
			MinConns:        int32(cfg.Database.MinConns),
			MaxConnLifetime: cfg.Database.ConnMaxLifetime,
			MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
			EnableTracing:   cfg.OTel.Enabled,
		})
		if err != nil {
			return nil, err
		}
		c.DB = db
		c.EventRepo = repository.NewPostgresEventRepository(db.Pool())
		c.BookingRepo = repository.NewPostgresBookingRepository(db.Pool())
	} else {
		log.Warn("database host empty, using in-memory store")
		store := repository.NewMemoryStore()
		c.EventRepo = repository.NewMemoryEventRepository(store)
		c.BookingRepo = repository.NewMemoryBookingRepository(store)
	}

	if cfg.Redis.Enabled {
		redisClient, err := pkgredis.NewClient(ctx, &pkgredis.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			log.Warn("redis unavailable, idempotency replay disabled", zap.Error(err))
		} else {
			c.Redis = redisClient
		}
	}

	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.Brokers[0] != "" {
		producer, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
			Brokers:  cfg.Kafka.Brokers,
			ClientID: cfg.Kafka.ClientID,
		})
		if err != nil {
			log.Warn("kafka unavailable, using no-op publisher", zap.Error(err))
			c.Publisher = service.NewNoOpEventPublisher()
		} else {
			c.Producer = producer
			c.Publisher = service.NewKafkaEventPublisher(producer, cfg.Kafka.Topic, log)
		}
	} else {
		c.Publisher = service.NewNoOpEventPublisher()
	}

	retryCfg := retry.DefaultConfig()
	if cfg.Booking.ConflictRetries > 0 {
		retryCfg.MaxRetries = cfg.Booking.ConflictRetries
	}
	if cfg.Booking.ConflictBackoff > 0 {
		retryCfg.InitialInterval = cfg.Booking.ConflictBackoff
	}

	c.EventService = service.NewEventService(c.EventRepo, c.Publisher, log)
	c.BookingService = service.NewBookingService(c.EventRepo, c.BookingRepo, c.Publisher, log, retryCfg)

	c.EventHandler = handler.NewEventHandler(c.EventService)
	c.BookingHandler = handler.NewBookingHandler(c.BookingService)

	checks := map[string]handler.HealthChecker{}
	if c.DB != nil {
		checks["postgres"] = c.DB
	}
	if c.Redis != nil {
		checks["redis"] = c.Redis
	}
	c.HealthHandler = handler.NewHealthHandler(cfg.App.Version, checks)

	return c, nil
}

// Close releases infrastructure resources
func (c *Container) Close() {
	if c.Producer != nil {
		c.Producer.Close()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("redis close failed", zap.Error(err))
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
