package factory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"kiosk-auth/internal/client"
	"kiosk-auth/internal/config"
	"kiosk-auth/internal/events"
	"kiosk-auth/internal/handler"
	"kiosk-auth/internal/masterpass"
	"kiosk-auth/internal/ratelimit"
	redisrepo "kiosk-auth/internal/repository/redis"
	"kiosk-auth/internal/repository/sqlite"
	"kiosk-auth/internal/service"
	"kiosk-auth/internal/util"
)

// Factory manages the lifecycle of all application dependencies.
type Factory struct {
	config   *config.Config
	deviceID string

	redisClient   *client.RedisClient
	kafkaProducer *client.KafkaProducer

	adminRepo     *sqlite.AdminRepository
	masterLimiter ratelimit.Limiter
	pinLimiter    ratelimit.Limiter
	publisher     *events.Publisher
	authService   *service.AuthService
	authHandler   *handler.AuthHandler

	closeOnce sync.Once
}

// NewFactory loads configuration and initializes every dependency. Optional
// collaborators (Redis, Kafka) log a warning and are skipped when disabled
// or unreachable; the kiosk keeps working on its in-process fallbacks.
func NewFactory() (*Factory, error) {
	cfg := config.LoadConfig()
	return newFactory(cfg)
}

// NewFactoryWithConfig is the test entry point.
func NewFactoryWithConfig(cfg *config.Config) (*Factory, error) {
	return newFactory(cfg)
}

func newFactory(cfg *config.Config) (*Factory, error) {
	util.Init(cfg.Environment, cfg.Logging.Level, cfg.Logging.Format)

	deviceID, err := masterpass.ResolveDeviceID(cfg.Security.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve device id: %w", err)
	}

	f := &Factory{
		config:   cfg,
		deviceID: deviceID,
	}

	f.initializeClients()

	if err := f.initializeCore(); err != nil {
		f.Close()
		return nil, err
	}

	util.Info("factory initialized",
		util.String("environment", cfg.Environment),
		util.String("device_id", deviceID),
		util.Bool("redis_enabled", f.redisClient != nil),
		util.Bool("kafka_enabled", f.kafkaProducer != nil),
	)

	return f, nil
}

func (f *Factory) initializeClients() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if f.config.Redis.Enabled {
		if rc, err := client.NewRedisClient(f.config); err != nil {
			util.Warn("redis client initialization failed, using in-memory attempt store", util.ErrorField(err))
		} else if err := rc.HealthCheck(ctx); err != nil {
			util.Warn("redis unreachable, using in-memory attempt store", util.ErrorField(err))
			_ = rc.Close()
		} else {
			f.redisClient = rc
			util.Info("redis client initialized and healthy")
		}
	}

	if f.config.Kafka.Enabled {
		if kp, err := client.NewKafkaProducer(f.config); err != nil {
			util.Warn("kafka producer initialization failed, events disabled", util.ErrorField(err))
		} else {
			f.kafkaProducer = kp
			util.Info("kafka producer initialized")
		}
	}
}

func (f *Factory) initializeCore() error {
	repo, err := sqlite.Open(f.config.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}
	f.adminRepo = repo

	masterPolicy := ratelimit.Policy{
		MaxAttempts:     f.config.Security.MasterMaxAttempts,
		LockoutDuration: f.config.Security.LockoutDuration,
	}
	pinPolicy := ratelimit.Policy{
		MaxAttempts:     f.config.Security.PINMaxAttempts,
		LockoutDuration: f.config.Security.LockoutDuration,
	}

	if f.redisClient != nil {
		f.masterLimiter = redisrepo.NewAttemptStore(f.redisClient, masterPolicy, "master")
		f.pinLimiter = redisrepo.NewAttemptStore(f.redisClient, pinPolicy, "pin")
	} else {
		f.masterLimiter = ratelimit.NewMemoryLimiter(masterPolicy)
		f.pinLimiter = ratelimit.NewMemoryLimiter(pinPolicy)
	}

	f.publisher = events.NewPublisher(f.kafkaProducer, f.deviceID)

	authService, err := service.NewAuthService(
		&f.config.Security,
		f.deviceID,
		f.adminRepo,
		f.masterLimiter,
		f.pinLimiter,
		f.publisher,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize auth service: %w", err)
	}
	f.authService = authService
	f.authHandler = handler.NewAuthHandler(authService, util.Get())

	return nil
}

func (f *Factory) Config() *config.Config {
	return f.config
}

func (f *Factory) DeviceID() string {
	return f.deviceID
}

func (f *Factory) AuthService() *service.AuthService {
	return f.authService
}

func (f *Factory) AuthHandler() *handler.AuthHandler {
	return f.authHandler
}

func (f *Factory) Close() error {
	f.closeOnce.Do(func() {
		util.Info("shutting down factory")

		if f.kafkaProducer != nil {
			if err := f.kafkaProducer.Close(); err != nil {
				util.Error("failed to close kafka producer", util.ErrorField(err))
			}
		}

		if f.redisClient != nil {
			if err := f.redisClient.Close(); err != nil {
				util.Error("failed to close redis client", util.ErrorField(err))
			}
		}

		util.Sync()
	})

	return nil
}
