package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"socialhub/internal/socialhub/adapters/cache"
	httpapi "socialhub/internal/socialhub/adapters/http"
	"socialhub/internal/socialhub/adapters/http/middleware"
	repository "socialhub/internal/socialhub/adapters/postgres"
	adapterservices "socialhub/internal/socialhub/adapters/services"
	"socialhub/internal/socialhub/app"
	"socialhub/internal/socialhub/config"
	"socialhub/internal/socialhub/domain/services"
	svc "socialhub/internal/socialhub/ports/services"
	"socialhub/pkg/db/postgres"
	"socialhub/pkg/logger"
	"socialhub/pkg/retry"
	"socialhub/pkg/shutdown"
)

// startupMaxBackoff ограничивает паузу между попытками подключения при старте.
const startupMaxBackoff = 10 * time.Second

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "SOCIALHUB_LOGGER_MODE"
	EnvLoggerLevel = "SOCIALHUB_LOGGER_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrApplyMigrations      = "failed to apply database migrations"
	ErrConnectDatabase      = "failed to connect to database"
	ErrCreateServices       = "failed to create authentication services"
	ErrCreateRedisClient    = "failed to create Redis client"
	ErrRegisterMetrics      = "failed to register metrics"
	ErrStartHTTPServer      = "failed to start HTTP server"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "socialhub service started"
	LogServiceShutdownDone = "socialhub service shutdown complete"
	LogApplyingMigrations  = "applying database migrations"
	LogInitDatabase        = "initializing database"
	LogInitCache           = "initializing login throttle"
	LogThrottleDisabled    = "login throttle disabled"
	LogInitServices        = "initializing services"
	LogInitHTTPServer      = "initializing HTTP server"
	LogStartingHTTP        = "starting HTTP server"
	LogStoppingHTTP        = "stopping HTTP server"
	LogClosingRedis        = "closing Redis connection"
)

func main() {
	env := logger.ParseEnvironment(os.Getenv(EnvLoggerMode))

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx)
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", cfg.Environment),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		startup := retry.Policy{
			MaxAttempts:    cfg.Postgres.ConnectAttempts,
			InitialBackoff: cfg.Postgres.ConnectBackoff,
			MaxBackoff:     startupMaxBackoff,
		}

		log.Info(ctx, LogApplyingMigrations, zap.String("path", cfg.Postgres.MigrationsPath))
		err = retry.Do(ctx, "postgres migrations", startup, func(ctx context.Context) error {
			return postgres.MigrateDSN(ctx, cfg.Postgres.GetConnectionURL(), "file://"+cfg.Postgres.MigrationsPath)
		})
		if err != nil {
			log.Error(ctx, ErrApplyMigrations, zap.Error(err))
			exitCode = 1
			return
		}

		log.Info(ctx, LogInitDatabase)
		var db *postgres.Database
		err = retry.Do(ctx, "postgres pool", startup, func(ctx context.Context) error {
			var connErr error
			db, connErr = postgres.New(ctx, postgres.PoolOptions{
				DSN:             cfg.Postgres.GetConnectionURL(),
				MinConns:        cfg.Postgres.MinConn,
				MaxConns:        cfg.Postgres.MaxConn,
				MaxConnLifetime: cfg.Postgres.MaxConnLifetime,
			})
			return connErr
		})
		if err != nil {
			log.Error(ctx, ErrConnectDatabase, zap.Error(err))
			exitCode = 1
			return
		}

		repos := repository.NewRepositoryFactory(db.Pool())

		log.Info(ctx, LogInitServices)
		serviceFactory, err := adapterservices.NewServiceFactory(jwtConfig(&cfg.JWT), cfg.JWT.BCryptCost)
		if err != nil {
			log.Error(ctx, ErrCreateServices, zap.Error(err))
			_ = db.Close(ctx)
			exitCode = 1
			return
		}

		loginGuard, redisClient, err := newLoginGuard(ctx, &cfg.Redis, startup)
		if err != nil {
			log.Error(ctx, ErrCreateRedisClient, zap.Error(err))
			_ = db.Close(ctx)
			exitCode = 1
			return
		}

		resolver := app.NewIdentityResolver(repos.UserRepository())
		authUseCase := app.NewAuthUseCase(
			repos.UserRepository(),
			repos.Transactor(),
			resolver,
			serviceFactory.PasswordService(),
			serviceFactory.TokenService(),
			loginGuard,
		)
		profileUseCase := app.NewProfileUseCase(repos.ProfileRepository(), repos.Transactor(), resolver)

		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics, err := middleware.NewMetrics(registry)
		if err != nil {
			log.Error(ctx, ErrRegisterMetrics, zap.Error(err))
			_ = db.Close(ctx)
			exitCode = 1
			return
		}

		log.Info(ctx, LogInitHTTPServer)
		server := httpapi.NewApp(&cfg.HTTP)
		httpapi.SetupRouter(server, httpapi.Dependencies{
			Auth:     authUseCase,
			Profiles: profileUseCase,
			DB:       db,
			Metrics:  metrics,
			Gatherer: registry,
		})

		log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
		go func() {
			if err := server.Listen(cfg.HTTP.GetAddress()); err != nil {
				log.Error(ctx, ErrStartHTTPServer, zap.Error(err))
			}
		}()

		shutdown.Wait(ctx, cfg.Shutdown.Timeout,
			// HTTP сервер останавливается раньше пула, чтобы запросы успели завершиться.
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingHTTP)
				httpErr := server.ShutdownWithContext(ctx)
				return errors.Join(httpErr, db.Close(ctx))
			},
			func(ctx context.Context) error {
				if redisClient == nil {
					return nil
				}
				log.Info(ctx, LogClosingRedis)
				return redisClient.Close()
			},
		)

		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

func jwtConfig(cfg *config.JWTConfig) services.JWTConfig {
	return services.JWTConfig{
		Algorithm: cfg.Algorithm,
		Access:    services.DomainKey{Secret: []byte(cfg.AccessSecret), TTL: cfg.GetAccessTokenTTL()},
		Refresh:   services.DomainKey{Secret: []byte(cfg.RefreshSecret), TTL: cfg.GetRefreshTokenTTL()},
	}
}

// newLoginGuard подключает Redis, только если ограничение попыток входа включено.
func newLoginGuard(ctx context.Context, cfg *config.RedisConfig, policy retry.Policy) (svc.LoginGuard, *redis.Client, error) {
	log := logger.Log(ctx)
	if !cfg.Enabled {
		log.Info(ctx, LogThrottleDisabled)
		return cache.NewNoopLoginGuard(), nil, nil
	}

	log.Info(ctx, LogInitCache, zap.String("address", cfg.GetAddress()))
	var client *redis.Client
	err := retry.Do(ctx, "redis", policy, func(ctx context.Context) error {
		var connErr error
		client, connErr = cache.NewRedisClient(ctx, cfg)
		return connErr
	})
	if err != nil {
		return nil, nil, err
	}
	return cache.NewRedisLoginGuard(client, cfg.MaxLoginAttempts, cfg.LoginWindow), client, nil
}
