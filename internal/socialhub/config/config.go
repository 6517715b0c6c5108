// Package config описывает конфигурацию сервиса SocialHub.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"socialhub/pkg/logger"
)

const (
	msgLoadingConfig = "loading socialhub configuration"
	msgEnvFileLoaded = "environment file loaded"
	msgEnvFileAbsent = "environment file not found, using process environment"
	msgConfigLoaded  = "configuration loaded"

	errCtxLoadEnvFile = "failed to load environment file"
	errCtxReadEnv     = "failed to read configuration"
	errCtxValidate    = "invalid configuration"
)

// EnvironmentVar выбирает файл .env.<значение>.
const (
	EnvironmentVar     = "ENVIRONMENT"
	DefaultEnvironment = "dev"
)

// Config - полная конфигурация процесса.
type Config struct {
	Environment string `env:"ENVIRONMENT" env-default:"dev"`

	Postgres PostgresConfig
	JWT      JWTConfig
	HTTP     HTTPConfig
	Redis    RedisConfig
	Logging  LoggingConfig
	Shutdown ShutdownConfig
}

// EnvFileName возвращает имя файла окружения для текущего ENVIRONMENT.
func EnvFileName() string {
	env := strings.TrimSpace(os.Getenv(EnvironmentVar))
	if env == "" {
		env = DefaultEnvironment
	}
	return ".env." + env
}

// Load читает .env.<ENVIRONMENT> из рабочего каталога (если есть) и переменные окружения.
func Load(ctx context.Context) (*Config, error) {
	return LoadFile(ctx, EnvFileName())
}

// LoadFile читает конфигурацию, предварительно подгрузив envFile.
// Значения из файла не перекрывают уже выставленные переменные окружения.
func LoadFile(ctx context.Context, envFile string) (*Config, error) {
	log := logger.Log(ctx).With(zap.String("env_file", envFile))
	log.Info(ctx, msgLoadingConfig)

	if envFile != "" {
		switch err := godotenv.Load(envFile); {
		case err == nil:
			log.Info(ctx, msgEnvFileLoaded)
		case errors.Is(err, fs.ErrNotExist):
			log.Debug(ctx, msgEnvFileAbsent)
		default:
			log.Error(ctx, errCtxLoadEnvFile, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", errCtxLoadEnvFile, err)
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Error(ctx, errCtxReadEnv, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxReadEnv, err)
	}

	if err := cfg.Validate(); err != nil {
		log.Error(ctx, errCtxValidate, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxValidate, err)
	}

	log.Info(ctx, msgConfigLoaded,
		zap.String("environment", cfg.Environment),
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.Int("postgres_port", cfg.Postgres.Port),
		zap.String("jwt_algorithm", cfg.JWT.Algorithm),
		zap.Duration("access_ttl", cfg.JWT.GetAccessTokenTTL()),
		zap.Duration("refresh_ttl", cfg.JWT.GetRefreshTokenTTL()),
		zap.String("http_address", cfg.HTTP.GetAddress()),
		zap.Bool("login_throttle", cfg.Redis.Enabled),
		zap.String("log_level", cfg.Logging.Level))

	return &cfg, nil
}

// Validate проверяет значения, которые cleanenv проверить не может.
func (c *Config) Validate() error {
	if err := c.JWT.Validate(); err != nil {
		return err
	}
	if c.Postgres.MaxConn > 0 && c.Postgres.MinConn > c.Postgres.MaxConn {
		return fmt.Errorf("%w: POSTGRES_MIN_CONN > POSTGRES_MAX_CONN", ErrInvalidValue)
	}
	if c.Redis.Enabled && c.Redis.MaxLoginAttempts <= 0 {
		return fmt.Errorf("%w: LOGIN_THROTTLE_MAX_ATTEMPTS must be positive", ErrInvalidValue)
	}
	return nil
}

// ErrInvalidValue - значение переменной окружения вне допустимого диапазона.
var ErrInvalidValue = errors.New("invalid configuration value")
