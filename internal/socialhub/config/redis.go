package config

import (
	"fmt"
	"time"
)

// RedisConfig - подключение к Redis для ограничения попыток входа.
// При Enabled=false ограничение отключено и Redis не нужен.
type RedisConfig struct {
	Enabled          bool          `env:"LOGIN_THROTTLE_ENABLED" env-default:"false"`
	Host             string        `env:"REDIS_HOST" env-default:"localhost"`
	Port             int           `env:"REDIS_PORT" env-default:"6379"`
	Password         string        `env:"REDIS_PASSWORD" env-default:""`
	DB               int           `env:"REDIS_DB" env-default:"0"`
	DialTimeout      time.Duration `env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
	ReadTimeout      time.Duration `env:"REDIS_READ_TIMEOUT" env-default:"3s"`
	WriteTimeout     time.Duration `env:"REDIS_WRITE_TIMEOUT" env-default:"3s"`
	PoolSize         int           `env:"REDIS_POOL_SIZE" env-default:"10"`
	MaxLoginAttempts int64         `env:"LOGIN_THROTTLE_MAX_ATTEMPTS" env-default:"5"`
	LoginWindow      time.Duration `env:"LOGIN_THROTTLE_WINDOW" env-default:"15m"`
}

// GetAddress возвращает host:port.
func (c *RedisConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
