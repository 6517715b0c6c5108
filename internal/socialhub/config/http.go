package config

import (
	"fmt"
	"time"
)

// HTTPConfig - параметры HTTP сервера.
type HTTPConfig struct {
	Host         string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port         int           `env:"HTTP_PORT" env-default:"8000"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	BodyLimit    int           `env:"HTTP_BODY_LIMIT" env-default:"1048576"`
}

// GetAddress возвращает адрес для Listen.
func (c *HTTPConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
