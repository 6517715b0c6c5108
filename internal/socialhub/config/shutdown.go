package config

import "time"

// ShutdownConfig - время на корректную остановку.
type ShutdownConfig struct {
	Timeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s"`
}
