package config

import "socialhub/pkg/logger"

// LoggingConfig - уровень и режим логирования.
type LoggingConfig struct {
	Level string `env:"LOG_LEVEL" env-default:"info"`
	Mode  string `env:"LOG_MODE" env-default:"production"`
}

// GetEnvironment переводит режим в logger.Environment.
func (c *LoggingConfig) GetEnvironment() logger.Environment {
	return logger.ParseEnvironment(c.Mode)
}
