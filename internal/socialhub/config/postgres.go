package config

import (
	"fmt"
	"net/url"
	"time"
)

// PostgresConfig - параметры подключения к PostgreSQL.
type PostgresConfig struct {
	Host            string        `env:"POSTGRES_HOST" env-default:"localhost"`
	Port            int           `env:"POSTGRES_PORT" env-default:"5432"`
	User            string        `env:"POSTGRES_USER" env-required:"true"`
	Password        string        `env:"POSTGRES_PASSWORD" env-required:"true"`
	Database        string        `env:"POSTGRES_DB" env-required:"true"`
	SSLMode         string        `env:"POSTGRES_SSLMODE" env-default:"disable"`
	MinConn         int32         `env:"POSTGRES_MIN_CONN" env-default:"1"`
	MaxConn         int32         `env:"POSTGRES_MAX_CONN" env-default:"10"`
	MaxConnLifetime time.Duration `env:"POSTGRES_MAX_CONN_LIFETIME" env-default:"1h"`
	MigrationsPath  string        `env:"POSTGRES_MIGRATIONS_PATH" env-default:"migrations/socialhub"`
	ConnectAttempts int           `env:"POSTGRES_CONNECT_ATTEMPTS" env-default:"5"`
	ConnectBackoff  time.Duration `env:"POSTGRES_CONNECT_BACKOFF" env-default:"1s"`
}

// GetConnectionURL возвращает URL подключения. Используется и пулом, и мигратором.
func (p *PostgresConfig) GetConnectionURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     fmt.Sprintf("%s:%d", p.Host, p.Port),
		Path:     "/" + p.Database,
		RawQuery: url.Values{"sslmode": []string{p.SSLMode}}.Encode(),
	}
	return u.String()
}
