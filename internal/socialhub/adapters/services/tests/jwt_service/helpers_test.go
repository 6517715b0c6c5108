package jwt_service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"socialhub/internal/socialhub/adapters/services"
	domainservices "socialhub/internal/socialhub/domain/services"
	svc "socialhub/internal/socialhub/ports/services"
)

const (
	accessSecret  = "access-secret-key"
	refreshSecret = "refresh-secret-key"
	testEmail     = "alice@example.com"
	testUserID    = int64(42)
)

func testConfig() domainservices.JWTConfig {
	return domainservices.JWTConfig{
		Algorithm: "HS256",
		Access:    domainservices.DomainKey{Secret: []byte(accessSecret), TTL: 30 * time.Minute},
		Refresh:   domainservices.DomainKey{Secret: []byte(refreshSecret), TTL: 7 * 24 * time.Hour},
	}
}

// clock - управляемое время для проверки истечения.
type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func newCodec(t *testing.T, c *clock) svc.TokenService {
	t.Helper()
	codec, err := services.NewJWT(testConfig(), services.WithClock(c.Now))
	require.NoError(t, err)
	return codec
}
