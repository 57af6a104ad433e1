package service

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Ventana fija: el primer intento crea el contador y le pone el TTL de la ventana.
const redisOTPAllowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`

const redisOTPLimiterTimeout = 500 * time.Millisecond

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// redisOTPRateLimiter comparte los contadores entre replicas. Si Redis falla deja pasar
// el intento y lo registra.
type redisOTPRateLimiter struct {
	client redisEvaler
	logger *zap.Logger
	window time.Duration
	max    int
	prefix string
}

// NewRedisOTPRateLimiter cuenta intentos por telefono bajo prefix (p.ej. "otp:rl:" para
// solicitudes, "otp:verify:" para verificaciones).
func NewRedisOTPRateLimiter(client *redis.Client, logger *zap.Logger, prefix string, window time.Duration, max int) OTPRateLimiter {
	if client == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &redisOTPRateLimiter{
		client: client,
		logger: logger,
		window: window,
		max:    max,
		prefix: prefix,
	}
}

func (l *redisOTPRateLimiter) Allow(phoneNumber string) bool {
	if l == nil || l.client == nil {
		return true
	}
	phoneNumber = strings.TrimSpace(phoneNumber)
	if phoneNumber == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOTPLimiterTimeout)
	defer cancel()

	key := l.prefix + phoneNumber
	count, err := l.client.Eval(ctx, redisOTPAllowScript, []string{key}, l.window.Milliseconds()).Int()
	if err != nil {
		if l.logger != nil {
			l.logger.Warn("otp rate limiter unavailable", zap.String("key", key), zap.Error(err))
		}
		return true
	}
	return count <= l.max
}
