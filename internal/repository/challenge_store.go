package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"tablebid/internal/domain"
)

// ChallengeStore guarda un unico desafio OTP por telefono.
type ChallengeStore interface {
	// Put reemplaza cualquier desafio previo del mismo telefono.
	Put(ctx context.Context, challenge domain.OTPChallenge) error
	Get(ctx context.Context, phoneNumber string) (domain.OTPChallenge, error)
	// Consume borra el desafio solo si sigue siendo el mismo (mismo hash). Devuelve false
	// si otro verificador lo consumio antes o fue reemplazado.
	Consume(ctx context.Context, challenge domain.OTPChallenge) (bool, error)
}

const redisChallengePutScript = `
redis.call("DEL", KEYS[1])
redis.call("HSET", KEYS[1], "code_hash", ARGV[1], "created_at", ARGV[2], "expires_at", ARGV[3])
redis.call("PEXPIRE", KEYS[1], ARGV[4])
return 1
`

const redisChallengeConsumeScript = `
if redis.call("HGET", KEYS[1], "code_hash") == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

type redisHashScripter interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
}

type RedisChallengeStore struct {
	client redisHashScripter
	prefix string
}

func NewRedisChallengeStore(client *redis.Client) *RedisChallengeStore {
	return &RedisChallengeStore{
		client: client,
		prefix: "otp:challenge:",
	}
}

func (s *RedisChallengeStore) Put(ctx context.Context, challenge domain.OTPChallenge) error {
	ttl := challenge.ExpiresAt.Sub(challenge.CreatedAt)
	if ttl <= 0 {
		return errors.New("challenge already expired")
	}
	return s.client.Eval(ctx, redisChallengePutScript, []string{s.prefix + challenge.PhoneNumber},
		challenge.CodeHash,
		challenge.CreatedAt.UTC().Format(time.RFC3339Nano),
		challenge.ExpiresAt.UTC().Format(time.RFC3339Nano),
		ttl.Milliseconds(),
	).Err()
}

func (s *RedisChallengeStore) Get(ctx context.Context, phoneNumber string) (domain.OTPChallenge, error) {
	fields, err := s.client.HGetAll(ctx, s.prefix+phoneNumber).Result()
	if err != nil {
		return domain.OTPChallenge{}, err
	}
	if len(fields) == 0 || fields["code_hash"] == "" {
		return domain.OTPChallenge{}, ErrNotFound
	}
	createdAt, err := time.Parse(time.RFC3339Nano, fields["created_at"])
	if err != nil {
		return domain.OTPChallenge{}, err
	}
	expiresAt, err := time.Parse(time.RFC3339Nano, fields["expires_at"])
	if err != nil {
		return domain.OTPChallenge{}, err
	}
	return domain.OTPChallenge{
		PhoneNumber: phoneNumber,
		CodeHash:    fields["code_hash"],
		CreatedAt:   createdAt,
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *RedisChallengeStore) Consume(ctx context.Context, challenge domain.OTPChallenge) (bool, error) {
	n, err := s.client.Eval(ctx, redisChallengeConsumeScript, []string{s.prefix + challenge.PhoneNumber}, challenge.CodeHash).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return n > 0, nil
}
