package otp

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "otp:"

// verifyScript atomically checks and consumes a stored code. The value is
// "code:unixExpiry"; the absolute expiry travels with the code so an
// expired entry can be reported as such rather than as missing.
var verifyScript = redis.NewScript(`
local v = redis.call('GET', KEYS[1])
if not v then return 'notfound' end
local sep = string.find(v, ':')
local code = string.sub(v, 1, sep - 1)
local exp = tonumber(string.sub(v, sep + 1))
if tonumber(ARGV[2]) > exp then
	redis.call('DEL', KEYS[1])
	return 'expired'
end
if code ~= ARGV[1] then return 'mismatch' end
redis.call('DEL', KEYS[1])
return 'ok'
`)

// RedisStore is a Store backed by a shared Redis instance, safe for
// multi-process deployments. Atomicity of verify-and-consume comes from a
// server-side script.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a RedisStore from a Redis URL.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{client: client}, nil
}

// Store saves the code for phone, overwriting any previous entry. The key
// outlives the logical expiry slightly so expired submissions can still be
// distinguished from unknown ones.
func (s *RedisStore) Store(phone, code string) error {
	expiresAt := time.Now().Add(codeTTL).Unix()
	value := fmt.Sprintf("%s:%d", code, expiresAt)
	return s.client.Set(context.Background(), redisKeyPrefix+phone, value, codeTTL+time.Hour).Err()
}

// Verify checks and consumes the code for phone.
func (s *RedisStore) Verify(phone, code string) error {
	result, err := verifyScript.Run(context.Background(), s.client,
		[]string{redisKeyPrefix + phone}, code, time.Now().Unix()).Text()
	if err != nil {
		return err
	}

	switch result {
	case "ok":
		return nil
	case "expired":
		return ErrExpired
	case "mismatch":
		return ErrMismatch
	default:
		return ErrNotFound
	}
}
