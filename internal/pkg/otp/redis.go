package otp

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const redisKeyPrefix = "otp:"

// compareAndDeleteScript consumes a record only if the stored code matches.
// Running server-side keeps lookup and delete atomic.
var compareAndDeleteScript = redis.NewScript(`
if redis.call("HGET", KEYS[1], "code") == ARGV[1] then
	redis.call("DEL", KEYS[1])
	return 1
end
return 0
`)

// RedisStore keeps OTP records in Redis hashes with native TTL expiry, for
// deployments running more than one API instance. No sweeper is needed;
// Redis expires abandoned records itself.
type RedisStore struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(addr, password string, db int, logger zerolog.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info().Str("addr", addr).Msg("Redis OTP store connected")

	return &RedisStore{client: client, logger: logger}, nil
}

// NewRedisStoreWithClient wraps an existing client (used by tests).
func NewRedisStoreWithClient(client *redis.Client, logger zerolog.Logger) *RedisStore {
	return &RedisStore{client: client, logger: logger}
}

func redisKey(email string) string {
	return redisKeyPrefix + email
}

// Put stores or replaces the record for an email with the given TTL.
func (s *RedisStore) Put(ctx context.Context, email string, rec Record, ttl time.Duration) error {
	key := redisKey(email)

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key,
		"code", rec.Code,
		"expiresAt", rec.ExpiresAt.UnixNano(),
		"attempts", rec.Attempts,
	)
	pipe.PExpire(ctx, key, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store OTP record: %w", err)
	}
	return nil
}

// Get returns the record for an email, or nil if none exists.
func (s *RedisStore) Get(ctx context.Context, email string) (*Record, error) {
	fields, err := s.client.HGetAll(ctx, redisKey(email)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read OTP record: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	expiresNanos, err := strconv.ParseInt(fields["expiresAt"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt OTP record for %s: %w", email, err)
	}
	attempts, _ := strconv.Atoi(fields["attempts"])

	return &Record{
		Code:      fields["code"],
		ExpiresAt: time.Unix(0, expiresNanos),
		Attempts:  attempts,
	}, nil
}

// IncrementAttempts bumps the failed-attempt counter for an email.
func (s *RedisStore) IncrementAttempts(ctx context.Context, email string) (int, error) {
	key := redisKey(email)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to check OTP record: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}

	attempts, err := s.client.HIncrBy(ctx, key, "attempts", 1).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment OTP attempts: %w", err)
	}
	return int(attempts), nil
}

// Delete removes the record for an email.
func (s *RedisStore) Delete(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, redisKey(email)).Err(); err != nil {
		return fmt.Errorf("failed to delete OTP record: %w", err)
	}
	return nil
}

// CompareAndDelete atomically consumes the record if its code matches.
func (s *RedisStore) CompareAndDelete(ctx context.Context, email, code string) (bool, error) {
	res, err := compareAndDeleteScript.Run(ctx, s.client, []string{redisKey(email)}, code).Int()
	if err != nil {
		return false, fmt.Errorf("failed to consume OTP record: %w", err)
	}
	return res == 1, nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
