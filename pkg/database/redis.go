package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"spawn-admin/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// unlockScript deletes the lock key only while it still holds our token
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Redis struct {
	Client *redis.Client
	tracer trace.Tracer
}

func NewRedis(ctx context.Context) (*Redis, error) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	log.Printf("Connected to Redis at: %s", opt.Addr)

	r := &Redis{
		Client: client,
	}

	// Only initialize tracer if telemetry is enabled
	if config.GetBoolEnv("ENABLE_TELEMETRY", false) {
		r.tracer = otel.Tracer("redis-client")
	}

	return r, nil
}

func (r *Redis) Close() error {
	return r.Client.Close()
}

func (r *Redis) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return r.Client.Ping(ctx).Err()
}

// startSpan starts a span when telemetry is enabled; the returned end func is never nil
func (r *Redis) startSpan(ctx context.Context, name, key, operation string) (context.Context, func(error)) {
	if r.tracer == nil {
		return ctx, func(error) {}
	}

	ctx, span := r.tracer.Start(ctx, name,
		trace.WithAttributes(
			attribute.String("redis.key", key),
			attribute.String("redis.operation", operation),
		),
	)
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}
}

// TryLock sets key to token if the key does not exist yet. It reports
// whether the lock was acquired.
func (r *Redis) TryLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	ctx, end := r.startSpan(ctx, "redis.try_lock", key, "SET NX")

	acquired, err := r.Client.SetNX(ctx, key, token, ttl).Result()
	end(err)
	return acquired, err
}

// Unlock releases a lock taken with TryLock. A lock that expired or was
// taken over by another holder is left untouched.
func (r *Redis) Unlock(ctx context.Context, key, token string) (bool, error) {
	ctx, end := r.startSpan(ctx, "redis.unlock", key, "EVAL")

	deleted, err := unlockScript.Run(ctx, r.Client, []string{key}, token).Int64()
	end(err)
	return deleted == 1, err
}
