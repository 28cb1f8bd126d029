package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RefreshLockKey is the lock held while SEO URLs are reconciled
const RefreshLockKey = "spawn:seo_urls:refresh_lock"

// Locker serializes reconciliation runs. Acquire returns ErrLocked when the
// key is already held.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context), err error)
}

// RedisLockClient is the subset of the Redis wrapper the lock needs
type RedisLockClient interface {
	TryLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key, token string) (bool, error)
}

// RedisLocker is a lock shared by every process connected to the same Redis
type RedisLocker struct {
	client RedisLockClient
}

// NewRedisLocker creates a Redis backed locker
func NewRedisLocker(client RedisLockClient) *RedisLocker {
	return &RedisLocker{client: client}
}

// Acquire implements Locker
func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context), error) {
	token := uuid.NewString()

	acquired, err := l.client.TryLock(ctx, key, token, ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	if !acquired {
		return nil, ErrLocked
	}

	return func(ctx context.Context) {
		released, err := l.client.Unlock(ctx, key, token)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to release lock", "key", key, "error", err)
			return
		}
		if !released {
			slog.WarnContext(ctx, "Lock expired before release", "key", key, "ttl", ttl)
		}
	}, nil
}

// LocalLocker serializes runs inside this process only
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

// NewLocalLocker creates an in-process locker
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]bool)}
}

// Acquire implements Locker. The ttl is ignored; the lock lives until released.
func (l *LocalLocker) Acquire(ctx context.Context, key string, _ time.Duration) (func(context.Context), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.held[key] {
		return nil, ErrLocked
	}
	l.held[key] = true

	var once sync.Once
	return func(context.Context) {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}, nil
}

// Refresher runs a reconciliation
type Refresher interface {
	Reconcile(ctx context.Context, removeStale bool) (*ReconcileResult, error)
}

// LockedReconciler runs a reconciliation only after taking the refresh lock
type LockedReconciler struct {
	reconciler Refresher
	locker     Locker
	ttl        time.Duration
}

// NewLockedReconciler wraps a reconciler with a locker
func NewLockedReconciler(reconciler Refresher, locker Locker, ttl time.Duration) *LockedReconciler {
	return &LockedReconciler{
		reconciler: reconciler,
		locker:     locker,
		ttl:        ttl,
	}
}

// Reconcile implements Refresher
func (l *LockedReconciler) Reconcile(ctx context.Context, removeStale bool) (*ReconcileResult, error) {
	release, err := l.locker.Acquire(ctx, RefreshLockKey, l.ttl)
	if err != nil {
		return nil, err
	}
	// release with a fresh context so a cancelled run still frees the lock
	defer release(context.WithoutCancel(ctx))

	return l.reconciler.Reconcile(ctx, removeStale)
}
