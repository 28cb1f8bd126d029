package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLockClient struct {
	mock.Mock
}

func (m *mockLockClient) TryLock(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, token, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *mockLockClient) Unlock(ctx context.Context, key, token string) (bool, error) {
	args := m.Called(ctx, key, token)
	return args.Bool(0), args.Error(1)
}

type stubRefresher struct {
	calls  int
	result *ReconcileResult
	during func()
}

func (s *stubRefresher) Reconcile(ctx context.Context, removeStale bool) (*ReconcileResult, error) {
	s.calls++
	if s.during != nil {
		s.during()
	}
	return s.result, nil
}

func TestLocalLocker(t *testing.T) {
	ctx := context.Background()
	locker := NewLocalLocker()

	release, err := locker.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)

	_, err = locker.Acquire(ctx, "k", time.Minute)
	assert.ErrorIs(t, err, ErrLocked)

	other, err := locker.Acquire(ctx, "other", time.Minute)
	require.NoError(t, err)
	other(ctx)

	release(ctx)
	release(ctx)

	again, err := locker.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)
	again(ctx)
}

func TestRedisLockerAcquireAndRelease(t *testing.T) {
	ctx := context.Background()
	client := &mockLockClient{}
	var token string
	client.On("TryLock", mock.Anything, "k", mock.AnythingOfType("string"), time.Minute).
		Run(func(args mock.Arguments) { token = args.String(2) }).
		Return(true, nil).Once()
	client.On("Unlock", mock.Anything, "k", mock.MatchedBy(func(got string) bool { return got == token })).
		Return(true, nil).Once()

	release, err := NewRedisLocker(client).Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	release(ctx)

	client.AssertExpectations(t)
}

func TestRedisLockerHeldElsewhere(t *testing.T) {
	client := &mockLockClient{}
	client.On("TryLock", mock.Anything, "k", mock.Anything, time.Minute).Return(false, nil)

	_, err := NewRedisLocker(client).Acquire(context.Background(), "k", time.Minute)
	assert.ErrorIs(t, err, ErrLocked)
	client.AssertNotCalled(t, "Unlock", mock.Anything, mock.Anything, mock.Anything)
}

func TestRedisLockerClientError(t *testing.T) {
	client := &mockLockClient{}
	client.On("TryLock", mock.Anything, "k", mock.Anything, time.Minute).Return(false, errors.New("connection refused"))

	_, err := NewRedisLocker(client).Acquire(context.Background(), "k", time.Minute)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLocked)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestLockedReconcilerSerializesRuns(t *testing.T) {
	locker := NewLocalLocker()
	inner := &stubRefresher{result: &ReconcileResult{Added: 2}}
	locked := NewLockedReconciler(inner, locker, time.Minute)

	var nestedErr error
	inner.during = func() {
		_, nestedErr = locked.Reconcile(context.Background(), false)
	}

	result, err := locked.Reconcile(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Added)
	assert.ErrorIs(t, nestedErr, ErrLocked)
	assert.Equal(t, 1, inner.calls)

	inner.during = nil
	_, err = locked.Reconcile(context.Background(), false)
	assert.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestLockedReconcilerReleasesAfterCancellation(t *testing.T) {
	locker := NewLocalLocker()
	ctx, cancel := context.WithCancel(context.Background())
	inner := &stubRefresher{result: &ReconcileResult{}, during: cancel}

	_, err := NewLockedReconciler(inner, locker, time.Minute).Reconcile(ctx, false)
	require.NoError(t, err)

	release, err := locker.Acquire(context.Background(), RefreshLockKey, time.Minute)
	require.NoError(t, err)
	release(context.Background())
}
