package sessions

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *mr.Miniredis) {
	t.Helper()
	m, err := mr.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	return NewService(NewRedisRepository(client, "")), m
}

func TestServiceCreateAndValidate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.CreateSession(ctx, "admin", time.Hour)
	require.NoError(t, err)
	require.Len(t, id, 64)

	sess, err := svc.Validate(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, sess)
	require.Equal(t, "admin", sess.Username)
}

func TestServiceValidateUnknownID(t *testing.T) {
	svc, _ := newTestService(t)

	sess, err := svc.Validate(context.Background(), "deadbeef")
	require.NoError(t, err)
	require.Nil(t, sess)
}

func TestServiceDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	id, err := svc.CreateSession(ctx, "admin", time.Hour)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, id))

	sess, err := svc.Validate(ctx, id)
	require.NoError(t, err)
	require.Nil(t, sess)
}

func TestServiceIDsAreUnique(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.CreateSession(ctx, "admin", time.Hour)
	require.NoError(t, err)
	b, err := svc.CreateSession(ctx, "admin", time.Hour)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}
