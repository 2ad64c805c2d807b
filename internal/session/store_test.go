package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CreateAndGet(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	id, err := s.Create(ctx, "u1", "admin")
	require.NoError(t, err)
	assert.Len(t, id, 64, "session ids are 32 random bytes hex encoded")

	sess, err := s.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "u1", sess.UserID)
	assert.Equal(t, "admin", sess.Role)
	assert.False(t, sess.CreatedAt.IsZero())
}

func TestMemoryStore_UnknownIDIsNotAnError(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore(time.Hour)

	sess, err := s.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestMemoryStore_ClearIdentityIsIdempotent(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	id, err := s.Create(ctx, "u1", "user")
	require.NoError(t, err)

	// Clearing twice, and clearing a session that never existed, all succeed.
	require.NoError(t, s.ClearIdentity(ctx, id))
	require.NoError(t, s.ClearIdentity(ctx, id))
	require.NoError(t, s.ClearIdentity(ctx, "missing"))

	sess, err := s.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, sess, "the session record itself survives the clear")
	assert.Empty(t, sess.UserID)
	assert.Empty(t, sess.Role)
}

func TestMemoryStore_Destroy(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore(time.Hour)
	ctx := context.Background()

	id, err := s.Create(ctx, "u1", "user")
	require.NoError(t, err)
	require.NoError(t, s.Destroy(ctx, id))
	require.NoError(t, s.Destroy(ctx, id)) // double destroy is a no-op

	sess, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestMemoryStore_Expiry(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore(time.Millisecond)
	ctx := context.Background()

	id, err := s.Create(ctx, "u1", "user")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	sess, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestContext_ClearIdentity(t *testing.T) {
	t.Parallel()
	c := &Context{ID: "abc", UserID: "u1", Role: "admin"}
	assert.True(t, c.HasIdentity())

	c.ClearIdentity()
	assert.False(t, c.HasIdentity())
	assert.Empty(t, c.Role)
	assert.Equal(t, "abc", c.ID, "the session id itself is kept")

	c.ClearIdentity() // no-op on an already-empty context
	assert.False(t, c.HasIdentity())

	var nilCtx *Context
	assert.False(t, nilCtx.HasIdentity())
	nilCtx.ClearIdentity() // must not panic
}
