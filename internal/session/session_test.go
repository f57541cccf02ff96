package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmhub/client-go/internal/kvstore"
	"github.com/farmhub/client-go/internal/models"
)

func TestStore_WriteReadRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(kvstore.NewMemoryStore())
	user := &models.User{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: models.RoleFarmer}

	require.NoError(t, store.Write(ctx, "tok-1", user))

	sess, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", sess.Token)
	require.NotNil(t, sess.User)
	assert.Equal(t, *user, *sess.User)
	assert.True(t, store.IsAuthenticated(ctx))
}

func TestStore_TokenOnlyWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(kvstore.NewMemoryStore())

	require.NoError(t, store.Write(ctx, "tok-1", nil))

	sess, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", sess.Token)
	assert.Nil(t, sess.User)
	assert.True(t, sess.IsAuthenticated())
}

func TestStore_WriteWithoutTokenRefused(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(kvstore.NewMemoryStore())

	err := store.Write(ctx, "", &models.User{ID: "u1"})
	require.Error(t, err)
	assert.False(t, store.IsAuthenticated(ctx))
}

func TestStore_ClearRemovesBothFields(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(kvstore.NewMemoryStore())
	require.NoError(t, store.Write(ctx, "tok-1", &models.User{ID: "u1"}))

	require.NoError(t, store.Clear(ctx))

	sess, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Empty(t, sess.Token)
	assert.Nil(t, sess.User)
	assert.False(t, store.IsAuthenticated(ctx))
}

func TestStore_NewLoginReplacesSessionWholesale(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(kvstore.NewMemoryStore())
	require.NoError(t, store.Write(ctx, "tok-1", &models.User{ID: "u1", FarmName: "Old Farm"}))
	require.NoError(t, store.Write(ctx, "tok-2", &models.User{ID: "u2"}))

	sess, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", sess.Token)
	require.NotNil(t, sess.User)
	assert.Equal(t, "u2", sess.User.ID)
	assert.Empty(t, sess.User.FarmName)
}

func TestStore_TokenOnlyWriteDropsPreviousUser(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(kvstore.NewMemoryStore())
	require.NoError(t, store.Write(ctx, "tok-A", &models.User{ID: "userA", Email: "a@x.com"}))

	// second login resolved no profile; the first account's cached user
	// must not end up paired with the new token
	require.NoError(t, store.Write(ctx, "tok-B", nil))

	sess, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-B", sess.Token)
	assert.Nil(t, sess.User)
}

func TestStore_UserWriteFailureRollsBackSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	store := NewStore(kv)

	kv.FailPutKey = "user"
	err := store.Write(ctx, "tok-1", &models.User{ID: "u1"})
	require.Error(t, err)

	sess, readErr := store.Read(ctx)
	require.NoError(t, readErr)
	assert.Empty(t, sess.Token)
	assert.Nil(t, sess.User)
	assert.False(t, store.IsAuthenticated(ctx))
}

func TestStore_CorruptStoredUserReadsAsAbsent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	store := NewStore(kv)
	require.NoError(t, kv.Put(ctx, "token", "tok-1"))
	require.NoError(t, kv.Put(ctx, "user", "{not json"))

	sess, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", sess.Token)
	assert.Nil(t, sess.User)
	assert.True(t, sess.IsAuthenticated())
}

func TestStore_PersistFailureSurfaces(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := kvstore.NewMemoryStore()
	kv.FailWrites = true
	store := NewStore(kv)

	err := store.Write(ctx, "tok-1", nil)
	require.Error(t, err)
	assert.False(t, store.IsAuthenticated(ctx))
}
