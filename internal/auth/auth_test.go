package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", "task-tracker-api", time.Hour)

	issued, err := m.Generate(42, "Administrator")
	require.NoError(t, err)
	require.NotEmpty(t, issued.Token)
	require.NotEmpty(t, issued.ID)

	claims, err := m.Validate(issued.Token)
	require.NoError(t, err)

	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), userID)
	assert.Equal(t, "Administrator", claims.Role)
	assert.Equal(t, issued.ID, claims.ID)
	assert.WithinDuration(t, issued.ExpiresAt, claims.ExpiresAt.Time, time.Second)
}

func TestTokenManager_UniqueIDs(t *testing.T) {
	m := NewTokenManager("secret", "task-tracker-api", time.Hour)

	first, err := m.Generate(1, "Employee")
	require.NoError(t, err)
	second, err := m.Generate(1, "Employee")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestTokenManager_Rejects(t *testing.T) {
	m := NewTokenManager("secret", "task-tracker-api", time.Hour)
	issued, err := m.Generate(1, "Employee")
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Validate("invalid.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenManager("other", "task-tracker-api", time.Hour)
		_, err := other.Validate(issued.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewTokenManager("secret", "someone-else", time.Hour)
		_, err := other.Validate(issued.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewTokenManager("secret", "task-tracker-api", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Validate(issued.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
			Subject:   "1",
			Issuer:    "task-tracker-api",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = m.Validate(unsigned)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestRedisDenylist(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	d := NewRedisDenylist(client)
	ctx := context.Background()

	require.NoError(t, d.Ping(ctx))

	revoked, err := d.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, d.Revoke(ctx, "abc", time.Now().Add(time.Minute)))
	revoked, err = d.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.True(t, mr.TTL(denylistKeyPrefix+"abc") > 0)

	mr.FastForward(2 * time.Minute)
	revoked, err = d.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, d.Revoke(ctx, "old", time.Now().Add(-time.Minute)))
	assert.False(t, mr.Exists(denylistKeyPrefix+"old"))
}

func TestRedisDenylist_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	mr.Close()

	d := NewRedisDenylist(client)
	_, err := d.IsRevoked(context.Background(), "abc")
	assert.Error(t, err)
}

func TestMemoryDenylist(t *testing.T) {
	d := NewMemoryDenylist()
	ctx := context.Background()

	require.NoError(t, d.Revoke(ctx, "abc", time.Now().Add(time.Minute)))
	require.NoError(t, d.Revoke(ctx, "old", time.Now().Add(-time.Minute)))

	revoked, err := d.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = d.IsRevoked(ctx, "old")
	require.NoError(t, err)
	assert.False(t, revoked)
}
