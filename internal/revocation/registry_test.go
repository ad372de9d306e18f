package revocation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cotato/auth-service/internal/cache"
	"github.com/cotato/auth-service/internal/revocation"
)

func TestRevoke_ThenIsRevoked(t *testing.T) {
	ctx := context.Background()
	reg := revocation.NewRegistry(cache.NewMemory(""))

	const tok = "header.payload.signature"

	revoked, err := reg.IsRevoked(ctx, tok)
	require.NoError(t, err)
	assert.False(t, revoked, "never-revoked token is never reported revoked")

	require.NoError(t, reg.Revoke(ctx, tok, time.Minute))

	revoked, err = reg.IsRevoked(ctx, tok)
	require.NoError(t, err)
	assert.True(t, revoked, "revoked immediately after Revoke")
}

func TestRevoke_EntryExpiresWithTTL(t *testing.T) {
	ctx := context.Background()
	reg := revocation.NewRegistry(cache.NewMemory(""))

	const tok = "a.b.c"
	require.NoError(t, reg.Revoke(ctx, tok, 30*time.Millisecond))

	revoked, err := reg.IsRevoked(ctx, tok)
	require.NoError(t, err)
	assert.True(t, revoked)

	time.Sleep(60 * time.Millisecond)

	revoked, err = reg.IsRevoked(ctx, tok)
	require.NoError(t, err)
	assert.False(t, revoked, "entry self-expires with the token's remaining lifetime")
}

func TestRevoke_NonPositiveTTLIsNoop(t *testing.T) {
	ctx := context.Background()
	reg := revocation.NewRegistry(cache.NewMemory(""))

	require.NoError(t, reg.Revoke(ctx, "x.y.z", 0))
	require.NoError(t, reg.Revoke(ctx, "x.y.z", -time.Minute))

	revoked, err := reg.IsRevoked(ctx, "x.y.z")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestIsRevoked_DistinctTokensIndependent(t *testing.T) {
	ctx := context.Background()
	reg := revocation.NewRegistry(cache.NewMemory(""))

	require.NoError(t, reg.Revoke(ctx, "first", time.Minute))

	revoked, err := reg.IsRevoked(ctx, "second")
	require.NoError(t, err)
	assert.False(t, revoked)
}
