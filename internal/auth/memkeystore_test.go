package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemKeyStore_CreateFindByHashRoundTrip(t *testing.T) {
	ctx := context.Background()
	ks := NewMemKeyStore()

	raw, keytag, salt, err := GenerateKey()
	require.NoError(t, err)
	hash, err := HashKey(raw, salt)
	require.NoError(t, err)

	id, err := ks.Create(ctx, APIKey{KeyHash: hash, Salt: salt, Keytag: keytag, Scope: ScopeCollector})
	require.NoError(t, err)
	assert.NotZero(t, id)

	found, ok, err := ks.FindByHash(ctx, raw)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, id, found.ID)
	assert.Equal(t, ScopeCollector, found.Scope)
}

func TestMemKeyStore_FindByHashFailsOnWrongKey(t *testing.T) {
	ctx := context.Background()
	ks := NewMemKeyStore()

	raw, keytag, salt, err := GenerateKey()
	require.NoError(t, err)
	hash, err := HashKey(raw, salt)
	require.NoError(t, err)
	_, err = ks.Create(ctx, APIKey{KeyHash: hash, Salt: salt, Keytag: keytag, Scope: ScopeCollector})
	require.NoError(t, err)

	other, _, _, err := GenerateKey()
	require.NoError(t, err)
	_, ok, err := ks.FindByHash(ctx, other)
	require.NoError(t, err)
	assert.False(t, ok, "a key sharing no keytag prefix must never be found")
}

func TestMemKeyStore_FindByHashRejectsShortInput(t *testing.T) {
	ctx := context.Background()
	ks := NewMemKeyStore()
	_, ok, err := ks.FindByHash(ctx, "short")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemKeyStore_FindByKeytag(t *testing.T) {
	ctx := context.Background()
	ks := NewMemKeyStore()
	raw, keytag, salt, err := GenerateKey()
	require.NoError(t, err)
	hash, err := HashKey(raw, salt)
	require.NoError(t, err)
	id, err := ks.Create(ctx, APIKey{KeyHash: hash, Salt: salt, Keytag: keytag, Scope: ScopeAdmin})
	require.NoError(t, err)

	found, ok, err := ks.FindByKeytag(ctx, keytag)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, id, found.ID)
}

func TestMemKeyStore_RevokeMarksDeleted(t *testing.T) {
	ctx := context.Background()
	ks := NewMemKeyStore()
	raw, keytag, salt, err := GenerateKey()
	require.NoError(t, err)
	hash, err := HashKey(raw, salt)
	require.NoError(t, err)
	id, err := ks.Create(ctx, APIKey{KeyHash: hash, Salt: salt, Keytag: keytag, Scope: ScopeCollector})
	require.NoError(t, err)

	require.NoError(t, ks.Revoke(ctx, id))

	found, ok, err := ks.FindByKeytag(ctx, keytag)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, found.Deleted, "revoke marks the row deleted rather than removing it")
}

func TestMemKeyStore_TouchSetsLastUsed(t *testing.T) {
	ctx := context.Background()
	ks := NewMemKeyStore()
	raw, keytag, salt, err := GenerateKey()
	require.NoError(t, err)
	hash, err := HashKey(raw, salt)
	require.NoError(t, err)
	id, err := ks.Create(ctx, APIKey{KeyHash: hash, Salt: salt, Keytag: keytag, Scope: ScopeCollector})
	require.NoError(t, err)

	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	require.NoError(t, ks.Touch(ctx, id, now))

	found, ok, err := ks.FindByKeytag(ctx, keytag)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, found.LastUsed)
	assert.True(t, found.LastUsed.Equal(now))
}
