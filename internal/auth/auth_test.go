package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRequireAdminOrKeyAdder(t *testing.T) {
	assert.NoError(t, RequireAdminOrKeyAdder(Claims{Scope: ScopeAdmin}))
	assert.NoError(t, RequireAdminOrKeyAdder(Claims{Scope: ScopeKeyAdder}))
	assert.Error(t, RequireAdminOrKeyAdder(Claims{Scope: ScopeCollector}))
}

func TestRequireKeyAdder(t *testing.T) {
	assert.NoError(t, RequireKeyAdder(Claims{Scope: ScopeKeyAdder}))
	assert.Error(t, RequireKeyAdder(Claims{Scope: ScopeAdmin}))
}

func TestRequireCollectorOrAdmin(t *testing.T) {
	assert.NoError(t, RequireCollectorOrAdmin(Claims{Scope: ScopeCollector}))
	assert.NoError(t, RequireCollectorOrAdmin(Claims{Scope: ScopeAdmin}))
	assert.Error(t, RequireCollectorOrAdmin(Claims{Scope: ScopeKeyAdder}))
}

func TestCanPutCalendarDate_AdminUnrestricted(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.NoError(t, CanPutCalendarDate(Claims{Scope: ScopeAdmin}, past, now))
}

func TestCanPutCalendarDate_CollectorRejectsBeforeYesterday(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	tooOld := time.Date(2024, 6, 13, 0, 0, 0, 0, time.UTC)
	assert.Error(t, CanPutCalendarDate(Claims{Scope: ScopeCollector}, tooOld, now))
}

func TestCanPutCalendarDate_CollectorAllowsYesterdayAndLater(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	yesterday := time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)
	today := now
	tomorrow := time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC)
	assert.NoError(t, CanPutCalendarDate(Claims{Scope: ScopeCollector}, yesterday, now))
	assert.NoError(t, CanPutCalendarDate(Claims{Scope: ScopeCollector}, today, now))
	assert.NoError(t, CanPutCalendarDate(Claims{Scope: ScopeCollector}, tomorrow, now))
}

func TestCanPutCalendarDate_KeyAdderUnrestricted(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.NoError(t, CanPutCalendarDate(Claims{Scope: ScopeKeyAdder}, past, now))
}

func TestGenerateKeyHashAndVerifyRoundTrip(t *testing.T) {
	raw, keytag, salt, err := GenerateKey()
	assert.NoError(t, err)
	assert.Len(t, keytag, 8)
	assert.Equal(t, raw[:8], keytag)

	hash, err := HashKey(raw, salt)
	assert.NoError(t, err)
	assert.True(t, VerifyKey(hash, raw, salt))
	assert.False(t, VerifyKey(hash, "wrong-key-entirely", salt))
}

func TestGenerateKey_ProducesDistinctKeys(t *testing.T) {
	raw1, _, _, err := GenerateKey()
	assert.NoError(t, err)
	raw2, _, _, err := GenerateKey()
	assert.NoError(t, err)
	assert.NotEqual(t, raw1, raw2)
}
