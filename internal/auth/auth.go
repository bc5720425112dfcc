// Package auth implements the authorization contract of spec.md section 6:
// the Claims value every authenticated request carries, the scope checks
// core operations enforce, and the key-store contract the HTTP facade's
// X-API-Key middleware consumes.
package auth

import (
	"time"

	"github.com/ltzf/ltzfd/internal/ltzferr"
)

// Scope is one of the three credential classes spec.md section 6 defines.
type Scope string

const (
	ScopeAdmin     Scope = "admin"
	ScopeKeyAdder  Scope = "keyadder"
	ScopeCollector Scope = "collector"
)

// Claims is what the core consumes once a request's X-API-Key header has
// been resolved to a stored key: the scope it carries and the numeric id
// persisted alongside it (used for provenance's collector_key column and
// api_keys.created_by).
type Claims struct {
	Scope Scope
	KeyID int64
}

// RequireAdminOrKeyAdder enforces the rule shared by vocabulary PUT/DELETE
// and individual Vorgang/Sitzung PUT/DELETE.
func RequireAdminOrKeyAdder(c Claims) error {
	if c.Scope == ScopeAdmin || c.Scope == ScopeKeyAdder {
		return nil
	}
	return ltzferr.Authorizationf("scope %q insufficient, admin or keyadder required", c.Scope)
}

// RequireKeyAdder enforces the rule for key issuance (POST /auth).
func RequireKeyAdder(c Claims) error {
	if c.Scope == ScopeKeyAdder {
		return nil
	}
	return ltzferr.Authorizationf("scope %q insufficient, keyadder required", c.Scope)
}

// RequireCollectorOrAdmin enforces the rule for the collector-push merge
// endpoint, which admin credentials may also exercise.
func RequireCollectorOrAdmin(c Claims) error {
	if c.Scope == ScopeCollector || c.Scope == ScopeAdmin {
		return nil
	}
	return ltzferr.Authorizationf("scope %q insufficient, collector or admin required", c.Scope)
}

// CanPutCalendarDate enforces the collector-calendar-older-than-yesterday
// restriction of spec.md sections 4 and 6: Collector scope may only PUT
// dates on or after yesterday (relative to now); Admin and KeyAdder are
// unrestricted.
func CanPutCalendarDate(c Claims, datum, now time.Time) error {
	if c.Scope == ScopeAdmin || c.Scope == ScopeKeyAdder {
		return nil
	}
	if c.Scope != ScopeCollector {
		return ltzferr.Authorizationf("scope %q insufficient, collector, admin or keyadder required", c.Scope)
	}
	yesterday := now.AddDate(0, 0, -1)
	y1, m1, d1 := yesterday.Date()
	y2, m2, d2 := datum.Date()
	yesterdayDay := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	datumDay := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	if datumDay.Before(yesterdayDay) {
		return ltzferr.Authorizationf("collector scope may not put calendar dates before yesterday")
	}
	return nil
}
