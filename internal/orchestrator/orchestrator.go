// Package orchestrator implements the object orchestrator (O) of spec.md
// section 4.4: PUT-by-id semantics for Vorgang and Sitzung. Unlike
// internal/merge, O never merges field-by-field -- it loads the stored row,
// canonicalizes both sides, and either no-ops or replaces the whole object.
package orchestrator

import (
	"context"
	"time"

	"github.com/ltzf/ltzfd/internal/store"
	"github.com/ltzf/ltzfd/internal/types"
)

// Outcome distinguishes a true no-op from a write that happened, mirroring
// the HTTP 201/204 split PUT-by-id exposes.
type Outcome int

const (
	Created Outcome = iota
	NotModified
)

// roundMillis truncates t to millisecond resolution so that two timestamps
// differing only below that resolution compare equal.
func roundMillis(t time.Time) time.Time {
	return t.Truncate(time.Millisecond).UTC()
}

// optEqual implements the `Some(x)` vs `None` vs `Some(y)` rule of spec.md
// section 4.4 for any comparable pointer-to-value type.
func optEqual[V comparable](a, b *V) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return *a == *b
}

func strPtrEq(a, b *string) bool { return optEqual(a, b) }
func boolPtrEq(a, b *bool) bool  { return optEqual(a, b) }
func intPtrEq(a, b *int) bool    { return optEqual(a, b) }

func timePtrEq(a, b *time.Time) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return roundMillis(*a).Equal(roundMillis(*b))
}
