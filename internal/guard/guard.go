// Package guard implements the identity guard (G): a pure helper that
// converts a raw enum value to its canonical string form and reports use of
// the "sonstig" sentinel to the notification sink. G never blocks -- it is
// invoked synchronously on the ingest path and only enqueues an event.
package guard

import (
	"strings"

	"github.com/ltzf/ltzfd/internal/types"
)

// Sink receives the events G reports. internal/notify implements it.
type Sink interface {
	NotifySonstigUnwrapped(apiID types.ApiID, objectKind, rawValue string)
}

// CanonicalEnumValue returns the canonical (lowercased, trimmed) string form
// of raw. If raw, once canonicalized, is not a member of known, the sentinel
// "sonstig" is returned instead and the substitution is reported to sink.
// sink may be nil (e.g. in pure unit tests of callers that don't care about
// notification side effects).
func CanonicalEnumValue(raw string, known map[string]struct{}, apiID types.ApiID, objectKind string, sink Sink) string {
	canon := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := known[canon]; !ok {
		if sink != nil {
			sink.NotifySonstigUnwrapped(apiID, objectKind, raw)
		}
		return types.Sonstig
	}
	return canon
}
