// Package enumrepl implements the enum replacement engine (E) of spec.md
// section 4.3: the shared upsert/validate/conflict-resolve/rewrite/delete
// protocol for the three flavors (controlled vocabularies, Autoren,
// Gremien), each exposed through its own entry point since their "value"
// identity differs (a bare string vs. a composite key).
package enumrepl

import (
	"github.com/ltzf/ltzfd/internal/ltzferr"
)

// Outcome distinguishes a true no-op from a write that happened.
type Outcome int

const (
	Applied Outcome = iota
	NotModified
)

// ReplacingDirective is one `{replaced_by, values}` entry of the request:
// rewrite every reference to each value to point at objects[ReplacedBy]
// instead, then delete the value's row. V is the same value type the
// surrounding Request's Objects slice carries (string for vocabularies,
// types.AutorKey / types.GremiumKey for the composite flavors).
type ReplacingDirective[V comparable] struct {
	ReplacedBy int
	Values     []V
}

// validateReplacing checks the two structural rules shared by all three
// flavors: every replaced_by index is in range, and no value being replaced
// also appears among the new objects (no circular/self replacement).
func validateReplacing[V comparable](n int, replacing []ReplacingDirective[V], objectKeys []V) error {
	known := make(map[V]struct{}, len(objectKeys))
	for _, k := range objectKeys {
		known[k] = struct{}{}
	}
	for _, r := range replacing {
		if r.ReplacedBy < 0 || r.ReplacedBy >= n {
			return ltzferr.Validationf("replaced_by index %d out of range [0,%d)", r.ReplacedBy, n)
		}
		for _, v := range r.Values {
			if _, ok := known[v]; ok {
				return ltzferr.Validationf("replacing value also appears among the new objects")
			}
		}
	}
	return nil
}
