// Package types defines the domain model shared by every component of the
// merge/integration engine: Vorgang, Station, Dokument, Sitzung, Top and the
// supporting vocabularies. Structs carry json tags only; persistence mapping
// lives in internal/store.
package types

import "github.com/google/uuid"

// ApiID is the stable, public 128-bit identifier of an entity. The internal
// surrogate integer key used by the store is never exposed through this type.
type ApiID = uuid.UUID

// NewApiID mints a fresh public identifier for a newly created entity.
func NewApiID() ApiID {
	return uuid.New()
}
