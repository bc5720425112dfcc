package store

import (
	"time"

	"github.com/ltzf/ltzfd/internal/types"
)

// VorgangFilter is the parametric filter set for GET /vorgang (spec.md
// section 4.5). Pointer fields are optional; a nil pointer means
// "unconstrained".
type VorgangFilter struct {
	Wahlperiode *int
	Typ         *types.Vorgangstyp
	Parlament   *types.Parlament

	InitiatorPerson       *string
	InitiatorOrganisation *string
	InitiatorFachgebiet   *string

	Since *time.Time
	Until *time.Time

	Offset int
	Limit  int
}

// SitzungFilter is the parametric filter set for GET /sitzung.
type SitzungFilter struct {
	Parlament   *types.Parlament
	Wahlperiode *int

	Since *time.Time
	Until *time.Time

	// GremiumNameFuzzy filters by trigram similarity against Gremium.Name,
	// the retrieval-only recovered filter of SPEC_FULL.md section 3. Never
	// used as a matching criterion by the candidate resolver.
	GremiumNameFuzzy *string

	VorgangApiID *types.ApiID

	Offset int
	Limit  int
}
