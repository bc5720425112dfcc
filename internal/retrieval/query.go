package retrieval

import (
	"context"
	"time"

	"github.com/ltzf/ltzfd/internal/store"
	"github.com/ltzf/ltzfd/internal/types"
)

// VorgangQuery is the full GET /vorgang request shape: the parametric
// filters of spec.md section 4.5 plus the date-part narrowing hints and
// pagination/conditional-request inputs the HTTP facade parses from the URL
// and headers.
type VorgangQuery struct {
	Wahlperiode *int
	Typ         *types.Vorgangstyp
	Parlament   *types.Parlament

	InitiatorPerson       *string
	InitiatorOrganisation *string
	InitiatorFachgebiet   *string

	Since           *time.Time
	Until           *time.Time
	IfModifiedSince *time.Time
	DatePart        DatePart

	Page    int
	PerPage int
}

// SitzungQuery is the GET /sitzung equivalent.
type SitzungQuery struct {
	Parlament   *types.Parlament
	Wahlperiode *int

	Since           *time.Time
	Until           *time.Time
	IfModifiedSince *time.Time
	DatePart        DatePart

	GremiumNameFuzzy *string
	VorgangApiID     *types.ApiID

	Page    int
	PerPage int
}

// Result is what the HTTP facade needs to write a response: a status code
// (which may short-circuit to 204/304/416 with no body), the matched page of
// items, and -- only when Status is 200 -- the pagination envelope.
type Result[T any] struct {
	Status   Status
	Items    []T
	Envelope Envelope
}

// Vorgang runs find_applicable_date_range, dispatches to the store's
// ListVorgang with the normalized window and page, and classifies the
// response per spec.md section 4.5's empty-result rule.
func Vorgang(ctx context.Context, tx store.Tx, q VorgangQuery, baseURL string, now time.Time) (Result[types.Vorgang], error) {
	since, until, ok := FindApplicableDateRange(q.Since, q.Until, q.IfModifiedSince, q.DatePart, now)
	if !ok {
		return Result[types.Vorgang]{Status: StatusRangeNotSatisfiable}, nil
	}

	page := NormalizePage(q.Page)
	perPage := NormalizePerPage(q.PerPage)
	items, total, err := tx.ListVorgang(ctx, store.VorgangFilter{
		Wahlperiode:           q.Wahlperiode,
		Typ:                   q.Typ,
		Parlament:             q.Parlament,
		InitiatorPerson:       q.InitiatorPerson,
		InitiatorOrganisation: q.InitiatorOrganisation,
		InitiatorFachgebiet:   q.InitiatorFachgebiet,
		Since:                 since,
		Until:                 until,
		Offset:                (page - 1) * perPage,
		Limit:                 perPage,
	})
	if err != nil {
		return Result[types.Vorgang]{}, err
	}

	status := ResultStatus(total, q.IfModifiedSince != nil)
	if status != StatusOK {
		return Result[types.Vorgang]{Status: status}, nil
	}
	env, err := BuildEnvelope(baseURL, total, page, perPage)
	if err != nil {
		return Result[types.Vorgang]{}, err
	}
	return Result[types.Vorgang]{Status: status, Items: items, Envelope: env}, nil
}

// Sitzung is Vorgang's GET /sitzung counterpart.
func Sitzung(ctx context.Context, tx store.Tx, q SitzungQuery, baseURL string, now time.Time) (Result[types.Sitzung], error) {
	since, until, ok := FindApplicableDateRange(q.Since, q.Until, q.IfModifiedSince, q.DatePart, now)
	if !ok {
		return Result[types.Sitzung]{Status: StatusRangeNotSatisfiable}, nil
	}

	page := NormalizePage(q.Page)
	perPage := NormalizePerPage(q.PerPage)
	items, total, err := tx.ListSitzung(ctx, store.SitzungFilter{
		Parlament:        q.Parlament,
		Wahlperiode:      q.Wahlperiode,
		Since:            since,
		Until:            until,
		GremiumNameFuzzy: q.GremiumNameFuzzy,
		VorgangApiID:     q.VorgangApiID,
		Offset:           (page - 1) * perPage,
		Limit:            perPage,
	})
	if err != nil {
		return Result[types.Sitzung]{}, err
	}

	status := ResultStatus(total, q.IfModifiedSince != nil)
	if status != StatusOK {
		return Result[types.Sitzung]{Status: status}, nil
	}
	env, err := BuildEnvelope(baseURL, total, page, perPage)
	if err != nil {
		return Result[types.Sitzung]{}, err
	}
	return Result[types.Sitzung]{Status: status, Items: items, Envelope: env}, nil
}
