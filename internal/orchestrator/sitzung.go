package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/ltzf/ltzfd/internal/ltzferr"
	"github.com/ltzf/ltzfd/internal/store"
	"github.com/ltzf/ltzfd/internal/types"
)

// PutSitzung implements spec.md section 4.4's sid_put contract. Unlike
// Vorgang, inserting a fresh Sitzung tree needs no candidate resolution --
// Sitzung is replaced wholesale, so the store's own InsertSitzung (which
// resolves embedded/referenced Dokuments itself) is the whole insert path.
func (o *Executor) PutSitzung(ctx context.Context, tx store.Tx, p *types.Sitzung, collectorKey, scraperID string, now time.Time, maxProvenanceLog int) (Outcome, error) {
	stored, err := tx.GetSitzungByApiID(ctx, p.ApiID)
	switch {
	case errors.Is(err, ltzferr.ErrNotFound):
		id, err := tx.InsertSitzung(ctx, p)
		if err != nil {
			return NotModified, err
		}
		if err := tx.TouchProvenance(ctx, store.EntitySitzung, id, collectorKey, scraperID, now, maxProvenanceLog); err != nil {
			return NotModified, err
		}
		return Created, nil
	case err != nil:
		return NotModified, err
	}

	if sitzungEqual(p, stored) {
		if err := tx.TouchProvenance(ctx, store.EntitySitzung, stored.ID, collectorKey, scraperID, now, maxProvenanceLog); err != nil {
			return NotModified, err
		}
		return NotModified, nil
	}

	if err := tx.DeleteSitzung(ctx, p.ApiID); err != nil {
		return NotModified, err
	}
	id, err := tx.InsertSitzung(ctx, p)
	if err != nil {
		return NotModified, err
	}
	if err := tx.TouchProvenance(ctx, store.EntitySitzung, id, collectorKey, scraperID, now, maxProvenanceLog); err != nil {
		return NotModified, err
	}
	return Created, nil
}

// PutKalender replaces every Sitzung of parlament on datum's calendar day
// atomically. Unlike PutVorgang/PutSitzung it carries no NotModified
// short-circuit -- spec.md section 6 describes the calendar route as a bulk
// replace, not a compare-by-id operation. Authorization (collector scope may
// only target dates >= yesterday) is enforced by the caller, not here.
func (o *Executor) PutKalender(ctx context.Context, tx store.Tx, parlament types.Parlament, datum time.Time, sitzungen []types.Sitzung, collectorKey, scraperID string, now time.Time, maxProvenanceLog int) ([]int64, error) {
	ids, err := tx.ReplaceSitzungenForCalendarDay(ctx, parlament, datum, sitzungen)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if err := tx.TouchProvenance(ctx, store.EntitySitzung, id, collectorKey, scraperID, now, maxProvenanceLog); err != nil {
			return nil, err
		}
	}
	return ids, nil
}
