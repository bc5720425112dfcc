package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/ltzf/ltzfd/internal/ltzferr"
	"github.com/ltzf/ltzfd/internal/merge"
	"github.com/ltzf/ltzfd/internal/store"
	"github.com/ltzf/ltzfd/internal/types"
)

// Executor runs the object orchestrator (O): PUT-by-id on Vorgang and
// Sitzung. It delegates the actual insertion of a fresh tree to the merge
// executor's no-candidate-match path, since "insert this whole payload" is
// exactly what an Ingest call does against an empty slate.
type Executor struct {
	Merge *merge.Executor
}

func New(m *merge.Executor) *Executor {
	return &Executor{Merge: m}
}

// PutVorgang implements spec.md section 4.4's vorgang_id_put contract.
func (o *Executor) PutVorgang(ctx context.Context, tx store.Tx, p *types.Vorgang, collectorKey, scraperID string, now time.Time) (Outcome, error) {
	stored, err := tx.GetVorgangByApiID(ctx, p.ApiID)
	switch {
	case errors.Is(err, ltzferr.ErrNotFound):
		if _, _, err := o.Merge.IngestVorgang(ctx, tx, p, collectorKey, scraperID, now); err != nil {
			return NotModified, err
		}
		return Created, nil
	case err != nil:
		return NotModified, err
	}

	if vorgangEqual(p, stored) {
		if err := tx.TouchProvenance(ctx, store.EntityVorgang, stored.ID, collectorKey, scraperID, now, o.Merge.MaxProvenanceLog); err != nil {
			return NotModified, err
		}
		return NotModified, nil
	}

	if err := tx.DeleteVorgang(ctx, p.ApiID); err != nil {
		return NotModified, err
	}
	if _, _, err := o.Merge.IngestVorgang(ctx, tx, p, collectorKey, scraperID, now); err != nil {
		return NotModified, err
	}
	return Created, nil
}
