// Package merge implements the merge executor (M) of spec.md section 4.2:
// field-level update with set-union for collections, recursive descent into
// sub-entities via internal/candidate, and provenance bookkeeping. It is the
// only package that drives both internal/candidate and internal/guard.
package merge

import (
	"context"
	"time"

	"github.com/ltzf/ltzfd/internal/candidate"
	"github.com/ltzf/ltzfd/internal/guard"
	"github.com/ltzf/ltzfd/internal/ltzferr"
	"github.com/ltzf/ltzfd/internal/store"
	"github.com/ltzf/ltzfd/internal/types"
)

// Notifier is the slice of the notification sink the merge executor needs:
// the guard's sonstig-unwrapped hook plus the ambiguous-match hook.
type Notifier interface {
	guard.Sink
	NotifyAmbiguousMatch(entity string, apiIDs []types.ApiID)
}

// Executor runs the ingest side of the merge tree: Vorgang -> Station ->
// Dokument, each level driven by internal/candidate.
type Executor struct {
	Sink             Notifier
	MaxProvenanceLog int
}

// New constructs an Executor. sink may be nil in tests that do not care
// about notification side effects.
func New(sink Notifier, maxProvenanceLog int) *Executor {
	return &Executor{Sink: sink, MaxProvenanceLog: maxProvenanceLog}
}

func (m *Executor) canon(raw, kind string, known map[string]struct{}, apiID types.ApiID) string {
	return guard.CanonicalEnumValue(raw, known, apiID, kind, m.Sink)
}

// IngestVorgang is the top-level entry point a collector push lands on: it
// resolves P's identity, then either inserts it wholesale or merges it into
// the matched stored row. An Ambiguous outcome notifies the sink and returns
// an *ltzferr.AmbiguousMatchError; the caller must roll back its transaction.
func (m *Executor) IngestVorgang(ctx context.Context, tx store.Tx, p *types.Vorgang, collectorKey, scraperID string, now time.Time) (id int64, created bool, err error) {
	p.Typ = types.Vorgangstyp(m.canon(string(p.Typ), "vorgangstyp", types.KnownVorgangstypen, p.ApiID))

	res, err := candidate.Vorgang(ctx, tx, p)
	if err != nil {
		return 0, false, err
	}
	switch res.Kind {
	case candidate.NoMatch:
		id, err = m.insertVorgangFresh(ctx, tx, p)
		if err != nil {
			return 0, false, err
		}
		created = true
	case candidate.ExactlyOne:
		id = res.ID
		if err := m.mergeVorgangInto(ctx, tx, id, p); err != nil {
			return 0, false, err
		}
	case candidate.Ambiguous:
		apiIDs := make([]types.ApiID, 0, len(res.IDs))
		for _, sid := range res.IDs {
			if v, err := tx.GetVorgang(ctx, sid); err == nil {
				apiIDs = append(apiIDs, v.ApiID)
			}
		}
		if m.Sink != nil {
			m.Sink.NotifyAmbiguousMatch("vorgang", apiIDs)
		}
		return 0, false, &ltzferr.AmbiguousMatchError{Entity: "vorgang", ApiIDs: apiIDStrings(apiIDs)}
	}
	if err := tx.TouchProvenance(ctx, store.EntityVorgang, id, collectorKey, scraperID, now, m.MaxProvenanceLog); err != nil {
		return 0, false, err
	}
	return id, created, nil
}

func apiIDStrings(ids []types.ApiID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func (m *Executor) insertVorgangFresh(ctx context.Context, tx store.Tx, p *types.Vorgang) (int64, error) {
	id, err := tx.InsertVorgang(ctx, p)
	if err != nil {
		return 0, err
	}
	for _, s := range p.Stationen {
		if _, err := m.insertStationFresh(ctx, tx, id, s); err != nil {
			return 0, err
		}
	}
	return id, nil
}

func (m *Executor) mergeVorgangInto(ctx context.Context, tx store.Tx, id int64, p *types.Vorgang) error {
	stored, err := tx.GetVorgang(ctx, id)
	if err != nil {
		return err
	}

	merged := &types.Vorgang{
		ID:                  id,
		ApiID:               stored.ApiID,
		Titel:               p.Titel,
		Kurztitel:           coalesceStr(p.Kurztitel, stored.Kurztitel),
		Wahlperiode:         p.Wahlperiode,
		Typ:                 p.Typ,
		Verfassungsaendernd: p.Verfassungsaendernd,
	}
	if err := tx.ReplaceVorgangScalarFields(ctx, id, merged); err != nil {
		return err
	}
	if err := tx.ReplaceVorgangLinks(ctx, id, unionStrings(stored.Links, p.Links)); err != nil {
		return err
	}
	if err := tx.ReplaceVorgangIds(ctx, id, unionVgIdents(stored.Ids, p.Ids)); err != nil {
		return err
	}
	if err := tx.ReplaceVorgangInitiatoren(ctx, id, unionAutoren(stored.Initiatoren, p.Initiatoren)); err != nil {
		return err
	}
	// Lobbyregister is non-mergeable: replaced wholesale from the incoming
	// payload, never sub-merged with the stored entries.
	if err := tx.ReplaceLobbyregister(ctx, id, p.Lobbyregister); err != nil {
		return err
	}

	for _, s := range p.Stationen {
		incomingHashes := candidate.EmbeddedHashes(s.Dokumente)
		res, err := candidate.Station(ctx, tx, id, s, incomingHashes)
		if err != nil {
			return err
		}
		switch res.Kind {
		case candidate.NoMatch:
			if _, err := m.insertStationFresh(ctx, tx, id, s); err != nil {
				return err
			}
		case candidate.ExactlyOne:
			if err := m.mergeStationInto(ctx, tx, res.ID, s); err != nil {
				return err
			}
		case candidate.Ambiguous:
			apiIDs := make([]types.ApiID, 0, len(res.IDs))
			for _, sid := range res.IDs {
				if st, err := tx.GetStation(ctx, sid); err == nil {
					apiIDs = append(apiIDs, st.ApiID)
				}
			}
			if m.Sink != nil {
				m.Sink.NotifyAmbiguousMatch("station", apiIDs)
			}
			return &ltzferr.AmbiguousMatchError{Entity: "station", ApiIDs: apiIDStrings(apiIDs)}
		}
	}
	return nil
}
