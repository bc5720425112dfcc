package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/ltzf/ltzfd/internal/ltzferr"
	"github.com/ltzf/ltzfd/internal/store"
	"github.com/ltzf/ltzfd/internal/types"
)

func (t *tx) buildTop(id int64) (*types.Top, error) {
	row, ok := t.working.top[id]
	if !ok {
		return nil, ltzferr.NotFoundf("top %d", id)
	}
	top := &types.Top{ID: row.id, Nummer: row.nummer, Titel: row.titel}
	for _, rel := range t.working.topsDok[id] {
		d, err := t.buildDokument(rel.childID)
		if err != nil {
			return nil, err
		}
		top.Dokumente = append(top.Dokumente, types.DokRef{Embedded: d})
	}
	ids, err := t.TopsLinkedVorgangIDs(context.Background(), id)
	if err != nil {
		return nil, err
	}
	top.VorgangIDs = ids
	return top, nil
}

func (t *tx) buildSitzung(id int64) (*types.Sitzung, error) {
	row, ok := t.working.sitzung[id]
	if !ok {
		return nil, ltzferr.NotFoundf("sitzung %d", id)
	}
	g, err := t.buildGremium(row.gremiumID)
	if err != nil {
		return nil, err
	}
	s := &types.Sitzung{
		ID:      row.id,
		ApiID:   row.apiID,
		Termin:  fromUnixNano(row.termin),
		Public:  row.public,
		Gremium: *g,
		Nummer:  row.nummer,
		Titel:   row.titel,
		Link:    row.link,
	}
	for _, l := range t.working.sitzungExperten[id] {
		s.Experten = append(s.Experten, l.value)
	}
	sort.Strings(s.Experten)
	for _, rel := range t.working.sitzungDok[id] {
		d, err := t.buildDokument(rel.dokumentID)
		if err != nil {
			return nil, err
		}
		s.Dokumente = append(s.Dokumente, types.DokRef{Embedded: d})
	}
	for tid, trow := range t.working.top {
		if trow.sitzungID != id {
			continue
		}
		top, err := t.buildTop(tid)
		if err != nil {
			return nil, err
		}
		s.Tops = append(s.Tops, *top)
	}
	sort.Slice(s.Tops, func(i, j int) bool { return s.Tops[i].Nummer < s.Tops[j].Nummer })
	return s, nil
}

func (t *tx) GetSitzungByApiID(_ context.Context, id types.ApiID) (*types.Sitzung, error) {
	for sid, row := range t.working.sitzung {
		if row.apiID == id {
			return t.buildSitzung(sid)
		}
	}
	return nil, ltzferr.NotFoundf("sitzung with api_id %s", id)
}

func (t *tx) GetSitzung(_ context.Context, id int64) (*types.Sitzung, error) {
	return t.buildSitzung(id)
}

func (t *tx) insertTop(parentSitzungID int64, top types.Top) (int64, error) {
	id := t.working.allocID()
	t.working.top[id] = &topRow{id: id, sitzungID: parentSitzungID, nummer: top.Nummer, titel: top.Titel}
	out := make([]relRow, 0, len(top.Dokumente))
	for _, ref := range top.Dokumente {
		did, err := t.resolveDokRef(context.Background(), ref)
		if err != nil {
			return 0, err
		}
		out = append(out, relRow{id: t.working.allocID(), parentID: id, childID: did})
	}
	t.working.topsDok[id] = out
	return id, nil
}

func (t *tx) InsertSitzung(ctx context.Context, s *types.Sitzung) (int64, error) {
	id := t.working.allocID()
	gid, err := t.UpsertGremium(ctx, s.Gremium)
	if err != nil {
		return 0, err
	}
	t.working.sitzung[id] = &sitzungRow{
		id:        id,
		apiID:     s.ApiID,
		termin:    toUnixNano(s.Termin),
		public:    s.Public,
		gremiumID: gid,
		nummer:    s.Nummer,
		titel:     s.Titel,
		link:      s.Link,
	}
	experten := make([]relLink, 0, len(s.Experten))
	for _, e := range s.Experten {
		experten = append(experten, relLink{id: t.working.allocID(), parentID: id, value: e})
	}
	t.working.sitzungExperten[id] = experten
	docs := make([]relStationDok, 0, len(s.Dokumente))
	for _, ref := range s.Dokumente {
		did, err := t.resolveDokRef(ctx, ref)
		if err != nil {
			return 0, err
		}
		docs = append(docs, relStationDok{id: t.working.allocID(), stationID: id, dokumentID: did})
	}
	t.working.sitzungDok[id] = docs
	for _, top := range s.Tops {
		if _, err := t.insertTop(id, top); err != nil {
			return 0, err
		}
	}
	return id, nil
}

func (t *tx) DeleteSitzung(_ context.Context, apiID types.ApiID) error {
	var id int64
	found := false
	for sid, row := range t.working.sitzung {
		if row.apiID == apiID {
			id, found = sid, true
			break
		}
	}
	if !found {
		return ltzferr.NotFoundf("sitzung with api_id %s", apiID)
	}
	for tid, trow := range t.working.top {
		if trow.sitzungID == id {
			delete(t.working.top, tid)
			delete(t.working.topsDok, tid)
		}
	}
	delete(t.working.sitzung, id)
	delete(t.working.sitzungDok, id)
	delete(t.working.sitzungExperten, id)
	delete(t.working.provenance, provenanceKey(store.EntitySitzung, id))
	return nil
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func (t *tx) SitzungenForCalendarDay(_ context.Context, parlament types.Parlament, datum time.Time) ([]types.Sitzung, error) {
	parlID, ok := enumIDByValue(t.working, store.FlavorParlament, string(parlament))
	if !ok {
		return nil, nil
	}
	var out []types.Sitzung
	for sid, row := range t.working.sitzung {
		g, ok := t.working.gremium[row.gremiumID]
		if !ok || g.parlamentID != parlID {
			continue
		}
		if !sameCalendarDay(fromUnixNano(row.termin), datum) {
			continue
		}
		s, err := t.buildSitzung(sid)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Termin.Before(out[j].Termin) })
	return out, nil
}

// ReplaceSitzungenForCalendarDay deletes every Sitzung of parlament on
// datum's calendar day and inserts sitzungen in their place, returning the
// new surrogate ids -- the bulk unit the Sitzung orchestration operation of
// spec.md section 4.4 works against.
func (t *tx) ReplaceSitzungenForCalendarDay(ctx context.Context, parlament types.Parlament, datum time.Time, sitzungen []types.Sitzung) ([]int64, error) {
	parlID, _ := upsertEnum(t.working, store.FlavorParlament, string(parlament))
	for sid, row := range t.working.sitzung {
		g, ok := t.working.gremium[row.gremiumID]
		if !ok || g.parlamentID != parlID || !sameCalendarDay(fromUnixNano(row.termin), datum) {
			continue
		}
		for tid, trow := range t.working.top {
			if trow.sitzungID == sid {
				delete(t.working.top, tid)
				delete(t.working.topsDok, tid)
			}
		}
		delete(t.working.sitzung, sid)
		delete(t.working.sitzungDok, sid)
		delete(t.working.sitzungExperten, sid)
	}
	out := make([]int64, 0, len(sitzungen))
	for _, s := range sitzungen {
		sCopy := s
		id, err := t.InsertSitzung(ctx, &sCopy)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func (t *tx) TopsLinkedVorgangIDs(_ context.Context, topID int64) ([]types.ApiID, error) {
	dokIDs := map[int64]struct{}{}
	for _, rel := range t.working.topsDok[topID] {
		dokIDs[rel.childID] = struct{}{}
	}
	vorgangIDs := map[int64]struct{}{}
	for _, rels := range t.working.stationDok {
		for _, rel := range rels {
			if _, ok := dokIDs[rel.dokumentID]; !ok {
				continue
			}
			if srow, ok := t.working.station[rel.stationID]; ok {
				vorgangIDs[srow.vorgangID] = struct{}{}
			}
		}
	}
	var out []types.ApiID
	for vid := range vorgangIDs {
		if row, ok := t.working.vorgang[vid]; ok {
			out = append(out, row.apiID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out, nil
}
