package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/ltzf/ltzfd/internal/ltzferr"
	"github.com/ltzf/ltzfd/internal/store"
	"github.com/ltzf/ltzfd/internal/store/conflictresolve"
	"github.com/ltzf/ltzfd/internal/types"
)

func enumIDByValue(s *state, flavor store.EnumFlavor, value string) (int64, bool) {
	for id, v := range s.enum[flavor] {
		if v == value {
			return id, true
		}
	}
	return 0, false
}

func upsertEnum(s *state, flavor store.EnumFlavor, value string) (id int64, created bool) {
	if id, ok := enumIDByValue(s, flavor, value); ok {
		return id, false
	}
	if s.enum[flavor] == nil {
		s.enum[flavor] = map[int64]string{}
	}
	id = s.allocID()
	s.enum[flavor][id] = value
	return id, true
}

func provenanceKey(kind store.EntityKind, id int64) string {
	return fmt.Sprintf("%s:%d", kind, id)
}

func (t *tx) EnumValues(_ context.Context, flavor store.EnumFlavor) ([]string, error) {
	values := t.working.enum[flavor]
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

func (t *tx) EnumIDByValue(_ context.Context, flavor store.EnumFlavor, value string) (int64, bool, error) {
	id, ok := enumIDByValue(t.working, flavor, value)
	return id, ok, nil
}

func (t *tx) EnumUpsert(_ context.Context, flavor store.EnumFlavor, value string) (int64, bool, error) {
	id, created := upsertEnum(t.working, flavor, value)
	return id, created, nil
}

func (t *tx) EnumDelete(_ context.Context, flavor store.EnumFlavor, ids []int64) error {
	values := t.working.enum[flavor]
	for _, id := range ids {
		delete(values, id)
	}
	return nil
}

// rewritePairs maps an old enum id to its replacement new id for a single
// EnumRewriteReferences call.
func rewritePairs(pairs []store.EnumPair) map[int64]int64 {
	m := make(map[int64]int64, len(pairs))
	for _, p := range pairs {
		m[p.Old] = p.New
	}
	return m
}

func mapOld(m map[int64]int64, old int64) (int64, bool) {
	n, ok := m[old]
	return n, ok
}

// rewriteAssociation runs the shared conflict-resolution pass of spec.md
// section 4.3 against a parent-keyed association table of relRow values and
// returns the surviving rows (with childID rewritten where pairs dictate).
func rewriteAssociation(rows map[int64][]relRow, pairs map[int64]int64) {
	for parentID, list := range rows {
		crRows := make([]conflictresolve.Row, 0, len(list))
		for _, r := range list {
			crRows = append(crRows, conflictresolve.Row{SurrogateID: r.id, IdentKey: fmt.Sprintf("%d", parentID), Col: r.childID})
		}
		toDelete := conflictresolve.Resolve(crRows, pairs)
		del := make(map[int64]struct{}, len(toDelete))
		for _, id := range toDelete {
			del[id] = struct{}{}
		}
		out := make([]relRow, 0, len(list))
		for _, r := range list {
			if _, gone := del[r.id]; gone {
				continue
			}
			if n, ok := mapOld(pairs, r.childID); ok {
				r.childID = n
			}
			out = append(out, r)
		}
		rows[parentID] = out
	}
}

func (t *tx) EnumRewriteReferences(_ context.Context, flavor store.EnumFlavor, pairsIn []store.EnumPair) error {
	if len(pairsIn) == 0 {
		return nil
	}
	pairs := rewritePairs(pairsIn)
	switch flavor {
	case store.FlavorSchlagwort:
		rewriteAssociation(t.working.stationSchlagwort, pairs)
		rewriteAssociation(t.working.dokSchlagwort, pairs)
	case store.FlavorVgIdentTyp:
		for vid, list := range t.working.vorgangIdent {
			crRows := make([]conflictresolve.Row, 0, len(list))
			for _, r := range list {
				crRows = append(crRows, conflictresolve.Row{SurrogateID: r.id, IdentKey: fmt.Sprintf("%d:%s", vid, r.identifikator), Col: r.typID})
			}
			del := map[int64]struct{}{}
			for _, id := range conflictresolve.Resolve(crRows, pairs) {
				del[id] = struct{}{}
			}
			out := make([]relVorgangIdent, 0, len(list))
			for _, r := range list {
				if _, gone := del[r.id]; gone {
					continue
				}
				if n, ok := mapOld(pairs, r.typID); ok {
					r.typID = n
				}
				out = append(out, r)
			}
			t.working.vorgangIdent[vid] = out
		}
	case store.FlavorVorgangstyp:
		for _, row := range t.working.vorgang {
			if n, ok := mapOld(pairs, row.typID); ok {
				row.typID = n
			}
		}
	case store.FlavorStationstyp:
		for _, row := range t.working.station {
			if n, ok := mapOld(pairs, row.typID); ok {
				row.typID = n
			}
		}
	case store.FlavorParlament:
		for _, row := range t.working.station {
			if n, ok := mapOld(pairs, row.parlamentID); ok {
				row.parlamentID = n
			}
		}
		for _, row := range t.working.gremium {
			if n, ok := mapOld(pairs, row.parlamentID); ok {
				row.parlamentID = n
			}
		}
	case store.FlavorDoktyp:
		for _, row := range t.working.dokument {
			if n, ok := mapOld(pairs, row.typID); ok {
				row.typID = n
			}
		}
	}
	// Deleting the old vocabulary rows is EnumDelete's job (spec.md section
	// 4.3 step 5), not this rewrite pass's.
	return nil
}

// --- Autor ---

func (t *tx) UpsertAutor(_ context.Context, a types.Autor) (int64, error) {
	key := a.Key()
	for id, row := range t.working.autor {
		if row.Key() == key {
			row.Lobbyregister = a.Lobbyregister
			return id, nil
		}
	}
	id := t.working.allocID()
	cp := a
	cp.ID = id
	t.working.autor[id] = &cp
	return id, nil
}

func (t *tx) GetAutor(_ context.Context, id int64) (*types.Autor, error) {
	row, ok := t.working.autor[id]
	if !ok {
		return nil, ltzferr.NotFoundf("autor %d", id)
	}
	cp := *row
	return &cp, nil
}

func (t *tx) ListAutoren(_ context.Context) ([]types.Autor, error) {
	out := make([]types.Autor, 0, len(t.working.autor))
	for _, row := range t.working.autor {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		ki, kj := out[i].Key(), out[j].Key()
		if ki.Organisation != kj.Organisation {
			return ki.Organisation < kj.Organisation
		}
		if ki.Person != kj.Person {
			return ki.Person < kj.Person
		}
		return ki.Fachgebiet < kj.Fachgebiet
	})
	return out, nil
}

func (t *tx) AutorIDByKey(_ context.Context, key types.AutorKey) (int64, bool, error) {
	for id, row := range t.working.autor {
		if row.Key() == key {
			return id, true, nil
		}
	}
	return 0, false, nil
}

func (t *tx) AutorRewriteReferences(_ context.Context, pairsIn []store.EnumPair) error {
	if len(pairsIn) == 0 {
		return nil
	}
	pairs := rewritePairs(pairsIn)
	rewriteAssociation(t.working.vorgangInit, pairs)
	rewriteAssociation(t.working.dokAutor, pairs)
	return nil
}

func (t *tx) AutorDelete(_ context.Context, ids []int64) error {
	for _, id := range ids {
		delete(t.working.autor, id)
	}
	return nil
}

// --- Gremium ---

func (t *tx) UpsertGremium(_ context.Context, g types.Gremium) (int64, error) {
	typID, _ := upsertEnum(t.working, store.FlavorParlament, string(g.Parlament))
	key := g.Key()
	for id, row := range t.working.gremium {
		if row.name == key.Name && row.parlamentID == typID && row.wahlperiode == key.Wahlperiode {
			row.link = g.Link
			return id, nil
		}
	}
	id := t.working.allocID()
	t.working.gremium[id] = &gremiumRowFull{
		id:          id,
		name:        g.Name,
		parlamentID: typID,
		wahlperiode: g.Wahlperiode,
		link:        g.Link,
	}
	return id, nil
}

func (t *tx) buildGremium(id int64) (*types.Gremium, error) {
	row, ok := t.working.gremium[id]
	if !ok {
		return nil, ltzferr.NotFoundf("gremium %d", id)
	}
	return &types.Gremium{
		ID:          row.id,
		Name:        row.name,
		Parlament:   types.Parlament(t.working.enum[store.FlavorParlament][row.parlamentID]),
		Wahlperiode: row.wahlperiode,
		Link:        row.link,
	}, nil
}

func (t *tx) GetGremium(_ context.Context, id int64) (*types.Gremium, error) {
	return t.buildGremium(id)
}

func (t *tx) ListGremien(_ context.Context) ([]types.Gremium, error) {
	out := make([]types.Gremium, 0, len(t.working.gremium))
	for id := range t.working.gremium {
		g, err := t.buildGremium(id)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Wahlperiode < out[j].Wahlperiode
	})
	return out, nil
}

func (t *tx) GremiumIDByKey(_ context.Context, key types.GremiumKey) (int64, bool, error) {
	typID, ok := enumIDByValue(t.working, store.FlavorParlament, string(key.Parlament))
	if !ok {
		return 0, false, nil
	}
	for id, row := range t.working.gremium {
		if row.name == key.Name && row.parlamentID == typID && row.wahlperiode == key.Wahlperiode {
			return id, true, nil
		}
	}
	return 0, false, nil
}

func (t *tx) GremiumRewriteReferences(_ context.Context, pairsIn []store.EnumPair) error {
	if len(pairsIn) == 0 {
		return nil
	}
	pairs := rewritePairs(pairsIn)
	for _, row := range t.working.station {
		if row.gremiumID == nil {
			continue
		}
		if n, ok := mapOld(pairs, *row.gremiumID); ok {
			row.gremiumID = &n
		}
	}
	for _, row := range t.working.sitzung {
		if n, ok := mapOld(pairs, row.gremiumID); ok {
			row.gremiumID = n
		}
	}
	return nil
}

func (t *tx) GremiumDelete(_ context.Context, ids []int64) error {
	for _, id := range ids {
		delete(t.working.gremium, id)
	}
	return nil
}
