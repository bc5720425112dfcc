package memstore

import (
	"context"
	"sort"

	"github.com/ltzf/ltzfd/internal/ltzferr"
	"github.com/ltzf/ltzfd/internal/store"
	"github.com/ltzf/ltzfd/internal/types"
)

func (t *tx) buildVorgang(id int64) (*types.Vorgang, error) {
	row, ok := t.working.vorgang[id]
	if !ok {
		return nil, ltzferr.NotFoundf("vorgang %d", id)
	}
	v := &types.Vorgang{
		ID:                  row.id,
		ApiID:               row.apiID,
		Titel:               row.titel,
		Kurztitel:           row.kurztitel,
		Wahlperiode:         row.wahlperiode,
		Typ:                 types.Vorgangstyp(t.working.enum[store.FlavorVorgangstyp][row.typID]),
		Verfassungsaendernd: row.verfassungsaendernd,
	}
	for _, l := range t.working.vorgangLinks[id] {
		v.Links = append(v.Links, l.value)
	}
	sort.Strings(v.Links)
	for _, ident := range t.working.vorgangIdent[id] {
		v.Ids = append(v.Ids, types.VgIdent{
			Typ:           types.VgIdentTyp(t.working.enum[store.FlavorVgIdentTyp][ident.typID]),
			Identifikator: ident.identifikator,
		})
	}
	for _, rel := range t.working.vorgangInit[id] {
		if a, ok := t.working.autor[rel.childID]; ok {
			v.Initiatoren = append(v.Initiatoren, *a)
		}
	}
	for _, lob := range t.working.lobby[id] {
		v.Lobbyregister = append(v.Lobbyregister, types.Lobbyregistereintrag{
			ID:           lob.id,
			Organisation: lob.organisation,
			Interne:      lob.interne,
			Drucksnr:     append([]string(nil), lob.drucksnr...),
		})
	}
	for sid, srow := range t.working.station {
		if srow.vorgangID == id {
			st, err := t.buildStation(sid)
			if err != nil {
				return nil, err
			}
			v.Stationen = append(v.Stationen, *st)
		}
	}
	sort.Slice(v.Stationen, func(i, j int) bool { return v.Stationen[i].ZpStart.Before(v.Stationen[j].ZpStart) })
	return v, nil
}

func (t *tx) GetVorgangByApiID(_ context.Context, id types.ApiID) (*types.Vorgang, error) {
	for vid, row := range t.working.vorgang {
		if row.apiID == id {
			return t.buildVorgang(vid)
		}
	}
	return nil, ltzferr.NotFoundf("vorgang with api_id %s", id)
}

func (t *tx) GetVorgang(_ context.Context, id int64) (*types.Vorgang, error) {
	return t.buildVorgang(id)
}

func (t *tx) FindVorgangBySharedIdent(_ context.Context, wahlperiode int, typ types.Vorgangstyp, ids []types.VgIdent) ([]int64, error) {
	wanted := make(map[types.VgIdent]struct{}, len(ids))
	for _, id := range ids {
		wanted[id.Key()] = struct{}{}
	}
	typID, ok := enumIDByValue(t.working, store.FlavorVorgangstyp, string(typ))
	if !ok {
		return nil, nil
	}
	var out []int64
	for vid, row := range t.working.vorgang {
		if row.wahlperiode != wahlperiode || row.typID != typID {
			continue
		}
		for _, ident := range t.working.vorgangIdent[vid] {
			typVal := t.working.enum[store.FlavorVgIdentTyp][ident.typID]
			key := types.VgIdent{Typ: types.VgIdentTyp(typVal), Identifikator: ident.identifikator}
			if _, ok := wanted[key]; ok {
				out = append(out, vid)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (t *tx) InsertVorgang(ctx context.Context, v *types.Vorgang) (int64, error) {
	id := t.working.allocID()
	typID, _ := upsertEnum(t.working, store.FlavorVorgangstyp, string(v.Typ))
	t.working.vorgang[id] = &vorgangRow{
		id:                  id,
		apiID:               v.ApiID,
		titel:               v.Titel,
		kurztitel:           v.Kurztitel,
		wahlperiode:         v.Wahlperiode,
		typID:               typID,
		verfassungsaendernd: v.Verfassungsaendernd,
	}
	if err := t.ReplaceVorgangLinks(ctx, id, v.Links); err != nil {
		return 0, err
	}
	if err := t.ReplaceVorgangIds(ctx, id, v.Ids); err != nil {
		return 0, err
	}
	if err := t.ReplaceVorgangInitiatoren(ctx, id, v.Initiatoren); err != nil {
		return 0, err
	}
	if err := t.ReplaceLobbyregister(ctx, id, v.Lobbyregister); err != nil {
		return 0, err
	}
	return id, nil
}

func (t *tx) ReplaceVorgangScalarFields(_ context.Context, id int64, v *types.Vorgang) error {
	row, ok := t.working.vorgang[id]
	if !ok {
		return ltzferr.NotFoundf("vorgang %d", id)
	}
	row.titel = v.Titel
	row.kurztitel = v.Kurztitel
	row.wahlperiode = v.Wahlperiode
	typID, _ := upsertEnum(t.working, store.FlavorVorgangstyp, string(v.Typ))
	row.typID = typID
	row.verfassungsaendernd = v.Verfassungsaendernd
	return nil
}

func (t *tx) ReplaceVorgangLinks(_ context.Context, id int64, links []string) error {
	sorted := append([]string(nil), links...)
	sort.Strings(sorted)
	out := make([]relLink, 0, len(sorted))
	for _, l := range sorted {
		out = append(out, relLink{id: t.working.allocID(), parentID: id, value: l})
	}
	t.working.vorgangLinks[id] = out
	return nil
}

func (t *tx) ReplaceVorgangIds(_ context.Context, id int64, ids []types.VgIdent) error {
	out := make([]relVorgangIdent, 0, len(ids))
	for _, vi := range ids {
		typID, _ := upsertEnum(t.working, store.FlavorVgIdentTyp, string(vi.Typ))
		out = append(out, relVorgangIdent{id: t.working.allocID(), vorgangID: id, typID: typID, identifikator: vi.Identifikator})
	}
	t.working.vorgangIdent[id] = out
	return nil
}

func (t *tx) ReplaceVorgangInitiatoren(ctx context.Context, id int64, autoren []types.Autor) error {
	out := make([]relRow, 0, len(autoren))
	for _, a := range autoren {
		aid, err := t.UpsertAutor(ctx, a)
		if err != nil {
			return err
		}
		out = append(out, relRow{id: t.working.allocID(), parentID: id, childID: aid})
	}
	t.working.vorgangInit[id] = out
	return nil
}

func (t *tx) ReplaceLobbyregister(_ context.Context, vorgangID int64, entries []types.Lobbyregistereintrag) error {
	out := make([]lobbyRow, 0, len(entries))
	for _, e := range entries {
		out = append(out, lobbyRow{
			id:           t.working.allocID(),
			vorgangID:    vorgangID,
			organisation: e.Organisation,
			interne:      e.Interne,
			drucksnr:     append([]string(nil), e.Drucksnr...),
		})
	}
	t.working.lobby[vorgangID] = out
	return nil
}

func (t *tx) DeleteVorgang(_ context.Context, apiID types.ApiID) error {
	var id int64
	found := false
	for vid, row := range t.working.vorgang {
		if row.apiID == apiID {
			id, found = vid, true
			break
		}
	}
	if !found {
		return ltzferr.NotFoundf("vorgang with api_id %s", apiID)
	}
	// Cascade: every station owned by this vorgang, and everything owned by
	// those stations, is destroyed. Shared rows (autor, gremium, dokument
	// referenced elsewhere) are left untouched.
	for sid, srow := range t.working.station {
		if srow.vorgangID == id {
			delete(t.working.station, sid)
			delete(t.working.stationLinks, sid)
			delete(t.working.stationSchlagwort, sid)
			delete(t.working.stationDok, sid)
		}
	}
	delete(t.working.vorgang, id)
	delete(t.working.vorgangLinks, id)
	delete(t.working.vorgangIdent, id)
	delete(t.working.vorgangInit, id)
	delete(t.working.lobby, id)
	delete(t.working.provenance, provenanceKey(store.EntityVorgang, id))
	return nil
}
