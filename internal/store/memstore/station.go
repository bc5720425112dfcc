package memstore

import (
	"context"
	"sort"

	"github.com/ltzf/ltzfd/internal/ltzferr"
	"github.com/ltzf/ltzfd/internal/store"
	"github.com/ltzf/ltzfd/internal/types"
)

func (t *tx) buildStation(id int64) (*types.Station, error) {
	row, ok := t.working.station[id]
	if !ok {
		return nil, ltzferr.NotFoundf("station %d", id)
	}
	s := &types.Station{
		ID:             row.id,
		ApiID:          row.apiID,
		Typ:            types.Stationstyp(t.working.enum[store.FlavorStationstyp][row.typID]),
		ZpStart:        fromUnixNano(row.zpStart),
		ZpModifiziert:  fromUnixNanoPtr(row.zpModifiziert),
		Titel:          row.titel,
		Link:           row.link,
		GremiumFederf:  row.gremiumFederf,
		Trojanergefahr: row.trojanergefahr,
		Parlament:      types.Parlament(t.working.enum[store.FlavorParlament][row.parlamentID]),
	}
	if row.gremiumID != nil {
		g, err := t.buildGremium(*row.gremiumID)
		if err != nil {
			return nil, err
		}
		s.Gremium = g
	}
	for _, l := range t.working.stationLinks[id] {
		s.AdditionalLinks = append(s.AdditionalLinks, l.value)
	}
	sort.Strings(s.AdditionalLinks)
	for _, rel := range t.working.stationSchlagwort[id] {
		s.Schlagworte = append(s.Schlagworte, t.working.enum[store.FlavorSchlagwort][rel.childID])
	}
	sort.Strings(s.Schlagworte)
	for _, rel := range t.working.stationDok[id] {
		d, err := t.buildDokument(rel.dokumentID)
		if err != nil {
			return nil, err
		}
		ref := types.DokRef{Embedded: d}
		if rel.stellungnahme {
			s.Stellungnahmen = append(s.Stellungnahmen, ref)
		} else {
			s.Dokumente = append(s.Dokumente, ref)
		}
	}
	return s, nil
}

func (t *tx) StationsByVorgang(_ context.Context, vorgangID int64) ([]types.Station, error) {
	var out []types.Station
	for sid, row := range t.working.station {
		if row.vorgangID != vorgangID {
			continue
		}
		s, err := t.buildStation(sid)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ZpStart.Before(out[j].ZpStart) })
	return out, nil
}

// FindStationCandidates applies the matching rule of spec.md section 4.1:
// same vorgang, same typ, compatible gremium/parlament/wahlperiode (when the
// incoming Station names a gremium at all) and at least one shared Dokument
// hash with incomingHashes.
func (t *tx) FindStationCandidates(_ context.Context, vorgangID int64, p types.Station, incomingHashes []string) ([]int64, error) {
	typID, ok := enumIDByValue(t.working, store.FlavorStationstyp, string(p.Typ))
	if !ok {
		return nil, nil
	}
	hashWanted := make(map[string]struct{}, len(incomingHashes))
	for _, h := range incomingHashes {
		hashWanted[h] = struct{}{}
	}
	var out []int64
	for sid, row := range t.working.station {
		if row.vorgangID != vorgangID || row.typID != typID {
			continue
		}
		if p.Gremium != nil {
			if row.gremiumID == nil {
				continue
			}
			g, err := t.buildGremium(*row.gremiumID)
			if err != nil {
				return nil, err
			}
			if g.Key() != p.Gremium.Key() {
				continue
			}
		}
		matched := false
		for _, rel := range t.working.stationDok[sid] {
			if d, ok := t.working.dokument[rel.dokumentID]; ok {
				if _, want := hashWanted[d.hash]; want {
					matched = true
					break
				}
			}
		}
		if !matched {
			continue
		}
		out = append(out, sid)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (t *tx) GetStation(_ context.Context, id int64) (*types.Station, error) {
	return t.buildStation(id)
}

func (t *tx) GetStationByApiID(_ context.Context, id types.ApiID) (*types.Station, error) {
	for sid, row := range t.working.station {
		if row.apiID == id {
			return t.buildStation(sid)
		}
	}
	return nil, ltzferr.NotFoundf("station with api_id %s", id)
}

func (t *tx) InsertStation(ctx context.Context, vorgangID int64, s *types.Station) (int64, error) {
	id := t.working.allocID()
	typID, _ := upsertEnum(t.working, store.FlavorStationstyp, string(s.Typ))
	parlID, _ := upsertEnum(t.working, store.FlavorParlament, string(s.Parlament))
	row := &stationRowFull{
		id:             id,
		apiID:          s.ApiID,
		vorgangID:      vorgangID,
		typID:          typID,
		zpStart:        toUnixNano(s.ZpStart),
		zpModifiziert:  toUnixNanoPtr(s.ZpModifiziert),
		titel:          s.Titel,
		link:           s.Link,
		gremiumFederf:  s.GremiumFederf,
		trojanergefahr: s.Trojanergefahr,
		parlamentID:    parlID,
	}
	if s.Gremium != nil {
		gid, err := t.UpsertGremium(ctx, *s.Gremium)
		if err != nil {
			return 0, err
		}
		row.gremiumID = &gid
	}
	t.working.station[id] = row
	if err := t.ReplaceStationLinks(ctx, id, s.AdditionalLinks); err != nil {
		return 0, err
	}
	if err := t.ReplaceStationSchlagworte(ctx, id, s.Schlagworte); err != nil {
		return 0, err
	}
	// Dokumente/Stellungnahmen are intentionally not attached here: a Station
	// reached through the merge tree needs document-level candidate
	// resolution (internal/merge) before a dokument row is chosen or
	// created, so the merge executor attaches them itself via
	// AttachStationDokument once that resolution is done.
	return id, nil
}

// resolveDokRef either inserts the embedded Dokument or looks up the
// referenced one by api_id, failing with incomplete data if the reference
// cannot be resolved to a known Dokument.
func (t *tx) resolveDokRef(ctx context.Context, ref types.DokRef) (int64, error) {
	if ref.IsReference() {
		d, err := t.GetDokumentByApiID(ctx, *ref.Ref)
		if err != nil {
			return 0, ltzferr.IncompleteDataf("dokument reference %s does not resolve", *ref.Ref)
		}
		return d.ID, nil
	}
	return t.InsertDokument(ctx, ref.Embedded)
}

func (t *tx) ReplaceStationScalarFields(_ context.Context, id int64, s *types.Station) error {
	row, ok := t.working.station[id]
	if !ok {
		return ltzferr.NotFoundf("station %d", id)
	}
	typID, _ := upsertEnum(t.working, store.FlavorStationstyp, string(s.Typ))
	parlID, _ := upsertEnum(t.working, store.FlavorParlament, string(s.Parlament))
	row.typID = typID
	row.parlamentID = parlID
	row.zpStart = toUnixNano(s.ZpStart)
	row.zpModifiziert = toUnixNanoPtr(s.ZpModifiziert)
	row.titel = s.Titel
	row.link = s.Link
	row.gremiumFederf = s.GremiumFederf
	row.trojanergefahr = s.Trojanergefahr
	if s.Gremium != nil {
		gid, err := t.UpsertGremium(context.Background(), *s.Gremium)
		if err != nil {
			return err
		}
		row.gremiumID = &gid
	} else {
		row.gremiumID = nil
	}
	return nil
}

func (t *tx) ReplaceStationLinks(_ context.Context, id int64, links []string) error {
	sorted := append([]string(nil), links...)
	sort.Strings(sorted)
	out := make([]relLink, 0, len(sorted))
	for _, l := range sorted {
		out = append(out, relLink{id: t.working.allocID(), parentID: id, value: l})
	}
	t.working.stationLinks[id] = out
	return nil
}

func (t *tx) ReplaceStationSchlagworte(_ context.Context, id int64, words []string) error {
	norm := types.NormalizeSchlagworte(words)
	out := make([]relRow, 0, len(norm))
	for _, w := range norm {
		wid, _ := upsertEnum(t.working, store.FlavorSchlagwort, w)
		out = append(out, relRow{id: t.working.allocID(), parentID: id, childID: wid})
	}
	t.working.stationSchlagwort[id] = out
	return nil
}

func (t *tx) StationDokumentHashes(_ context.Context, stationID int64, stellungnahmen bool) ([]string, error) {
	var out []string
	for _, rel := range t.working.stationDok[stationID] {
		if rel.stellungnahme != stellungnahmen {
			continue
		}
		if d, ok := t.working.dokument[rel.dokumentID]; ok {
			out = append(out, d.hash)
		}
	}
	return out, nil
}

func (t *tx) AttachStationDokument(_ context.Context, stationID, dokID int64, asStellungnahme bool) error {
	t.working.stationDok[stationID] = append(t.working.stationDok[stationID], relStationDok{
		id:            t.working.allocID(),
		stationID:     stationID,
		dokumentID:    dokID,
		stellungnahme: asStellungnahme,
	})
	return nil
}

func (t *tx) DeleteStation(_ context.Context, id int64) error {
	if _, ok := t.working.station[id]; !ok {
		return ltzferr.NotFoundf("station %d", id)
	}
	delete(t.working.station, id)
	delete(t.working.stationLinks, id)
	delete(t.working.stationSchlagwort, id)
	delete(t.working.stationDok, id)
	delete(t.working.provenance, provenanceKey(store.EntityStation, id))
	return nil
}
