package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/ltzf/ltzfd/internal/ltzferr"
	"github.com/ltzf/ltzfd/internal/store"
	"github.com/ltzf/ltzfd/internal/types"
)

const dokumentCandidateWindow = 12 * time.Hour

func (t *tx) buildDokument(id int64) (*types.Dokument, error) {
	row, ok := t.working.dokument[id]
	if !ok {
		return nil, ltzferr.NotFoundf("dokument %d", id)
	}
	d := &types.Dokument{
		ID:              row.id,
		ApiID:           row.apiID,
		Typ:             types.Doktyp(t.working.enum[store.FlavorDoktyp][row.typID]),
		Titel:           row.titel,
		Volltext:        row.volltext,
		Link:            row.link,
		Hash:            row.hash,
		ZpReferenz:      fromUnixNano(row.zpReferenz),
		ZpModifiziert:   fromUnixNanoPtr(row.zpModifiziert),
		Drucksnr:        row.drucksnr,
		Kurztitel:       row.kurztitel,
		Vorwort:         row.vorwort,
		Zusammenfassung: row.zusammenfassung,
		ZpErstellt:      fromUnixNanoPtr(row.zpErstellt),
		Meinung:         row.meinung,
	}
	for _, rel := range t.working.dokSchlagwort[id] {
		d.Schlagworte = append(d.Schlagworte, t.working.enum[store.FlavorSchlagwort][rel.childID])
	}
	sort.Strings(d.Schlagworte)
	for _, rel := range t.working.dokAutor[id] {
		if a, ok := t.working.autor[rel.childID]; ok {
			d.Autoren = append(d.Autoren, *a)
		}
	}
	return d, nil
}

// FindDokumentCandidates implements spec.md's Dokument matching rule: hash
// equality, api_id equality, or (drucksnr, typ) equality with zp_referenz
// within +-12h.
func (t *tx) FindDokumentCandidates(_ context.Context, p types.Dokument) ([]int64, error) {
	typID, typOk := enumIDByValue(t.working, store.FlavorDoktyp, string(p.Typ))
	var out []int64
	seen := map[int64]struct{}{}
	add := func(id int64) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	for id, row := range t.working.dokument {
		if row.hash == p.Hash {
			add(id)
			continue
		}
		if row.apiID == p.ApiID {
			add(id)
			continue
		}
		if typOk && row.typID == typID && row.drucksnr != nil && p.Drucksnr != nil && *row.drucksnr == *p.Drucksnr {
			ref := fromUnixNano(row.zpReferenz)
			delta := ref.Sub(p.ZpReferenz)
			if delta < 0 {
				delta = -delta
			}
			if delta <= dokumentCandidateWindow {
				add(id)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (t *tx) GetDokument(_ context.Context, id int64) (*types.Dokument, error) {
	return t.buildDokument(id)
}

func (t *tx) GetDokumentByApiID(_ context.Context, id types.ApiID) (*types.Dokument, error) {
	for did, row := range t.working.dokument {
		if row.apiID == id {
			return t.buildDokument(did)
		}
	}
	return nil, ltzferr.NotFoundf("dokument with api_id %s", id)
}

func (t *tx) InsertDokument(ctx context.Context, d *types.Dokument) (int64, error) {
	id := t.working.allocID()
	typID, _ := upsertEnum(t.working, store.FlavorDoktyp, string(d.Typ))
	t.working.dokument[id] = &dokumentRow{
		id:              id,
		apiID:           d.ApiID,
		typID:           typID,
		titel:           d.Titel,
		volltext:        d.Volltext,
		link:            d.Link,
		hash:            d.Hash,
		zpReferenz:      toUnixNano(d.ZpReferenz),
		zpModifiziert:   toUnixNanoPtr(d.ZpModifiziert),
		drucksnr:        d.Drucksnr,
		kurztitel:       d.Kurztitel,
		vorwort:         d.Vorwort,
		zusammenfassung: d.Zusammenfassung,
		zpErstellt:      toUnixNanoPtr(d.ZpErstellt),
		meinung:         d.Meinung,
	}
	if err := t.ReplaceDokumentSchlagworte(ctx, id, d.Schlagworte); err != nil {
		return 0, err
	}
	if err := t.ReplaceDokumentAutoren(ctx, id, d.Autoren); err != nil {
		return 0, err
	}
	return id, nil
}

func (t *tx) ReplaceDokumentScalarFields(_ context.Context, id int64, d *types.Dokument) error {
	row, ok := t.working.dokument[id]
	if !ok {
		return ltzferr.NotFoundf("dokument %d", id)
	}
	typID, _ := upsertEnum(t.working, store.FlavorDoktyp, string(d.Typ))
	row.typID = typID
	row.titel = d.Titel
	row.volltext = d.Volltext
	row.link = d.Link
	row.hash = d.Hash
	row.zpReferenz = toUnixNano(d.ZpReferenz)
	row.zpModifiziert = toUnixNanoPtr(d.ZpModifiziert)
	row.drucksnr = d.Drucksnr
	row.kurztitel = d.Kurztitel
	row.vorwort = d.Vorwort
	row.zusammenfassung = d.Zusammenfassung
	row.zpErstellt = toUnixNanoPtr(d.ZpErstellt)
	row.meinung = d.Meinung
	return nil
}

func (t *tx) ReplaceDokumentSchlagworte(_ context.Context, id int64, words []string) error {
	norm := types.NormalizeSchlagworte(words)
	out := make([]relRow, 0, len(norm))
	for _, w := range norm {
		wid, _ := upsertEnum(t.working, store.FlavorSchlagwort, w)
		out = append(out, relRow{id: t.working.allocID(), parentID: id, childID: wid})
	}
	t.working.dokSchlagwort[id] = out
	return nil
}

func (t *tx) ReplaceDokumentAutoren(ctx context.Context, id int64, autoren []types.Autor) error {
	out := make([]relRow, 0, len(autoren))
	for _, a := range autoren {
		aid, err := t.UpsertAutor(ctx, a)
		if err != nil {
			return err
		}
		out = append(out, relRow{id: t.working.allocID(), parentID: id, childID: aid})
	}
	t.working.dokAutor[id] = out
	return nil
}
