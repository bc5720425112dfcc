package merge

import (
	"context"
	"log/slog"

	"github.com/ltzf/ltzfd/internal/store"
	"github.com/ltzf/ltzfd/internal/types"
)

func (m *Executor) canonStation(p *types.Station) {
	p.Typ = types.Stationstyp(m.canon(string(p.Typ), "stationstyp", types.KnownStationstypen, p.ApiID))
	p.Parlament = types.Parlament(m.canon(string(p.Parlament), "parlament", types.KnownParlamente, p.ApiID))
	if p.Trojanergefahr != nil {
		clamped, wasClamped := types.ClampTrojanergefahr(*p.Trojanergefahr)
		if wasClamped {
			slog.Warn("trojanergefahr clamped to range", "api_id", p.ApiID, "raw", *p.Trojanergefahr, "clamped", clamped)
		}
		p.Trojanergefahr = &clamped
	}
	p.Schlagworte = types.NormalizeSchlagworte(p.Schlagworte)
}

// attachDokRef resolves ref (dedup-or-insert at the Dokument level) and
// attaches the result to stationID, skipping the attach if a document of the
// same hash is already linked in that role -- the "ON CONFLICT DO NOTHING"
// half of the union rule applied to an association rather than a scalar set.
func (m *Executor) attachDokRef(ctx context.Context, tx store.Tx, stationID int64, ref types.DokRef, stellungnahme bool) error {
	dokID, hash, err := m.resolveDokRef(ctx, tx, ref)
	if err != nil {
		return err
	}
	existing, err := tx.StationDokumentHashes(ctx, stationID, stellungnahme)
	if err != nil {
		return err
	}
	for _, h := range existing {
		if h == hash {
			return nil
		}
	}
	return tx.AttachStationDokument(ctx, stationID, dokID, stellungnahme)
}

func (m *Executor) insertStationFresh(ctx context.Context, tx store.Tx, vorgangID int64, s types.Station) (int64, error) {
	m.canonStation(&s)
	id, err := tx.InsertStation(ctx, vorgangID, &s)
	if err != nil {
		return 0, err
	}
	for _, ref := range s.Dokumente {
		if err := m.attachDokRef(ctx, tx, id, ref, false); err != nil {
			return 0, err
		}
	}
	for _, ref := range s.Stellungnahmen {
		if err := m.attachDokRef(ctx, tx, id, ref, true); err != nil {
			return 0, err
		}
	}
	return id, nil
}

func (m *Executor) mergeStationInto(ctx context.Context, tx store.Tx, id int64, p types.Station) error {
	m.canonStation(&p)
	stored, err := tx.GetStation(ctx, id)
	if err != nil {
		return err
	}

	merged := &types.Station{
		ID:             id,
		ApiID:          stored.ApiID,
		Typ:            p.Typ,
		ZpStart:        p.ZpStart,
		ZpModifiziert:  coalesceTime(p.ZpModifiziert, stored.ZpModifiziert),
		Titel:          coalesceStr(p.Titel, stored.Titel),
		Link:           coalesceStr(p.Link, stored.Link),
		GremiumFederf:  coalesceBool(p.GremiumFederf, stored.GremiumFederf),
		Trojanergefahr: coalesceInt(p.Trojanergefahr, stored.Trojanergefahr),
		Parlament:      p.Parlament,
		Gremium:        p.Gremium,
	}
	if merged.Gremium == nil {
		merged.Gremium = stored.Gremium
	}
	if err := tx.ReplaceStationScalarFields(ctx, id, merged); err != nil {
		return err
	}
	if err := tx.ReplaceStationLinks(ctx, id, unionStrings(stored.AdditionalLinks, p.AdditionalLinks)); err != nil {
		return err
	}
	if err := tx.ReplaceStationSchlagworte(ctx, id, unionStrings(stored.Schlagworte, p.Schlagworte)); err != nil {
		return err
	}
	for _, ref := range p.Dokumente {
		if err := m.attachDokRef(ctx, tx, id, ref, false); err != nil {
			return err
		}
	}
	for _, ref := range p.Stellungnahmen {
		if err := m.attachDokRef(ctx, tx, id, ref, true); err != nil {
			return err
		}
	}
	return nil
}
