package merge

import (
	"context"

	"github.com/ltzf/ltzfd/internal/candidate"
	"github.com/ltzf/ltzfd/internal/ltzferr"
	"github.com/ltzf/ltzfd/internal/store"
	"github.com/ltzf/ltzfd/internal/types"
)

// resolveDokRef runs the mixed embed/reference rule of spec.md section 4.2
// on a single element: a bare reference must already resolve (checked here
// so the failure surfaces before any write); an embedded Dokument runs
// candidate resolution and is merged into its match, turning the element
// into a plain reference to the now-up-to-date stored row -- the caller only
// ever ends up attaching a dokument id it already knows exists.
func (m *Executor) resolveDokRef(ctx context.Context, tx store.Tx, ref types.DokRef) (dokID int64, hash string, err error) {
	if ref.IsReference() {
		d, err := tx.GetDokumentByApiID(ctx, *ref.Ref)
		if err != nil {
			return 0, "", ltzferr.IncompleteDataf("dokument reference %s does not resolve", *ref.Ref)
		}
		return d.ID, d.Hash, nil
	}

	p := *ref.Embedded
	p.Typ = types.Doktyp(m.canon(string(p.Typ), "doktyp", types.KnownDoktypen, p.ApiID))
	p.Schlagworte = types.NormalizeSchlagworte(p.Schlagworte)

	res, err := candidate.Dokument(ctx, tx, p)
	if err != nil {
		return 0, "", err
	}
	switch res.Kind {
	case candidate.NoMatch:
		id, err := tx.InsertDokument(ctx, &p)
		if err != nil {
			return 0, "", err
		}
		return id, p.Hash, nil
	case candidate.ExactlyOne:
		if err := m.mergeDokumentInto(ctx, tx, res.ID, p); err != nil {
			return 0, "", err
		}
		return res.ID, p.Hash, nil
	default: // candidate.Ambiguous
		apiIDs := make([]types.ApiID, 0, len(res.IDs))
		for _, did := range res.IDs {
			if d, err := tx.GetDokument(ctx, did); err == nil {
				apiIDs = append(apiIDs, d.ApiID)
			}
		}
		if m.Sink != nil {
			m.Sink.NotifyAmbiguousMatch("dokument", apiIDs)
		}
		return 0, "", &ltzferr.AmbiguousMatchError{Entity: "dokument", ApiIDs: apiIDStrings(apiIDs)}
	}
}

func (m *Executor) mergeDokumentInto(ctx context.Context, tx store.Tx, id int64, p types.Dokument) error {
	stored, err := tx.GetDokument(ctx, id)
	if err != nil {
		return err
	}
	merged := &types.Dokument{
		ID:              id,
		ApiID:           stored.ApiID,
		Typ:             p.Typ,
		Titel:           p.Titel,
		Volltext:        coalesceStr(p.Volltext, stored.Volltext),
		Link:            p.Link,
		Hash:            p.Hash,
		ZpReferenz:      p.ZpReferenz,
		ZpModifiziert:   coalesceTime(p.ZpModifiziert, stored.ZpModifiziert),
		Drucksnr:        coalesceStr(p.Drucksnr, stored.Drucksnr),
		Kurztitel:       coalesceStr(p.Kurztitel, stored.Kurztitel),
		Vorwort:         coalesceStr(p.Vorwort, stored.Vorwort),
		Zusammenfassung: coalesceStr(p.Zusammenfassung, stored.Zusammenfassung),
		ZpErstellt:      coalesceTime(p.ZpErstellt, stored.ZpErstellt),
		Meinung:         coalesceInt(p.Meinung, stored.Meinung),
	}
	if err := tx.ReplaceDokumentScalarFields(ctx, id, merged); err != nil {
		return err
	}
	if err := tx.ReplaceDokumentSchlagworte(ctx, id, unionStrings(stored.Schlagworte, types.NormalizeSchlagworte(p.Schlagworte))); err != nil {
		return err
	}
	return tx.ReplaceDokumentAutoren(ctx, id, unionAutoren(stored.Autoren, p.Autoren))
}
