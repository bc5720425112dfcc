package memstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/ltzf/ltzfd/internal/store"
	"github.com/ltzf/ltzfd/internal/types"
)

// trigramSimilarity is a coarse, dependency-free stand-in for the Dolt
// pg_trgm-style fuzzy filter spec.md section 3 recovers for Sitzung
// retrieval: the fraction of query trigrams present in the candidate,
// matching the notion "good enough to rank, never exact enough to identify."
func trigramSimilarity(query, candidate string) float64 {
	q, c := strings.ToLower(query), strings.ToLower(candidate)
	grams := func(s string) map[string]struct{} {
		s = "  " + s + "  "
		out := map[string]struct{}{}
		for i := 0; i+3 <= len(s); i++ {
			out[s[i:i+3]] = struct{}{}
		}
		return out
	}
	qg, cg := grams(q), grams(c)
	if len(qg) == 0 {
		return 0
	}
	hits := 0
	for g := range qg {
		if _, ok := cg[g]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(qg))
}

const trigramThreshold = 0.3

// vorgangLastModified is the most recent zp_modifiziert (falling back to
// zp_start) across a Vorgang's Stationen, the timestamp its Since/Until
// filters compare against.
func vorgangLastModified(v *types.Vorgang) time.Time {
	var latest time.Time
	for _, s := range v.Stationen {
		candidate := s.ZpStart
		if s.ZpModifiziert != nil {
			candidate = *s.ZpModifiziert
		}
		if candidate.After(latest) {
			latest = candidate
		}
	}
	return latest
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

func (t *tx) ListVorgang(_ context.Context, f store.VorgangFilter) ([]types.Vorgang, int, error) {
	var matched []types.Vorgang
	for vid, row := range t.working.vorgang {
		if f.Wahlperiode != nil && row.wahlperiode != *f.Wahlperiode {
			continue
		}
		if f.Typ != nil && t.working.enum[store.FlavorVorgangstyp][row.typID] != string(*f.Typ) {
			continue
		}
		v, err := t.buildVorgang(vid)
		if err != nil {
			return nil, 0, err
		}
		if f.Parlament != nil {
			found := false
			for _, s := range v.Stationen {
				if s.Parlament == *f.Parlament {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if f.InitiatorPerson != nil || f.InitiatorOrganisation != nil || f.InitiatorFachgebiet != nil {
			found := false
			for _, a := range v.Initiatoren {
				if f.InitiatorPerson != nil && (a.Person == nil || *a.Person != *f.InitiatorPerson) {
					continue
				}
				if f.InitiatorOrganisation != nil && a.Organisation != *f.InitiatorOrganisation {
					continue
				}
				if f.InitiatorFachgebiet != nil && (a.Fachgebiet == nil || *a.Fachgebiet != *f.InitiatorFachgebiet) {
					continue
				}
				found = true
				break
			}
			if !found {
				continue
			}
		}
		latest := vorgangLastModified(v)
		if f.Since != nil && latest.Before(*f.Since) {
			continue
		}
		if f.Until != nil && latest.After(*f.Until) {
			continue
		}
		matched = append(matched, *v)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ApiID.String() < matched[j].ApiID.String() })
	total := len(matched)
	return paginate(matched, f.Offset, f.Limit), total, nil
}

func (t *tx) ListSitzung(_ context.Context, f store.SitzungFilter) ([]types.Sitzung, int, error) {
	var matched []types.Sitzung
	for sid, row := range t.working.sitzung {
		g, ok := t.working.gremium[row.gremiumID]
		if !ok {
			continue
		}
		if f.Parlament != nil && t.working.enum[store.FlavorParlament][g.parlamentID] != string(*f.Parlament) {
			continue
		}
		if f.Wahlperiode != nil && g.wahlperiode != *f.Wahlperiode {
			continue
		}
		termin := fromUnixNano(row.termin)
		if f.Since != nil && termin.Before(*f.Since) {
			continue
		}
		if f.Until != nil && termin.After(*f.Until) {
			continue
		}
		if f.GremiumNameFuzzy != nil && trigramSimilarity(*f.GremiumNameFuzzy, g.name) < trigramThreshold {
			continue
		}
		s, err := t.buildSitzung(sid)
		if err != nil {
			return nil, 0, err
		}
		if f.VorgangApiID != nil {
			found := false
			for _, top := range s.Tops {
				for _, vgid := range top.VorgangIDs {
					if vgid == *f.VorgangApiID {
						found = true
						break
					}
				}
				if found {
					break
				}
			}
			if !found {
				continue
			}
		}
		matched = append(matched, *s)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Termin.Before(matched[j].Termin) })
	total := len(matched)
	return paginate(matched, f.Offset, f.Limit), total, nil
}
