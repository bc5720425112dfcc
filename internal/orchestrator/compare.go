package orchestrator

import (
	"sort"
	"strings"

	"github.com/ltzf/ltzfd/internal/types"
)

// silentCanon mirrors the identity guard's canonicalization rule for the
// purpose of structural comparison only: it never reports the sentinel to
// the notification sink. The one notifying pass happens once, on the actual
// insert path, so PUT-unchanged requests never emit a spurious event.
func silentCanon(raw string, known map[string]struct{}) string {
	canon := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := known[canon]; ok {
		return canon
	}
	return types.Sonstig
}

func sortedStrings(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

func strSliceEqual(a, b []string) bool {
	a, b = sortedStrings(a), sortedStrings(b)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func dokRefKey(d types.DokRef) types.ApiID {
	switch {
	case d.Ref != nil:
		return *d.Ref
	case d.Embedded != nil:
		return d.Embedded.ApiID
	default:
		return types.ApiID{}
	}
}

// dokRefSliceEqual implements the "embedded Dokuments replaced by api_id
// string" canonicalization rule: every DokRef reduces to the api_id it
// resolves to before comparison, full document bodies are never compared
// field by field here.
func dokRefSliceEqual(a, b []types.DokRef) bool {
	if len(a) != len(b) {
		return false
	}
	ka := make([]types.ApiID, len(a))
	for i, d := range a {
		ka[i] = dokRefKey(d)
	}
	kb := make([]types.ApiID, len(b))
	for i, d := range b {
		kb[i] = dokRefKey(d)
	}
	sort.Slice(ka, func(i, j int) bool { return ka[i].String() < ka[j].String() })
	sort.Slice(kb, func(i, j int) bool { return kb[i].String() < kb[j].String() })
	for i := range ka {
		if ka[i] != kb[i] {
			return false
		}
	}
	return true
}

func autorSliceEqual(a, b []types.Autor) bool {
	if len(a) != len(b) {
		return false
	}
	ka := make([]types.AutorKey, len(a))
	for i, x := range a {
		ka[i] = x.Key()
	}
	kb := make([]types.AutorKey, len(b))
	for i, x := range b {
		kb[i] = x.Key()
	}
	sort.Slice(ka, func(i, j int) bool { return autorKeyLess(ka[i], ka[j]) })
	sort.Slice(kb, func(i, j int) bool { return autorKeyLess(kb[i], kb[j]) })
	for i := range ka {
		if ka[i] != kb[i] {
			return false
		}
	}
	return true
}

func autorKeyLess(a, b types.AutorKey) bool {
	if a.Organisation != b.Organisation {
		return a.Organisation < b.Organisation
	}
	if a.Person != b.Person {
		return a.Person < b.Person
	}
	return a.Fachgebiet < b.Fachgebiet
}

func vgIdentSliceEqual(a, b []types.VgIdent) bool {
	if len(a) != len(b) {
		return false
	}
	ka := append([]types.VgIdent(nil), a...)
	kb := append([]types.VgIdent(nil), b...)
	less := func(s []types.VgIdent) func(i, j int) bool {
		return func(i, j int) bool {
			if s[i].Typ != s[j].Typ {
				return s[i].Typ < s[j].Typ
			}
			return s[i].Identifikator < s[j].Identifikator
		}
	}
	sort.Slice(ka, less(ka))
	sort.Slice(kb, less(kb))
	for i := range ka {
		if ka[i].Key() != kb[i].Key() {
			return false
		}
	}
	return true
}

func lobbyKey(l types.Lobbyregistereintrag) string {
	interne := ""
	if l.Interne != nil {
		interne = *l.Interne
	}
	drucks := sortedStrings(l.Drucksnr)
	key := l.Organisation + "\x00" + interne
	for _, d := range drucks {
		key += "\x00" + d
	}
	return key
}

func lobbySliceEqual(a, b []types.Lobbyregistereintrag) bool {
	if len(a) != len(b) {
		return false
	}
	ka := make([]string, len(a))
	for i, l := range a {
		ka[i] = lobbyKey(l)
	}
	kb := make([]string, len(b))
	for i, l := range b {
		kb[i] = lobbyKey(l)
	}
	sort.Strings(ka)
	sort.Strings(kb)
	for i := range ka {
		if ka[i] != kb[i] {
			return false
		}
	}
	return true
}

func gremiumEqual(a, b *types.Gremium) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	ca := silentCanon(string(a.Parlament), types.KnownParlamente)
	cb := silentCanon(string(b.Parlament), types.KnownParlamente)
	return a.Name == b.Name && ca == cb && a.Wahlperiode == b.Wahlperiode && strPtrEq(a.Link, b.Link)
}

func stationEqual(a, b types.Station) bool {
	if a.ApiID != b.ApiID {
		return false
	}
	if silentCanon(string(a.Typ), types.KnownStationstypen) != silentCanon(string(b.Typ), types.KnownStationstypen) {
		return false
	}
	if !roundMillis(a.ZpStart).Equal(roundMillis(b.ZpStart)) {
		return false
	}
	if !timePtrEq(a.ZpModifiziert, b.ZpModifiziert) {
		return false
	}
	if !strPtrEq(a.Titel, b.Titel) || !strPtrEq(a.Link, b.Link) || !boolPtrEq(a.GremiumFederf, b.GremiumFederf) {
		return false
	}
	if !clampedTrojanergefahrEqual(a.Trojanergefahr, b.Trojanergefahr) {
		return false
	}
	if silentCanon(string(a.Parlament), types.KnownParlamente) != silentCanon(string(b.Parlament), types.KnownParlamente) {
		return false
	}
	if !gremiumEqual(a.Gremium, b.Gremium) {
		return false
	}
	if !dokRefSliceEqual(a.Dokumente, b.Dokumente) || !dokRefSliceEqual(a.Stellungnahmen, b.Stellungnahmen) {
		return false
	}
	return strSliceEqual(a.AdditionalLinks, b.AdditionalLinks) && strSliceEqual(a.Schlagworte, b.Schlagworte)
}

func clampedTrojanergefahrEqual(a, b *int) bool {
	ca, cb := a, b
	if a != nil {
		v, _ := types.ClampTrojanergefahr(*a)
		ca = &v
	}
	if b != nil {
		v, _ := types.ClampTrojanergefahr(*b)
		cb = &v
	}
	return intPtrEq(ca, cb)
}

func stationSliceEqual(a, b []types.Station) bool {
	if len(a) != len(b) {
		return false
	}
	sa := append([]types.Station(nil), a...)
	sb := append([]types.Station(nil), b...)
	sort.Slice(sa, func(i, j int) bool { return sa[i].ApiID.String() < sa[j].ApiID.String() })
	sort.Slice(sb, func(i, j int) bool { return sb[i].ApiID.String() < sb[j].ApiID.String() })
	for i := range sa {
		if !stationEqual(sa[i], sb[i]) {
			return false
		}
	}
	return true
}

// vorgangEqual implements the canonicalization-then-structural-compare rule
// of spec.md section 4.4 for the whole Vorgang aggregate.
func vorgangEqual(p, stored *types.Vorgang) bool {
	if p.Titel != stored.Titel {
		return false
	}
	if !strPtrEq(p.Kurztitel, stored.Kurztitel) {
		return false
	}
	if p.Wahlperiode != stored.Wahlperiode {
		return false
	}
	if silentCanon(string(p.Typ), types.KnownVorgangstypen) != silentCanon(string(stored.Typ), types.KnownVorgangstypen) {
		return false
	}
	if p.Verfassungsaendernd != stored.Verfassungsaendernd {
		return false
	}
	if !autorSliceEqual(p.Initiatoren, stored.Initiatoren) {
		return false
	}
	if !vgIdentSliceEqual(p.Ids, stored.Ids) {
		return false
	}
	if !strSliceEqual(p.Links, stored.Links) {
		return false
	}
	if !lobbySliceEqual(p.Lobbyregister, stored.Lobbyregister) {
		return false
	}
	return stationSliceEqual(p.Stationen, stored.Stationen)
}

func topEqual(a, b types.Top) bool {
	return a.Nummer == b.Nummer && a.Titel == b.Titel && dokRefSliceEqual(a.Dokumente, b.Dokumente)
}

func topSliceEqual(a, b []types.Top) bool {
	if len(a) != len(b) {
		return false
	}
	sa := append([]types.Top(nil), a...)
	sb := append([]types.Top(nil), b...)
	sort.Slice(sa, func(i, j int) bool { return sa[i].Nummer < sa[j].Nummer })
	sort.Slice(sb, func(i, j int) bool { return sb[i].Nummer < sb[j].Nummer })
	for i := range sa {
		if !topEqual(sa[i], sb[i]) {
			return false
		}
	}
	return true
}

// sitzungEqual implements the same canonicalization rule for Sitzung,
// including the explicit reduce-to-api_id treatment of embedded Dokuments.
func sitzungEqual(p, stored *types.Sitzung) bool {
	if !roundMillis(p.Termin).Equal(roundMillis(stored.Termin)) {
		return false
	}
	if p.Public != stored.Public {
		return false
	}
	if !gremiumEqual(&p.Gremium, &stored.Gremium) {
		return false
	}
	if p.Nummer != stored.Nummer {
		return false
	}
	if !strPtrEq(p.Titel, stored.Titel) || !strPtrEq(p.Link, stored.Link) {
		return false
	}
	if !dokRefSliceEqual(p.Dokumente, stored.Dokumente) {
		return false
	}
	if !strSliceEqual(p.Experten, stored.Experten) {
		return false
	}
	return topSliceEqual(p.Tops, stored.Tops)
}
