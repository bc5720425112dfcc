package types

// VgIdent is one element of a Vorgang's `ids` set: an externally assigned
// identifier tagged with its scheme.
type VgIdent struct {
	Typ           VgIdentTyp `json:"typ"`
	Identifikator string     `json:"id"`
}

// Key is the composite key identifying an entry for dedup/union purposes:
// two VgIdents are the same element iff both Typ and Identifikator match.
func (v VgIdent) Key() VgIdent { return VgIdent{Typ: v.Typ, Identifikator: v.Identifikator} }

// Lobbyregistereintrag is a Vorgang-owned lobby-register entry, replaced
// wholesale (no sub-merge) whenever the owning Vorgang is merged.
type Lobbyregistereintrag struct {
	ID           int64   `json:"-"`
	Organisation string  `json:"organisation"`
	Interne      *string `json:"interne_id,omitempty"`
	Drucksnr     []string `json:"drucksnummern,omitempty"`
}

// Vorgang is a legislative process: the aggregate root owning Stationen,
// Stellungnahmen (via Station) and Lobbyregister entries.
type Vorgang struct {
	ID                int64       `json:"-"`
	ApiID             ApiID       `json:"api_id"`
	Titel             string      `json:"titel"`
	Kurztitel         *string     `json:"kurztitel,omitempty"`
	Wahlperiode       int         `json:"wahlperiode"`
	Typ               Vorgangstyp `json:"typ"`
	Verfassungsaendernd bool      `json:"verfassungsaendernd"`
	Initiatoren       []Autor     `json:"initiatoren,omitempty"`
	Stationen         []Station   `json:"stationen,omitempty"`
	Ids               []VgIdent   `json:"ids,omitempty"`
	Links             []string    `json:"links,omitempty"`
	Lobbyregister     []Lobbyregistereintrag `json:"lobbyregister,omitempty"`
}

// IdentifierSet returns the (typ, value) pairs of this Vorgang as a set,
// keyed on the full pair so that two identifiers with equal string value but
// different typ are never conflated.
func (v Vorgang) IdentifierSet() map[VgIdent]struct{} {
	out := make(map[VgIdent]struct{}, len(v.Ids))
	for _, id := range v.Ids {
		out[id.Key()] = struct{}{}
	}
	return out
}
