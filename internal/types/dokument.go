package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Dokument is a referenced document: bill text, opinion, transcript. Hash is
// the identity of last resort — two documents with equal hash are the same
// document regardless of every other field.
type Dokument struct {
	ID               int64      `json:"-"`
	ApiID            ApiID      `json:"api_id"`
	Typ              Doktyp     `json:"typ"`
	Titel            string     `json:"titel"`
	Volltext         *string    `json:"volltext,omitempty"`
	Link             string     `json:"link"`
	Hash             string     `json:"hash"`
	ZpReferenz       time.Time  `json:"zp_referenz"`
	ZpModifiziert    *time.Time `json:"zp_modifiziert,omitempty"`
	Drucksnr         *string    `json:"drucksnr,omitempty"`
	Kurztitel        *string    `json:"kurztitel,omitempty"`
	Vorwort          *string    `json:"vorwort,omitempty"`
	Zusammenfassung  *string    `json:"zusammenfassung,omitempty"`
	ZpErstellt       *time.Time `json:"zp_erstellt,omitempty"`
	// Meinung is the 1-5 stance scalar, set only when this Dokument plays the
	// role of a Stellungnahme attached to a Station.
	Meinung    *int     `json:"meinung,omitempty"`
	Schlagworte []string `json:"schlagworte,omitempty"`
	Autoren     []Autor  `json:"autoren,omitempty"`
}

// DokRef is the mixed embed/reference variant used by Station.dokumente,
// Station.stellungnahmen, Sitzung.dokumente and Top.dokumente: an element is
// either an embedded Dokument or a bare reference to an existing api_id.
type DokRef struct {
	Embedded *Dokument
	Ref      *ApiID
}

// IsReference reports whether this element is a bare api_id reference rather
// than an embedded document body.
func (d DokRef) IsReference() bool {
	return d.Ref != nil && d.Embedded == nil
}

// MarshalJSON renders a reference as its bare api_id string and an embedded
// element as the Dokument object, matching the wire shape the mixed
// embed/reference sub-collections (Station.dokumente/stellungnahmen,
// Sitzung.dokumente, Top.dokumente) use.
func (d DokRef) MarshalJSON() ([]byte, error) {
	if d.IsReference() {
		return json.Marshal(*d.Ref)
	}
	if d.Embedded != nil {
		return json.Marshal(d.Embedded)
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts either a quoted UUID string (a reference) or a JSON
// object (an embedded Dokument), sniffing on the leading byte.
func (d *DokRef) UnmarshalJSON(data []byte) error {
	trimmed := trimLeadingSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("dokref: empty value")
	}
	if trimmed[0] == '"' {
		var id ApiID
		if err := json.Unmarshal(data, &id); err != nil {
			return fmt.Errorf("dokref: decode reference: %w", err)
		}
		*d = DokRef{Ref: &id}
		return nil
	}
	var doc Dokument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("dokref: decode embedded document: %w", err)
	}
	*d = DokRef{Embedded: &doc}
	return nil
}

func trimLeadingSpace(data []byte) []byte {
	i := 0
	for i < len(data) {
		switch data[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return data[i:]
		}
	}
	return data[i:]
}
