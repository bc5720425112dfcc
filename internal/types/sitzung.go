package types

import "time"

// Top is a single agenda item ("Tagesordnungspunkt") of a Sitzung.
type Top struct {
	ID        int64     `json:"-"`
	Nummer    int       `json:"nummer"`
	Titel     string    `json:"titel"`
	Dokumente []DokRef  `json:"dokumente,omitempty"`
	// VorgangIDs is derived, not stored: the Vorgangs whose Stations
	// reference any document appearing in this Top's document set. Computed
	// by the store when a Top is read, never persisted directly on the Top row.
	VorgangIDs []ApiID `json:"vorgang_id,omitempty"`
}

// Sitzung is a meeting (plenary or committee session).
type Sitzung struct {
	ID       int64     `json:"-"`
	ApiID    ApiID     `json:"api_id"`
	Termin   time.Time `json:"termin"`
	Public   bool      `json:"public"`
	Gremium  Gremium   `json:"gremium"`
	Nummer   int       `json:"nummer"`
	Titel    *string   `json:"titel,omitempty"`
	Link     *string   `json:"link,omitempty"`
	Tops     []Top     `json:"tops,omitempty"`
	Dokumente []DokRef `json:"dokumente,omitempty"`
	Experten  []string `json:"experten,omitempty"`
}
