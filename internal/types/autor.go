package types

// Autor is an author/initiator. Composite-unique on (Person, Organisation,
// Fachgebiet); Lobbyregister is carried along but not part of the key.
type Autor struct {
	ID             int64   `json:"-"`
	Person         *string `json:"person,omitempty"`
	Organisation   string  `json:"organisation"`
	Fachgebiet     *string `json:"fachgebiet,omitempty"`
	Lobbyregister  *string `json:"lobbyregister,omitempty"`
}

// Key returns the composite-unique tuple used for matching and dedup.
func (a Autor) Key() AutorKey {
	return AutorKey{
		Person:       deref(a.Person),
		Organisation: a.Organisation,
		Fachgebiet:   deref(a.Fachgebiet),
	}
}

// AutorKey is the composite uniqueness key for Autor rows.
type AutorKey struct {
	Person       string
	Organisation string
	Fachgebiet   string
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
