package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/ltzf/ltzfd/internal/auth"
	"github.com/ltzf/ltzfd/internal/enumrepl"
	"github.com/ltzf/ltzfd/internal/ltzferr"
	"github.com/ltzf/ltzfd/internal/store"
)

// enumFlavors is the whitelist of {name} values the generic
// /enumeration/{name} route accepts, per spec.md section 6.
var enumFlavors = map[string]store.EnumFlavor{
	"schlagworte":     store.FlavorSchlagwort,
	"stationstypen":   store.FlavorStationstyp,
	"parlamente":      store.FlavorParlament,
	"vorgangstypen":   store.FlavorVorgangstyp,
	"dokumententypen": store.FlavorDoktyp,
	"vgidtypen":       store.FlavorVgIdentTyp,
}

type vocabularyRequest struct {
	Objects   []string                                   `json:"objects"`
	Replacing []replacingDirectiveJSON[string] `json:"replacing"`
}

// handleEnumeration serves GET/PUT /enumeration/{name} and
// DELETE /enumeration/{name}/{item}.
func (s *Server) handleEnumeration(w http.ResponseWriter, r *http.Request) {
	segs := pathTail(r, resourcePrefix(r, "enumeration"))
	if len(segs) == 0 {
		http.NotFound(w, r)
		return
	}
	flavor, ok := enumFlavors[segs[0]]
	if !ok {
		s.writeError(w, r, ltzferr.Validationf("unknown enumeration %q", segs[0]))
		return
	}

	switch {
	case r.Method == http.MethodGet && len(segs) == 1:
		s.listEnumeration(w, r, flavor)
	case r.Method == http.MethodPut && len(segs) == 1:
		s.withClaims(func(w http.ResponseWriter, r *http.Request) { s.putEnumeration(w, r, flavor) })(w, r)
	case r.Method == http.MethodDelete && len(segs) == 2:
		item := segs[1]
		s.withClaims(func(w http.ResponseWriter, r *http.Request) { s.deleteEnumerationItem(w, r, flavor, item) })(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) listEnumeration(w http.ResponseWriter, r *http.Request, flavor store.EnumFlavor) {
	tx, err := s.store.BeginTx(r.Context())
	if err != nil {
		s.writeError(w, r, ltzferr.Wrap("begin tx", err))
		return
	}
	defer tx.Rollback()

	values, err := tx.EnumValues(r.Context(), flavor)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, values)
}

func (s *Server) putEnumeration(w http.ResponseWriter, r *http.Request, flavor store.EnumFlavor) {
	claims := claimsFrom(r)
	if err := auth.RequireAdminOrKeyAdder(claims); err != nil {
		s.writeError(w, r, err)
		return
	}

	var body vocabularyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, r, ltzferr.Validationf("decode body: %v", err))
		return
	}

	req := enumrepl.Request{
		Objects:   body.Objects,
		Replacing: make([]enumrepl.ReplacingDirective[string], len(body.Replacing)),
	}
	for i, rd := range body.Replacing {
		req.Replacing[i] = enumrepl.ReplacingDirective[string]{ReplacedBy: rd.ReplacedBy, Values: rd.Values}
	}

	tx, err := s.store.BeginTx(r.Context())
	if err != nil {
		s.writeError(w, r, ltzferr.Wrap("begin tx", err))
		return
	}

	outcome, err := enumrepl.ReplaceVocabulary(r.Context(), tx, flavor, req, s.sink)
	if err != nil {
		_ = tx.Rollback()
		s.writeError(w, r, err)
		return
	}
	if err := tx.Commit(); err != nil {
		s.writeError(w, r, ltzferr.Wrap("commit", err))
		return
	}

	if outcome == enumrepl.NotModified {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusCreated, body.Objects)
}

func (s *Server) deleteEnumerationItem(w http.ResponseWriter, r *http.Request, flavor store.EnumFlavor, item string) {
	claims := claimsFrom(r)
	if err := auth.RequireAdminOrKeyAdder(claims); err != nil {
		s.writeError(w, r, err)
		return
	}

	tx, err := s.store.BeginTx(r.Context())
	if err != nil {
		s.writeError(w, r, ltzferr.Wrap("begin tx", err))
		return
	}

	id, found, err := tx.EnumIDByValue(r.Context(), flavor, item)
	if err != nil {
		_ = tx.Rollback()
		s.writeError(w, r, err)
		return
	}
	if !found {
		_ = tx.Rollback()
		s.writeError(w, r, ltzferr.NotFoundf("enumeration %s value %q", flavor, item))
		return
	}
	if err := tx.EnumDelete(r.Context(), flavor, []int64{id}); err != nil {
		_ = tx.Rollback()
		s.writeError(w, r, err)
		return
	}
	if err := tx.Commit(); err != nil {
		s.writeError(w, r, ltzferr.Wrap("commit", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
