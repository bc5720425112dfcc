package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/ltzf/ltzfd/internal/auth"
	"github.com/ltzf/ltzfd/internal/enumrepl"
	"github.com/ltzf/ltzfd/internal/ltzferr"
	"github.com/ltzf/ltzfd/internal/types"
)

// autorenRequest is the PUT /autoren wire shape: full Autor bodies for the
// objects plus replacing directives addressed by index into Objects rather
// than a repeated key, matching spec.md section 4.3's {replaced_by, values}
// shape generically applied to the Autor composite key.
type autorenRequest struct {
	Objects   []types.Autor                        `json:"objects"`
	Replacing []replacingDirectiveJSON[types.AutorKey] `json:"replacing"`
}

type replacingDirectiveJSON[V any] struct {
	ReplacedBy int `json:"replaced_by"`
	Values     []V `json:"values"`
}

func (s *Server) handleAutoren(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listAutoren(w, r)
	case http.MethodPut:
		s.withClaims(s.putAutoren)(w, r)
	case http.MethodDelete:
		s.withClaims(s.deleteAutoren)(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) listAutoren(w http.ResponseWriter, r *http.Request) {
	tx, err := s.store.BeginTx(r.Context())
	if err != nil {
		s.writeError(w, r, ltzferr.Wrap("begin tx", err))
		return
	}
	defer tx.Rollback()

	autoren, err := tx.ListAutoren(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, autoren)
}

func (s *Server) putAutoren(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	if err := auth.RequireAdminOrKeyAdder(claims); err != nil {
		s.writeError(w, r, err)
		return
	}

	var body autorenRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, r, ltzferr.Validationf("decode body: %v", err))
		return
	}

	req := enumrepl.AutorRequest{
		Objects:   body.Objects,
		Replacing: make([]enumrepl.ReplacingDirective[types.AutorKey], len(body.Replacing)),
	}
	for i, rd := range body.Replacing {
		req.Replacing[i] = enumrepl.ReplacingDirective[types.AutorKey]{ReplacedBy: rd.ReplacedBy, Values: rd.Values}
	}

	tx, err := s.store.BeginTx(r.Context())
	if err != nil {
		s.writeError(w, r, ltzferr.Wrap("begin tx", err))
		return
	}

	outcome, err := enumrepl.ReplaceAutoren(r.Context(), tx, req, s.sink)
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

// deleteAutoren removes vocabulary entries addressed by their composite
// key, supplied as query parameters (?organisation=&person=&fachgebiet=).
// It looks the key up and deletes the row directly in its own transaction;
// the replacing protocol of the enum replacement engine is not involved.
func (s *Server) deleteAutoren(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	if err := auth.RequireAdminOrKeyAdder(claims); err != nil {
		s.writeError(w, r, err)
		return
	}

	key := types.AutorKey{
		Person:       r.URL.Query().Get("person"),
		Organisation: r.URL.Query().Get("organisation"),
		Fachgebiet:   r.URL.Query().Get("fachgebiet"),
	}
	if key.Organisation == "" {
		s.writeError(w, r, ltzferr.Validationf("organisation query parameter is required"))
		return
	}

	tx, err := s.store.BeginTx(r.Context())
	if err != nil {
		s.writeError(w, r, ltzferr.Wrap("begin tx", err))
		return
	}

	id, found, err := tx.AutorIDByKey(r.Context(), key)
	if err != nil {
		_ = tx.Rollback()
		s.writeError(w, r, err)
		return
	}
	if !found {
		_ = tx.Rollback()
		s.writeError(w, r, ltzferr.NotFoundf("autor %+v", key))
		return
	}
	if err := tx.AutorDelete(r.Context(), []int64{id}); err != nil {
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
