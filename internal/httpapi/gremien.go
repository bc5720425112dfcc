package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ltzf/ltzfd/internal/auth"
	"github.com/ltzf/ltzfd/internal/enumrepl"
	"github.com/ltzf/ltzfd/internal/ltzferr"
	"github.com/ltzf/ltzfd/internal/types"
)

type gremienRequest struct {
	Objects   []types.Gremium                             `json:"objects"`
	Replacing []replacingDirectiveJSON[types.GremiumKey] `json:"replacing"`
}

func (s *Server) handleGremien(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listGremien(w, r)
	case http.MethodPut:
		s.withClaims(s.putGremien)(w, r)
	case http.MethodDelete:
		s.withClaims(s.deleteGremien)(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) listGremien(w http.ResponseWriter, r *http.Request) {
	tx, err := s.store.BeginTx(r.Context())
	if err != nil {
		s.writeError(w, r, ltzferr.Wrap("begin tx", err))
		return
	}
	defer tx.Rollback()

	gremien, err := tx.ListGremien(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, gremien)
}

func (s *Server) putGremien(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	if err := auth.RequireAdminOrKeyAdder(claims); err != nil {
		s.writeError(w, r, err)
		return
	}

	var body gremienRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, r, ltzferr.Validationf("decode body: %v", err))
		return
	}

	req := enumrepl.GremiumRequest{
		Objects:   body.Objects,
		Replacing: make([]enumrepl.ReplacingDirective[types.GremiumKey], len(body.Replacing)),
	}
	for i, rd := range body.Replacing {
		req.Replacing[i] = enumrepl.ReplacingDirective[types.GremiumKey]{ReplacedBy: rd.ReplacedBy, Values: rd.Values}
	}

	tx, err := s.store.BeginTx(r.Context())
	if err != nil {
		s.writeError(w, r, ltzferr.Wrap("begin tx", err))
		return
	}

	outcome, err := enumrepl.ReplaceGremien(r.Context(), tx, req, s.sink)
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

func (s *Server) deleteGremien(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	if err := auth.RequireAdminOrKeyAdder(claims); err != nil {
		s.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	wp, err := strconv.Atoi(q.Get("wahlperiode"))
	if err != nil {
		s.writeError(w, r, ltzferr.Validationf("wahlperiode query parameter is required"))
		return
	}
	key := types.GremiumKey{
		Name:        q.Get("name"),
		Parlament:   types.Parlament(q.Get("parlament")),
		Wahlperiode: wp,
	}
	if key.Name == "" || key.Parlament == "" {
		s.writeError(w, r, ltzferr.Validationf("name and parlament query parameters are required"))
		return
	}

	tx, err := s.store.BeginTx(r.Context())
	if err != nil {
		s.writeError(w, r, ltzferr.Wrap("begin tx", err))
		return
	}

	id, found, err := tx.GremiumIDByKey(r.Context(), key)
	if err != nil {
		_ = tx.Rollback()
		s.writeError(w, r, err)
		return
	}
	if !found {
		_ = tx.Rollback()
		s.writeError(w, r, ltzferr.NotFoundf("gremium %+v", key))
		return
	}
	if err := tx.GremiumDelete(r.Context(), []int64{id}); err != nil {
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
