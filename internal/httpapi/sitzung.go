package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/ltzf/ltzfd/internal/auth"
	"github.com/ltzf/ltzfd/internal/ltzferr"
	"github.com/ltzf/ltzfd/internal/orchestrator"
	"github.com/ltzf/ltzfd/internal/retrieval"
	"github.com/ltzf/ltzfd/internal/types"
)

func (s *Server) handleSitzungCollection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.listSitzung(w, r)
}

func (s *Server) listSitzung(w http.ResponseWriter, r *http.Request) {
	since, err := queryTime(r, "since")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	until, err := queryTime(r, "until")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ims, err := ifModifiedSince(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	vgID, err := queryApiID(r, "vorgang_id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	page, perPage := queryPage(r)

	var parl *types.Parlament
	if v := queryStr(r, "parlament"); v != nil {
		p := types.Parlament(*v)
		parl = &p
	}

	q := retrieval.SitzungQuery{
		Parlament:        parl,
		Wahlperiode:      queryInt(r, "wahlperiode"),
		Since:            since,
		Until:            until,
		IfModifiedSince:  ims,
		DatePart:         queryDatePart(r),
		GremiumNameFuzzy: queryStr(r, "gremium"),
		VorgangApiID:     vgID,
		Page:             page,
		PerPage:          perPage,
	}

	tx, err := s.store.BeginTx(r.Context())
	if err != nil {
		s.writeError(w, r, ltzferr.Wrap("begin tx", err))
		return
	}
	defer tx.Rollback()

	res, err := retrieval.Sitzung(r.Context(), tx, q, r.URL.String(), s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeListResult(w, res)
}

func (s *Server) handleSitzungByID(w http.ResponseWriter, r *http.Request) {
	prefix := resourcePrefix(r, "sitzung")
	segs := pathTail(r, prefix)
	if len(segs) != 1 {
		http.NotFound(w, r)
		return
	}
	id, err := pathApiID(r, segs[0])
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getSitzungByID(w, r, id)
	case http.MethodPut:
		s.withClaims(func(w http.ResponseWriter, r *http.Request) { s.putSitzungByID(w, r, id) })(w, r)
	case http.MethodDelete:
		s.withClaims(func(w http.ResponseWriter, r *http.Request) { s.deleteSitzungByID(w, r, id) })(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) getSitzungByID(w http.ResponseWriter, r *http.Request, id types.ApiID) {
	tx, err := s.store.BeginTx(r.Context())
	if err != nil {
		s.writeError(w, r, ltzferr.Wrap("begin tx", err))
		return
	}
	defer tx.Rollback()

	v, err := tx.GetSitzungByApiID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) putSitzungByID(w http.ResponseWriter, r *http.Request, id types.ApiID) {
	claims := claimsFrom(r)
	if err := auth.RequireAdminOrKeyAdder(claims); err != nil {
		s.writeError(w, r, err)
		return
	}

	var p types.Sitzung
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.writeError(w, r, ltzferr.Validationf("decode body: %v", err))
		return
	}
	p.ApiID = id

	tx, err := s.store.BeginTx(r.Context())
	if err != nil {
		s.writeError(w, r, ltzferr.Wrap("begin tx", err))
		return
	}

	outcome, err := s.orch.PutSitzung(r.Context(), tx, &p, collectorKey(claims), scraperID(r, claims), s.now(), s.maxProvenanceLog)
	if err != nil {
		_ = tx.Rollback()
		s.writeError(w, r, err)
		return
	}
	if err := tx.Commit(); err != nil {
		s.writeError(w, r, ltzferr.Wrap("commit", err))
		return
	}

	if outcome == orchestrator.Created {
		writeJSON(w, http.StatusCreated, p)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteSitzungByID(w http.ResponseWriter, r *http.Request, id types.ApiID) {
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

	if err := tx.DeleteSitzung(r.Context(), id); err != nil {
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
