package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ltzf/ltzfd/internal/auth"
	"github.com/ltzf/ltzfd/internal/ltzferr"
	"github.com/ltzf/ltzfd/internal/orchestrator"
	"github.com/ltzf/ltzfd/internal/retrieval"
	"github.com/ltzf/ltzfd/internal/types"
)

// scraperID resolves the provenance scraper-id axis: the caller-supplied
// header when present, otherwise a value derived from the authenticated
// key so manual admin/keyadder edits still get a stable provenance row.
func scraperID(r *http.Request, c auth.Claims) string {
	if v := r.Header.Get("X-Scraper-Id"); v != "" {
		return v
	}
	return "key-" + strconv.FormatInt(c.KeyID, 10)
}

func collectorKey(c auth.Claims) string {
	return strconv.FormatInt(c.KeyID, 10)
}

// handleVorgangCollection serves GET /vorgang (public, filtered listing) and
// PUT /vorgang (collector push, runs the merge integration).
func (s *Server) handleVorgangCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listVorgang(w, r)
	case http.MethodPut:
		s.withClaims(s.putVorgangCollector)(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) listVorgang(w http.ResponseWriter, r *http.Request) {
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
	page, perPage := queryPage(r)

	var typ *types.Vorgangstyp
	if v := queryStr(r, "typ"); v != nil {
		t := types.Vorgangstyp(*v)
		typ = &t
	}
	var parl *types.Parlament
	if v := queryStr(r, "parlament"); v != nil {
		p := types.Parlament(*v)
		parl = &p
	}

	q := retrieval.VorgangQuery{
		Wahlperiode:           queryInt(r, "wahlperiode"),
		Typ:                   typ,
		Parlament:             parl,
		InitiatorPerson:       queryStr(r, "initiator_person"),
		InitiatorOrganisation: queryStr(r, "initiator_organisation"),
		InitiatorFachgebiet:   queryStr(r, "initiator_fachgebiet"),
		Since:                 since,
		Until:                 until,
		IfModifiedSince:       ims,
		DatePart:              queryDatePart(r),
		Page:                  page,
		PerPage:               perPage,
	}

	tx, err := s.store.BeginTx(r.Context())
	if err != nil {
		s.writeError(w, r, ltzferr.Wrap("begin tx", err))
		return
	}
	defer tx.Rollback()

	res, err := retrieval.Vorgang(r.Context(), tx, q, r.URL.String(), s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeListResult(w, res)
}

func writeListResult[T any](w http.ResponseWriter, res retrieval.Result[T]) {
	switch res.Status {
	case retrieval.StatusOK:
		writeEnvelopeHeaders(w, res.Envelope)
		writeJSON(w, http.StatusOK, res.Items)
	case retrieval.StatusNoContent:
		w.WriteHeader(http.StatusNoContent)
	case retrieval.StatusNotModified:
		w.WriteHeader(http.StatusNotModified)
	case retrieval.StatusRangeNotSatisfiable:
		w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
	}
}

func (s *Server) putVorgangCollector(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	if err := auth.RequireCollectorOrAdmin(claims); err != nil {
		s.writeError(w, r, err)
		return
	}

	var p types.Vorgang
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.writeError(w, r, ltzferr.Validationf("decode body: %v", err))
		return
	}
	if p.ApiID == (types.ApiID{}) {
		p.ApiID = types.NewApiID()
	}

	tx, err := s.store.BeginTx(r.Context())
	if err != nil {
		s.writeError(w, r, ltzferr.Wrap("begin tx", err))
		return
	}

	_, _, err = s.merge.IngestVorgang(r.Context(), tx, &p, collectorKey(claims), scraperID(r, claims), s.now())
	if err != nil {
		_ = tx.Rollback()
		s.writeError(w, r, err)
		return
	}
	if err := tx.Commit(); err != nil {
		s.writeError(w, r, ltzferr.Wrap("commit", err))
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// handleVorgangByID serves GET/PUT/DELETE /vorgang/{id}.
func (s *Server) handleVorgangByID(w http.ResponseWriter, r *http.Request) {
	prefix := resourcePrefix(r, "vorgang")
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
		s.getVorgangByID(w, r, id)
	case http.MethodPut:
		s.withClaims(func(w http.ResponseWriter, r *http.Request) { s.putVorgangByID(w, r, id) })(w, r)
	case http.MethodDelete:
		s.withClaims(func(w http.ResponseWriter, r *http.Request) { s.deleteVorgangByID(w, r, id) })(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) getVorgangByID(w http.ResponseWriter, r *http.Request, id types.ApiID) {
	tx, err := s.store.BeginTx(r.Context())
	if err != nil {
		s.writeError(w, r, ltzferr.Wrap("begin tx", err))
		return
	}
	defer tx.Rollback()

	v, err := tx.GetVorgangByApiID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) putVorgangByID(w http.ResponseWriter, r *http.Request, id types.ApiID) {
	claims := claimsFrom(r)
	if err := auth.RequireAdminOrKeyAdder(claims); err != nil {
		s.writeError(w, r, err)
		return
	}

	var p types.Vorgang
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

	outcome, err := s.orch.PutVorgang(r.Context(), tx, &p, collectorKey(claims), scraperID(r, claims), s.now())
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

func (s *Server) deleteVorgangByID(w http.ResponseWriter, r *http.Request, id types.ApiID) {
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

	if err := tx.DeleteVorgang(r.Context(), id); err != nil {
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
