package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ltzf/ltzfd/internal/auth"
	"github.com/ltzf/ltzfd/internal/ltzferr"
	"github.com/ltzf/ltzfd/internal/types"
)

const dateLayout = "2006-01-02"

// handleKalenderCollection serves GET /kalender?parlament=&datum=, the
// query-parameter equivalent of GET /kalender/{parlament}/{datum} for
// clients that prefer one collection endpoint over a nested path.
func (s *Server) handleKalenderCollection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	parlRaw := queryStr(r, "parlament")
	datumRaw := queryStr(r, "datum")
	if parlRaw == nil || datumRaw == nil {
		s.writeError(w, r, ltzferr.Validationf("parlament and datum query parameters are required"))
		return
	}
	datum, err := time.Parse(dateLayout, *datumRaw)
	if err != nil {
		s.writeError(w, r, ltzferr.Validationf("datum: invalid date %q", *datumRaw))
		return
	}
	s.getKalenderDay(w, r, types.Parlament(*parlRaw), datum)
}

func (s *Server) handleKalenderByDate(w http.ResponseWriter, r *http.Request) {
	segs := pathTail(r, resourcePrefix(r, "kalender"))
	if len(segs) != 2 {
		http.NotFound(w, r)
		return
	}
	parlament := types.Parlament(segs[0])
	datum, err := time.Parse(dateLayout, segs[1])
	if err != nil {
		s.writeError(w, r, ltzferr.Validationf("datum: invalid date %q", segs[1]))
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getKalenderDay(w, r, parlament, datum)
	case http.MethodPut:
		s.withClaims(func(w http.ResponseWriter, r *http.Request) { s.putKalenderDay(w, r, parlament, datum) })(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) getKalenderDay(w http.ResponseWriter, r *http.Request, parlament types.Parlament, datum time.Time) {
	tx, err := s.store.BeginTx(r.Context())
	if err != nil {
		s.writeError(w, r, ltzferr.Wrap("begin tx", err))
		return
	}
	defer tx.Rollback()

	sitzungen, err := tx.SitzungenForCalendarDay(r.Context(), parlament, datum)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(sitzungen) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, sitzungen)
}

func (s *Server) putKalenderDay(w http.ResponseWriter, r *http.Request, parlament types.Parlament, datum time.Time) {
	claims := claimsFrom(r)
	now := s.now()
	if err := auth.CanPutCalendarDate(claims, datum, now); err != nil {
		s.writeError(w, r, err)
		return
	}

	var sitzungen []types.Sitzung
	if err := json.NewDecoder(r.Body).Decode(&sitzungen); err != nil {
		s.writeError(w, r, ltzferr.Validationf("decode body: %v", err))
		return
	}

	tx, err := s.store.BeginTx(r.Context())
	if err != nil {
		s.writeError(w, r, ltzferr.Wrap("begin tx", err))
		return
	}

	_, err = s.orch.PutKalender(r.Context(), tx, parlament, datum, sitzungen, collectorKey(claims), scraperID(r, claims), now, s.maxProvenanceLog)
	if err != nil {
		_ = tx.Rollback()
		s.writeError(w, r, err)
		return
	}
	if err := tx.Commit(); err != nil {
		s.writeError(w, r, ltzferr.Wrap("commit", err))
		return
	}
	writeJSON(w, http.StatusCreated, sitzungen)
}
