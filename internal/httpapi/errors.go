package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ltzf/ltzfd/internal/ltzferr"
)

// errorBody is the JSON shape every non-2xx response carries.
type errorBody struct {
	Error  string   `json:"error"`
	ApiIDs []string `json:"api_ids,omitempty"`
}

// writeJSON encodes v as the response body with status, the way the
// teacher's rpc.HTTPServer writes its health/metrics/RPC responses.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError classifies err per spec.md section 7's taxonomy and writes the
// matching status code and body. Infrastructure and unclassified errors are
// logged server-side and returned as a generic message, never leaking
// internals to the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ambiguous *ltzferr.AmbiguousMatchError
	if errors.As(err, &ambiguous) {
		writeJSON(w, http.StatusConflict, errorBody{Error: ambiguous.Error(), ApiIDs: ambiguous.ApiIDs})
		return
	}

	switch ltzferr.KindOf(err) {
	case ltzferr.KindValidation:
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case ltzferr.KindAuthorization:
		writeJSON(w, http.StatusForbidden, errorBody{Error: err.Error()})
	case ltzferr.KindNotFound:
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case ltzferr.KindConflict:
		s.logger.Error("conflict surviving resolution pass", "err", err, "path", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	default:
		s.logger.Error("unhandled error", "err", err, "path", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}
