package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/ltzf/ltzfd/internal/ltzferr"
	"github.com/ltzf/ltzfd/internal/retrieval"
	"github.com/ltzf/ltzfd/internal/types"
)

func queryInt(r *http.Request, name string) *int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

func queryStr(r *http.Request, name string) *string {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	return &v
}

func queryTime(r *http.Request, name string) (*time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, ltzferr.Validationf("%s: invalid RFC3339 timestamp %q", name, v)
	}
	return &t, nil
}

// ifModifiedSince parses the standard HTTP-date header, not an RFC3339 query
// parameter.
func ifModifiedSince(r *http.Request) (*time.Time, error) {
	v := r.Header.Get("If-Modified-Since")
	if v == "" {
		return nil, nil
	}
	t, err := http.ParseTime(v)
	if err != nil {
		return nil, ltzferr.Validationf("If-Modified-Since: invalid HTTP-date %q", v)
	}
	t = t.UTC()
	return &t, nil
}

func queryDatePart(r *http.Request) retrieval.DatePart {
	return retrieval.DatePart{
		Year:  queryInt(r, "jahr"),
		Month: queryInt(r, "monat"),
		Day:   queryInt(r, "tag"),
	}
}

func queryPage(r *http.Request) (page, perPage int) {
	p := 1
	if v := queryInt(r, "page"); v != nil {
		p = *v
	}
	pp := retrieval.DefaultPerPage
	if v := queryInt(r, "per_page"); v != nil {
		pp = *v
	}
	return p, pp
}

func queryApiID(r *http.Request, name string) (*types.ApiID, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, ltzferr.Validationf("%s: invalid api_id %q", name, v)
	}
	return &id, nil
}

func pathApiID(r *http.Request, seg string) (types.ApiID, error) {
	id, err := uuid.Parse(seg)
	if err != nil {
		return types.ApiID{}, ltzferr.Validationf("invalid api_id %q", seg)
	}
	return id, nil
}

func writeEnvelopeHeaders(w http.ResponseWriter, env retrieval.Envelope) {
	w.Header().Set("X-Total-Count", strconv.Itoa(env.TotalCount))
	w.Header().Set("X-Total-Pages", strconv.Itoa(env.TotalPages))
	w.Header().Set("X-Page", strconv.Itoa(env.Page))
	w.Header().Set("X-Per-Page", strconv.Itoa(env.PerPage))
	if env.Link != "" {
		w.Header().Set("Link", env.Link)
	}
}
