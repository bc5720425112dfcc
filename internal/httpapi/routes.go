package httpapi

import (
	"net/http"
	"strings"
)

// registerRoutes mounts the full route table of spec.md section 6 under
// prefix ("/api/v1" or "/api/v2"); both versions share the same handlers, so
// a fix or feature lands on both surfaces at once.
func (s *Server) registerRoutes(mux *http.ServeMux, prefix string) {
	mux.HandleFunc(prefix+"/vorgang", s.handleVorgangCollection)
	mux.HandleFunc(prefix+"/vorgang/", s.handleVorgangByID)

	mux.HandleFunc(prefix+"/sitzung", s.handleSitzungCollection)
	mux.HandleFunc(prefix+"/sitzung/", s.handleSitzungByID)

	mux.HandleFunc(prefix+"/kalender", s.handleKalenderCollection)
	mux.HandleFunc(prefix+"/kalender/", s.handleKalenderByDate)

	mux.HandleFunc(prefix+"/autoren", s.handleAutoren)
	mux.HandleFunc(prefix+"/gremien", s.handleGremien)

	mux.HandleFunc(prefix+"/enumeration/", s.handleEnumeration)

	mux.HandleFunc(prefix+"/auth", s.handleAuth)
}

// pathTail returns the path segments after prefix+"/"+resource+"/", split on
// "/". Used by the {id}/{parlament}/{datum}-style routes registered on the
// resource's trailing-slash pattern.
func pathTail(r *http.Request, resourcePrefix string) []string {
	rest := strings.TrimPrefix(r.URL.Path, resourcePrefix)
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}

func resourcePrefix(r *http.Request, resource string) string {
	i := strings.Index(r.URL.Path, "/"+resource+"/")
	if i < 0 {
		return ""
	}
	return r.URL.Path[:i+len(resource)+2]
}
