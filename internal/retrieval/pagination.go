package retrieval

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPerPage = 32
	MaxPerPage     = 256
)

// NormalizePerPage clamps a requested page size into (0, MaxPerPage],
// substituting DefaultPerPage when the caller didn't ask for one.
func NormalizePerPage(requested int) int {
	switch {
	case requested <= 0:
		return DefaultPerPage
	case requested > MaxPerPage:
		return MaxPerPage
	default:
		return requested
	}
}

// NormalizePage floors page numbers below 1 up to the first page.
func NormalizePage(requested int) int {
	if requested < 1 {
		return 1
	}
	return requested
}

// Status is the HTTP status an empty-or-nonempty retrieval result maps to,
// per spec.md section 4.5's empty-result rule.
type Status int

const (
	StatusOK              Status = 200
	StatusNoContent       Status = 204
	StatusNotModified     Status = 304
	StatusRangeNotSatisfiable Status = 416
)

// ResultStatus picks the response status for a filtered list: empty with no
// If-Modified-Since means nothing has ever existed (204); empty with
// If-Modified-Since means nothing changed since then (304); otherwise 200.
func ResultStatus(totalCount int, ifModifiedSinceSupplied bool) Status {
	if totalCount > 0 {
		return StatusOK
	}
	if ifModifiedSinceSupplied {
		return StatusNotModified
	}
	return StatusNoContent
}

// Envelope carries the pagination headers a paginated 200 response emits.
type Envelope struct {
	TotalCount int
	TotalPages int
	Page       int
	PerPage    int
	Link       string
}

// BuildEnvelope computes X-Total-Count/X-Total-Pages/X-Page/X-Per-Page plus
// an RFC 5988 Link header with first/prev/next/last relations, all derived
// from baseURL with its "page" query parameter rewritten.
func BuildEnvelope(baseURL string, totalCount, page, perPage int) (Envelope, error) {
	totalPages := (totalCount + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	link, err := buildLinkHeader(baseURL, page, perPage, totalPages)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		TotalCount: totalCount,
		TotalPages: totalPages,
		Page:       page,
		PerPage:    perPage,
		Link:       link,
	}, nil
}

func withPage(baseURL string, page int) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("retrieval: parse base url: %w", err)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// buildLinkHeader follows the same `<url>; rel="..."` syntax the teacher's
// github client parses on the way in (internal/github/client.go), just
// emitted instead of consumed.
func buildLinkHeader(baseURL string, page, perPage, totalPages int) (string, error) {
	type rel struct {
		name string
		page int
	}
	rels := []rel{{"first", 1}, {"last", totalPages}}
	if page > 1 {
		rels = append(rels, rel{"prev", page - 1})
	}
	if page < totalPages {
		rels = append(rels, rel{"next", page + 1})
	}

	parts := make([]string, 0, len(rels))
	for _, r := range rels {
		u, err := withPage(baseURL, r.page)
		if err != nil {
			return "", err
		}
		parts = append(parts, fmt.Sprintf(`<%s>; rel="%s"`, u, r.name))
	}
	return strings.Join(parts, ", "), nil
}
