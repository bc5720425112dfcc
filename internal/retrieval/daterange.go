// Package retrieval implements the retrieval layer (Q) of spec.md section
// 4.5: date-range normalization, empty-result status selection and the
// pagination envelope (headers + RFC 5988 Link relations) the HTTP facade
// wraps around internal/store's ListVorgang/ListSitzung.
package retrieval

import (
	"time"

	"github.com/ltzf/ltzfd/internal/ltzferr"
)

// DatePart narrows an effective range to a single calendar unit, the
// y/m/dom hints of find_applicable_date_range.
type DatePart struct {
	Year  *int
	Month *int // 1-12
	Day   *int // day of month
}

// applied reports whether any hint was actually supplied.
func (d DatePart) applied() bool {
	return d.Year != nil || d.Month != nil || d.Day != nil
}

// window returns the [start, end) range the supplied hints narrow to, given
// a reference moment to fill in the parts the caller left unset (UTC).
func (d DatePart) window(now time.Time) (time.Time, time.Time) {
	year := now.Year()
	if d.Year != nil {
		year = *d.Year
	}
	if d.Month == nil && d.Day == nil {
		return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(year+1, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	month := 1
	if d.Month != nil {
		month = *d.Month
	}
	if d.Day == nil {
		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0)
	}
	start := time.Date(year, time.Month(month), *d.Day, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// FindApplicableDateRange implements find_applicable_date_range: combines
// since/until/if-modified-since/date-part hints into a single effective
// [since, until) range, or reports the request as unsatisfiable (maps to
// HTTP 416 at the caller).
func FindApplicableDateRange(since, until, ifModifiedSince *time.Time, part DatePart, now time.Time) (effSince, effUntil *time.Time, satisfiable bool) {
	lower := since
	if ifModifiedSince != nil && (lower == nil || ifModifiedSince.After(*lower)) {
		lower = ifModifiedSince
	}
	upper := until

	if part.applied() {
		wStart, wEnd := part.window(now)
		if lower == nil || wStart.After(*lower) {
			lower = &wStart
		}
		if upper == nil || wEnd.Before(*upper) {
			upper = &wEnd
		}
	}

	if lower != nil && upper != nil && lower.After(*upper) {
		return nil, nil, false
	}
	if lower != nil && lower.After(now) {
		return nil, nil, false
	}
	return lower, upper, true
}

// ErrUnsatisfiableRange is a validation error for an unsatisfiable date
// range. The query functions of this package do not return it: they report
// such a range as StatusRangeNotSatisfiable, the 416 status spec.md section
// 4.5 names.
var ErrUnsatisfiableRange = ltzferr.Validationf("requested date range is unsatisfiable")
