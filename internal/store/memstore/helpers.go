package memstore

import "time"

// Times are stored as UnixNano to make equality/ordering comparisons trivial
// and to sidestep monotonic-clock reading mismatches between values built in
// tests with time.Date and values round-tripped through the store.

func toUnixNano(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func toUnixNanoPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	n := toUnixNano(*t)
	return &n
}

func fromUnixNano(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

func fromUnixNanoPtr(n *int64) *time.Time {
	if n == nil {
		return nil
	}
	t := fromUnixNano(*n)
	return &t
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }
