package types

import "time"

// ProvenanceEntry is one row of a per-entity "touched-by" log: which
// collector, via which scraper-id, last touched this entity and when.
type ProvenanceEntry struct {
	EntityID    int64     `json:"-"`
	ScraperID   string    `json:"scraper_id"`
	CollectorKey string   `json:"collector_key"`
	Timestamp   time.Time `json:"timestamp"`
}
