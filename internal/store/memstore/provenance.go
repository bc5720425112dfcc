package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/ltzf/ltzfd/internal/store"
	"github.com/ltzf/ltzfd/internal/types"
)

// TouchProvenance upserts the (entityID, scraperID) row of the entity's log:
// an existing row for that scraper has its timestamp and collector refreshed
// in place, a new scraper gets appended. The log keeps at most maxSize rows,
// newest by timestamp, ties broken lexicographically by scraperID.
func (t *tx) TouchProvenance(_ context.Context, kind store.EntityKind, entityID int64, collectorKey, scraperID string, now time.Time, maxSize int) error {
	key := provenanceKey(kind, entityID)
	log := t.working.provenance[key]

	found := false
	for i := range log {
		if log[i].scraperID == scraperID {
			log[i].collectorKey = collectorKey
			log[i].timestamp = toUnixNano(now)
			found = true
			break
		}
	}
	if !found {
		log = append(log, provenanceRow{
			entityID:     entityID,
			scraperID:    scraperID,
			collectorKey: collectorKey,
			timestamp:    toUnixNano(now),
		})
	}

	sort.Slice(log, func(i, j int) bool {
		if log[i].timestamp != log[j].timestamp {
			return log[i].timestamp > log[j].timestamp
		}
		return log[i].scraperID < log[j].scraperID
	})
	if maxSize > 0 && len(log) > maxSize {
		log = log[:maxSize]
	}
	t.working.provenance[key] = log
	return nil
}

func (t *tx) ProvenanceOf(_ context.Context, kind store.EntityKind, entityID int64) ([]types.ProvenanceEntry, error) {
	rows := t.working.provenance[provenanceKey(kind, entityID)]
	out := make([]types.ProvenanceEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, types.ProvenanceEntry{
			EntityID:     r.entityID,
			ScraperID:    r.scraperID,
			CollectorKey: r.collectorKey,
			Timestamp:    fromUnixNano(r.timestamp),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}
