package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ltzf/ltzfd/internal/store"
)

func TestTouchProvenance_SameScraperUpsertsInPlace(t *testing.T) {
	ctx := context.Background()
	s := New()
	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	require.NoError(t, tx.TouchProvenance(ctx, store.EntityVorgang, 1, "collector-a", "scraper-1", t1, 5))
	require.NoError(t, tx.TouchProvenance(ctx, store.EntityVorgang, 1, "collector-b", "scraper-1", t2, 5))

	entries, err := tx.ProvenanceOf(ctx, store.EntityVorgang, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1, "re-touching the same scraper must refresh the row in place, not append a second one")
	assert.Equal(t, "collector-b", entries[0].CollectorKey)
	assert.True(t, entries[0].Timestamp.Equal(t2))
}

func TestTouchProvenance_DifferentScrapersBothKept(t *testing.T) {
	ctx := context.Background()
	s := New()
	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, tx.TouchProvenance(ctx, store.EntityVorgang, 1, "collector-a", "scraper-1", now, 5))
	require.NoError(t, tx.TouchProvenance(ctx, store.EntityVorgang, 1, "collector-b", "scraper-2", now, 5))

	entries, err := tx.ProvenanceOf(ctx, store.EntityVorgang, 1)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestTouchProvenance_EvictsOldestByTimestampNotInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := New()
	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	base := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	// Inserted out of timestamp order: scraper-2 is the oldest by
	// timestamp despite being touched second.
	require.NoError(t, tx.TouchProvenance(ctx, store.EntityVorgang, 1, "c", "scraper-1", base, 2))
	require.NoError(t, tx.TouchProvenance(ctx, store.EntityVorgang, 1, "c", "scraper-2", base.Add(-24*time.Hour), 2))
	require.NoError(t, tx.TouchProvenance(ctx, store.EntityVorgang, 1, "c", "scraper-3", base.Add(24*time.Hour), 2))

	entries, err := tx.ProvenanceOf(ctx, store.EntityVorgang, 1)
	require.NoError(t, err)
	require.Len(t, entries, 2, "eviction must cap the log at maxSize")

	scrapers := []string{entries[0].ScraperID, entries[1].ScraperID}
	assert.ElementsMatch(t, []string{"scraper-1", "scraper-3"}, scrapers,
		"scraper-2 is the oldest by timestamp and must be evicted even though it was touched before scraper-3")
}

func TestTouchProvenance_TiesBrokenLexicographicallyByScraperID(t *testing.T) {
	ctx := context.Background()
	s := New()
	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	same := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, tx.TouchProvenance(ctx, store.EntityVorgang, 1, "c", "zeta", same, 2))
	require.NoError(t, tx.TouchProvenance(ctx, store.EntityVorgang, 1, "c", "alpha", same, 2))
	require.NoError(t, tx.TouchProvenance(ctx, store.EntityVorgang, 1, "c", "mu", same, 2))

	entries, err := tx.ProvenanceOf(ctx, store.EntityVorgang, 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	scrapers := []string{entries[0].ScraperID, entries[1].ScraperID}
	assert.ElementsMatch(t, []string{"alpha", "mu"}, scrapers, "equal timestamps break ties lexicographically, keeping the alphabetically-earliest scraper ids")
}
