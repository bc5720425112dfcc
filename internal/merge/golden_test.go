package merge

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ltzf/ltzfd/internal/ltzferr"
	"github.com/ltzf/ltzfd/internal/store/memstore"
	"github.com/ltzf/ltzfd/internal/types"
)

// fakeSink records notifications instead of mailing them, so golden tests can
// assert on what the executor reported without a real notify.Sink.
type fakeSink struct {
	ambiguous []ambiguousCall
}

type ambiguousCall struct {
	entity string
	apiIDs []types.ApiID
}

func (f *fakeSink) NotifySonstigUnwrapped(types.ApiID, string, string) {}

func (f *fakeSink) NotifyAmbiguousMatch(entity string, apiIDs []types.ApiID) {
	f.ambiguous = append(f.ambiguous, ambiguousCall{entity: entity, apiIDs: apiIDs})
}

func baseVorgang(apiID types.ApiID) *types.Vorgang {
	return &types.Vorgang{
		ApiID:       apiID,
		Titel:       "Ursprungstitel",
		Wahlperiode: 20,
		Typ:         types.VorgangstypGgZustimmung,
		Ids: []types.VgIdent{
			{Typ: types.VgIdentTypInitdrucks, Identifikator: "einzigartig"},
		},
		Stationen: []types.Station{
			{
				ApiID:     uuid.New(),
				Typ:       types.StationstypParlInitiativ,
				ZpStart:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				Parlament: types.ParlamentBT,
				Dokumente: []types.DokRef{
					{Embedded: &types.Dokument{
						ApiID:      uuid.New(),
						Typ:        types.DoktypDrucksache,
						Titel:      "Erster Entwurf",
						Link:       "https://example.com/doc1",
						Hash:       "hash-doc-1",
						ZpReferenz: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
					}},
				},
			},
		},
	}
}

// TestIngestVorgang_Idempotence mirrors scenario S1: pushing the same
// Vorgang twice leaves exactly one stored row, unchanged under canonical
// comparison.
func TestIngestVorgang_Idempotence(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	m := New(nil, 5)
	apiID := uuid.New()
	v := baseVorgang(apiID)

	tx, err := st.BeginTx(ctx)
	require.NoError(t, err)
	id1, created1, err := m.IngestVorgang(ctx, tx, v, "collector", "scraper-1", time.Now())
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.True(t, created1)

	tx2, err := st.BeginTx(ctx)
	require.NoError(t, err)
	v2 := baseVorgang(apiID)
	id2, created2, err := m.IngestVorgang(ctx, tx2, v2, "collector", "scraper-1", time.Now())
	require.NoError(t, err)
	require.NoError(t, tx2.Commit())

	assert.False(t, created2, "second push of the identical vorgang is a merge, not a creation")
	assert.Equal(t, id1, id2)

	tx3, err := st.BeginTx(ctx)
	require.NoError(t, err)
	defer tx3.Rollback()
	stored, err := tx3.GetVorgang(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, "Ursprungstitel", stored.Titel)
	assert.Len(t, stored.Stationen, 1, "repushing the same vorgang must not duplicate its station")
}

// TestIngestVorgang_MergeBySharedIdentifier mirrors scenario S2: a second
// push with a fresh api_id but a shared (wahlperiode, typ, ident) matches the
// first and is merged into it rather than inserted as a new row.
func TestIngestVorgang_MergeBySharedIdentifier(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	m := New(nil, 5)

	v := baseVorgang(uuid.New())

	tx, err := st.BeginTx(ctx)
	require.NoError(t, err)
	id, _, err := m.IngestVorgang(ctx, tx, v, "collector", "scraper-1", time.Now())
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	vPrime := &types.Vorgang{
		ApiID:       uuid.New(),
		Titel:       "Anderer Titel",
		Wahlperiode: 20,
		Typ:         types.VorgangstypGgZustimmung,
		Ids: []types.VgIdent{
			{Typ: types.VgIdentTypInitdrucks, Identifikator: "einzigartig"},
		},
		Stationen: []types.Station{
			{
				ApiID:     uuid.New(),
				Typ:       types.StationstypParlAusschuss,
				ZpStart:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
				Parlament: types.ParlamentBT,
			},
		},
	}

	tx2, err := st.BeginTx(ctx)
	require.NoError(t, err)
	id2, created, err := m.IngestVorgang(ctx, tx2, vPrime, "collector", "scraper-1", time.Now())
	require.NoError(t, err)
	require.NoError(t, tx2.Commit())

	assert.False(t, created)
	assert.Equal(t, id, id2, "shared ident must resolve to the same stored vorgang")

	tx3, err := st.BeginTx(ctx)
	require.NoError(t, err)
	defer tx3.Rollback()
	stored, err := tx3.GetVorgang(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, v.ApiID, stored.ApiID, "api_id of the original stored row is kept, never replaced by the incoming push")
	assert.Equal(t, "Anderer Titel", stored.Titel)
	assert.Len(t, stored.Stationen, 2, "original and alternate station must both be present")
}

// TestIngestVorgang_UnionOfLinksIdsInitiatoren mirrors scenario S3: links,
// ids and initiatoren all union rather than replace across a merge.
func TestIngestVorgang_UnionOfLinksIdsInitiatoren(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	m := New(nil, 5)

	apiID := uuid.New()
	v := baseVorgang(apiID)

	tx, err := st.BeginTx(ctx)
	require.NoError(t, err)
	id, _, err := m.IngestVorgang(ctx, tx, v, "collector", "scraper-1", time.Now())
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	person := "Max Mustermann"
	vDoublePrime := baseVorgang(apiID)
	vDoublePrime.Links = []string{"https://example.com"}
	vDoublePrime.Ids = []types.VgIdent{
		{Typ: types.VgIdentTypInitdrucks, Identifikator: "einzigartig und anders"},
	}
	vDoublePrime.Initiatoren = []types.Autor{
		{Person: &person, Organisation: "Musterorganisation"},
	}
	vDoublePrime.Stationen = nil

	tx2, err := st.BeginTx(ctx)
	require.NoError(t, err)
	_, _, err = m.IngestVorgang(ctx, tx2, vDoublePrime, "collector", "scraper-1", time.Now())
	require.NoError(t, err)
	require.NoError(t, tx2.Commit())

	tx3, err := st.BeginTx(ctx)
	require.NoError(t, err)
	defer tx3.Rollback()
	stored, err := tx3.GetVorgang(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://example.com"}, stored.Links)
	assert.ElementsMatch(t, []types.VgIdent{
		{Typ: types.VgIdentTypInitdrucks, Identifikator: "einzigartig"},
		{Typ: types.VgIdentTypInitdrucks, Identifikator: "einzigartig und anders"},
	}, stored.Ids)
	require.Len(t, stored.Initiatoren, 1)
	assert.Equal(t, "Musterorganisation", stored.Initiatoren[0].Organisation)
}

// TestMergeStationInto_SchlagwortNormalization mirrors scenario S4: mixed-
// case, whitespace-padded duplicates collapse to one lowercased entry once
// normalized and unioned.
func TestMergeStationInto_SchlagwortNormalization(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	m := New(nil, 5)

	vorgangID, err := func() (int64, error) {
		tx, err := st.BeginTx(ctx)
		require.NoError(t, err)
		id, err := tx.InsertVorgang(ctx, &types.Vorgang{
			ApiID:       uuid.New(),
			Titel:       "Titel",
			Wahlperiode: 20,
			Typ:         types.VorgangstypGgZustimmung,
		})
		require.NoError(t, err)
		require.NoError(t, tx.Commit())
		return id, nil
	}()
	require.NoError(t, err)

	stationApiID := uuid.New()
	station := types.Station{
		ApiID:       stationApiID,
		Typ:         types.StationstypParlInitiativ,
		ZpStart:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Parlament:   types.ParlamentBT,
		Schlagworte: []string{"AiNz", "ainz", "AINZ"},
	}

	tx, err := st.BeginTx(ctx)
	require.NoError(t, err)
	stationID, err := m.insertStationFresh(ctx, tx, vorgangID, station)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	tx2, err := st.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, m.mergeStationInto(ctx, tx2, stationID, station))
	require.NoError(t, tx2.Commit())

	tx3, err := st.BeginTx(ctx)
	require.NoError(t, err)
	defer tx3.Rollback()
	stored, err := tx3.GetStation(ctx, stationID)
	require.NoError(t, err)

	assert.Equal(t, []string{"ainz"}, stored.Schlagworte)
}

// TestIngestVorgang_AmbiguousMatch mirrors scenario S5: two stored vorgange
// share (wahlperiode, typ, ident); a third push matching both is rejected,
// leaves the store untouched, and reports exactly one ambiguous-match
// notification naming both candidates.
func TestIngestVorgang_AmbiguousMatch(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	sink := &fakeSink{}
	m := New(sink, 5)

	ident := []types.VgIdent{{Typ: types.VgIdentTypVorgnr, Identifikator: "X"}}

	v1 := &types.Vorgang{ApiID: uuid.New(), Titel: "Erster", Wahlperiode: 20, Typ: types.VorgangstypGgZustimmung, Ids: ident}
	v2 := &types.Vorgang{ApiID: uuid.New(), Titel: "Zweiter", Wahlperiode: 20, Typ: types.VorgangstypGgZustimmung, Ids: ident}

	// Seeded directly: ingesting v2 through the executor would merge it into
	// v1, since the two share (wahlperiode, typ, ident).
	tx, err := st.BeginTx(ctx)
	require.NoError(t, err)
	_, err = tx.InsertVorgang(ctx, v1)
	require.NoError(t, err)
	_, err = tx.InsertVorgang(ctx, v2)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	v3 := &types.Vorgang{ApiID: uuid.New(), Titel: "Dritter", Wahlperiode: 20, Typ: types.VorgangstypGgZustimmung, Ids: ident}

	tx3, err := st.BeginTx(ctx)
	require.NoError(t, err)
	_, _, err = m.IngestVorgang(ctx, tx3, v3, "collector", "scraper-1", time.Now())
	require.NoError(t, tx3.Rollback())

	var ambiguousErr *ltzferr.AmbiguousMatchError
	require.ErrorAs(t, err, &ambiguousErr)
	assert.Equal(t, "vorgang", ambiguousErr.Entity)
	assert.ElementsMatch(t, []string{v1.ApiID.String(), v2.ApiID.String()}, ambiguousErr.ApiIDs)

	require.Len(t, sink.ambiguous, 1, "exactly one ambiguous-match notification must be queued")
	assert.Equal(t, "vorgang", sink.ambiguous[0].entity)
	assert.ElementsMatch(t, []types.ApiID{v1.ApiID, v2.ApiID}, sink.ambiguous[0].apiIDs)

	tx4, err := st.BeginTx(ctx)
	require.NoError(t, err)
	defer tx4.Rollback()
	all, err := tx4.FindVorgangBySharedIdent(ctx, 20, types.VorgangstypGgZustimmung, ident)
	require.NoError(t, err)
	assert.Len(t, all, 2, "the ambiguous push must not have been written to the store")
}
