package enumrepl

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ltzf/ltzfd/internal/store"
	"github.com/ltzf/ltzfd/internal/store/memstore"
	"github.com/ltzf/ltzfd/internal/types"
)

// TestReplaceVocabulary_CompositeKeyConflict mirrors scenario S6: a station
// holds both "alpha" and "beta" as schlagworte (two association rows sharing
// the station's id). Replacing alpha with beta must leave exactly one
// association row for that station, and alpha's vocabulary row is deleted.
func TestReplaceVocabulary_CompositeKeyConflict(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()

	var stationID int64
	tx, err := st.BeginTx(ctx)
	require.NoError(t, err)
	vorgangID, err := tx.InsertVorgang(ctx, &types.Vorgang{
		ApiID:       uuid.New(),
		Titel:       "Titel",
		Wahlperiode: 20,
		Typ:         types.VorgangstypGgZustimmung,
	})
	require.NoError(t, err)
	stationID, err = tx.InsertStation(ctx, vorgangID, &types.Station{
		ApiID:       uuid.New(),
		Typ:         types.StationstypParlInitiativ,
		ZpStart:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Parlament:   types.ParlamentBT,
		Schlagworte: []string{"alpha", "beta"},
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	tx2, err := st.BeginTx(ctx)
	require.NoError(t, err)
	outcome, err := ReplaceVocabulary(ctx, tx2, store.FlavorSchlagwort, Request{
		Objects:   []string{"beta"},
		Replacing: []ReplacingDirective[string]{{ReplacedBy: 0, Values: []string{"alpha"}}},
	}, nil)
	require.NoError(t, err)
	require.NoError(t, tx2.Commit())
	assert.Equal(t, Applied, outcome)

	tx3, err := st.BeginTx(ctx)
	require.NoError(t, err)
	defer tx3.Rollback()

	station, err := tx3.GetStation(ctx, stationID)
	require.NoError(t, err)
	assert.Equal(t, []string{"beta"}, station.Schlagworte, "the surviving association row must be the one already holding the target value")

	values, err := tx3.EnumValues(ctx, store.FlavorSchlagwort)
	require.NoError(t, err)
	assert.NotContains(t, values, "alpha")
	assert.Contains(t, values, "beta")
}

func TestReplaceVocabulary_NotModifiedWhenNothingChanges(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()

	tx, err := st.BeginTx(ctx)
	require.NoError(t, err)
	_, _, err = tx.EnumUpsert(ctx, store.FlavorSchlagwort, "alpha")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	tx2, err := st.BeginTx(ctx)
	require.NoError(t, err)
	defer tx2.Rollback()
	outcome, err := ReplaceVocabulary(ctx, tx2, store.FlavorSchlagwort, Request{
		Objects: []string{"alpha"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, NotModified, outcome, "pushing an already-present value with no replacing directive is a no-op")
}

func TestReplaceAutoren_AppliesAndRewritesInitiatoren(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()

	oldPerson := "Alt Autor"
	newPerson := "Neu Autor"

	tx, err := st.BeginTx(ctx)
	require.NoError(t, err)
	vorgangID, err := tx.InsertVorgang(ctx, &types.Vorgang{
		ApiID:       uuid.New(),
		Titel:       "Titel",
		Wahlperiode: 20,
		Typ:         types.VorgangstypGgZustimmung,
		Initiatoren: []types.Autor{{Person: &oldPerson, Organisation: "Fraktion"}},
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	tx2, err := st.BeginTx(ctx)
	require.NoError(t, err)
	outcome, err := ReplaceAutoren(ctx, tx2, AutorRequest{
		Objects: []types.Autor{{Person: &newPerson, Organisation: "Fraktion"}},
		Replacing: []ReplacingDirective[types.AutorKey]{
			{ReplacedBy: 0, Values: []types.AutorKey{{Person: oldPerson, Organisation: "Fraktion"}}},
		},
	}, nil)
	require.NoError(t, err)
	require.NoError(t, tx2.Commit())
	assert.Equal(t, Applied, outcome)

	tx3, err := st.BeginTx(ctx)
	require.NoError(t, err)
	defer tx3.Rollback()
	v, err := tx3.GetVorgang(ctx, vorgangID)
	require.NoError(t, err)
	require.Len(t, v.Initiatoren, 1)
	assert.Equal(t, newPerson, *v.Initiatoren[0].Person, "initiator reference must be rewritten to the replacement autor")
}

func TestReplaceGremien_AppliesAndRewritesStation(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()

	tx, err := st.BeginTx(ctx)
	require.NoError(t, err)
	oldID, err := tx.UpsertGremium(ctx, types.Gremium{Name: "Altausschuss", Parlament: types.ParlamentBT, Wahlperiode: 20})
	require.NoError(t, err)
	vorgangID, err := tx.InsertVorgang(ctx, &types.Vorgang{
		ApiID:       uuid.New(),
		Titel:       "Titel",
		Wahlperiode: 20,
		Typ:         types.VorgangstypGgZustimmung,
	})
	require.NoError(t, err)
	old, err := tx.GetGremium(ctx, oldID)
	require.NoError(t, err)
	stationID, err := tx.InsertStation(ctx, vorgangID, &types.Station{
		ApiID:     uuid.New(),
		Typ:       types.StationstypParlAusschuss,
		ZpStart:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Parlament: types.ParlamentBT,
		Gremium:   old,
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	tx2, err := st.BeginTx(ctx)
	require.NoError(t, err)
	outcome, err := ReplaceGremien(ctx, tx2, GremiumRequest{
		Objects: []types.Gremium{{Name: "Neuausschuss", Parlament: types.ParlamentBT, Wahlperiode: 20}},
		Replacing: []ReplacingDirective[types.GremiumKey]{
			{ReplacedBy: 0, Values: []types.GremiumKey{{Name: "Altausschuss", Parlament: types.ParlamentBT, Wahlperiode: 20}}},
		},
	}, nil)
	require.NoError(t, err)
	require.NoError(t, tx2.Commit())
	assert.Equal(t, Applied, outcome)

	tx3, err := st.BeginTx(ctx)
	require.NoError(t, err)
	defer tx3.Rollback()
	station, err := tx3.GetStation(ctx, stationID)
	require.NoError(t, err)
	require.NotNil(t, station.Gremium)
	assert.Equal(t, "Neuausschuss", station.Gremium.Name)
}
