package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ltzf/ltzfd/internal/merge"
	"github.com/ltzf/ltzfd/internal/store/memstore"
	"github.com/ltzf/ltzfd/internal/types"
)

func baseSitzung(apiID types.ApiID) *types.Sitzung {
	return &types.Sitzung{
		ApiID:  apiID,
		Termin: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Public: true,
		Gremium: types.Gremium{
			Name: "Innenausschuss", Parlament: types.ParlamentBT, Wahlperiode: 20,
		},
		Nummer: 1,
	}
}

func TestPutVorgang_CreatesOnFirstPush(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	o := New(merge.New(nil, 5))

	tx, err := st.BeginTx(ctx)
	require.NoError(t, err)
	p := &types.Vorgang{ApiID: uuid.New(), Titel: "Titel", Wahlperiode: 20, Typ: types.VorgangstypGgZustimmung}
	outcome, err := o.PutVorgang(ctx, tx, p, "collector", "scraper-1", time.Now())
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.Equal(t, Created, outcome)
}

func TestPutVorgang_NotModifiedWhenUnchanged(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	o := New(merge.New(nil, 5))
	apiID := uuid.New()

	tx, err := st.BeginTx(ctx)
	require.NoError(t, err)
	p := &types.Vorgang{ApiID: apiID, Titel: "Titel", Wahlperiode: 20, Typ: types.VorgangstypGgZustimmung}
	_, err = o.PutVorgang(ctx, tx, p, "collector", "scraper-1", time.Now())
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	tx2, err := st.BeginTx(ctx)
	require.NoError(t, err)
	same := &types.Vorgang{ApiID: apiID, Titel: "Titel", Wahlperiode: 20, Typ: types.VorgangstypGgZustimmung}
	outcome, err := o.PutVorgang(ctx, tx2, same, "collector", "scraper-2", time.Now())
	require.NoError(t, err)
	require.NoError(t, tx2.Commit())
	assert.Equal(t, NotModified, outcome, "re-putting the identical vorgang under the same api_id is a no-op, just a provenance touch")
}

func TestPutVorgang_ReplacesWhenChanged(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	o := New(merge.New(nil, 5))
	apiID := uuid.New()

	tx, err := st.BeginTx(ctx)
	require.NoError(t, err)
	_, err = o.PutVorgang(ctx, tx, &types.Vorgang{ApiID: apiID, Titel: "Alt", Wahlperiode: 20, Typ: types.VorgangstypGgZustimmung}, "collector", "scraper-1", time.Now())
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	tx2, err := st.BeginTx(ctx)
	require.NoError(t, err)
	outcome, err := o.PutVorgang(ctx, tx2, &types.Vorgang{ApiID: apiID, Titel: "Neu", Wahlperiode: 20, Typ: types.VorgangstypGgZustimmung}, "collector", "scraper-1", time.Now())
	require.NoError(t, err)
	require.NoError(t, tx2.Commit())
	assert.Equal(t, Created, outcome, "a changed payload under the same api_id is a delete-then-reinsert, reported as Created")

	tx3, err := st.BeginTx(ctx)
	require.NoError(t, err)
	defer tx3.Rollback()
	stored, err := tx3.GetVorgangByApiID(ctx, apiID)
	require.NoError(t, err)
	assert.Equal(t, "Neu", stored.Titel)
}

func TestPutSitzung_CreatesThenNotModified(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	o := New(merge.New(nil, 5))
	apiID := uuid.New()

	tx, err := st.BeginTx(ctx)
	require.NoError(t, err)
	outcome, err := o.PutSitzung(ctx, tx, baseSitzung(apiID), "collector", "scraper-1", time.Now(), 5)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.Equal(t, Created, outcome)

	tx2, err := st.BeginTx(ctx)
	require.NoError(t, err)
	outcome2, err := o.PutSitzung(ctx, tx2, baseSitzung(apiID), "collector", "scraper-1", time.Now(), 5)
	require.NoError(t, err)
	require.NoError(t, tx2.Commit())
	assert.Equal(t, NotModified, outcome2)
}

func TestPutKalender_ReplacesDayAtomically(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	o := New(merge.New(nil, 5))
	datum := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tx, err := st.BeginTx(ctx)
	require.NoError(t, err)
	ids, err := o.PutKalender(ctx, tx, types.ParlamentBT, datum, []types.Sitzung{*baseSitzung(uuid.New())}, "collector", "scraper-1", time.Now(), 5)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	require.Len(t, ids, 1)

	tx2, err := st.BeginTx(ctx)
	require.NoError(t, err)
	defer tx2.Rollback()
	found, err := tx2.SitzungenForCalendarDay(ctx, types.ParlamentBT, datum)
	require.NoError(t, err)
	assert.Len(t, found, 1)
}
