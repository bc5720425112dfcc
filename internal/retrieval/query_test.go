package retrieval

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ltzf/ltzfd/internal/store/memstore"
	"github.com/ltzf/ltzfd/internal/types"
)

func TestVorgang_EmptyStoreIsNoContent(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	tx, err := st.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	res, err := Vorgang(ctx, tx, VorgangQuery{Page: 1, PerPage: 10}, "https://api.example.com/vorgang", refNow)
	require.NoError(t, err)
	assert.Equal(t, StatusNoContent, res.Status)
	assert.Empty(t, res.Items)
}

func TestVorgang_EmptyWithIfModifiedSinceIsNotModified(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	tx, err := st.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	ims := ptrTime(2024, 1, 1)
	res, err := Vorgang(ctx, tx, VorgangQuery{IfModifiedSince: ims, Page: 1, PerPage: 10}, "https://api.example.com/vorgang", refNow)
	require.NoError(t, err)
	assert.Equal(t, StatusNotModified, res.Status)
}

func TestVorgang_UnsatisfiableRangeIsRangeNotSatisfiable(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	tx, err := st.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	since := ptrTime(2099, 1, 1)
	res, err := Vorgang(ctx, tx, VorgangQuery{Since: since, Page: 1, PerPage: 10}, "https://api.example.com/vorgang", refNow)
	require.NoError(t, err)
	assert.Equal(t, StatusRangeNotSatisfiable, res.Status)
}

func TestVorgang_NonEmptyResultCarriesEnvelope(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	tx, err := st.BeginTx(ctx)
	require.NoError(t, err)
	_, err = tx.InsertVorgang(ctx, &types.Vorgang{
		ApiID: uuid.New(), Titel: "Titel", Wahlperiode: 20, Typ: types.VorgangstypGgZustimmung,
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	tx2, err := st.BeginTx(ctx)
	require.NoError(t, err)
	defer tx2.Rollback()
	res, err := Vorgang(ctx, tx2, VorgangQuery{Page: 1, PerPage: 10}, "https://api.example.com/vorgang", refNow)
	require.NoError(t, err)
	assert.Equal(t, StatusOK, res.Status)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 1, res.Envelope.TotalCount)
}

func TestVorgang_WahlperiodeFilterExcludesNonMatching(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	tx, err := st.BeginTx(ctx)
	require.NoError(t, err)
	_, err = tx.InsertVorgang(ctx, &types.Vorgang{ApiID: uuid.New(), Titel: "A", Wahlperiode: 19, Typ: types.VorgangstypGgZustimmung})
	require.NoError(t, err)
	_, err = tx.InsertVorgang(ctx, &types.Vorgang{ApiID: uuid.New(), Titel: "B", Wahlperiode: 20, Typ: types.VorgangstypGgZustimmung})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	tx2, err := st.BeginTx(ctx)
	require.NoError(t, err)
	defer tx2.Rollback()
	wp := 20
	res, err := Vorgang(ctx, tx2, VorgangQuery{Wahlperiode: &wp, Page: 1, PerPage: 10}, "https://api.example.com/vorgang", refNow)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "B", res.Items[0].Titel)
}

func TestSitzung_EmptyStoreIsNoContent(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	tx, err := st.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback()

	res, err := Sitzung(ctx, tx, SitzungQuery{Page: 1, PerPage: 10}, "https://api.example.com/sitzung", refNow)
	require.NoError(t, err)
	assert.Equal(t, StatusNoContent, res.Status)
}

func TestSitzung_NonEmptyResultCarriesEnvelope(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	tx, err := st.BeginTx(ctx)
	require.NoError(t, err)
	_, err = tx.InsertSitzung(ctx, &types.Sitzung{
		ApiID:  uuid.New(),
		Termin: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Public: true,
		Gremium: types.Gremium{
			Name: "Innenausschuss", Parlament: types.ParlamentBT, Wahlperiode: 20,
		},
		Nummer: 1,
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	tx2, err := st.BeginTx(ctx)
	require.NoError(t, err)
	defer tx2.Rollback()
	res, err := Sitzung(ctx, tx2, SitzungQuery{Page: 1, PerPage: 10}, "https://api.example.com/sitzung", refNow)
	require.NoError(t, err)
	assert.Equal(t, StatusOK, res.Status)
	assert.Len(t, res.Items, 1)
}
