package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ltzf/ltzfd/internal/auth"
	"github.com/ltzf/ltzfd/internal/notify"
	"github.com/ltzf/ltzfd/internal/store/memstore"
	"github.com/ltzf/ltzfd/internal/types"
)

// newTestServer builds a Server with an in-memory store and key store, and
// a notify.Sink that never starts its background worker -- tests only need
// the sink's Notify* methods to be safe to call, never its tick-driven
// drain. A nil Mailer leaves it logging-only.
func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	ks := auth.NewMemKeyStore()
	adminRaw, adminKeytag, adminSalt, err := auth.GenerateKey()
	require.NoError(t, err)
	adminHash, err := auth.HashKey(adminRaw, adminSalt)
	require.NoError(t, err)
	_, err = ks.Create(context.Background(), auth.APIKey{
		KeyHash: adminHash, Salt: adminSalt, Keytag: adminKeytag, Scope: auth.ScopeAdmin,
	})
	require.NoError(t, err)

	s := New(Config{
		Store:            memstore.New(),
		Keys:             ks,
		Sink:             notify.New(nil, nil),
		MaxProvenanceLog: 5,
		BaseURL:          "https://api.example.com",
	})
	return s, adminRaw
}

// addKey mints a key of the given scope directly in s's key store and
// returns its raw form.
func addKey(t *testing.T, s *Server, scope auth.Scope) string {
	t.Helper()
	raw, keytag, salt, err := auth.GenerateKey()
	require.NoError(t, err)
	hash, err := auth.HashKey(raw, salt)
	require.NoError(t, err)
	_, err = s.keys.Create(context.Background(), auth.APIKey{KeyHash: hash, Salt: salt, Keytag: keytag, Scope: scope})
	require.NoError(t, err)
	return raw
}

func doRequest(t *testing.T, h http.Handler, method, path, apiKey string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = httptest.NewRequest(method, path, bytes.NewReader(b))
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	if apiKey != "" {
		r.Header.Set("X-API-Key", apiKey)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestHealthz_ReportsHealthy(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(t, s.Handler(), http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestVorgangCollection_GetOnEmptyStoreIsNoContent(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(t, s.Handler(), http.MethodGet, "/api/v2/vorgang", "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestVorgangCollection_PutWithoutKeyIsForbidden(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(t, s.Handler(), http.MethodPut, "/api/v2/vorgang", "", map[string]any{})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestVorgangCollection_PutWithAdminKeyCreatesAndIsListable(t *testing.T) {
	s, adminKey := newTestServer(t)
	h := s.Handler()

	payload := map[string]any{
		"titel":       "Ein Titel",
		"wahlperiode": 20,
		"typ":         string(types.VorgangstypGgZustimmung),
	}
	w := doRequest(t, h, http.MethodPut, "/api/v2/vorgang", adminKey, payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created types.Vorgang
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEqual(t, types.ApiID{}, created.ApiID, "server must mint an api_id when the push omits one")

	w2 := doRequest(t, h, http.MethodGet, "/api/v2/vorgang", "", nil)
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, "1", w2.Header().Get("X-Total-Count"))
}

func TestVorgangByID_GetUnknownIsNotFound(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(t, s.Handler(), http.MethodGet, "/api/v2/vorgang/"+types.NewApiID().String(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVorgangByID_GetBadApiIDIsValidationError(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(t, s.Handler(), http.MethodGet, "/api/v2/vorgang/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVorgangByID_PutThenGetRoundTrips(t *testing.T) {
	s, adminKey := newTestServer(t)
	h := s.Handler()

	id := types.NewApiID()
	payload := map[string]any{
		"api_id":      id.String(),
		"titel":       "Direkt gesetzt",
		"wahlperiode": 20,
		"typ":         string(types.VorgangstypGgZustimmung),
	}
	w := doRequest(t, h, http.MethodPut, "/api/v2/vorgang/"+id.String(), adminKey, payload)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w2 := doRequest(t, h, http.MethodGet, "/api/v2/vorgang/"+id.String(), "", nil)
	require.Equal(t, http.StatusOK, w2.Code)
	var got types.Vorgang
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &got))
	assert.Equal(t, "Direkt gesetzt", got.Titel)

	// Pushing the identical payload again is a no-op: no body, 204.
	w3 := doRequest(t, h, http.MethodPut, "/api/v2/vorgang/"+id.String(), adminKey, payload)
	assert.Equal(t, http.StatusNoContent, w3.Code, "unchanged payload must not be reported as created")
}

func TestAuth_CreateAndUseCollectorKey(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()
	keyAdderKey := addKey(t, s, auth.ScopeKeyAdder)

	w := doRequest(t, h, http.MethodPost, "/api/v2/auth", keyAdderKey, map[string]any{"scope": string(auth.ScopeCollector)})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp createKeyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Key)
	assert.Equal(t, auth.ScopeCollector, resp.Scope)

	payload := map[string]any{
		"titel":       "Von Collector",
		"wahlperiode": 20,
		"typ":         string(types.VorgangstypGgZustimmung),
	}
	w2 := doRequest(t, h, http.MethodPut, "/api/v2/vorgang", resp.Key, payload)
	assert.Equal(t, http.StatusCreated, w2.Code, w2.Body.String())
}

func TestAuth_CreateKeyRequiresKeyAdderScope(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	ks := auth.NewMemKeyStore()
	raw, keytag, salt, err := auth.GenerateKey()
	require.NoError(t, err)
	hash, err := auth.HashKey(raw, salt)
	require.NoError(t, err)
	_, err = ks.Create(context.Background(), auth.APIKey{KeyHash: hash, Salt: salt, Keytag: keytag, Scope: auth.ScopeCollector})
	require.NoError(t, err)
	s.keys = ks

	w := doRequest(t, h, http.MethodPost, "/api/v2/auth", raw, map[string]any{"scope": string(auth.ScopeCollector)})
	assert.Equal(t, http.StatusForbidden, w.Code, "a collector-scoped key must not be able to mint new keys")
}

func TestAuth_RevokeByKeytag(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()
	keyAdderKey := addKey(t, s, auth.ScopeKeyAdder)

	w := doRequest(t, h, http.MethodPost, "/api/v2/auth", keyAdderKey, map[string]any{"scope": string(auth.ScopeCollector)})
	require.Equal(t, http.StatusCreated, w.Code)
	var resp createKeyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	w2 := doRequest(t, h, http.MethodDelete, "/api/v2/auth", keyAdderKey, map[string]any{"keytag": resp.Keytag})
	assert.Equal(t, http.StatusNoContent, w2.Code)

	w3 := doRequest(t, h, http.MethodPut, "/api/v2/vorgang", resp.Key, map[string]any{
		"titel": "Sollte scheitern", "wahlperiode": 20, "typ": string(types.VorgangstypGgZustimmung),
	})
	assert.Equal(t, http.StatusForbidden, w3.Code, "a revoked key must be rejected on its next use")
}
