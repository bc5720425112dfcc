package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ltzf/ltzfd/internal/auth"
	"github.com/ltzf/ltzfd/internal/ltzferr"
)

type createKeyRequest struct {
	Scope     auth.Scope `json:"scope"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type createKeyResponse struct {
	Key    string     `json:"key"`
	Keytag string     `json:"keytag"`
	Scope  auth.Scope `json:"scope"`
}

type revokeKeyRequest struct {
	Keytag string `json:"keytag"`
}

// handleAuth serves POST /auth (key creation, KeyAdder scope only) and
// DELETE /auth (revocation by keytag).
func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.withClaims(s.createKey)(w, r)
	case http.MethodDelete:
		s.withClaims(s.revokeKey)(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) createKey(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	if err := auth.RequireKeyAdder(claims); err != nil {
		s.writeError(w, r, err)
		return
	}

	var body createKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, r, ltzferr.Validationf("decode body: %v", err))
		return
	}
	switch body.Scope {
	case auth.ScopeAdmin, auth.ScopeKeyAdder, auth.ScopeCollector:
	default:
		s.writeError(w, r, ltzferr.Validationf("invalid scope %q", body.Scope))
		return
	}

	raw, keytag, salt, err := auth.GenerateKey()
	if err != nil {
		s.writeError(w, r, ltzferr.Wrap("generate key", err))
		return
	}
	hash, err := auth.HashKey(raw, salt)
	if err != nil {
		s.writeError(w, r, ltzferr.Wrap("hash key", err))
		return
	}

	id, err := s.keys.Create(r.Context(), auth.APIKey{
		KeyHash:   hash,
		Salt:      salt,
		Keytag:    keytag,
		Scope:     body.Scope,
		CreatedBy: claims.KeyID,
		ExpiresAt: body.ExpiresAt,
	})
	if err != nil {
		s.writeError(w, r, ltzferr.Wrap("create key", err))
		return
	}
	_ = id

	writeJSON(w, http.StatusCreated, createKeyResponse{Key: raw, Keytag: keytag, Scope: body.Scope})
}

func (s *Server) revokeKey(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	if err := auth.RequireKeyAdder(claims); err != nil {
		s.writeError(w, r, err)
		return
	}

	var body revokeKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, r, ltzferr.Validationf("decode body: %v", err))
		return
	}
	if body.Keytag == "" {
		s.writeError(w, r, ltzferr.Validationf("keytag is required"))
		return
	}

	key, found, err := s.keys.FindByKeytag(r.Context(), body.Keytag)
	if err != nil || !found {
		s.writeError(w, r, ltzferr.NotFoundf("api key with keytag %q", body.Keytag))
		return
	}
	if err := s.keys.Revoke(r.Context(), key.ID); err != nil {
		s.writeError(w, r, ltzferr.Wrap("revoke key", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
