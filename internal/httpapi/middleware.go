package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/ltzf/ltzfd/internal/auth"
	"github.com/ltzf/ltzfd/internal/ltzferr"
)

type claimsKey struct{}

// withClaims authenticates the X-API-Key header against KeyStore, rejecting
// missing, unknown, expired, deleted or revoked keys before the handler sees
// the request. Public requests (GET) never reach this middleware: each
// resource handler wraps only its write methods with it, rather than this
// function special-casing an empty header.
func (s *Server) withClaims(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("X-API-Key")
		if raw == "" {
			s.writeError(w, r, ltzferr.Authorizationf("missing X-API-Key header"))
			return
		}

		claims, err := s.resolveClaims(r.Context(), raw)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next(w, r.WithContext(ctx))
	}
}

// resolveClaims verifies raw against the stored key it matches (see
// KeyStore.FindByHash's doc comment for how the lookup-then-verify split
// works) and rejects a verified key that is expired or revoked.
func (s *Server) resolveClaims(ctx context.Context, raw string) (auth.Claims, error) {
	key, found, err := s.keys.FindByHash(ctx, raw)
	if err != nil {
		return auth.Claims{}, ltzferr.Wrap("resolve api key", err)
	}
	if !found || key.Deleted {
		return auth.Claims{}, ltzferr.Authorizationf("unknown or revoked api key")
	}
	if key.ExpiresAt != nil && key.ExpiresAt.Before(time.Now().UTC()) {
		return auth.Claims{}, ltzferr.Authorizationf("api key expired")
	}
	_ = s.keys.Touch(ctx, key.ID, time.Now().UTC())
	return auth.Claims{Scope: key.Scope, KeyID: key.ID}, nil
}

// claimsFrom retrieves the Claims withClaims installed on the request
// context. Only ever called from handlers reached through withClaims.
func claimsFrom(r *http.Request) auth.Claims {
	c, _ := r.Context().Value(claimsKey{}).(auth.Claims)
	return c
}
