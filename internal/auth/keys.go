package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// APIKey is one row of the api_keys table of spec.md section 6. The raw key
// value is never persisted, only its hash; Keytag is a short, non-secret
// prefix returned to the caller once so a lost key can be identified in
// logs without recovering the secret.
type APIKey struct {
	ID        int64
	KeyHash   string
	Salt      string
	Keytag    string
	Scope     Scope
	CreatedBy int64
	ExpiresAt *time.Time
	Deleted   bool
	LastUsed  *time.Time
}

// KeyStore is the persistence contract internal/httpapi's authentication
// middleware and the /auth endpoints consume. It is deliberately separate
// from store.Tx: API keys are an access-control concern orthogonal to the
// legislative-data schema, and keeping the interface here lets a deployment
// back it with something other than the relational store (a secrets
// manager, an IAM-fronted table) without internal/store knowing about it.
type KeyStore interface {
	Create(ctx context.Context, key APIKey) (int64, error)
	// FindByHash takes the caller-supplied raw key, narrows to the stored
	// row sharing its public keytag prefix, and runs VerifyKey against that
	// row's hash and salt. It returns found=false both when no row shares
	// the keytag and when the row exists but raw fails verification --
	// keytag collisions are not a secrecy boundary, only a lookup shortcut.
	FindByHash(ctx context.Context, raw string) (*APIKey, bool, error)
	// FindByKeytag looks a key up by its non-secret public tag, for
	// administrative operations (revocation) that never see the raw key.
	FindByKeytag(ctx context.Context, keytag string) (*APIKey, bool, error)
	Revoke(ctx context.Context, id int64) error
	Touch(ctx context.Context, id int64, now time.Time) error
}

// GenerateKey mints a fresh random key, its short public tag, and the salt
// used to hash it. The caller is responsible for returning raw to the
// client exactly once and persisting only Hash(raw, salt).
func GenerateKey() (raw, keytag, salt string, err error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", "", "", fmt.Errorf("auth: generate key: %w", err)
	}
	saltBytes := make([]byte, 16)
	if _, err := rand.Read(saltBytes); err != nil {
		return "", "", "", fmt.Errorf("auth: generate salt: %w", err)
	}
	raw = hex.EncodeToString(rawBytes)
	salt = hex.EncodeToString(saltBytes)
	keytag = raw[:8]
	return raw, keytag, salt, nil
}

// HashKey combines raw with salt through bcrypt, the same cost-factor
// password hash the spec's key_hash column is sized for.
func HashKey(raw, salt string) (string, error) {
	sum, err := bcrypt.GenerateFromPassword([]byte(raw+salt), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth: hash key: %w", err)
	}
	return string(sum), nil
}

// VerifyKey reports whether raw, combined with salt, matches hash.
func VerifyKey(hash, raw, salt string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw+salt)) == nil
}
