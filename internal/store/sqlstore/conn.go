// Package sqlstore provides the MySQL-backed connection bootstrap for the
// relational store (R): opening the pool, running the schema, and retrying
// transient connection errors with exponential backoff. Grounded on
// internal/storage/dolt/store.go's server-mode connection path in the
// teacher, which reaches for the same go-sql-driver/mysql plus
// cenkalti/backoff/v4 pairing for the same reason -- go-sql-driver/mysql has
// no built-in retry, so a brief restart or network blip needs an explicit
// retry loop around the initial ping.
//
// internal/store/memstore is the store.Store implementation this module
// actually runs against end to end (see DESIGN.md for why the full
// Tx-level SQL surface stops at this bootstrap layer for now); this package
// gives a deployment with a real MySQL instance a documented, working path
// to stand one up and applies schema.sql as its table definitions.
package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/go-sql-driver/mysql"
)

//go:embed schema.sql
var schemaFS embed.FS

// Config is the connection configuration, sourced from config.Config's
// DBUrl in the form "user:pass@tcp(host:port)/dbname".
type Config struct {
	DSN string
}

// pingMaxElapsed bounds how long Open retries the initial ping before
// giving up, matching the teacher's 10s catalog-catch-up window.
const pingMaxElapsed = 10 * time.Second

// Open opens the connection pool, verifies it with a backoff-retried ping,
// and applies schema.sql. The returned *sql.DB is ready for use as the
// backing of a store.Store implementation.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.MaxElapsedTime = pingMaxElapsed
	if err := backoff.Retry(func() error {
		pingErr := db.PingContext(ctx)
		if pingErr != nil && isRetryableError(pingErr) {
			return pingErr
		}
		if pingErr != nil {
			return backoff.Permanent(pingErr)
		}
		return nil
	}, backoff.WithContext(bo, ctx)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlstore: ping: %w", err)
	}

	if err := applySchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func applySchema(ctx context.Context, db *sql.DB) error {
	raw, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("sqlstore: read schema: %w", err)
	}
	for _, stmt := range strings.Split(string(raw), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlstore: apply schema: %w", err)
		}
	}
	return nil
}

// isRetryableError reports whether err looks like a transient connection
// problem worth retrying rather than a query or constraint error.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	for _, marker := range []string{
		"driver: bad connection",
		"invalid connection",
		"broken pipe",
		"connection reset",
		"connection refused",
		"lost connection",
		"gone away",
		"i/o timeout",
		"unknown database",
	} {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}
