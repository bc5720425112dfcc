// Command ltzfd runs the legislative-proceedings integration service: the
// HTTP facade of internal/httpapi backed by the in-memory relational store
// of internal/store/memstore, wired the way cmd/bd/webhook.go wires a
// cobra-driven HTTP server with signal-based graceful shutdown.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ltzf/ltzfd/internal/auth"
	"github.com/ltzf/ltzfd/internal/config"
	"github.com/ltzf/ltzfd/internal/httpapi"
	"github.com/ltzf/ltzfd/internal/notify"
	"github.com/ltzf/ltzfd/internal/ratelimit"
	"github.com/ltzf/ltzfd/internal/store/memstore"
	"github.com/ltzf/ltzfd/internal/telemetry"
)

var v = config.New()

var rootCmd = &cobra.Command{
	Use:   "ltzfd",
	Short: "Legislative-proceedings merge and integration service",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func init() {
	config.BindFlags(rootCmd, v)
	serveCmd.Flags().String("otlp-endpoint", "", "OTLP collector endpoint; empty means stdout exporters")
	_ = v.BindPFlag("otlp_endpoint", serveCmd.Flags().Lookup("otlp-endpoint"))
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	providers, err := telemetry.Setup(ctx, v.GetString("otlp_endpoint"))
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}

	mailer := notify.NewSMTPMailer(notify.MailConfig{
		Server:    cfg.MailServer,
		User:      cfg.MailUser,
		Password:  cfg.MailPassword,
		Sender:    cfg.MailSender,
		Recipient: cfg.MailRecipient,
	})
	sink := notify.New(mailer, logger)
	sink.Start(ctx)

	st := memstore.New()
	keys := auth.NewMemKeyStore()

	if cfg.KeyadderKey != "" {
		if err := bootstrapKeyadderKey(ctx, keys, cfg.KeyadderKey); err != nil {
			return fmt.Errorf("bootstrap keyadder key: %w", err)
		}
	}
	if cfg.KeysFile != "" {
		if err := bootstrapKeysFile(ctx, keys, cfg.KeysFile); err != nil {
			return fmt.Errorf("bootstrap keys file: %w", err)
		}
	}

	limit := ratelimit.New(cfg.ReqLimitCount, cfg.ReqLimitInterval)

	srv := httpapi.New(httpapi.Config{
		Store:            st,
		Keys:             keys,
		Sink:             sink,
		MaxProvenanceLog: cfg.PerObjectScraperLogSize,
		BaseURL:          fmt.Sprintf("http://%s:%d", cfg.Host, cfg.Port),
		Limiter:          limit,
		Logger:           logger,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      srv.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	logger.Info("starting ltzfd", "addr", addr)
	serveErr := httpSrv.ListenAndServe()
	if serveErr != nil && serveErr != http.ErrServerClosed {
		return fmt.Errorf("serve: %w", serveErr)
	}

	// The HTTP listener is already down by this point; the sink and the
	// telemetry providers have no dependency on each other, so tear them
	// down concurrently rather than paying their shutdown timeouts in
	// sequence.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var eg errgroup.Group
	eg.Go(func() error {
		sink.Stop()
		return nil
	})
	eg.Go(func() error {
		return providers.Shutdown(shutdownCtx)
	})
	if err := eg.Wait(); err != nil {
		logger.Error("shutdown", "err", err)
	}

	logger.Info("ltzfd stopped")
	return nil
}

// bootstrapKeyadderKey seeds a single KeyAdder-scope key from configuration
// so a fresh deployment has a way to issue further keys through POST /auth
// without direct datastore access.
func bootstrapKeyadderKey(ctx context.Context, keys *auth.MemKeyStore, raw string) error {
	salt := raw[:min(len(raw), 16)]
	hash, err := auth.HashKey(raw, salt)
	if err != nil {
		return err
	}
	_, err = keys.Create(ctx, auth.APIKey{
		KeyHash: hash,
		Salt:    salt,
		Keytag:  raw[:min(len(raw), 8)],
		Scope:   auth.ScopeKeyAdder,
	})
	return err
}

// bootstrapKeysFile seeds one or more pre-issued keys from a TOML file, for
// deployments that want fixed admin/keyadder keys provisioned out of band
// rather than minted through POST /auth.
func bootstrapKeysFile(ctx context.Context, keys *auth.MemKeyStore, path string) error {
	entries, err := config.LoadKeysFile(path)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		scope := auth.Scope(entry.Scope)
		switch scope {
		case auth.ScopeAdmin, auth.ScopeKeyAdder, auth.ScopeCollector:
		default:
			return fmt.Errorf("keys file: invalid scope %q", entry.Scope)
		}
		salt := entry.Raw[:min(len(entry.Raw), 16)]
		hash, err := auth.HashKey(entry.Raw, salt)
		if err != nil {
			return err
		}
		if _, err := keys.Create(ctx, auth.APIKey{
			KeyHash: hash,
			Salt:    salt,
			Keytag:  entry.Raw[:min(len(entry.Raw), 8)],
			Scope:   scope,
		}); err != nil {
			return err
		}
	}
	return nil
}
