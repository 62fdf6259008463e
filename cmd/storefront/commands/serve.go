package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/alextreichler/shopfront/internal/config"
	"github.com/alextreichler/shopfront/internal/handlers"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web storefront",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg

	db, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	templates := handlers.NewTemplateCache()
	if err := templates.LoadEmbedded(); err != nil {
		return err
	}

	shop := &handlers.ShopHandler{
		Store:        db,
		SessionStore: newSessionStore(cfg),
		Templates:    templates,
	}

	registerLimiter := handlers.NewRateLimiter(cfg.RegisterRateWindow)
	defer registerLimiter.Stop()

	mux := http.NewServeMux()
	shop.Routes(mux, registerLimiter)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newHandler(cfg, mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server starting", "port", cfg.Port, "driver", cfg.DBDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down server gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server stopped with error", "error", err)
		return err
	}
	slog.Info("Server exited gracefully.")
	return nil
}

func newSessionStore(cfg *config.Config) *sessions.CookieStore {
	store := sessions.NewCookieStore(cfg.SessionKey)
	store.Options.HttpOnly = true
	store.Options.Secure = cfg.CookieSecure
	store.Options.SameSite = http.SameSiteLaxMode
	store.Options.Path = "/"
	if cfg.CookieDomain != "" {
		store.Options.Domain = cfg.CookieDomain
	}
	return store
}

// newHandler wraps mux in the middleware chain:
// Logger -> Security Headers -> (Plaintext) -> CSRF -> Mux
func newHandler(cfg *config.Config, mux http.Handler) http.Handler {
	protect := csrf.Protect(
		cfg.CSRFKey,
		csrf.Secure(cfg.CookieSecure),
		csrf.Path("/"),
		csrf.TrustedOrigins([]string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port, "localhost", "127.0.0.1"}),
	)

	h := protect(mux)
	if !cfg.CookieSecure {
		h = handlers.PlaintextHTTPMiddleware(h)
	}
	return handlers.LoggingMiddleware(handlers.SecurityHeadersMiddleware(h))
}
