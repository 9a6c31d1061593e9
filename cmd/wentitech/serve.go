package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wentitech/wentitech/internal/build"
	"github.com/wentitech/wentitech/internal/clock"
	"github.com/wentitech/wentitech/internal/config"
	"github.com/wentitech/wentitech/internal/db"
	"github.com/wentitech/wentitech/internal/handler"
	"github.com/wentitech/wentitech/internal/live"
	"github.com/wentitech/wentitech/internal/session"
	"github.com/wentitech/wentitech/internal/store"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger, err := config.NewLogger(cfg.Logging)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			logger.Info("starting wentitech",
				zap.String("version", build.Version),
				zap.String("commit", build.Commit),
				zap.String("branch", build.Branch),
			)

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			applied, err := db.Migrate(cmd.Context(), database, cfg.DB.Driver)
			if err != nil {
				return err
			}
			if len(applied) > 0 {
				logger.Info("schema migrated", zap.Int64s("applied", applied))
			}

			sessionManager := session.NewManager(database, cfg.DB.Driver, cfg.Session.Lifetime, cfg.HTTP.SecureCookies)
			prefs := store.NewPreferenceStore(database)
			hub := live.NewHub(logger)

			liveHandler := live.NewHandler(live.PageDeps{
				Hub:              hub,
				Prefs:            prefs,
				Scheduler:        clock.Real{},
				SubmitLatency:    cfg.Contact.SubmitLatency,
				ClipboardTimeout: cfg.Contact.ClipboardTimeout,
				Logger:           logger,
			}, sessionManager, cfg.HTTP.AllowedOrigins)

			router := handler.NewRouter(handler.Deps{
				SessionManager: sessionManager,
				Prefs:          prefs,
				Hub:            hub,
				Live:           liveHandler,
				DB:             database,
				BasePath:       cfg.HTTP.BasePath,
				Logger:         logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{
				Addr:              cfg.HTTP.Addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
				BaseContext:       func(_ net.Listener) context.Context { return ctx },
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", zap.String("addr", cfg.HTTP.Addr), zap.String("base_path", cfg.HTTP.BasePath))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("http server: %w", err)
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return nil
		},
	}
}
