package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/tapedeck/internal/server"
	"github.com/desertthunder/tapedeck/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// Serve runs the HTTP API until the process is interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if r.syncer == nil {
		return fmt.Errorf("%w: sync engine not initialized", shared.ErrServiceUnavailable)
	}

	api := server.NewAPI(server.APIConfig{
		Syncer:       r.syncer,
		Playlists:    r.playlists,
		Index:        r.index,
		Auth:         r.auth,
		FrontendURL:  r.config.Server.FrontendURL,
		SecureCookie: cmd.Bool("secure-cookie"),
		Logger:       r.logger,
	})
	router := server.NewRouter(api, r.config.Server.AllowedOrigins)

	ln, err := net.Listen("tcp", r.config.Server.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", r.config.Server.Addr(), err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.writePlain("→ Listening on http://%s\n", ln.Addr())
	return r.serve(ctx, ln, router)
}

// serve runs handler on ln and shuts it down gracefully once ctx is done.
func (r *Runner) serve(ctx context.Context, ln net.Listener, handler http.Handler) error {
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r.logger.Info("api server started", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		r.logger.Info("shutting down api server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
