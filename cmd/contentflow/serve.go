package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"contentflow/internal/api"
	"contentflow/internal/api/handler"
	"contentflow/internal/config"
	"contentflow/internal/research"
	"contentflow/pkg/router"
)

var port int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(func(c *config.Config) {
			if port != 0 {
				c.Server.Port = port
			}
		})
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return a.serve(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (overrides config and $PORT)")
}

// serve runs the HTTP server and the progress janitor until ctx is cancelled, then drains
// in-flight requests and generations.
func (a *app) serve(ctx context.Context) error {
	h := handler.New(handler.Deps{
		Runner:     a.runner,
		Progress:   a.progress,
		Engine:     a.engine,
		Researcher: a.researcher,
		Writer:     a.writer,
		Searcher:   research.NewSearcher(a.researcher),
		Logger:     a.logger,
	})

	r := router.New()
	r.SetLogger(log.New(log.Writer(), "", 0))
	api.RegisterRoutes(r, h, a.registry)

	srv := &http.Server{
		Addr:              a.cfg.Server.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("server started", "addr", srv.Addr, "base_url", a.cfg.Server.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return a.progress.Run(gctx, a.cfg.Store.Sweep())
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down", "grace", a.cfg.Server.ShutdownGrace())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownGrace())
		defer cancel()

		var errs []error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		if err := a.runner.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Error("server stopped", "error", err)
		return err
	}
	a.logger.Info("server stopped")
	return nil
}
