package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vmercier/timesup-backend/internal/config"
	"github.com/vmercier/timesup-backend/internal/httpapi"
	"github.com/vmercier/timesup-backend/internal/hub"
	"github.com/vmercier/timesup-backend/internal/snapshot"
)

func main() {
	cfg := &config.Config{}

	cmd := &cobra.Command{
		Use:           "timesup-server",
		Short:         "Backend for a Time's Up-style team word-guessing party game.",
		Args:          cobra.ExactArgs(0),
		Version:       httpapi.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
	config.Bind(cmd.Flags(), cfg)
	cmd.SetVersionTemplate("timesup-server v{{.Version}}\n")

	cobra.CheckErr(cmd.Execute())
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newSnapshotStore(cfg *config.Config) (snapshot.Store, error) {
	if cfg.SnapshotDSN != "" {
		return snapshot.NewDBStore(cfg.SnapshotDSN)
	}
	return snapshot.NewFileStore(cfg.SnapshotDir)
}

func run(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log, err := newLogger(cfg.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	snaps, err := newSnapshotStore(cfg)
	if err != nil {
		return err
	}

	h := hub.NewHub(ctx, snaps, log)

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Bind, strconv.Itoa(cfg.Port)),
		Handler:           httpapi.SetupRoutes(h, cfg.BaseURL, log),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       10 * time.Minute,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("listening", zap.String("addr", srv.Addr), zap.String("base_url", cfg.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		h.Inbox() <- hub.ShutdownHub{}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("shut down cleanly")
	return nil
}
