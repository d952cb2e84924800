package cli

import (
	"context"
	"domainkeeper/internal/auth"
	"domainkeeper/internal/config"
	"domainkeeper/internal/httphandlers"
	"domainkeeper/logger"
	"errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 60 * time.Second

var errNoJWTSecret = errors.New("JWT_SECRET is not set")

func newServeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the background job scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return serve(ctx, *cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	if cfg.JWTSecret == "" {
		return errNoJWTSecret
	}

	a, err := newApp(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("teardown failed", zap.Error(err))
		}
	}()

	if err := a.queue.ScheduleCron(cfg.SSLRecheckCron, a.env.RecheckSSL()); err != nil {
		return err
	}
	a.queue.Start()

	handler := httphandlers.NewApiHandler(a.domains)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httphandlers.Routes(handler, auth.NewTokenService(cfg.JWTSecret), a.metrics),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("serving http", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		if qerr := a.queue.Shutdown(); qerr != nil {
			logger.Error("queue shutdown failed", zap.Error(qerr))
		}
		return err
	})

	return g.Wait()
}
