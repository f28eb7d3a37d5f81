package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	httpDelivery "github.com/shelfprice/collector/internal/delivery/http"
	"github.com/shelfprice/collector/internal/domain"
	"github.com/shelfprice/collector/internal/usecase"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve single product lookups over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			walmart := a.walmartClient()

			var kroger domain.ProductFetcher
			if k, err := a.krogerFetcher(); err != nil {
				a.logger.Warn("kroger lookups disabled", zap.Error(err))
			} else {
				kroger = k
			}

			svc := usecase.NewProductService(walmart, walmart, kroger, a.logger)
			router := httpDelivery.SetupRouter(a.cfg, httpDelivery.NewHandler(svc), a.logger.Named("http"))

			addr := fmt.Sprintf(":%s", a.cfg.Server.Port)
			return listen(cmd.Context(), &http.Server{Addr: addr, Handler: router}, a.logger)
		},
	}
}

// listen serves until ctx is done, then shuts the server down
func listen(ctx context.Context, srv *http.Server, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("server stopped")
	return nil
}
