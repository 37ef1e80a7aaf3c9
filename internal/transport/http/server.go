package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"scanrecon/internal/bootstrap/config"
	"scanrecon/internal/bootstrap/logging"
	"scanrecon/internal/errs"
)

// Serve runs the HTTP surface until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, cfg config.HTTPConfig, h Handlers) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(cfg, h),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info(ctx, "http server listening", slog.String("addr", cfg.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errs.Wrap(err, "shutdown http server")
		}
		logging.Info(ctx, "http server stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errs.Wrap(err, "serve http")
	}
}
