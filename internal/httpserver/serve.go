// Package httpserver runs an http.Server until its context is cancelled.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/MrEthical07/goGate/internal/logutil"
)

// ShutdownTimeout bounds the graceful drain after ctx is cancelled.
var ShutdownTimeout = 30 * time.Second

func newServer(handler http.Handler) *http.Server {
	return &http.Server{
		Handler:           handler,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       5 * time.Minute,
	}
}

// Serve listens on bind and serves handler until ctx is done. A clean
// shutdown returns nil.
func Serve(ctx context.Context, bind string, handler http.Handler) error {
	ln, err := net.Listen("tcp", bind)
	if err != nil {
		return err
	}
	return ServeListener(ctx, ln, handler)
}

// ServeListener is Serve on an existing listener. The listener is closed
// on return.
func ServeListener(ctx context.Context, ln net.Listener, handler http.Handler) error {
	server := newServer(handler)
	log := logutil.GetOrDefault(ctx).With().Str("server.addr", ln.Addr().String()).Logger()

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Msg("Starting HTTP server")
		err := server.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		serveErr <- err
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Initiating shutdown process")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("Shutdown completed")
	return <-serveErr
}
