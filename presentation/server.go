package presentation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/solenne-ai/cadenza/companion/config"
	"github.com/solenne-ai/cadenza/logging"
)

// Server exposes the presentation stream over HTTP
type Server struct {
	hub    *Hub
	logger logging.Logger
	http   *http.Server
}

// NewServer mounts the hub at /stream plus a health probe
func NewServer(cfg config.PresentationConfig, hub *Hub, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	mux := http.NewServeMux()
	mux.Handle("/stream", hub)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return &Server{
		hub:    hub,
		logger: logger,
		http: &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Run serves until ctx is cancelled, then drains clients and shuts
// the listener down
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.ListenAndServe()
	}()

	s.logger.Info("presentation server listening", logging.Fields{"addr": s.http.Addr})

	select {
	case <-ctx.Done():
		s.hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown presentation server: %w", err)
		}
		return ctx.Err()

	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("presentation server: %w", err)
		}
		return nil
	}
}
