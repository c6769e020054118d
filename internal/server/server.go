package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/msgboard/msgboard/backend/go-services/internal/config"
	"github.com/msgboard/msgboard/backend/go-services/pkg/logger"
)

var ErrTLSFileMissing = errors.New("tls certificate or key file missing")

const defaultShutdownTimeout = 5 * time.Second

// Server binds a handler to the configured port, in plaintext or terminating
// TLS with a locally supplied certificate and key.
type Server struct {
	http            *http.Server
	tls             config.TLSConfig
	shutdownTimeout time.Duration
}

func New(cfg *config.Config, h http.Handler) *Server {
	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	return &Server{
		http: &http.Server{
			Addr:              cfg.Server.Addr(),
			Handler:           h,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       cfg.Server.ReadTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
		},
		tls:             cfg.TLS,
		shutdownTimeout: timeout,
	}
}

// Run listens on the configured address and serves until ctx is canceled or
// the server fails. With TLS enabled, missing certificate files fail before binding.
func (s *Server) Run(ctx context.Context) error {
	if err := s.checkTLSFiles(); err != nil {
		return err
	}
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.http.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener. The listener is closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if err := s.checkTLSFiles(); err != nil {
		_ = ln.Close()
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		var err error
		if s.tls.Enabled {
			logger.Infof("listening on https://%s", ln.Addr())
			err = s.http.ServeTLS(ln, s.tls.CertFile, s.tls.KeyFile)
		} else {
			logger.Infof("listening on http://%s", ln.Addr())
			err = s.http.Serve(ln)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		logger.Infof("shutting down http server")
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return <-serverErr
	}
}

func (s *Server) checkTLSFiles() error {
	if !s.tls.Enabled {
		return nil
	}
	for _, f := range []string{s.tls.CertFile, s.tls.KeyFile} {
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrTLSFileMissing, f, err)
		}
	}
	return nil
}
