package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrymomot/entitlekit/pkg/logger"
)

// Server wraps http.Server with signal handling and a bounded drain window.
//
// The drain window is sized for the webhook endpoint: in-flight provider
// deliveries should finish and be acknowledged before the process exits.
// Deliveries that outlive the window are cut off with a forced close; that is
// safe because the provider redelivers and the ledger's event-ID constraint
// collapses the retry into a no-op.
type Server struct {
	addr            string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	shutdownTimeout time.Duration
	base            *http.Server
	log             *slog.Logger
	startHooks      []func(*slog.Logger)
	stopHooks       []func(*slog.Logger)

	mu      sync.Mutex
	running *http.Server
	drained sync.Once
}

// New returns a configured Server.
func New(opts ...Option) *Server {
	s := &Server{
		addr:            ":8080",
		shutdownTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Noop()
	}
	return s
}

// Run starts the listener and blocks until ctx is cancelled, a SIGINT or
// SIGTERM arrives, or the listener fails. On cancellation or signal the
// server drains within the shutdown timeout before returning.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if handler == nil {
		handler = http.NotFoundHandler()
	}

	s.mu.Lock()
	if s.running != nil {
		s.mu.Unlock()
		return errors.Join(ErrStart, errors.New("server already running"))
	}
	srv := s.base
	if srv == nil {
		srv = &http.Server{}
	}
	if srv.Addr == "" {
		srv.Addr = s.addr
	}
	if srv.ReadTimeout == 0 {
		srv.ReadTimeout = s.readTimeout
	}
	if srv.WriteTimeout == 0 {
		srv.WriteTimeout = s.writeTimeout
	}
	if srv.IdleTimeout == 0 {
		srv.IdleTimeout = s.idleTimeout
	}
	srv.Handler = handler
	s.running = srv
	s.mu.Unlock()

	for _, h := range s.startHooks {
		h(s.log)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr error
	select {
	case <-ctx.Done():
		s.log.InfoContext(ctx, "context cancelled, draining connections")
		_ = s.Shutdown(context.Background())
		runErr = <-errCh
	case sig := <-stop:
		s.log.InfoContext(ctx, "signal received, draining connections", slog.String("signal", sig.String()))
		_ = s.Shutdown(context.Background())
		runErr = <-errCh
	case runErr = <-errCh:
	}

	if runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
		return errors.Join(ErrStart, runErr)
	}
	return nil
}

// Shutdown drains in-flight requests, waiting up to the shutdown timeout
// before closing the remaining connections outright. Safe for repeated calls.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.drained.Do(func() {
		s.mu.Lock()
		srv := s.running
		s.mu.Unlock()
		if srv == nil {
			return
		}

		drainCtx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
		defer cancel()

		err = srv.Shutdown(drainCtx)
		if errors.Is(err, context.DeadlineExceeded) {
			// Whatever is still open is abandoned; webhook retries are
			// deduped by the ledger, so a cut-off delivery is not lost.
			s.log.WarnContext(ctx, "drain window elapsed, closing remaining connections")
			err = srv.Close()
		}

		for _, h := range s.stopHooks {
			h(s.log)
		}
	})

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Join(ErrShutdown, err)
	}
	return nil
}
