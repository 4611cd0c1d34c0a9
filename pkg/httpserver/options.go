package httpserver

import (
	"log/slog"
	"net/http"
	"time"
)

// Option configures a Server before it starts.
type Option func(*Server)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	if addr == "" {
		panic("httpserver: WithAddr requires a non-empty address")
	}
	return func(s *Server) { s.addr = addr }
}

// WithReadTimeout bounds reading an entire request, header and body. Webhook
// payloads are small, so a tight bound is fine here.
func WithReadTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("httpserver: WithReadTimeout requires a positive duration")
	}
	return func(s *Server) { s.readTimeout = d }
}

// WithWriteTimeout bounds writing a response.
func WithWriteTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("httpserver: WithWriteTimeout requires a positive duration")
	}
	return func(s *Server) { s.writeTimeout = d }
}

// WithIdleTimeout bounds the keep-alive wait between requests.
func WithIdleTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("httpserver: WithIdleTimeout requires a positive duration")
	}
	return func(s *Server) { s.idleTimeout = d }
}

// WithShutdownTimeout sets the drain window: how long in-flight requests,
// webhook acknowledgments in particular, get to finish before the remaining
// connections are closed.
func WithShutdownTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("httpserver: WithShutdownTimeout requires a positive duration")
	}
	return func(s *Server) { s.shutdownTimeout = d }
}

// WithServer supplies a pre-built http.Server. Fields already set on it win
// over the package defaults.
func WithServer(srv *http.Server) Option {
	if srv == nil {
		panic("httpserver: WithServer requires a non-nil server")
	}
	return func(s *Server) { s.base = srv }
}

// WithLogger routes lifecycle logging. Without it, logs are discarded.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithStartHook registers a callback invoked just before the listener opens.
func WithStartHook(h func(*slog.Logger)) Option {
	if h == nil {
		panic("httpserver: WithStartHook requires a non-nil hook")
	}
	return func(s *Server) { s.startHooks = append(s.startHooks, h) }
}

// WithStopHook registers a callback invoked after the server has drained.
func WithStopHook(h func(*slog.Logger)) Option {
	if h == nil {
		panic("httpserver: WithStopHook requires a non-nil hook")
	}
	return func(s *Server) { s.stopHooks = append(s.stopHooks, h) }
}
