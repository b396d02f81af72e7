// Package gateway is the real-time edge of the access system: it owns the
// scanner websocket, runs each scan through the access pipeline, and answers
// in the scanner wire protocol.
package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/net/websocket"

	"github.com/gymgate/gymgate/internal/access/application"
	"github.com/gymgate/gymgate/internal/access/domain"
	"github.com/gymgate/gymgate/pkg/observability"
)

// Config tunes the gateway.
type Config struct {
	// StoreTimeout bounds how long one scan may hold a store connection.
	StoreTimeout time.Duration
	// BreakerFailureThreshold is the consecutive store failures before the
	// breaker opens and scans are answered with ERROR without touching the
	// store.
	BreakerFailureThreshold uint32
	// BreakerTimeout is how long the breaker stays open before probing.
	BreakerTimeout time.Duration
}

// DefaultConfig returns the gateway defaults.
func DefaultConfig() Config {
	return Config{
		StoreTimeout:            5 * time.Second,
		BreakerFailureThreshold: 5,
		BreakerTimeout:          10 * time.Second,
	}
}

// Server terminates scanner websocket connections.
type Server struct {
	decide  *application.DecideAccessHandler
	breaker *gobreaker.CircuitBreaker[*domain.Decision]
	logger  *slog.Logger
	metrics observability.Metrics
	config  Config
}

// NewServer creates a gateway server.
func NewServer(decide *application.DecideAccessHandler, logger *slog.Logger, metrics observability.Metrics, config Config) *Server {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}

	settings := gobreaker.Settings{
		Name:    "access-store",
		Timeout: config.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.BreakerFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}

	return &Server{
		decide:  decide,
		breaker: gobreaker.NewCircuitBreaker[*domain.Decision](settings),
		logger:  logger,
		metrics: metrics,
		config:  config,
	}
}

// Handler returns the HTTP handler with the scanner socket and health routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	wsHandler := websocket.Handler(s.handleConn)
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		wsHandler.ServeHTTP(w, r)
	})

	return mux
}

// handleConn serves one scanner connection. Each frame is one scanned
// credential; replies go back on the same socket.
func (s *Server) handleConn(conn *websocket.Conn) {
	defer func() { _ = conn.Close() }()

	ctx := context.Background()
	if req := conn.Request(); req != nil {
		ctx = req.Context()
	}
	ctx = observability.WithConnectionID(ctx, uuid.NewString())

	s.metrics.Gauge("gateway.connections", 1)
	s.logger.InfoContext(ctx, "scanner connected")
	defer s.logger.InfoContext(ctx, "scanner disconnected")

	for {
		var scanned string
		if err := websocket.Message.Receive(conn, &scanned); err != nil {
			if !errors.Is(err, io.EOF) {
				s.logger.WarnContext(ctx, "scanner read failed", slog.String("error", err.Error()))
			}
			return
		}

		decision, err := s.decideWithBreaker(ctx, scanned)
		if err != nil {
			s.metrics.Counter("gateway.scan.error", 1)
			s.logger.ErrorContext(ctx, "scan processing failed", slog.String("error", err.Error()))
			if sendErr := websocket.JSON.Send(conn, errorReply()); sendErr != nil {
				return
			}
			continue
		}

		// debounced
		if decision == nil {
			continue
		}

		if err := websocket.JSON.Send(conn, replyFor(decision)); err != nil {
			s.logger.WarnContext(ctx, "scanner write failed", slog.String("error", err.Error()))
			return
		}
	}
}

// decideWithBreaker runs the access pipeline behind the store breaker and a
// per-scan timeout.
func (s *Server) decideWithBreaker(ctx context.Context, scanned string) (*domain.Decision, error) {
	return s.breaker.Execute(func() (*domain.Decision, error) {
		scanCtx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
		defer cancel()
		return s.decide.Handle(scanCtx, scanned)
	})
}
