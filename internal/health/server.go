package health

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Server answers liveness probes from the hosting environment.
type Server struct {
	srv    *http.Server
	logger *zap.Logger
}

func NewServer(port int, text string, logger *zap.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              ":" + strconv.Itoa(port),
			Handler:           Router(text),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Router serves text on GET / and GET /healthz.
func Router(text string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	live := func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(text))
	}
	r.Get("/", live)
	r.Get("/healthz", live)

	return r
}

// Run listens until ctx is cancelled, then shuts the server down.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Liveness server started", zap.String("addr", s.srv.Addr))
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("liveness server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown liveness server: %w", err)
	}
	s.logger.Info("Liveness server stopped")
	return nil
}
