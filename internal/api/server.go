package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/user/lightbox-fetcher/internal/domain"
)

// ImageService is what the HTTP layer drives.
type ImageService interface {
	FetchAll(ctx context.Context, links []string, force bool) []*domain.FetchResult
	Status(ctx context.Context, link string) (*domain.FetchStatusResponse, error)
	Health(ctx context.Context) map[string]error
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	router     http.Handler
	httpServer *http.Server
	service    ImageService
	logger     *zap.Logger
}

func NewServer(port string, svc ImageService, l *zap.Logger) *Server {
	s := &Server{
		service: svc,
		logger:  l,
	}
	s.router = s.setupRouter()
	s.httpServer = &http.Server{
		Addr:        fmt.Sprintf(":%s", port),
		Handler:     s.router,
		ReadTimeout: 10 * time.Second,
		// Fetch requests run synchronously and can take a while.
		WriteTimeout: 5 * time.Minute,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks until the server stops. After Shutdown it returns
// http.ErrServerClosed, also when Shutdown ran first.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
