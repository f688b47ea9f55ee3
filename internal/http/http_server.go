package http

// this is entry point of the http request handlers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/codearena.net/internal/core/ports/primary"
	"gitlab.com/codearena.net/internal/core/services/evaluation"
	"gitlab.com/codearena.net/internal/handlers"
	"gitlab.com/codearena.net/internal/handlers/submissions"
)

type ServiceProvider struct {
	evaluationService evaluation.IEvaluationService
	jwtService        primary.JWTService
}

func NewServiceProvider(
	evaluationService evaluation.IEvaluationService,
	jwtService primary.JWTService,
) *ServiceProvider {
	return &ServiceProvider{
		evaluationService: evaluationService,
		jwtService:        jwtService,
	}
}

type Server struct {
	router          *mux.Router
	srv             *http.Server
	Port            int
	ServiceName     string
	ServiceProvider ServiceProvider
	logger          primary.Logger
	// WriteTimeout must outlast the poll budget or submit responses get cut off
	WriteTimeout time.Duration
}

func NewServer(port int, serviceName string, serviceProvider ServiceProvider, writeTimeout time.Duration, logger primary.Logger) *Server {
	return &Server{
		Port:            port,
		ServiceName:     serviceName,
		ServiceProvider: serviceProvider,
		WriteTimeout:    writeTimeout,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	if s.ServiceProvider.evaluationService == nil || s.ServiceProvider.jwtService == nil {
		return fmt.Errorf("%s: service provider is incomplete", s.ServiceName)
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handlers.ResponseError(w, "route not found", http.StatusNotFound)
	})

	middleware := handlers.New(s.ServiceProvider.jwtService, s.logger)
	submissions.
		NewHandler(s.ServiceProvider.evaluationService, s.logger).
		RegisterRoutes(r, middleware)

	s.router = r
	return nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(ctx context.Context) {
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.WriteTimeout,
		IdleTimeout:  60 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		s.logger.Info("Server listening", "service", s.ServiceName, "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
		}
	}()
}

// Stop waits for in-flight evaluations until ctx expires
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down http server...")
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	handlers.ResponseWithJson(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": s.ServiceName,
	})
}
