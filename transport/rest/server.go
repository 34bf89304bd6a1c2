package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

type Server struct {
	logger *slog.Logger
	srv    *http.Server
}

func NewServer(logger *slog.Logger, port string, games gameManager) *Server {
	return &Server{
		logger: logger.With("component", "http server"),
		srv: &http.Server{
			Addr:         ":" + port,
			Handler:      NewRouter(logger, games),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
	}
}

// NewRouter - binds the game operations to their routes.
func NewRouter(logger *slog.Logger, games gameManager) http.Handler {
	h := newHandlers(logger, games)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", h.ping)
	mux.HandleFunc("POST /games", h.startGame)
	mux.HandleFunc("POST /games/{id}/join", h.joinGame)
	mux.HandleFunc("GET /games/{id}", h.getState)
	mux.HandleFunc("POST /games/{id}/fire", h.fire)
	mux.HandleFunc("DELETE /games/{id}", h.deleteGame)

	return h.withRequestID(mux)
}

func (that *Server) Start() error {
	that.logger.Info("Starting HTTP server", "addr", that.srv.Addr)

	if err := that.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) Stop(ctx context.Context) error {
	if err := that.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	return nil
}
