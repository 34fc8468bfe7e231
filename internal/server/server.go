package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Marijn-de-Mul/IOS-NotACookbook/backend/config"
)

// Server wraps the HTTP server around the configured gin router.
type Server struct {
	http *http.Server
}

// New creates a server listening on the configured host and port.
func New(cfg *config.Config, router *gin.Engine) *Server {
	return &Server{
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: router,
		},
	}
}

// Start runs the server until it is shut down.
func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
