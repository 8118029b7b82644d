package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kubev2v/poolserve/internal/config"
)

// Server is the admin HTTP server: status API under /api/v1 and /metrics.
type Server struct {
	srv    *http.Server
	engine *gin.Engine
}

func NewServer(cfg *config.Configuration, metricsHandler http.Handler, registerHandlerFn func(router *gin.RouterGroup)) (*Server, error) {
	if cfg.Server.AdminAddress == "" {
		return nil, errors.New("admin address is empty")
	}

	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := zap.L().Named("http")

	engine := gin.New()
	engine.Use(
		ginzap.Ginzap(logger, time.RFC3339, true),
		ginzap.RecoveryWithZap(logger, true),
	)

	if metricsHandler != nil {
		engine.GET("/metrics", gin.WrapH(metricsHandler))
	}

	registerHandlerFn(engine.Group("/api/v1"))

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return &Server{
		srv: &http.Server{
			Addr:              cfg.Server.AdminAddress,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		engine: engine,
	}, nil
}

// Start blocks until the server fails or is stopped. A stopped server
// returns http.ErrServerClosed.
func (s *Server) Start(ctx context.Context) error {
	s.srv.BaseContext = func(net.Listener) context.Context { return ctx }
	zap.S().Named("http").Infow("admin server started", "address", s.srv.Addr)
	return s.srv.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) Handler() http.Handler {
	return s.engine
}
