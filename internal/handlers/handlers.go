package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/kubev2v/poolserve/pkg/scheduler"
)

// PoolInspector is the read-only view of the scheduler the handlers need.
type PoolInspector interface {
	Stats() scheduler.Stats
	Workers() []scheduler.WorkerInfo
}

type Handler struct {
	pool PoolInspector
}

func New(pool PoolInspector) *Handler {
	return &Handler{
		pool: pool,
	}
}

// RegisterHandlers mounts the handler routes on router.
func RegisterHandlers(router gin.IRouter, h *Handler) {
	router.GET("/health", h.GetHealth)
	router.GET("/pool", h.GetPoolStatus)
}
