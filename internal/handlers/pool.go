package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kubev2v/poolserve/internal/models"
	"github.com/kubev2v/poolserve/pkg/scheduler"
)

// GetPoolStatus returns the scheduler counters and the state of every worker
// (GET /pool)
func (h *Handler) GetPoolStatus(c *gin.Context) {
	c.JSON(http.StatusOK, newPoolStatus(h.pool.Stats(), h.pool.Workers()))
}

// GetHealth reports that the admin server is up
// (GET /health)
func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, models.Health{Status: "ok"})
}

func newPoolStatus(stats scheduler.Stats, workers []scheduler.WorkerInfo) models.PoolStatus {
	states := make([]models.WorkerStatus, 0, len(workers))
	for _, w := range workers {
		states = append(states, models.WorkerStatus{ID: w.ID, State: string(w.State)})
	}

	return models.PoolStatus{
		Workers:   stats.Workers,
		Busy:      stats.Busy,
		Idle:      stats.Idle(),
		Queued:    stats.Queued,
		Submitted: stats.Submitted,
		Executed:  stats.Executed,
		Panicked:  stats.Panicked,
		Discarded: stats.Discarded,
		States:    states,
	}
}
