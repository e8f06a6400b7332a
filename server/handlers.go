package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/factlens/factlens/pipeline"
	Logger "github.com/factlens/factlens/utils/log"
)

// Runner is the slice of the pipeline the handler needs, kept as an
// interface so handler tests can fake it.
type Runner interface {
	Run(ctx context.Context, question string) (*pipeline.Result, error)
}

// Pinger reports graph store connectivity for the healthcheck.
type Pinger interface {
	Ping(ctx context.Context) error
}

type QueryRequest struct {
	Question string `json:"question"`
}

// QueryHandler accepts a question string and returns the structured pipeline
// result. Failures return the error kind plus the partial trace so the
// caller can see which stage failed.
func QueryHandler(p Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req QueryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if strings.TrimSpace(req.Question) == "" {
			Logger.Log.Warn("empty question submitted")
			c.JSON(http.StatusBadRequest, gin.H{"error": "question must not be empty"})
			return
		}

		res, err := p.Run(c.Request.Context(), req.Question)
		if err != nil {
			// The pipeline returns a partial result alongside its error, but
			// the interface does not promise one.
			kind := pipeline.KindInternalError
			var trace any
			if res != nil {
				kind = res.Trace.ErrorKind
				trace = res.Trace
			}
			status := http.StatusInternalServerError
			switch kind {
			case pipeline.KindUntranslatableQuery, pipeline.KindExtractionError, pipeline.KindValidationError:
				status = http.StatusUnprocessableEntity
			case pipeline.KindModelUnavailable, pipeline.KindExecutionError:
				status = http.StatusBadGateway
			}
			c.JSON(status, gin.H{
				"error": err.Error(),
				"kind":  kind,
				"trace": trace,
			})
			return
		}

		c.JSON(http.StatusOK, res)
	}
}

// HealthcheckHandler reports whether the graph store is reachable.
func HealthcheckHandler(store Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
