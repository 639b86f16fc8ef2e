package handlers

import (
	"context"
	"errors"
	"net/http"

	"dbassistant/models"
	"dbassistant/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// @title           Database Analytics Assistant API
// @version         1.0
// @description     Ask questions about your databases in natural language. Each browser session owns one query panel; the panel forwards questions to the analytics backend and keeps the charts, narrative or error it returns.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:9090
// @BasePath  /

// @schemes   http https

// HealthChecker reports on the analytics backend.
type HealthChecker interface {
	BaseURL() string
	Health(ctx context.Context) (*models.HealthResponse, error)
}

// SnapshotCounter is implemented by snapshot stores that can report their size.
type SnapshotCounter interface {
	CountSnapshots() (int, error)
}

type Handlers struct {
	sessions  *service.Sessions
	backend   HealthChecker
	snapshots SnapshotCounter
	metrics   http.Handler
	logger    zerolog.Logger
}

// New wires the handlers. snapshots and metricsHandler may be nil.
func New(sessions *service.Sessions, backend HealthChecker, snapshots SnapshotCounter, metricsHandler http.Handler, logger zerolog.Logger) *Handlers {
	return &Handlers{
		sessions:  sessions,
		backend:   backend,
		snapshots: snapshots,
		metrics:   metricsHandler,
		logger:    logger,
	}
}

// errorStatus maps panel precondition errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrEmptyQuestion), errors.Is(err, service.ErrUnknownDatabase):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNoSuchSample):
		return http.StatusNotFound
	case errors.Is(err, service.ErrBusy):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse is the body of every failed JSON API call.
type ErrorResponse struct {
	Error string `json:"error" example:"question is empty"`
}

func abortJSON(c *gin.Context, err error) {
	c.AbortWithStatusJSON(errorStatus(err), ErrorResponse{Error: err.Error()})
}
