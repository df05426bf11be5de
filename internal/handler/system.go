package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/models"
	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/store"
)

// SystemHandler exposes connectivity status and the live SSE streams the
// dashboard renders from. Each stream event carries the full current set.
type SystemHandler struct {
	Facade *store.Facade
}

func (h *SystemHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.Facade.Status())
}

func (h *SystemHandler) StreamJobs(c *gin.Context) {
	ch := make(chan any, 4)
	stop := h.Facade.SubscribeJobs(func(jobs []models.Job) {
		push(ch, jobs)
	})
	defer stop()
	h.stream(c, "jobs", ch)
}

func (h *SystemHandler) StreamLogs(c *gin.Context) {
	ch := make(chan any, 4)
	stop := h.Facade.SubscribeLogs(func(logs []models.TimeLog) {
		push(ch, logs)
	})
	defer stop()
	h.stream(c, "logs", ch)
}

func (h *SystemHandler) StreamActiveLogs(c *gin.Context) {
	ch := make(chan any, 4)
	stop := h.Facade.SubscribeActiveLogs(func(logs []models.TimeLog) {
		push(ch, logs)
	})
	defer stop()
	h.stream(c, "active-logs", ch)
}

func (h *SystemHandler) StreamUsers(c *gin.Context) {
	ch := make(chan any, 4)
	stop := h.Facade.SubscribeUsers(func(users []models.User) {
		push(ch, users)
	})
	defer stop()
	h.stream(c, "users", ch)
}

// push drops the event when the client is behind; the next full set
// supersedes anything missed.
func push(ch chan any, v any) {
	select {
	case ch <- v:
	default:
	}
}

func (h *SystemHandler) stream(c *gin.Context, event string, ch <-chan any) {
	c.Writer.Header().Set("Cache-Control", "no-cache")
	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case msg := <-ch:
			c.SSEvent(event, msg)
			return true
		}
	})
}
