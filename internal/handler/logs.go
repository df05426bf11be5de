package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/models"
	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/store"
)

type LogHandler struct {
	Facade *store.Facade
}

func (h *LogHandler) List(c *gin.Context) {
	logs, err := h.Facade.ListLogs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (h *LogHandler) ListActive(c *gin.Context) {
	logs, err := h.Facade.ListActiveLogs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

type StartLogRequest struct {
	JobID     string `json:"jobId" binding:"required"`
	UserID    string `json:"userId" binding:"required"`
	UserName  string `json:"userName" binding:"required"`
	Operation string `json:"operation" binding:"required"`
}

func (h *LogHandler) Start(c *gin.Context) {
	var req StartLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// One active session per user: the UI enforces this too, but gate it
	// here so a stale tab can't double-clock anyone.
	active, err := h.Facade.ListActiveLogs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	for _, l := range active {
		if l.UserID == req.UserID {
			c.JSON(http.StatusConflict, gin.H{"error": "You already have an active session. Stop it before starting another."})
			return
		}
	}

	entry, err := h.Facade.StartTimeLog(c.Request.Context(), req.JobID, req.UserID, req.UserName, req.Operation)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *LogHandler) Stop(c *gin.Context) {
	entry, err := h.Facade.StopTimeLog(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

type UpdateLogRequest struct {
	JobID     string `json:"jobId" binding:"required"`
	UserID    string `json:"userId" binding:"required"`
	UserName  string `json:"userName" binding:"required"`
	Operation string `json:"operation"`
	StartTime int64  `json:"startTime" binding:"required"`
	EndTime   *int64 `json:"endTime"` // null re-opens the session
}

func (h *LogHandler) Update(c *gin.Context) {
	var req UpdateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.Facade.UpdateTimeLog(c.Request.Context(), models.TimeLog{
		ID:        c.Param("id"),
		JobID:     req.JobID,
		UserID:    req.UserID,
		UserName:  req.UserName,
		Operation: req.Operation,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *LogHandler) Delete(c *gin.Context) {
	if err := h.Facade.DeleteTimeLog(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Log deleted"})
}
