package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/calendar"
	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/models"
	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/store"
)

type JobHandler struct {
	Facade   *store.Facade
	Calendar *calendar.Creator
}

type SaveJobRequest struct {
	ID            string `json:"id"`
	JobIDsDisplay string `json:"jobIdsDisplay"`
	PONumber      string `json:"poNumber" binding:"required"`
	PartNumber    string `json:"partNumber"`
	Customer      string `json:"customer"`
	Priority      string `json:"priority"`
	Quantity      int    `json:"quantity"`
	DateReceived  string `json:"dateReceived"`
	DueDate       string `json:"dueDate"`
	Info          string `json:"info"`
	Status        string `json:"status"`
}

func (r SaveJobRequest) toJob() (models.Job, string) {
	job := models.Job{
		ID:            r.ID,
		JobIDsDisplay: r.JobIDsDisplay,
		PONumber:      r.PONumber,
		PartNumber:    r.PartNumber,
		Customer:      r.Customer,
		Priority:      models.JobPriority(r.Priority),
		Quantity:      r.Quantity,
		DateReceived:  r.DateReceived,
		DueDate:       r.DueDate,
		Info:          r.Info,
		Status:        models.JobStatus(r.Status),
	}
	if r.Quantity < 0 {
		return job, "quantity cannot be negative"
	}
	if r.Priority != "" && !job.Priority.Valid() {
		return job, "invalid priority"
	}
	if r.Status != "" && !job.Status.Valid() {
		return job, "invalid status"
	}
	return job, ""
}

func (h *JobHandler) List(c *gin.Context) {
	jobs, err := h.Facade.ListJobs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.Facade.GetJobByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) Create(c *gin.Context) {
	var req SaveJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	job, msg := req.toJob()
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	job.ID = "" // always a fresh id on create

	saved, err := h.Facade.SaveJob(c.Request.Context(), job)
	if err != nil {
		respondError(c, err)
		return
	}

	// Calendar sync never blocks or fails job creation.
	if saved.DueDate != "" && h.Calendar != nil {
		go func(j models.Job) {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if !h.Calendar.CreateDueDateEvent(ctx, j) {
				log.Printf("calendar event not created for job %s", j.PONumber)
			}
		}(*saved)
	}

	c.JSON(http.StatusCreated, saved)
}

func (h *JobHandler) Update(c *gin.Context) {
	var req SaveJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	job, msg := req.toJob()
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	job.ID = c.Param("id")

	existing, err := h.Facade.GetJobByID(c.Request.Context(), job.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	job.CreatedAt = existing.CreatedAt
	if job.Status == models.JobCompleted {
		job.CompletedAt = existing.CompletedAt
	}

	saved, err := h.Facade.SaveJob(c.Request.Context(), job)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *JobHandler) Delete(c *gin.Context) {
	if err := h.Facade.DeleteJob(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Job and its time logs deleted"})
}

func (h *JobHandler) Complete(c *gin.Context) {
	job, err := h.Facade.CompleteJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) Reopen(c *gin.Context) {
	job, err := h.Facade.ReopenJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}
