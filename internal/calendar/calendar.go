// Package calendar posts due-date reminders to an external calendar webhook.
// Everything here is best-effort: a failure is logged and reported as false,
// never as an error, so job creation can't be blocked by calendar trouble.
package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/models"
)

type Creator struct {
	webhookURL string
	client     *http.Client
}

func New(webhookURL string) *Creator {
	return &Creator{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

type eventPayload struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

// CreateDueDateEvent pushes a calendar entry for the job's due date. Returns
// whether the event was accepted.
func (c *Creator) CreateDueDateEvent(ctx context.Context, job models.Job) bool {
	if c.webhookURL == "" || job.DueDate == "" {
		return false
	}

	payload := eventPayload{
		Title:       fmt.Sprintf("Due: %s (%s)", job.PONumber, job.PartNumber),
		Date:        job.DueDate,
		Description: fmt.Sprintf("Job %s, qty %d. %s", job.JobIDsDisplay, job.Quantity, job.Info),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("calendar: encode event for %s: %v", job.PONumber, err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		log.Printf("calendar: build request for %s: %v", job.PONumber, err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("calendar: event post for %s failed: %v", job.PONumber, err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("calendar: event post for %s returned %d", job.PONumber, resp.StatusCode)
		return false
	}
	return true
}
