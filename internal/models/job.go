package models

type JobPriority string

const (
	PriorityLow    JobPriority = "low"
	PriorityNormal JobPriority = "normal"
	PriorityHigh   JobPriority = "high"
	PriorityUrgent JobPriority = "urgent"
)

type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobInProgress JobStatus = "in-progress"
	JobCompleted  JobStatus = "completed"
	JobOnHold     JobStatus = "hold"
)

// Job is one unit of production work. The PO number is what operators see as
// the primary identifier; ID is the stable storage key.
type Job struct {
	ID            string      `gorm:"primaryKey;size:64" json:"id"`
	JobIDsDisplay string      `gorm:"size:100" json:"jobIdsDisplay"`
	PONumber      string      `gorm:"size:100;index" json:"poNumber"`
	PartNumber    string      `gorm:"size:100" json:"partNumber"`
	Customer      string      `gorm:"size:150" json:"customer,omitempty"`
	Priority      JobPriority `gorm:"size:20;default:'normal'" json:"priority"`
	Quantity      int         `json:"quantity"`
	DateReceived  string      `gorm:"size:10" json:"dateReceived"` // YYYY-MM-DD or empty
	DueDate       string      `gorm:"size:10" json:"dueDate"`      // YYYY-MM-DD or empty
	Info          string      `gorm:"type:text" json:"info"`
	Status        JobStatus   `gorm:"size:20;default:'pending'" json:"status"`
	CreatedAt     int64       `json:"createdAt"`             // epoch millis
	CompletedAt   *int64      `json:"completedAt,omitempty"` // epoch millis, set iff Status == completed
}

func (s JobStatus) Valid() bool {
	switch s {
	case JobPending, JobInProgress, JobCompleted, JobOnHold:
		return true
	}
	return false
}

func (p JobPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}
