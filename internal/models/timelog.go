package models

// TimeLog is one start/stop work session against a job. A log is "active"
// while both EndTime and DurationMinutes are nil; StopTimeLog fills both.
type TimeLog struct {
	ID              string `gorm:"primaryKey;size:64" json:"id"`
	JobID           string `gorm:"size:64;index" json:"jobId"`
	UserID          string `gorm:"size:64;index" json:"userId"`
	UserName        string `gorm:"size:100" json:"userName"` // denormalized for display
	Operation       string `gorm:"size:100" json:"operation"`
	StartTime       int64  `json:"startTime"` // epoch millis
	EndTime         *int64 `json:"endTime"`   // epoch millis, nil while running
	DurationMinutes *int   `json:"durationMinutes"`
}

func (l TimeLog) Active() bool {
	return l.EndTime == nil
}
