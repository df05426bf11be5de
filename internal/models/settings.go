package models

// SystemSettings is the singleton shop configuration, stored under a fixed id
// so both backends treat it as a single document.
type SystemSettings struct {
	ID                  string   `gorm:"primaryKey;size:20" json:"-"`
	LunchStart          string   `gorm:"size:5" json:"lunchStart"` // HH:MM
	LunchEnd            string   `gorm:"size:5" json:"lunchEnd"`
	LunchDeductionMins  int      `json:"lunchDeductionMinutes"`
	AutoClockOutTime    string   `gorm:"size:5" json:"autoClockOutTime"`
	AutoClockOutEnabled bool     `json:"autoClockOutEnabled"`
	CustomOperations    []string `gorm:"serializer:json" json:"customOperations"`
}

const SettingsID = "system"

// DefaultSettings is what a fresh deployment starts from.
func DefaultSettings() SystemSettings {
	return SystemSettings{
		ID:                  SettingsID,
		LunchStart:          "12:00",
		LunchEnd:            "12:30",
		LunchDeductionMins:  30,
		AutoClockOutTime:    "17:00",
		AutoClockOutEnabled: false,
		CustomOperations:    []string{"Cutting", "Milling", "Turning", "Deburr", "Inspection", "Shipping"},
	}
}
