package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/models"
	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/store"
)

type SettingsHandler struct {
	Facade *store.Facade
}

func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.Facade.GetSettings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

type SaveSettingsRequest struct {
	LunchStart          string   `json:"lunchStart"`
	LunchEnd            string   `json:"lunchEnd"`
	LunchDeductionMins  int      `json:"lunchDeductionMinutes"`
	AutoClockOutTime    string   `json:"autoClockOutTime"`
	AutoClockOutEnabled bool     `json:"autoClockOutEnabled"`
	CustomOperations    []string `json:"customOperations"`
}

func (h *SettingsHandler) Save(c *gin.Context) {
	var req SaveSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings := models.SystemSettings{
		LunchStart:          req.LunchStart,
		LunchEnd:            req.LunchEnd,
		LunchDeductionMins:  req.LunchDeductionMins,
		AutoClockOutTime:    req.AutoClockOutTime,
		AutoClockOutEnabled: req.AutoClockOutEnabled,
		CustomOperations:    req.CustomOperations,
	}
	if err := h.Facade.SaveSettings(c.Request.Context(), settings); err != nil {
		// The local write already stands; the remote mirror is what failed.
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Settings saved"})
}
