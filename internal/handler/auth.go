package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/config"
	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/store"
	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/utils"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Pin      string `json:"pin" binding:"required"`
}

type AuthHandler struct {
	Facade *store.Facade
	Cfg    *config.Config
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The facade swallows remote trouble and falls back to local storage,
	// so an error here is a genuine local failure, not "wrong PIN".
	user, err := h.Facade.LoginUser(c.Request.Context(), req.Username, req.Pin)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or PIN"})
		return
	}

	token, err := utils.GenerateToken(h.Cfg.Server.JWTSecret, h.Cfg.Server.JWTExpirationHours, user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}
