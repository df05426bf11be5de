package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/models"
	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/store"
	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/utils"
)

type UserHandler struct {
	Facade *store.Facade
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Facade.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
	Pin      string `json:"pin" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Role != models.RoleAdmin && req.Role != models.RoleEmployee {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be admin or employee"})
		return
	}

	hash, err := utils.HashPIN(req.Pin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash PIN"})
		return
	}

	user, err := h.Facade.SaveUser(c.Request.Context(), models.User{
		Name:     req.Name,
		Username: req.Username,
		PinHash:  hash,
		Role:     req.Role,
		IsActive: true,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

type UpdateUserRequest struct {
	Name     string  `json:"name" binding:"required"`
	Username string  `json:"username" binding:"required"`
	Pin      *string `json:"pin"` // nil keeps the current PIN
	Role     string  `json:"role" binding:"required"`
	IsActive *bool   `json:"isActive"`
}

func (h *UserHandler) Update(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	users, err := h.Facade.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	var existing *models.User
	for i := range users {
		if users[i].ID == id {
			existing = &users[i]
			break
		}
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	existing.Name = req.Name
	existing.Username = req.Username
	existing.Role = req.Role
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}
	if req.Pin != nil && *req.Pin != "" {
		hash, err := utils.HashPIN(*req.Pin)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash PIN"})
			return
		}
		existing.PinHash = hash
	}

	user, err := h.Facade.SaveUser(c.Request.Context(), *existing)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.Facade.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
