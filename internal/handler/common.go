package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/internal/store"
)

// respondError maps a facade failure to an HTTP status plus the short
// user-facing message its classification carries.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Unexpected storage error"

	switch store.KindOf(err) {
	case store.KindValidation:
		status = http.StatusBadRequest
	case store.KindNotFound:
		status = http.StatusNotFound
	case store.KindPermission:
		status = http.StatusBadGateway
	case store.KindNetwork, store.KindTimeout:
		status = http.StatusServiceUnavailable
	}
	var serr *store.StoreError
	if errors.As(err, &serr) {
		message = serr.Message
	}
	c.JSON(status, gin.H{"error": message})
}
