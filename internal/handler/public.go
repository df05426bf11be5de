package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ChavezXXL/SC-PROJECT-TRACKER-sub000/config"
)

type PublicHandler struct {
	Cfg *config.Config
}

func (h *PublicHandler) GetSiteInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.Cfg.Site)
}
