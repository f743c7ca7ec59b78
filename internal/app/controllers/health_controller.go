package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/qpaper/internal/app/models/dto"
	"github.com/yigit/qpaper/internal/app/services"
)

// HealthController reports database connectivity
type HealthController struct {
	health *services.HealthService
}

// NewHealthController creates a new HealthController
func NewHealthController(health *services.HealthService) *HealthController {
	return &HealthController{health: health}
}

// TestDB pings the database and reports the application tables found
func (c *HealthController) TestDB(ctx *gin.Context) {
	message, err := c.health.Check(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.StatusResponse{Status: dto.StatusError, Message: message})
		return
	}
	ctx.JSON(http.StatusOK, dto.StatusResponse{Status: dto.StatusSuccess, Message: message})
}
