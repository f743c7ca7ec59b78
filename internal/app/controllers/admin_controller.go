package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/qpaper/internal/app/services"
	"github.com/yigit/qpaper/internal/middleware"
	"github.com/yigit/qpaper/internal/views"
)

// AdminController serves the visitor dashboard
type AdminController struct {
	visitors *services.VisitorService
	view     *Renderer
}

// NewAdminController creates a new AdminController
func NewAdminController(visitors *services.VisitorService, view *Renderer) *AdminController {
	return &AdminController{visitors: visitors, view: view}
}

// Dashboard renders total views, unique visitors and the last seven days
func (c *AdminController) Dashboard(ctx *gin.Context) {
	summary, err := c.visitors.Summary(ctx.Request.Context())
	if err != nil {
		middleware.HandleWebError(ctx, err, "/", "Error loading visitor statistics. Please try again.")
		return
	}

	c.view.HTML(ctx, http.StatusOK, views.AdminPage, "Admin Dashboard", views.DashboardData{Summary: summary})
}
